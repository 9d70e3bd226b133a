package branch

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/bartolsthoorn/learn2branch/highs"
	"github.com/bartolsthoorn/learn2branch/internal/logging"
	"github.com/bartolsthoorn/learn2branch/solver"
)

// Option configures an Env.
type Option func(*options)

type options struct {
	nodeLimit int64
	timeLimit time.Duration
	feasTol   float64
	logger    *logging.Logger
	tracer    trace.Tracer
	highsOpts []highs.SolveOption
	onReset   func(*solver.State)
	onDone    func(*solver.State)
}

func defaultOptions() options {
	return options{
		feasTol: solver.DefaultFeasTol,
		logger:  logging.Noop(),
		tracer:  tracer,
	}
}

// WithNodeLimit stops the search after n node relaxations. Zero means no limit.
func WithNodeLimit(n int64) Option {
	return func(o *options) { o.nodeLimit = n }
}

// WithTimeLimit stops the search once d has elapsed. Zero means no limit.
func WithTimeLimit(d time.Duration) Option {
	return func(o *options) { o.timeLimit = d }
}

// WithFeasibilityTolerance sets the tolerance for integrality and bound tests.
func WithFeasibilityTolerance(tol float64) Option {
	return func(o *options) {
		if tol > 0 {
			o.feasTol = tol
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer overrides the package tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithHighsOptions passes options to every HiGHS instance the Env creates.
func WithHighsOptions(opts ...highs.SolveOption) Option {
	return func(o *options) { o.highsOpts = append(o.highsOpts, opts...) }
}

// WithResetHook registers f to be called once per episode on the initial
// state, before the root relaxation is solved.
func WithResetHook(f func(*solver.State)) Option {
	return func(o *options) { o.onReset = f }
}

// WithDoneHook registers f to be called once per episode on the final state.
func WithDoneHook(f func(*solver.State)) Option {
	return func(o *options) { o.onDone = f }
}
