// Package branch runs a branch-and-bound search over HiGHS LP relaxations
// and hands every branching decision to a caller-supplied policy.
//
// The search works on the minimization form of the model: for a maximization
// problem objective coefficients, node bounds and relaxation values exposed
// through solver.State are negated. Result.Objective is reported in the
// model's own sense.
package branch

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bartolsthoorn/learn2branch/highs"
	"github.com/bartolsthoorn/learn2branch/internal/logging"
	"github.com/bartolsthoorn/learn2branch/solver"
	"github.com/bartolsthoorn/learn2branch/tensor"
)

var tracer = otel.Tracer("learn2branch.branch")

// Status is the final state of a search.
type Status int

const (
	// StatusOptimal means the tree was exhausted with a solution.
	StatusOptimal Status = iota
	// StatusInfeasible means the tree was exhausted without a solution.
	StatusInfeasible
	StatusNodeLimit
	StatusTimeLimit
	StatusCancelled
)

var statusNames = [...]string{
	StatusOptimal:    "optimal",
	StatusInfeasible: "infeasible",
	StatusNodeLimit:  "node-limit",
	StatusTimeLimit:  "time-limit",
	StatusCancelled:  "cancelled",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Result summarizes one search.
type Result struct {
	Episode uuid.UUID
	Status  Status

	// Objective is the incumbent value in the model's sense, NaN without one.
	Objective float64
	// Solution holds the incumbent column values, nil without one.
	Solution []float64

	Nodes        int64
	LPs          int64
	LPIterations int64
	Decisions    int64
	Duration     time.Duration
}

// HasSolution reports whether an incumbent was found.
func (r *Result) HasSolution() bool {
	return r.Solution != nil
}

// Env holds a model prepared for repeated searches. Every Run owns its own
// HiGHS instance; a single Env must not run searches concurrently with
// itself if hooks or policies share state.
type Env struct {
	model *highs.Model // expanded, minimization form
	sense float64

	types   []solver.VarType
	lower   []float64
	upper   []float64
	rowNorm []float64
	objCos  []float64
	objNorm float64
	matrix  tensor.COO

	opts options
}

// New prepares m for branching. The model is copied.
func New(m *highs.Model, opts ...Option) (*Env, error) {
	if m == nil || m.NumVars() == 0 {
		return nil, ErrEmptyModel
	}
	full, err := m.Expand()
	if err != nil {
		return nil, fmt.Errorf("branch: %w", err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Env{model: full, sense: 1, opts: o}
	if full.Maximize {
		e.sense = -1
		for j := range full.ColCosts {
			full.ColCosts[j] = -full.ColCosts[j]
		}
		full.Offset = -full.Offset
		full.Maximize = false
	}

	n := full.NumVars()
	e.types = make([]solver.VarType, n)
	e.lower = slices.Clone(full.ColLower)
	e.upper = slices.Clone(full.ColUpper)
	for j, vt := range full.VarTypes {
		if vt.IsIntegral() {
			if !highs.IsInfinite(e.lower[j]) {
				e.lower[j] = math.Ceil(e.lower[j] - o.feasTol)
			}
			if !highs.IsInfinite(e.upper[j]) {
				e.upper[j] = math.Floor(e.upper[j] + o.feasTol)
			}
		}
		e.types[j] = varType(vt, e.lower[j], e.upper[j])
	}

	if err := e.prepareRows(); err != nil {
		return nil, err
	}
	return e, nil
}

// FromFile reads a model file (MPS, LP, ...) and prepares it for branching.
func FromFile(path string, opts ...Option) (*Env, error) {
	m, err := highs.ReadModel(path)
	if err != nil {
		return nil, fmt.Errorf("branch: read %s: %w", path, err)
	}
	return New(m, opts...)
}

// NumVars returns the number of variables, equal to the number of LP columns.
func (e *Env) NumVars() int { return len(e.types) }

// NumRows returns the number of LP rows.
func (e *Env) NumRows() int { return len(e.rowNorm) }

func (e *Env) prepareRows() error {
	start, index, value, err := e.model.CSR()
	if err != nil {
		return fmt.Errorf("branch: %w", err)
	}
	costs := e.model.ColCosts
	numRow := e.model.NumConstraints()

	var objSq float64
	for _, c := range costs {
		objSq += c * c
	}
	e.objNorm = math.Sqrt(objSq)

	e.rowNorm = make([]float64, numRow)
	e.objCos = make([]float64, numRow)
	e.matrix = tensor.COO{Rows: numRow, Cols: len(costs)}
	for r := range numRow {
		var sq, dot float64
		for k := start[r]; k < start[r+1]; k++ {
			v := value[k]
			if v == 0 {
				continue
			}
			sq += v * v
			dot += v * costs[index[k]]
			e.matrix.Append(r, index[k], v)
		}
		e.rowNorm[r] = math.Sqrt(sq)
		if e.rowNorm[r] > 0 && e.objNorm > 0 {
			e.objCos[r] = dot / (e.rowNorm[r] * e.objNorm)
		}
	}
	return nil
}

func (e *Env) newStore() *solver.Store {
	n := len(e.types)
	m := len(e.rowNorm)

	st := solver.NewStore()
	st.FeasTol = e.opts.feasTol
	st.Vars = solver.VarArrays{
		Type:    slices.Clone(e.types),
		LbLocal: slices.Clone(e.lower),
		UbLocal: slices.Clone(e.upper),
		BestSol: filled(n, math.NaN()),
		AvgSol:  filled(n, math.NaN()),
	}
	st.Cols = solver.ColArrays{
		Var:     make([]int, n),
		Lb:      slices.Clone(e.lower),
		Ub:      slices.Clone(e.upper),
		Obj:     slices.Clone(e.model.ColCosts),
		RedCost: make([]float64, n),
		PrimSol: make([]float64, n),
		Basis:   make([]solver.BasisStatus, n),
		Age:     make([]int, n),
	}
	for j := range st.Cols.Var {
		st.Cols.Var[j] = j
	}
	st.Rows = solver.RowArrays{
		Lhs:       slices.Clone(e.model.RowLower),
		Rhs:       slices.Clone(e.model.RowUpper),
		Norm:      slices.Clone(e.rowNorm),
		ObjCosSim: slices.Clone(e.objCos),
		Dual:      make([]float64, m),
		Activity:  make([]float64, m),
		Age:       make([]int, m),
	}
	st.Matrix = e.matrix.Clone()
	st.ObjNorm = e.objNorm
	return st
}

// Run searches the tree, calling fn at every node whose relaxation has a
// fractional integral column. fn returns the column to branch on.
//
// Reaching a node or time limit is not an error. When ctx is cancelled the
// partial result is returned together with ctx.Err().
func (e *Env) Run(ctx context.Context, fn Func) (*Result, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil policy", ErrInvalidAction)
	}

	ep := &episode{
		env:       e,
		fn:        fn,
		id:        uuid.New(),
		start:     time.Now(),
		incumbent: math.Inf(1),
	}
	ep.log = e.opts.logger.WithEpisode(ep.id.String())

	ctx, span := e.opts.tracer.Start(ctx, "branch.Run", trace.WithAttributes(
		attribute.String("episode", ep.id.String()),
		attribute.Int("vars", e.NumVars()),
		attribute.Int("rows", e.NumRows()),
	))
	defer span.End()

	res, err := ep.run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if res == nil {
		ep.log.LogEpisode(ctx, "error", math.NaN(), ep.nodes, ep.lps(), ep.decisions, err)
		return nil, err
	}

	episodes.WithLabelValues(res.Status.String()).Inc()
	span.SetAttributes(
		attribute.String("status", res.Status.String()),
		attribute.Int64("nodes", res.Nodes),
		attribute.Int64("decisions", res.Decisions),
	)
	ep.log.LogEpisode(ctx, res.Status.String(), res.Objective, res.Nodes, res.LPs, res.Decisions, err)
	return res, err
}

// episode is the mutable state of one Run.
type episode struct {
	env   *Env
	fn    Func
	id    uuid.UUID
	log   *logging.Logger
	start time.Time

	lp    *highs.Solver
	store *solver.Store
	queue nodeQueue

	nextID    int64
	incumbent float64
	best      []float64
	solSum    []float64
	nSols     int

	nodes     int64
	decisions int64
}

func (ep *episode) lps() int64 {
	if ep.store == nil {
		return 0
	}
	return ep.store.NumLPs
}

func (ep *episode) run(ctx context.Context) (*Result, error) {
	e := ep.env

	lp, err := highs.NewSolver()
	if err != nil {
		return nil, fmt.Errorf("branch: %w", err)
	}
	defer lp.Close()

	opts := append([]highs.SolveOption{
		highs.WithOutput(false),
		highs.WithPresolve("off"),
		highs.WithStringOption("solver", "simplex"),
	}, e.opts.highsOpts...)
	if err := highs.ApplyOptions(lp, opts...); err != nil {
		return nil, fmt.Errorf("branch: %w", err)
	}
	if err := e.model.Load(lp, true); err != nil {
		return nil, fmt.Errorf("branch: %w", err)
	}

	ep.lp = lp
	ep.store = e.newStore()
	ep.solSum = make([]float64, e.NumVars())

	if e.opts.onReset != nil {
		e.opts.onReset(ep.store.State())
	}

	ep.queue.push(ep.newNode(nil, math.Inf(-1)))

	var (
		status  Status
		stopped bool
		stopErr error
	)
loop:
	for ep.queue.Len() > 0 {
		switch {
		case ctx.Err() != nil:
			status, stopped, stopErr = StatusCancelled, true, ctx.Err()
			break loop
		case e.opts.nodeLimit > 0 && ep.nodes >= e.opts.nodeLimit:
			status, stopped = StatusNodeLimit, true
			break loop
		case e.opts.timeLimit > 0 && time.Since(ep.start) >= e.opts.timeLimit:
			status, stopped = StatusTimeLimit, true
			break loop
		}

		nd := ep.queue.pop()
		if ep.pruned(nd.bound) {
			continue
		}
		if err := ep.process(ctx, nd); err != nil {
			return nil, err
		}
	}

	if !stopped {
		status = StatusInfeasible
		if ep.best != nil {
			status = StatusOptimal
		}
		ep.store.Solved = true
	}
	ep.store.Focus = nil
	ep.store.Invalidate()
	if e.opts.onDone != nil {
		e.opts.onDone(ep.store.State())
	}
	return ep.result(status), stopErr
}

func (ep *episode) newNode(parent *node, bound float64) *node {
	ep.nextID++
	if parent == nil {
		return &node{
			id:    ep.nextID,
			lower: slices.Clone(ep.env.lower),
			upper: slices.Clone(ep.env.upper),
			bound: bound,
		}
	}
	return &node{
		id:        ep.nextID,
		depth:     parent.depth + 1,
		lower:     slices.Clone(parent.lower),
		upper:     slices.Clone(parent.upper),
		bound:     bound,
		hasParent: true,
		parentID:  parent.id,
	}
}

func (ep *episode) pruned(bound float64) bool {
	if math.IsInf(ep.incumbent, 1) {
		return false
	}
	return bound >= ep.incumbent-1e-9*math.Max(1, math.Abs(ep.incumbent))
}

// process solves the relaxation of nd and either prunes it, records an
// incumbent or asks the policy for a branching column.
func (ep *episode) process(ctx context.Context, nd *node) error {
	ep.nodes++
	if err := ep.lp.ChangeColsBounds(nd.lower, nd.upper); err != nil {
		return fmt.Errorf("%w: node %d: %w", ErrLPFailed, nd.id, err)
	}

	t0 := time.Now()
	sol, err := ep.lp.Run()
	lpDuration.Observe(time.Since(t0).Seconds())
	if err != nil {
		return fmt.Errorf("%w: node %d: %w", ErrLPFailed, nd.id, err)
	}
	lpSolves.WithLabelValues(sol.Status.String()).Inc()
	lpIterations.Add(float64(sol.SimplexIterations))
	ep.store.NumLPs++
	ep.store.LPIterations += int64(sol.SimplexIterations)
	ep.log.LogLP(ctx, nd.id, sol.Status.String(), sol.Objective, sol.SimplexIterations)

	switch {
	case sol.IsInfeasible():
		ep.store.Invalidate()
		return nil
	case sol.IsUnbounded():
		return fmt.Errorf("%w: node %d", ErrUnbounded, nd.id)
	case !sol.IsOptimal():
		return fmt.Errorf("%w: node %d: status %s", ErrLPFailed, nd.id, sol.Status)
	}

	ep.fill(nd, sol)
	obj := sol.Objective
	if ep.pruned(obj) {
		return nil
	}

	cands := ep.candidates(sol.ColValues)
	if len(cands) == 0 {
		ep.record(ctx, nd, obj, sol.ColValues)
		return nil
	}
	return ep.decide(ctx, nd, obj, sol.ColValues, cands)
}

// fill copies the relaxation of nd into the store and ages columns and rows.
func (ep *episode) fill(nd *node, sol *highs.Solution) {
	st := ep.store
	tol := st.FeasTol

	copy(st.Vars.LbLocal, nd.lower)
	copy(st.Vars.UbLocal, nd.upper)
	copy(st.Cols.Lb, nd.lower)
	copy(st.Cols.Ub, nd.upper)
	copy(st.Cols.PrimSol, sol.ColValues)
	copy(st.Cols.RedCost, sol.ColDuals)
	for j, x := range sol.ColValues {
		st.Cols.Basis[j] = basisStatus(sol, j, x, nd.lower[j], nd.upper[j], tol)
		if math.Abs(x) <= tol {
			st.Cols.Age[j]++
		} else {
			st.Cols.Age[j] = 0
		}
	}

	copy(st.Rows.Activity, sol.RowValues)
	copy(st.Rows.Dual, sol.RowDuals)
	for i, a := range sol.RowValues {
		if near(a, st.Rows.Lhs[i], tol) || near(a, st.Rows.Rhs[i], tol) {
			st.Rows.Age[i] = 0
		} else {
			st.Rows.Age[i]++
		}
	}
	st.Invalidate()
}

func (ep *episode) candidates(x []float64) []int {
	var out []int
	for j, v := range x {
		if ep.env.types[j].IsIntegral() && fractional(v, ep.store.FeasTol) {
			out = append(out, j)
		}
	}
	return out
}

// estimate adds to the relaxation value the objective cost of rounding every
// candidate to its nearest integer.
func (ep *episode) estimate(obj float64, x []float64, cands []int) float64 {
	est := obj
	costs := ep.env.model.ColCosts
	for _, j := range cands {
		f := x[j] - math.Floor(x[j])
		est += math.Min(f, 1-f) * math.Abs(costs[j])
	}
	return est
}

func (ep *episode) record(ctx context.Context, nd *node, obj float64, x []float64) {
	ep.incumbent = obj
	ep.best = slices.Clone(x)
	for j, t := range ep.env.types {
		if t.IsIntegral() {
			ep.best[j] = math.Round(ep.best[j])
		}
	}
	ep.nSols++

	st := ep.store
	for j, v := range ep.best {
		ep.solSum[j] += v
		st.Vars.BestSol[j] = v
		st.Vars.AvgSol[j] = ep.solSum[j] / float64(ep.nSols)
	}
	st.Invalidate()
	ep.log.LogIncumbent(ctx, nd.id, ep.env.sense*obj)
}

func (ep *episode) decide(ctx context.Context, nd *node, obj float64, x []float64, cands []int) error {
	st := ep.store
	st.Focus = &solver.Node{
		Number:           nd.id,
		Depth:            nd.depth,
		LowerBound:       obj,
		Estimate:         ep.estimate(obj, x, cands),
		HasParent:        nd.hasParent,
		ParentNumber:     nd.parentID,
		ParentLowerBound: nd.bound,
	}
	st.Invalidate()

	ctx, span := ep.env.opts.tracer.Start(ctx, "branch.Decide", trace.WithAttributes(
		attribute.Int64("node", nd.id),
		attribute.Int("depth", nd.depth),
		attribute.Int("candidates", len(cands)),
	))
	defer span.End()

	t0 := time.Now()
	action, err := ep.fn(st.State())
	decisionDuration.Observe(time.Since(t0).Seconds())
	st.Focus = nil
	st.Invalidate()

	if err == nil && !slices.Contains(cands, action) {
		err = fmt.Errorf("%w: column %d at node %d", ErrInvalidAction, action, nd.id)
		decisions.WithLabelValues("invalid").Inc()
	} else if err != nil {
		err = fmt.Errorf("branch: policy at node %d: %w", nd.id, err)
		decisions.WithLabelValues("error").Inc()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ep.log.LogDecision(ctx, nd.id, nd.depth, action, 0, err)
		return err
	}

	decisions.WithLabelValues("ok").Inc()
	ep.decisions++
	value := x[action]
	span.SetAttributes(attribute.Int("column", action), attribute.Float64("value", value))
	ep.log.LogDecision(ctx, nd.id, nd.depth, action, value, nil)

	down := ep.newNode(nd, obj)
	down.upper[action] = math.Floor(value)
	up := ep.newNode(nd, obj)
	up.lower[action] = math.Ceil(value)
	ep.queue.push(down)
	ep.queue.push(up)
	return nil
}

func (ep *episode) result(status Status) *Result {
	res := &Result{
		Episode:      ep.id,
		Status:       status,
		Objective:    math.NaN(),
		Nodes:        ep.nodes,
		LPs:          ep.store.NumLPs,
		LPIterations: ep.store.LPIterations,
		Decisions:    ep.decisions,
		Duration:     time.Since(ep.start),
	}
	if ep.best != nil {
		res.Objective = ep.env.sense * ep.incumbent
		res.Solution = ep.best
	}
	return res
}

func varType(t highs.VariableType, lb, ub float64) solver.VarType {
	switch {
	case t == highs.ImplicitInteger:
		return solver.VarImplicitInteger
	case !t.IsIntegral():
		return solver.VarContinuous
	case lb >= 0 && ub <= 1:
		return solver.VarBinary
	default:
		return solver.VarInteger
	}
}

// basisStatus maps the HiGHS column status. Without a basis it falls back to
// the position of the primal value.
func basisStatus(sol *highs.Solution, j int, x, lb, ub, tol float64) solver.BasisStatus {
	if sol.HasBasis() {
		switch sol.ColBasis[j] {
		case highs.BasisStatusBasic:
			return solver.BasisBasic
		case highs.BasisStatusUpper:
			return solver.BasisUpper
		case highs.BasisStatusZero:
			return solver.BasisZero
		case highs.BasisStatusNonbasic:
			return solver.BasisNonbasic
		default:
			return solver.BasisLower
		}
	}
	switch {
	case near(x, lb, tol):
		return solver.BasisLower
	case near(x, ub, tol):
		return solver.BasisUpper
	default:
		return solver.BasisBasic
	}
}

func near(a, b, tol float64) bool {
	if math.IsInf(b, 0) || math.Abs(b) >= highs.InfiniteBound {
		return false
	}
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
