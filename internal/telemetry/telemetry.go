// Package telemetry installs the trace exporter and the Prometheus endpoint
// used by the command line tool.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ErrUnknownExporter is returned for exporter names other than "none" and "stdout".
var ErrUnknownExporter = errors.New("telemetry: unknown exporter")

// Config selects what Init installs.
type Config struct {
	ServiceName string
	// TraceExporter is "none" or "stdout".
	TraceExporter string
	// TraceWriter receives stdout spans. Defaults to os.Stderr.
	TraceWriter io.Writer
	// MetricsAddr serves /metrics when not empty.
	MetricsAddr string
}

// Init installs the configured providers and returns a function that
// flushes and stops them.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdownFuncs {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}

	switch cfg.TraceExporter {
	case "", "none":
	case "stdout":
		tp, err := newStdoutTracer(cfg)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		otel.SetTracerProvider(tp)
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.TraceExporter)
	}

	if cfg.MetricsAddr != "" {
		stop, _, err := serveMetrics(cfg.MetricsAddr)
		if err != nil {
			_ = shutdown(ctx)
			return nil, fmt.Errorf("serve metrics: %w", err)
		}
		shutdownFuncs = append(shutdownFuncs, stop)
	}
	return shutdown, nil
}

func newStdoutTracer(cfg Config) (*sdktrace.TracerProvider, error) {
	w := cfg.TraceWriter
	if w == nil {
		w = os.Stderr
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}
	name := cfg.ServiceName
	if name == "" {
		name = "learn2branch"
	}
	res := resource.NewWithAttributes("", attribute.String("service.name", name))
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	), nil
}

// serveMetrics listens on addr and returns the stop function and the bound
// address.
func serveMetrics(addr string) (func(context.Context) error, string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	return srv.Shutdown, ln.Addr().String(), nil
}
