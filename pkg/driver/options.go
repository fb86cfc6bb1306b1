package driver

import (
	"log/slog"

	"github.com/vango-dev/memodom/pkg/journal"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Vdom.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	journal *journal.Journal
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records cycle metrics into m. Metrics may be shared between
// drivers.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer used for cycle spans. Defaults to the global
// OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithJournal records every applied change list into j.
func WithJournal(j *journal.Journal) Option {
	return func(o *options) {
		o.journal = j
	}
}
