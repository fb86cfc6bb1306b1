package driver

import (
	"context"
	"fmt"

	"github.com/vango-dev/memodom/pkg/vdom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func startCycleSpan(ctx context.Context, tracer trace.Tracer, kind string, seq uint64) (context.Context, trace.Span) {
	return tracer.Start(ctx, fmt.Sprintf("memodom.%s", kind),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("memodom.cycle.kind", kind),
			attribute.Int64("memodom.cycle.seq", int64(seq)),
		),
	)
}

func endCycleSpan(span trace.Span, cl vdom.ChangeList, st vdom.DiffStats, err error) {
	span.SetAttributes(
		attribute.Int("memodom.changes", len(cl)),
		attribute.Int("memodom.cache.skipped", st.Skipped),
		attribute.Int("memodom.nodes.created", st.Created),
		attribute.Int("memodom.nodes.cloned", st.Cloned),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
