package middleware

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-tipstat/internal/domain"
	"github.com/ahrav/go-tipstat/internal/ports"
)

const (
	tracerName      = "tipstat/comparator"
	compareSpanName = "TipComparator.Compare"
)

var _ ports.Comparator = (*TracedComparator)(nil)

// TracedComparator wraps a ports.Comparator and records each comparison as
// an OpenTelemetry span carrying group sizes, the mean difference and the
// significance outcome.
type TracedComparator struct {
	next   ports.Comparator
	tracer trace.Tracer
}

// NewTracedComparator wraps next. A nil provider uses the global one.
func NewTracedComparator(next ports.Comparator, provider trace.TracerProvider) *TracedComparator {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &TracedComparator{next: next, tracer: provider.Tracer(tracerName)}
}

// Compare implements ports.Comparator.
func (t *TracedComparator) Compare(
	ctx context.Context,
	dataset domain.Dataset,
	runSignificanceTest bool,
) (*domain.GroupSummary, error) {
	ctx, span := t.tracer.Start(ctx, compareSpanName, trace.WithAttributes(
		attribute.Bool("tipstat.ttest_requested", runSignificanceTest),
	))
	defer span.End()

	if dataset != nil {
		span.SetAttributes(attribute.Int("tipstat.records", dataset.Len()))
	}

	start := time.Now()
	summary, err := t.next.Compare(ctx, dataset, runSignificanceTest)
	elapsed := time.Since(start)

	if err != nil {
		var schemaErr *domain.SchemaError
		if errors.As(err, &schemaErr) {
			span.AddEvent("schema.missing_columns", trace.WithAttributes(
				attribute.StringSlice("missing", schemaErr.Missing),
				attribute.StringSlice("available", schemaErr.Available),
			))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	addSummaryAttributes(span, summary)
	span.AddEvent("compare.completed", trace.WithAttributes(
		attribute.Int64("elapsed_us", elapsed.Microseconds()),
	))
	span.SetStatus(codes.Ok, "comparison completed")
	return summary, nil
}

func addSummaryAttributes(span trace.Span, s *domain.GroupSummary) {
	span.SetAttributes(
		attribute.Int("tipstat.n_smoker", s.NSmoker),
		attribute.Int("tipstat.n_non_smoker", s.NNonSmoker),
		attribute.Int("tipstat.skipped", s.SkippedTotal()),
	)
	if s.Difference != nil {
		span.SetAttributes(attribute.Float64("tipstat.difference", *s.Difference))
	}
	if !s.TestRequested {
		return
	}
	span.SetAttributes(attribute.String("tipstat.ttest_method", s.TestMethod))
	if s.PValue != nil {
		span.SetAttributes(attribute.Float64("tipstat.ttest_pvalue", *s.PValue))
	} else {
		span.AddEvent("significance.unavailable")
	}
}
