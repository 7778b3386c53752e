package ddmin

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/geange/ddmin"

type telemetry struct {
	tracer      trace.Tracer
	oracleCalls metric.Int64Counter
	runs        metric.Int64Counter
	deltaSize   metric.Int64Histogram
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	t, err := buildTelemetry(tp, mp.Meter(instrumentationName))
	if err != nil {
		// A broken meter provider must not stop a run.
		t, _ = buildTelemetry(tp, noop.NewMeterProvider().Meter(instrumentationName))
	}
	return t
}

func buildTelemetry(tp trace.TracerProvider, meter metric.Meter) (*telemetry, error) {
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	t.oracleCalls, err = meter.Int64Counter(
		"ddmin_oracle_calls_total",
		metric.WithDescription("Number of oracle evaluations"),
	)
	if err != nil {
		return nil, err
	}

	t.runs, err = meter.Int64Counter(
		"ddmin_runs_total",
		metric.WithDescription("Number of minimization runs"),
	)
	if err != nil {
		return nil, err
	}

	t.deltaSize, err = meter.Int64Histogram(
		"ddmin_delta_size",
		metric.WithDescription("Size of the configuration returned by a run"),
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *telemetry) start(ctx context.Context, name string, passSize, failSize int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.Int("ddmin.pass_size", passSize),
			attribute.Int("ddmin.fail_size", failSize),
		),
	)
}

func (t *telemetry) recordOracleCall(ctx context.Context, operation string, outcome Outcome) {
	t.oracleCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome.String()),
	))
}

func (t *telemetry) finish(ctx context.Context, span trace.Span, operation string, deltaSize int, stats Stats, err error) {
	defer span.End()

	t.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	))

	span.SetAttributes(
		attribute.Int("ddmin.oracle_calls", stats.OracleCalls),
		attribute.Int("ddmin.rounds", stats.Rounds),
		attribute.Int("ddmin.granularity", stats.Granularity),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	t.deltaSize.Record(ctx, int64(deltaSize), metric.WithAttributes(attribute.String("operation", operation)))
	span.SetAttributes(attribute.Int("ddmin.delta_size", deltaSize))
	span.SetStatus(codes.Ok, "")
}
