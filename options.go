package ddmin

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Round is a snapshot of the frontier at the start of a loop iteration,
// after the invariant has been checked. Pass is empty for Reduce.
type Round[E comparable] struct {
	Index       int
	Pass        []E
	Fail        []E
	Granularity int
}

type options[E comparable] struct {
	splitter       Splitter[E]
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	maxRounds      int
	observer       func(Round[E])
}

// Option configures Minimize and Reduce.
type Option[E comparable] func(*options[E])

func newOptions[E comparable](opts ...Option[E]) *options[E] {
	o := &options[E]{
		splitter:       ContiguousSplitter[E]{},
		logger:         slog.Default(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSplitter replaces the default ContiguousSplitter.
func WithSplitter[E comparable](s Splitter[E]) Option[E] {
	return func(o *options[E]) {
		if s != nil {
			o.splitter = s
		}
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger[E comparable](logger *slog.Logger) Option[E] {
	return func(o *options[E]) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithTracerProvider[E comparable](tp trace.TracerProvider) Option[E] {
	return func(o *options[E]) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

func WithMeterProvider[E comparable](mp metric.MeterProvider) Option[E] {
	return func(o *options[E]) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

// WithMaxRounds stops a run with ErrRoundLimit after the given number of loop
// iterations. Zero, the default, means no limit.
func WithMaxRounds[E comparable](rounds int) Option[E] {
	return func(o *options[E]) {
		o.maxRounds = rounds
	}
}

// WithObserver registers a function called once per loop iteration.
func WithObserver[E comparable](fn func(Round[E])) Option[E] {
	return func(o *options[E]) {
		o.observer = fn
	}
}
