package tracing

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"time"
)

var (
	_ Tracer = LoggingTracer{}
	_ Span   = (*loggingSpan)(nil)
)

// LoggingTracer reports each finished conversion stage as a debug record on
// its logger, carrying the stage name, its duration and the baggage items.
type LoggingTracer struct {
	logger *slog.Logger
}

// NewLoggingTracer creates a [LoggingTracer] that writes to logger.
func NewLoggingTracer(logger *slog.Logger) *LoggingTracer {
	return &LoggingTracer{logger: logger}
}

//nolint:ireturn
func (l LoggingTracer) StartSpan(operationName string) Span {
	return &loggingSpan{
		logger:    l.logger,
		operation: operationName,
		baggage:   map[string]any{},
		start:     time.Now(),
	}
}

type loggingSpan struct {
	start     time.Time
	logger    *slog.Logger
	baggage   map[string]any
	operation string
}

func (s *loggingSpan) SetBaggageItem(key string, value any) {
	s.baggage[key] = value
}

func (s *loggingSpan) Finish() {
	elapsed := time.Since(s.start)

	attrs := make([]slog.Attr, 0, len(s.baggage)+2)
	for _, k := range slices.Sorted(maps.Keys(s.baggage)) {
		attrs = append(attrs, slog.Any(k, s.baggage[k]))
	}

	attrs = append(attrs,
		slog.String("operation_name", s.operation),
		slog.Float64("time_ms", float64(elapsed.Microseconds())/1e3),
	)

	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "trace", attrs...)
}
