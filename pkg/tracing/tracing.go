// Package tracing times the stages of a conversion.
package tracing

// Tracer starts spans.
type Tracer interface {
	StartSpan(operationName string) Span
}

// Span is one timed operation. Baggage items are reported when the span
// finishes.
type Span interface {
	SetBaggageItem(key string, value any)
	Finish()
}

// NopTracer discards every span.
type NopTracer struct{}

//nolint:ireturn
func (NopTracer) StartSpan(string) Span { return nopSpan{} }

type nopSpan struct{}

func (nopSpan) SetBaggageItem(string, any) {}
func (nopSpan) Finish()                    {}
