package tracing_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MacroPower/xsd2json/pkg/tracing"
)

func TestLoggingTracer(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	span := tracing.NewLoggingTracer(logger).StartSpan("emit")
	span.SetBaggageItem("file", "library.xsd")
	span.Finish()

	out := buf.String()
	assert.Contains(t, out, "msg=trace")
	assert.Contains(t, out, "operation_name=emit")
	assert.Contains(t, out, "file=library.xsd")
	assert.Contains(t, out, "time_ms=")
}

func TestLoggingTracerSortsBaggage(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	span := tracing.NewLoggingTracer(logger).StartSpan("validate")
	span.SetBaggageItem("file", "shop.xsd")
	span.SetBaggageItem("error", "invalid")
	span.Finish()

	out := buf.String()
	assert.Contains(t, out, "error=invalid")
	assert.Less(t, strings.Index(out, "error=invalid"), strings.Index(out, "file=shop.xsd"))
	assert.Less(t, strings.Index(out, "file=shop.xsd"), strings.Index(out, "operation_name=validate"))
}

func TestLoggingTracerBelowLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	tracing.NewLoggingTracer(logger).StartSpan("emit").Finish()

	assert.Empty(t, buf.String())
}

func TestNopTracer(t *testing.T) {
	t.Parallel()

	span := tracing.NopTracer{}.StartSpan("emit")
	span.SetBaggageItem("file", "library.xsd")
	span.Finish()
}
