package reasoning

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setHubTracingProvider(t *testing.T) (*tracetest.SpanRecorder, func()) {
	t.Helper()

	prevProvider := otel.GetTracerProvider()
	prevPropagator := otel.GetTextMapPropagator()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return recorder, func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
	}
}

func findHubSpan(t *testing.T, spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, s := range spans {
		if s.Name() == name {
			return s
		}
	}
	t.Fatalf("span %q not recorded, have %d spans", name, len(spans))
	return nil
}

func hubSpanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSubmitThoughtEmitsSpan(t *testing.T) {
	recorder, shutdown := setHubTracingProvider(t)
	defer shutdown()

	h := newTestHub(t)
	res := mustSubmit(t, h, step(1, "trace me"))

	span := findHubSpan(t, recorder.Ended(), spanSubmitThought)
	if got := span.Status().Code; got != otelcodes.Ok {
		t.Fatalf("span status = %v, want Ok", got)
	}
	if v, ok := hubSpanAttr(span, "thought.number"); !ok || v.AsInt64() != 1 {
		t.Fatalf("thought.number attr = %v (present=%v), want 1", v, ok)
	}
	if v, ok := hubSpanAttr(span, "thought.node_id"); !ok || v.AsString() != res.NodeID {
		t.Fatalf("thought.node_id attr = %v (present=%v), want %s", v, ok, res.NodeID)
	}
}

func TestRejectedSubmitMarksSpanError(t *testing.T) {
	recorder, shutdown := setHubTracingProvider(t)
	defer shutdown()

	h := newTestHub(t)
	rec := step(1, "contains password here")
	if _, err := h.SubmitThought(context.Background(), rec); err == nil {
		t.Fatal("expected blocked submission to fail")
	}

	span := findHubSpan(t, recorder.Ended(), spanSubmitThought)
	if got := span.Status().Code; got != otelcodes.Error {
		t.Fatalf("span status = %v, want Error", got)
	}
	if n := len(span.Events()); n == 0 {
		t.Fatal("expected a recorded error event on the span")
	}
}

func TestSuggestNextEmitsSpan(t *testing.T) {
	recorder, shutdown := setHubTracingProvider(t)
	defer shutdown()

	h := newTestHub(t)
	mustSubmit(t, h, step(1, "seed"))

	sug, err := h.SuggestNext(context.Background(), "explore")
	if err != nil {
		t.Fatalf("SuggestNext: %v", err)
	}
	if sug == nil {
		t.Fatal("expected a suggestion for a seeded tree")
	}

	span := findHubSpan(t, recorder.Ended(), spanSuggestNext)
	if got := span.Status().Code; got != otelcodes.Ok {
		t.Fatalf("span status = %v, want Ok", got)
	}
	if v, ok := hubSpanAttr(span, "mcts.strategy"); !ok || v.AsString() != "explore" {
		t.Fatalf("mcts.strategy attr = %v (present=%v), want explore", v, ok)
	}
}
