package observability

import (
	"context"
	"testing"
)

type mockSpan struct {
	name string
}

func (m *mockSpan) End()                                 {}
func (m *mockSpan) SetAttributes(attrs ...Attribute)     {}
func (m *mockSpan) SetStatus(code StatusCode, d string)  {}
func (m *mockSpan) RecordError(err error)                {}
func (m *mockSpan) AddEvent(name string, a ...Attribute) {}

type mockObserver struct{}

func (m *mockObserver) StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	return ctx, &mockSpan{name: name}
}
func (m *mockObserver) Counter(name string) Counter                              { return nil }
func (m *mockObserver) Histogram(name string) Histogram                          { return nil }
func (m *mockObserver) Trace(ctx context.Context, msg string, attrs ...Attribute) {}
func (m *mockObserver) Debug(ctx context.Context, msg string, attrs ...Attribute) {}
func (m *mockObserver) Info(ctx context.Context, msg string, attrs ...Attribute)  {}
func (m *mockObserver) Warn(ctx context.Context, msg string, attrs ...Attribute)  {}
func (m *mockObserver) Error(ctx context.Context, msg string, attrs ...Attribute) {}

func TestSpanFromContext_Empty(t *testing.T) {
	if span := SpanFromContext(context.Background()); span != nil {
		t.Errorf("Expected nil span from empty context, got %v", span)
	}
}

func TestSpanFromContext_WithSpan(t *testing.T) {
	span := &mockSpan{name: "stream"}
	ctx := ContextWithSpan(context.Background(), span)

	if got := SpanFromContext(ctx); got != span {
		t.Errorf("Expected same span instance, got %v", got)
	}
}

func TestObserverFromContext_WithObserver(t *testing.T) {
	observer := &mockObserver{}
	ctx := ContextWithObserver(context.Background(), observer)

	if got := ObserverFromContext(ctx); got != observer {
		t.Errorf("Expected same observer instance, got %v", got)
	}
	if SpanFromContext(ctx) != nil {
		t.Error("Observer key must not collide with span key")
	}
}

func TestError_NilError(t *testing.T) {
	attr := Error(nil)
	if attr.Key != AttrError || attr.Value != "" {
		t.Errorf("Error(nil) = %+v, want empty error attribute", attr)
	}
}
