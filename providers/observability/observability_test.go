package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubSpan struct{ Span }

type stubProvider struct{ Provider }

func TestContextWithSpan_RoundTrip(t *testing.T) {
	span := &stubSpan{}
	ctx := ContextWithSpan(context.Background(), span)
	if SpanFromContext(ctx) != span {
		t.Error("SpanFromContext() did not return the stored span")
	}
	if SpanFromContext(context.Background()) != nil {
		t.Error("SpanFromContext() on empty context should be nil")
	}
}

func TestContextWithObserver_RoundTrip(t *testing.T) {
	observer := &stubProvider{}
	ctx := ContextWithObserver(nil, observer)
	if ObserverFromContext(ctx) != observer {
		t.Error("ObserverFromContext() did not return the stored observer")
	}
	if ObserverFromContext(context.Background()) != nil {
		t.Error("ObserverFromContext() on empty context should be nil")
	}
}

func TestAttributes(t *testing.T) {
	tests := []struct {
		name      string
		attribute Attribute
		wantKey   string
		wantValue any
	}{
		{"string", String("k", "v"), "k", "v"},
		{"int", Int("k", 3), "k", 3},
		{"bool", Bool("k", true), "k", true},
		{"duration", Duration("k", time.Second), "k", time.Second},
		{"error", Error(errors.New("boom")), AttrError, "boom"},
		{"nil error", Error(nil), AttrError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attribute.Key != tt.wantKey || tt.attribute.Value != tt.wantValue {
				t.Errorf("attribute = %+v, want {%s %v}", tt.attribute, tt.wantKey, tt.wantValue)
			}
		})
	}
}
