package recovery

import (
	"errors"
	"testing"
)

func TestStrategies(t *testing.T) {
	tests := []struct {
		name         string
		strategy     Strategy
		text         string
		wantOK       bool
		wantThoughts string
		wantPayload  string
		wantDegraded bool
	}{
		{
			name:         "fenced json block",
			strategy:     Fenced{},
			text:         "Plan first.\n```json\n{\"a\":1}\n```\nbye",
			wantOK:       true,
			wantThoughts: "Plan first.",
			wantPayload:  `{"a":1}`,
		},
		{
			name:         "fenced block without language tag",
			strategy:     Fenced{},
			text:         "x ```\n{\"a\":{}}``` y",
			wantOK:       true,
			wantThoughts: "x",
			wantPayload:  `{"a":{}}`,
		},
		{
			name:         "fenced skips blocks without objects",
			strategy:     Fenced{},
			text:         "```text\nnone\n``` and ```json\n{\"b\":2}\n```",
			wantOK:       true,
			wantThoughts: "```text\nnone\n``` and",
			wantPayload:  `{"b":2}`,
		},
		{
			name:     "fenced ignores fence after bare object",
			strategy: Fenced{},
			text:     "plan {\"workflow\":{\"1\":{}}} note:\n```json\n{\"workflow\":{\"9\":{}}}\n```",
			wantOK:   false,
		},
		{
			name:     "fenced without fence",
			strategy: Fenced{},
			text:     `{"a":1}`,
			wantOK:   false,
		},
		{
			name:         "balanced with trailing noise",
			strategy:     Balanced{},
			text:         `I think {"a":{"b":"}"}} and more }`,
			wantOK:       true,
			wantThoughts: "I think",
			wantPayload:  `{"a":{"b":"}"}}`,
		},
		{
			name:     "balanced truncated",
			strategy: Balanced{},
			text:     `I think {"a":{"b":1}`,
			wantOK:   false,
		},
		{
			name:         "last brace on truncated",
			strategy:     LastBrace{},
			text:         `I think {"a":{"b":1}`,
			wantOK:       true,
			wantThoughts: "I think",
			wantPayload:  `{"a":{"b":1}`,
			wantDegraded: true,
		},
		{
			name:     "last brace without closing brace",
			strategy: LastBrace{},
			text:     `I think {"a":`,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.strategy.Extract(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("%s.Extract() ok = %v, want %v", tt.strategy.Name(), ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Thoughts != tt.wantThoughts {
				t.Errorf("Thoughts = %q, want %q", got.Thoughts, tt.wantThoughts)
			}
			if got.Payload != tt.wantPayload {
				t.Errorf("Payload = %q, want %q", got.Payload, tt.wantPayload)
			}
			if got.Degraded != tt.wantDegraded {
				t.Errorf("Degraded = %v, want %v", got.Degraded, tt.wantDegraded)
			}
			if got.Strategy != tt.strategy.Name() {
				t.Errorf("Strategy = %q, want %q", got.Strategy, tt.strategy.Name())
			}
		})
	}
}

func TestExtractor_Extract(t *testing.T) {
	extractor := NewExtractor(WithLabelPrefix("THOUGHTS:"))

	got, err := extractor.Extract(`THOUGHTS: wire the sampler {"a":1} trailing`)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Thoughts != "wire the sampler" || got.Payload != `{"a":1}` || got.Strategy != "balanced" || got.Degraded {
		t.Errorf("Extract() = %+v", got)
	}

	got, err = extractor.Extract(`THOUGHTS: cut off {"a":{"b":1}`)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !got.Degraded || got.Strategy != "last-brace" {
		t.Errorf("Extract() = %+v, want degraded last-brace", got)
	}
}

func TestExtractor_TrailingFenceIsNoise(t *testing.T) {
	extractor := NewExtractor(WithLabelPrefix("THOUGHTS:"))

	text := "THOUGHTS: plan {\"workflow\":{\"1\":{}},\"metadata\":{}} note:\n```json\n{\"workflow\":{\"9\":{}}}\n```"
	got, err := extractor.Extract(text)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Thoughts != "plan" {
		t.Errorf("Thoughts = %q, want %q", got.Thoughts, "plan")
	}
	if want := `{"workflow":{"1":{}},"metadata":{}}`; got.Payload != want {
		t.Errorf("Payload = %q, want %q", got.Payload, want)
	}
	if got.Strategy != "balanced" {
		t.Errorf("Strategy = %q, want balanced", got.Strategy)
	}
}

func TestExtractor_NoStructuredRegion(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no brace at all", text: "THOUGHTS: nothing useful here"},
		{name: "opening brace only", text: "THOUGHTS: start {\"a\":"},
		{name: "empty", text: ""},
	}

	extractor := NewExtractor(WithLabelPrefix("THOUGHTS:"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.Extract(tt.text)
			if !errors.Is(err, ErrNoStructuredRegion) {
				t.Fatalf("Extract() error = %v, want ErrNoStructuredRegion", err)
			}
			var recoveryErr *RecoveryError
			if !errors.As(err, &recoveryErr) {
				t.Fatalf("Extract() error type = %T, want *RecoveryError", err)
			}
		})
	}
}

// A caller-supplied strategy list never bypasses the no-brace guard.
func TestExtractor_CustomStrategies(t *testing.T) {
	always := strategyFunc{name: "always", fn: func(text string) (Extraction, bool) {
		return Extraction{Payload: text}, true
	}}

	extractor := NewExtractor(WithStrategies(always))
	if names := extractor.Strategies(); len(names) != 1 || names[0] != "always" {
		t.Fatalf("Strategies() = %v", names)
	}

	if _, err := extractor.Extract("no braces"); !errors.Is(err, ErrNoStructuredRegion) {
		t.Errorf("Extract() error = %v, want ErrNoStructuredRegion", err)
	}

	got, err := extractor.Extract("{x")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Strategy != "always" {
		t.Errorf("Strategy = %q, want %q", got.Strategy, "always")
	}
}

type strategyFunc struct {
	name string
	fn   func(string) (Extraction, bool)
}

func (s strategyFunc) Name() string                           { return s.name }
func (s strategyFunc) Extract(text string) (Extraction, bool) { return s.fn(text) }

func TestStrategyByName(t *testing.T) {
	for _, name := range []string{"fenced", "balanced", "last-brace"} {
		strategy, ok := StrategyByName(name)
		if !ok {
			t.Fatalf("StrategyByName(%q) not found", name)
		}
		if strategy.Name() != name {
			t.Errorf("StrategyByName(%q).Name() = %q", name, strategy.Name())
		}
	}

	if _, ok := StrategyByName("regex"); ok {
		t.Error("StrategyByName(\"regex\") should not exist")
	}
}
