package recovery

import (
	"regexp"
	"strings"

	"github.com/leofalp/wfextract/core/scan"
)

// Extraction is the outcome of a successful strategy.
type Extraction struct {
	// Thoughts is the prose preceding the payload, whitespace-trimmed.
	Thoughts string
	// Payload is the candidate structured text handed to the canonicalizer.
	Payload string
	// Strategy is the Name of the strategy that produced the extraction.
	Strategy string
	// Degraded is true when the payload boundaries were guessed rather than
	// verified by brace balancing.
	Degraded bool
}

// Strategy locates a payload inside text. Extract reports false when the
// strategy does not apply; it must not return a match with an empty payload.
type Strategy interface {
	Name() string
	Extract(text string) (Extraction, bool)
}

// DefaultStrategies returns the built-in strategies in the order they are tried.
func DefaultStrategies() []Strategy {
	return []Strategy{Fenced{}, Balanced{}, LastBrace{}}
}

// StrategyByName returns the built-in strategy called name.
func StrategyByName(name string) (Strategy, bool) {
	for _, strategy := range DefaultStrategies() {
		if strategy.Name() == name {
			return strategy, true
		}
	}
	return nil, false
}

// fencePattern matches a ``` fence with an optional language tag and its body.
var fencePattern = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \t]*\r?\n?(.*?)```")

// Fenced finds the first markdown code fence whose body holds a balanced
// object. Text before the fence becomes the thoughts. Only fences opening
// before the first '{' of the text count, so a fenced block in trailing
// prose never displaces a bare object that precedes it.
type Fenced struct{}

// Name implements [Strategy].
func (Fenced) Name() string { return "fenced" }

// Extract implements [Strategy].
func (Fenced) Extract(text string) (Extraction, bool) {
	firstBrace := strings.IndexByte(text, '{')
	if firstBrace < 0 {
		return Extraction{}, false
	}
	for _, match := range fencePattern.FindAllStringSubmatchIndex(text, -1) {
		if match[0] > firstBrace {
			break
		}
		body := text[match[2]:match[3]]
		span, ok := scan.FindBalancedObject(body, 0)
		if !ok {
			continue
		}
		return Extraction{
			Thoughts: strings.TrimSpace(text[:match[0]]),
			Payload:  span.Slice(body),
			Strategy: Fenced{}.Name(),
		}, true
	}
	return Extraction{}, false
}

// Balanced takes the first balanced {...} region starting at the first '{'.
type Balanced struct{}

// Name implements [Strategy].
func (Balanced) Name() string { return "balanced" }

// Extract implements [Strategy].
func (Balanced) Extract(text string) (Extraction, bool) {
	span, ok := scan.FindBalancedObject(text, 0)
	if !ok {
		return Extraction{}, false
	}
	return Extraction{
		Thoughts: strings.TrimSpace(text[:span.Start]),
		Payload:  span.Slice(text),
		Strategy: Balanced{}.Name(),
	}, true
}

// LastBrace is the low-confidence fallback for truncated output: it takes
// everything from the first '{' to the last literal '}' in the text. Its
// extractions are always Degraded.
type LastBrace struct{}

// Name implements [Strategy].
func (LastBrace) Name() string { return "last-brace" }

// Extract implements [Strategy].
func (LastBrace) Extract(text string) (Extraction, bool) {
	open := strings.IndexByte(text, '{')
	if open < 0 {
		return Extraction{}, false
	}
	end := scan.LastClosingBrace(text, open)
	if end < 0 {
		return Extraction{}, false
	}
	return Extraction{
		Thoughts: strings.TrimSpace(text[:open]),
		Payload:  text[open : end+1],
		Strategy: LastBrace{}.Name(),
		Degraded: true,
	}, true
}
