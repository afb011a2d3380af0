package recovery

import (
	"strings"

	"github.com/leofalp/wfextract/core/phase"
)

// Extractor runs strategies in order over an unsplit response.
type Extractor struct {
	strategies  []Strategy
	labelPrefix string
}

// Option configures an [Extractor].
type Option func(*Extractor)

// WithStrategies replaces the strategy list. The order given is the order
// in which strategies are tried.
func WithStrategies(strategies ...Strategy) Option {
	return func(extractor *Extractor) {
		extractor.strategies = append([]Strategy(nil), strategies...)
	}
}

// WithLabelPrefix sets the label stripped from the start of the text before
// any strategy runs.
func WithLabelPrefix(prefix string) Option {
	return func(extractor *Extractor) {
		extractor.labelPrefix = prefix
	}
}

// NewExtractor creates an Extractor using [DefaultStrategies] unless
// overridden.
func NewExtractor(opts ...Option) *Extractor {
	extractor := &Extractor{strategies: DefaultStrategies()}
	for _, opt := range opts {
		opt(extractor)
	}
	return extractor
}

// Strategies returns the names of the configured strategies in order.
func (extractor *Extractor) Strategies() []string {
	names := make([]string, 0, len(extractor.strategies))
	for _, strategy := range extractor.strategies {
		names = append(names, strategy.Name())
	}
	return names
}

// Extract returns the first match produced by the configured strategies.
// Text holding no '{' at all always fails, whatever strategies are set.
func (extractor *Extractor) Extract(text string) (Extraction, error) {
	text = phase.StripLabel(text, extractor.labelPrefix)

	if !strings.Contains(text, "{") {
		return Extraction{}, &RecoveryError{Reason: "text contains no opening brace", RawText: text}
	}

	for _, strategy := range extractor.strategies {
		extraction, ok := strategy.Extract(text)
		if !ok || extraction.Payload == "" {
			continue
		}
		if extraction.Strategy == "" {
			extraction.Strategy = strategy.Name()
		}
		return extraction, nil
	}

	return Extraction{}, &RecoveryError{Reason: "no strategy matched (" + strings.Join(extractor.Strategies(), ", ") + ")", RawText: text}
}
