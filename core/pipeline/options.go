package pipeline

import (
	"github.com/leofalp/wfextract/core/canon"
	"github.com/leofalp/wfextract/core/recovery"
	"github.com/leofalp/wfextract/providers/observability"
)

const (
	// DefaultMarker separates thoughts from payload in the model's output.
	DefaultMarker = "###JSON_START###"

	// DefaultLabelPrefix is stripped from the start of the thoughts.
	DefaultLabelPrefix = "THOUGHTS:"
)

// Option is a functional option for configuring a [Pipeline].
type Option func(*Pipeline)

// WithMarker sets the sentinel marker. An empty marker disables the marker
// path so every response goes through the recovery strategies.
func WithMarker(marker string) Option {
	return func(p *Pipeline) {
		p.marker = marker
	}
}

// WithLabelPrefix sets the label stripped from the start of the thoughts.
func WithLabelPrefix(prefix string) Option {
	return func(p *Pipeline) {
		p.labelPrefix = prefix
	}
}

// WithCanonicalizer replaces the default [canon.Canonicalizer], e.g. to use
// other top-level keys or a different graph detector.
func WithCanonicalizer(canonicalizer *canon.Canonicalizer) Option {
	return func(p *Pipeline) {
		if canonicalizer != nil {
			p.canonicalizer = canonicalizer
		}
	}
}

// WithStrategies sets the recovery strategies used when the marker is
// missing, in the order they are tried.
//
// Example:
//
//	pipeline.New(pipeline.WithStrategies(recovery.Balanced{}))
func WithStrategies(strategies ...recovery.Strategy) Option {
	return func(p *Pipeline) {
		p.strategies = append([]recovery.Strategy(nil), strategies...)
	}
}

// WithObserver enables tracing, metrics and logging. Without it the pipeline
// falls back to the observer carried by the context, if any.
func WithObserver(observer observability.Provider) Option {
	return func(p *Pipeline) {
		p.observer = observer
	}
}

// WithMaxBufferBytes caps the number of bytes a single Run accepts. Zero
// (the default) means unlimited.
func WithMaxBufferBytes(limit int) Option {
	return func(p *Pipeline) {
		p.maxBytes = limit
	}
}
