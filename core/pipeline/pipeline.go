package pipeline

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/leofalp/wfextract/core/canon"
	"github.com/leofalp/wfextract/core/phase"
	"github.com/leofalp/wfextract/core/recovery"
	"github.com/leofalp/wfextract/providers/observability"
)

// StrategyMarker is reported in [Result.Strategy] when the payload was
// delimited by the sentinel marker.
const StrategyMarker = "marker"

// Result is the outcome of a successful Run.
type Result struct {
	// Thoughts is the reasoning prose with the label prefix stripped and
	// surrounding whitespace trimmed.
	Thoughts string `json:"thoughts"`

	// Document is the canonical workflow document.
	Document *canon.Document `json:"document"`

	// Degraded is true when the payload boundary was guessed or the payload
	// only parsed after lenient syntax repair.
	Degraded bool `json:"degraded"`

	// Strategy is "marker" or the name of the recovery strategy that
	// located the payload.
	Strategy string `json:"strategy"`

	// Phase is the splitter phase at end of stream.
	Phase phase.Phase `json:"-"`
}

// Pipeline holds the configuration shared by all runs. It is immutable after
// New and safe for concurrent use.
type Pipeline struct {
	marker        string
	labelPrefix   string
	canonicalizer *canon.Canonicalizer
	strategies    []recovery.Strategy
	observer      observability.Provider
	maxBytes      int
}

// New creates a Pipeline with the default marker, label prefix, canonicalizer
// and recovery strategies, then applies opts.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		marker:        DefaultMarker,
		labelPrefix:   DefaultLabelPrefix,
		canonicalizer: canon.New(),
		strategies:    recovery.DefaultStrategies(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run consumes chunks to the end with a one-off Pipeline built from opts.
func Run(ctx context.Context, chunks iter.Seq2[string, error], onThought func(string), opts ...Option) (*Result, error) {
	return New(opts...).Run(ctx, chunks, onThought)
}

// Run consumes chunks to the end and returns the thoughts and the canonical
// workflow document. onThought, when non-nil, is called on the caller's
// goroutine each time the visible thoughts change.
//
// The stream is only read here; closing the underlying connection is the
// caller's job. Cancelling ctx aborts the run between chunks with a
// [*StreamError].
func (p *Pipeline) Run(ctx context.Context, chunks iter.Seq2[string, error], onThought func(string)) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	run := p.startRun(ctx)

	result, err := p.run(run.ctx, chunks, onThought, run)

	run.finish(result, err)

	return result, err
}

func (p *Pipeline) run(ctx context.Context, chunks iter.Seq2[string, error], onThought func(string), run *runObserver) (*Result, error) {
	splitter := phase.New(phase.Config{
		Marker:      p.marker,
		LabelPrefix: p.labelPrefix,
		OnThought:   onThought,
	})

	// 1. Drain the stream, routing every chunk through the splitter.
	for chunk, err := range chunks {
		if err != nil {
			return nil, &StreamError{Err: err, Received: run.bytes}
		}
		if err := ctx.Err(); err != nil {
			return nil, &StreamError{Err: err, Received: run.bytes}
		}

		run.chunks++
		run.bytes += len(chunk)
		if p.maxBytes > 0 && run.bytes > p.maxBytes {
			return nil, &StreamError{Err: ErrBufferLimit, Received: run.bytes}
		}

		before := splitter.Phase()
		splitter.Write(chunk)
		if before == phase.Thinking && splitter.Phase() == phase.Payload {
			run.markerFound(len(splitter.Thoughts()))
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, &StreamError{Err: err, Received: run.bytes}
	}

	// 2. Decide where the payload is.
	result := &Result{Phase: splitter.Phase()}
	var payload string

	switch splitter.Phase() {
	case phase.Payload:
		result.Thoughts = splitter.Thoughts()
		result.Strategy = StrategyMarker
		payload = splitter.Payload()
		if !strings.Contains(payload, "{") {
			return nil, &recovery.RecoveryError{Reason: "payload after marker contains no opening brace", RawText: strings.TrimSpace(payload)}
		}

	case phase.Thinking:
		extractor := recovery.NewExtractor(
			recovery.WithStrategies(p.strategies...),
			recovery.WithLabelPrefix(p.labelPrefix),
		)
		extraction, err := extractor.Extract(splitter.Raw())
		if err != nil {
			return nil, err
		}

		result.Thoughts = extraction.Thoughts
		result.Strategy = extraction.Strategy
		result.Degraded = extraction.Degraded
		payload = extraction.Payload

		run.fallback(extraction)
		if onThought != nil {
			onThought(result.Thoughts)
		}

	default:
		panic("pipeline: unknown phase " + splitter.Phase().String())
	}

	// 3. Canonicalize.
	document, err := p.canonicalizer.Canonicalize(payload)
	if err != nil {
		return nil, err
	}

	result.Document = document
	result.Degraded = result.Degraded || document.SyntaxRepaired

	return result, nil
}

// runObserver carries the per-run observability state. All methods are
// no-ops when the pipeline has no observer.
type runObserver struct {
	ctx      context.Context
	observer observability.Provider
	span     observability.Span
	start    time.Time

	chunks int
	bytes  int
}
