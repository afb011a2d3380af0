package pipeline

import (
	"context"
	"time"

	"github.com/leofalp/wfextract/core/recovery"
	"github.com/leofalp/wfextract/internal/utils"
	"github.com/leofalp/wfextract/providers/observability"
)

const rawTextPreview = 200

// startRun resolves the observer (pipeline option first, then context) and
// opens the run span.
func (p *Pipeline) startRun(ctx context.Context) *runObserver {
	run := &runObserver{ctx: ctx, start: time.Now()}

	observer := p.observer
	if observer == nil {
		observer = observability.ObserverFromContext(ctx)
	}
	if observer == nil {
		return run
	}

	ctx, span := observer.StartSpan(ctx, observability.SpanPipelineRun,
		observability.Bool(observability.AttrPipelineMarkerEnabled, p.marker != ""),
	)
	ctx = observability.ContextWithSpan(ctx, span)

	run.ctx = ctx
	run.observer = observer
	run.span = span

	observer.Debug(ctx, "pipeline run started")

	return run
}

func (run *runObserver) markerFound(thoughtsLen int) {
	if run.observer == nil {
		return
	}

	run.span.AddEvent(observability.EventMarkerFound,
		observability.Int(observability.AttrPipelineChunks, run.chunks),
		observability.Int(observability.AttrPipelineThoughtsBytes, thoughtsLen),
	)
}

func (run *runObserver) fallback(extraction recovery.Extraction) {
	if run.observer == nil {
		return
	}

	run.span.AddEvent(observability.EventFallback,
		observability.String(observability.AttrPipelineStrategy, extraction.Strategy),
		observability.Bool(observability.AttrPipelineDegraded, extraction.Degraded),
	)
}

// finish closes the span and records the run metrics and logs.
func (run *runObserver) finish(result *Result, err error) {
	if run.observer == nil {
		return
	}

	ctx := run.ctx
	observer := run.observer
	elapsed := time.Since(run.start)

	run.span.SetAttributes(
		observability.Int(observability.AttrPipelineChunks, run.chunks),
		observability.Int(observability.AttrPipelineBytes, run.bytes),
	)

	if err != nil {
		kind := ErrorKind(err)
		attrs := []observability.Attribute{
			observability.Error(err),
			observability.String(observability.AttrPipelineErrorKind, kind),
			observability.Duration(observability.AttrDuration, elapsed),
		}
		if raw, ok := RawText(err); ok {
			attrs = append(attrs, observability.String(observability.AttrPipelineRawText, utils.TruncateString(raw, rawTextPreview)))
		}

		run.span.RecordError(err)
		run.span.SetStatus(observability.StatusError, kind)
		run.span.End()

		observer.Error(ctx, "pipeline run failed", attrs...)
		observer.Counter(observability.MetricPipelineRuns).Add(ctx, 1,
			observability.String(observability.AttrStatus, "error"),
			observability.String(observability.AttrPipelineErrorKind, kind),
		)
		observer.Histogram(observability.MetricPipelineDuration).Record(ctx, elapsed.Seconds(),
			observability.String(observability.AttrStatus, "error"),
		)
		return
	}

	attrs := []observability.Attribute{
		observability.String(observability.AttrPipelineStrategy, result.Strategy),
		observability.String(observability.AttrPipelineRepair, string(result.Document.Repair)),
		observability.Bool(observability.AttrPipelineDegraded, result.Degraded),
		observability.Duration(observability.AttrDuration, elapsed),
	}

	run.span.AddEvent(observability.EventCanonical,
		observability.String(observability.AttrPipelineRepair, string(result.Document.Repair)),
	)
	run.span.SetAttributes(
		observability.String(observability.AttrPipelinePhase, result.Phase.String()),
		observability.String(observability.AttrPipelineStrategy, result.Strategy),
		observability.Bool(observability.AttrPipelineDegraded, result.Degraded),
	)

	if result.Degraded {
		observer.Warn(ctx, "workflow recovered in degraded mode", attrs...)
		observer.Counter(observability.MetricPipelineDegraded).Add(ctx, 1,
			observability.String(observability.AttrPipelineStrategy, result.Strategy),
		)
	} else {
		observer.Info(ctx, "pipeline run completed", attrs...)
	}

	observer.Counter(observability.MetricPipelineRuns).Add(ctx, 1,
		observability.String(observability.AttrStatus, "success"),
		observability.String(observability.AttrPipelineStrategy, result.Strategy),
	)
	observer.Histogram(observability.MetricPipelineDuration).Record(ctx, elapsed.Seconds(),
		observability.String(observability.AttrStatus, "success"),
	)

	run.span.SetStatus(observability.StatusOK, "success")
	run.span.End()
}
