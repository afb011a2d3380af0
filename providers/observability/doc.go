// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging throughout wfextract.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics]
// and [Logger] into a single injectable dependency. A nil Provider means
// observability is disabled; callers check for nil rather than installing a
// no-op implementation. A Provider and the active [Span] can travel in a
// [context.Context] via [ContextWithObserver] and [ContextWithSpan].
//
// semconv.go holds the attribute keys, span names and metric names recorded
// by the pipeline.
package observability
