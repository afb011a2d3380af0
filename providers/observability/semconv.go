package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- Generic Attributes ---

const (
	// AttrError carries an error message.
	AttrError = "error"

	// AttrStatus is the outcome of an operation ("ok", "error", ...).
	AttrStatus = "status"

	// AttrStatusDescription explains AttrStatus.
	AttrStatusDescription = "status.description"

	// AttrDuration is the elapsed time of an operation.
	AttrDuration = "duration"
)

// --- Pipeline Attributes ---

const (
	// AttrPipelinePhase is the splitter phase at end of stream ("thinking", "payload").
	AttrPipelinePhase = "pipeline.phase"

	// AttrPipelineStrategy is the recovery strategy that produced the payload,
	// or "marker" when the sentinel was found.
	AttrPipelineStrategy = "pipeline.strategy"

	// AttrPipelineDegraded reports a low-confidence recovery.
	AttrPipelineDegraded = "pipeline.degraded"

	// AttrPipelineRepair is the structural repair applied by the canonicalizer.
	AttrPipelineRepair = "pipeline.repair"

	// AttrPipelineChunks is the number of stream chunks consumed.
	AttrPipelineChunks = "pipeline.chunks"

	// AttrPipelineBytes is the number of stream bytes consumed.
	AttrPipelineBytes = "pipeline.bytes"

	// AttrPipelineErrorKind classifies a failure ("stream", "no_region",
	// "syntax", "schema").
	AttrPipelineErrorKind = "pipeline.error_kind"

	// AttrPipelineRawText is the (truncated) text attached to a failure.
	AttrPipelineRawText = "pipeline.raw_text"

	// AttrPipelineMarkerEnabled is false when the run has no sentinel marker.
	AttrPipelineMarkerEnabled = "pipeline.marker_enabled"

	// AttrPipelineThoughtsBytes is the size of the thoughts when the marker
	// was found.
	AttrPipelineThoughtsBytes = "pipeline.thoughts_bytes"
)

// --- HTTP Attributes ---

const (
	AttrHTTPRequestID = "http.request_id"
	AttrHTTPMethod    = "http.method"
	AttrHTTPPath      = "http.path"
	AttrHTTPStatus    = "http.status"
)

// --- Span Names ---

const (
	// SpanPipelineRun covers one pipeline invocation.
	SpanPipelineRun = "pipeline.run"
)

// --- Span Events ---

const (
	EventMarkerFound = "pipeline.marker_found"
	EventFallback    = "pipeline.fallback"
	EventCanonical   = "pipeline.canonicalized"
)

// --- Metric Names ---

const (
	// MetricPipelineRuns counts pipeline invocations by AttrStatus.
	MetricPipelineRuns = "wfextract.pipeline.runs"

	// MetricPipelineDuration records invocation duration in seconds.
	MetricPipelineDuration = "wfextract.pipeline.duration"

	// MetricPipelineDegraded counts successful but degraded recoveries.
	MetricPipelineDegraded = "wfextract.pipeline.degraded"
)
