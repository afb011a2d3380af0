// Package promobs implements observability.Metrics on top of the Prometheus
// client library, so pipeline counters and histograms can be scraped.
//
// Metric names use the dotted wfextract convention
// ("wfextract.pipeline.runs") and are converted to Prometheus names
// ("wfextract_pipeline_runs_total"). Prometheus needs label names up front,
// so every metric declares which attribute keys become labels; see
// [WithLabels] and [DefaultLabels]. Other attributes are ignored.
//
// [Wrap] overlays the Prometheus metrics on an existing Provider, keeping its
// tracer and logger.
package promobs
