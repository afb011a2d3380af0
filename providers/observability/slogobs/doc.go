// Package slogobs provides an observability.Provider implementation backed by
// Go's standard library log/slog package.
// Spans and metrics are rendered as debug log events; regular log calls go
// through a configurable slog.Handler that emits compact or JSON lines.
// The main entry point is [New]; output format and level can be tuned with
// [WithFormat], [WithLevel], [WithOutput] and [WithLogger], or through the
// WFEXTRACT_LOG_FORMAT and WFEXTRACT_LOG_LEVEL environment variables.
package slogobs
