// Package server exposes the extraction pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness
//	GET  /metrics            Prometheus exposition (when a gatherer is set)
//	POST /v1/extract         body is a model response, reply is a JSON envelope
//	POST /v1/extract/stream  same input, reply is an SSE stream of "thought"
//	                         events followed by one "result" or "error" event
//
// The request body framing is chosen with ?format=text|sse|ndjson.
package server
