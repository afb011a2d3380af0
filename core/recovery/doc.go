// Package recovery salvages a structured payload from a stream that never
// emitted its sentinel marker.
//
// Recovery is expressed as an ordered list of named [Strategy] values. An
// [Extractor] strips the thought label prefix and then tries each strategy
// in turn, returning the first [Extraction] that matches. The defaults are:
//
//   - "fenced": a ```json fenced block containing a balanced object
//   - "balanced": the first balanced {...} region in the text
//   - "last-brace": first '{' through last '}', flagged as degraded
//
// When nothing matches the extractor fails with a [*RecoveryError] wrapping
// [ErrNoStructuredRegion]. It never returns an empty payload as a success.
package recovery
