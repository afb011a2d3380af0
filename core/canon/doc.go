// Package canon turns extracted payload text into the canonical workflow
// document.
//
// A [Canonicalizer] strips markdown code fences, parses the remaining text as
// JSON and then repairs the common ways a model deviates from the expected
// top-level shape:
//
//  1. both the graph key and the metadata key present: already canonical
//  2. the value is the graph itself (per the configured [GraphDetector]):
//     wrap it under the graph key and add empty metadata
//  3. graph key present, metadata missing: add empty metadata
//  4. anything else: [*SchemaRepairError]
//
// Parse failures return a [*SyntaxError] carrying the text that was parsed.
// Canonicalization is idempotent: feeding a canonical document back in
// returns an equal document.
package canon
