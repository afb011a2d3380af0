// Package source adapts byte streams into the chunk sequences consumed by
// the extraction pipeline.
//
// A chunk sequence is an iter.Seq2[string, error]: each element is a piece of
// decoded model text, and a non-nil error terminates the stream. Chunk
// boundaries are arbitrary; consumers must not assume they line up with
// markers or braces.
//
// Available sources:
//   - [Strings] yields a fixed list of chunks (tests, replays)
//   - [Reader] yields fixed-size reads of raw text
//   - [SSE] decodes Server-Sent Events from OpenAI-, Anthropic- and
//     Gemini-style streaming APIs
//   - [NDJSON] decodes newline-delimited JSON from Ollama-style APIs
//
// Closing the underlying reader makes the next read fail, which the sources
// report as an error. That is how a caller aborts a stream.
package source
