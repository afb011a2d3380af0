// Package phase classifies a streamed model response into reasoning prose
// and structured payload.
//
// A [Splitter] starts in [Thinking] and watches its rolling buffer for a
// caller-configured sentinel marker. Until the marker appears every chunk is
// treated as thoughts and reported through the OnThought callback; once the
// marker is seen the splitter moves to [Payload] for the rest of the stream
// and never goes back. The marker itself is consumed and belongs to neither
// buffer.
//
// A Splitter holds per-invocation state. Create one per stream with [New].
package phase
