// Package pipeline recovers a workflow document and the reasoning prose that
// preceded it from a streamed model response.
//
// [Run] (or [Pipeline.Run] for a reusable, pre-configured pipeline) reads the
// chunk sequence to the end, routing text through a [phase.Splitter]. The
// OnThought callback sees the reasoning grow live. At end of stream:
//
//   - if the sentinel marker was seen, the text after it is canonicalized
//   - otherwise the recovery strategies locate the payload in the whole
//     response first
//
// Failures are always typed and never replaced by an empty document:
// [*StreamError] (errors.Is [ErrStreamFailure]), [*recovery.RecoveryError],
// [*canon.SyntaxError] and [*canon.SchemaRepairError]. Successful results
// that relied on a guessed payload boundary or on lenient syntax repair are
// returned with Degraded set.
//
// Every Run owns its buffers. A Pipeline may be shared by goroutines running
// concurrent streams.
//
// Example:
//
//	result, err := pipeline.Run(ctx, source.SSE(resp.Body), func(thoughts string) {
//	    ui.ShowThinking(thoughts)
//	}, pipeline.WithMarker("###JSON_START###"))
//	if err != nil {
//	    return err
//	}
//	if result.Degraded {
//	    log.Warn("workflow recovered from truncated output")
//	}
package pipeline
