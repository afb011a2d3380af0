package source

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Format names the framing of a response body.
type Format string

const (
	// FormatText is raw model output.
	FormatText Format = "text"
	// FormatSSE is a Server-Sent Events stream.
	FormatSSE Format = "sse"
	// FormatNDJSON is newline-delimited JSON, as Ollama streams it.
	FormatNDJSON Format = "ndjson"
)

// ParseFormat accepts text, sse or ndjson (case-insensitive). Empty means text.
func ParseFormat(name string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(name))); format {
	case "", FormatText:
		return FormatText, nil
	case FormatSSE, FormatNDJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unknown stream format %q (want text, sse or ndjson)", name)
	}
}

// FromReader returns the chunk sequence for r decoded as format. chunkSize
// only applies to FormatText.
func FromReader(format Format, r io.Reader, chunkSize int) iter.Seq2[string, error] {
	switch format {
	case FormatSSE:
		return SSE(r)
	case FormatNDJSON:
		return NDJSON(r)
	default:
		return Reader(r, chunkSize)
	}
}
