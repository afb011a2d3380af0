package source

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"
)

// NDJSON yields the text deltas of a newline-delimited JSON stream such as
// Ollama's /api/generate and /api/chat. Blank lines are skipped, an object
// with "done": true ends the stream and an "error" member fails it.
func NDJSON(reader io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		scanner := newLineScanner(reader)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var status struct {
				Done bool `json:"done"`
			}
			if err := json.Unmarshal([]byte(line), &status); err != nil {
				yield("", fmt.Errorf("decode NDJSON line: %w", err))
				return
			}
			text, err := DecodeEvent(line)
			if err != nil {
				yield("", err)
				return
			}
			if text != "" && !yield(text, nil) {
				return
			}
			if status.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", fmt.Errorf("NDJSON scanner error: %w", err))
		}
	}
}
