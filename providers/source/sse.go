package source

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
)

// maxLineSize is the maximum size of a single SSE or NDJSON line (1 MB).
// The default bufio.Scanner limit of 64 KiB is too small for long
// completions delivered as one event.
const maxLineSize = 1 * 1024 * 1024

// SSEScanner reads Server-Sent Events from an io.Reader.
// It joins multi-line data fields, skips comments and detects the [DONE]
// sentinel used by OpenAI-compatible APIs.
type SSEScanner struct {
	scanner *bufio.Scanner
}

// NewSSEScanner creates an SSEScanner over reader.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	return &SSEScanner{scanner: newLineScanner(reader)}
}

func newLineScanner(reader io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

// Next returns the next event's data payload. It returns io.EOF at the end
// of the stream or when the [DONE] sentinel is read.
func (sseScanner *SSEScanner) Next() (string, error) {
	var dataLines []string

	for sseScanner.scanner.Scan() {
		line := sseScanner.scanner.Text()

		// Empty line terminates an event
		if line == "" {
			if len(dataLines) > 0 {
				return strings.Join(dataLines, "\n"), nil
			}
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		if data, ok := strings.CutPrefix(line, "data:"); ok {
			data = strings.TrimPrefix(data, " ")
			if strings.TrimSpace(data) == "[DONE]" {
				return "", io.EOF
			}
			dataLines = append(dataLines, data)
		}
		// event:, id: and retry: fields carry nothing the pipeline needs
	}

	if err := sseScanner.scanner.Err(); err != nil {
		return "", fmt.Errorf("SSE scanner error: %w", err)
	}
	if len(dataLines) > 0 {
		return strings.Join(dataLines, "\n"), nil
	}
	return "", io.EOF
}

// SSE yields the text deltas carried by a Server-Sent Events stream. Each
// event payload is decoded with [DecodeEvent]; events without text are
// skipped and provider error objects end the stream with an error.
func SSE(reader io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		scanner := NewSSEScanner(reader)
		for {
			payload, err := scanner.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", err)
				return
			}

			text, err := DecodeEvent(payload)
			if err != nil {
				yield("", err)
				return
			}
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// streamEvent covers the text-bearing fields of the streaming formats in use:
// OpenAI chat completions (choices[].delta.content) and legacy completions
// (choices[].text), Anthropic messages (delta.text), Gemini
// (candidates[].content.parts[].text) and Ollama (response, message.content).
type streamEvent struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Text string `json:"text"`
	} `json:"choices"`
	Delta *struct {
		Text string `json:"text"`
	} `json:"delta"`
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Response string `json:"response"`
	Message  *struct {
		// Content is a string for Ollama chat and an array of blocks in
		// Anthropic's message_start, which carries no text.
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

// eventKeys are the top-level members that mark a JSON object as a provider
// event rather than model text.
var eventKeys = []string{"choices", "delta", "candidates", "response", "message", "error", "type", "done", "usage", "usageMetadata"}

// DecodeEvent extracts the text delta from one event payload. A JSON object
// with at least one provider event member is reduced to its text fields,
// which may be empty. Anything else is model text and is returned verbatim,
// except that a JSON string is unquoted. A provider event carrying an
// "error" member yields an error.
func DecodeEvent(payload string) (string, error) {
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal([]byte(trimmed), &text); err == nil {
			return text, nil
		}
	}
	var members map[string]json.RawMessage
	if !strings.HasPrefix(trimmed, "{") || json.Unmarshal([]byte(trimmed), &members) != nil {
		return payload, nil
	}
	isEvent := slices.ContainsFunc(eventKeys, func(key string) bool {
		_, ok := members[key]
		return ok
	})
	if !isEvent {
		return payload, nil
	}

	var failure struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal([]byte(trimmed), &failure) == nil && len(failure.Error) > 0 && string(failure.Error) != "null" {
		return "", fmt.Errorf("stream reported error: %s", failure.Error)
	}

	var event streamEvent
	if err := json.Unmarshal([]byte(trimmed), &event); err != nil {
		return "", nil
	}

	var builder strings.Builder
	for _, choice := range event.Choices {
		builder.WriteString(choice.Delta.Content)
		builder.WriteString(choice.Text)
	}
	if event.Delta != nil {
		builder.WriteString(event.Delta.Text)
	}
	for _, candidate := range event.Candidates {
		for _, part := range candidate.Content.Parts {
			builder.WriteString(part.Text)
		}
	}
	builder.WriteString(event.Response)
	if event.Message != nil {
		var content string
		if json.Unmarshal(event.Message.Content, &content) == nil {
			builder.WriteString(content)
		}
	}
	return builder.String(), nil
}
