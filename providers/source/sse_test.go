package source

import (
	"strings"
	"testing"
)

func TestSSE_OpenAI(t *testing.T) {
	stream := strings.Join([]string{
		`: keep-alive`,
		``,
		`data: {"object":"chat.completion.chunk","choices":[{"delta":{"role":"assistant"}}]}`,
		``,
		`data: {"object":"chat.completion.chunk","choices":[{"delta":{"content":"THOUGHTS: "}}]}`,
		``,
		`data: {"object":"chat.completion.chunk","choices":[{"delta":{"content":"plan"}}]}`,
		``,
		`data: [DONE]`,
		``,
		`data: {"choices":[{"delta":{"content":"after done"}}]}`,
		``,
	}, "\n")

	got, err := collect(t, SSE(strings.NewReader(stream)))
	if err != nil {
		t.Fatalf("SSE() error = %v", err)
	}
	if strings.Join(got, "|") != "THOUGHTS: |plan" {
		t.Errorf("SSE() = %q", got)
	}
}

func TestSSE_AnthropicAndGemini(t *testing.T) {
	stream := strings.Join([]string{
		`event: message_start`,
		`data: {"type":"message_start","message":{"content":[]}}`,
		``,
		`event: content_block_delta`,
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hello"}}`,
		``,
		`data: {"candidates":[{"content":{"parts":[{"text":" world"}]}}]}`,
		``,
	}, "\n")

	got, err := collect(t, SSE(strings.NewReader(stream)))
	if err != nil {
		t.Fatalf("SSE() error = %v", err)
	}
	if strings.Join(got, "") != "Hello world" {
		t.Errorf("SSE() = %q", got)
	}
}

func TestSSE_RawTextAndMultiLineData(t *testing.T) {
	stream := "data: first line\ndata: second line\n\ndata: {\"a\":\n\n"

	got, err := collect(t, SSE(strings.NewReader(stream)))
	if err != nil {
		t.Fatalf("SSE() error = %v", err)
	}
	want := []string{"first line\nsecond line", `{"a":`}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("SSE() = %q, want %q", got, want)
	}
}

func TestSSE_ErrorEvent(t *testing.T) {
	stream := "data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\ndata: {\"error\":{\"message\":\"overloaded\"}}\n\n"

	got, err := collect(t, SSE(strings.NewReader(stream)))
	if err == nil || !strings.Contains(err.Error(), "overloaded") {
		t.Fatalf("SSE() error = %v, want overloaded error", err)
	}
	if strings.Join(got, "") != "ok" {
		t.Errorf("SSE() chunks before error = %q", got)
	}
}

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{name: "openai delta", payload: `{"choices":[{"delta":{"content":"x"}}]}`, want: "x"},
		{name: "openai null content", payload: `{"choices":[{"delta":{"content":null}}]}`, want: ""},
		{name: "legacy completion", payload: `{"choices":[{"text":"y"}]}`, want: "y"},
		{name: "ollama generate", payload: `{"response":"z","done":false}`, want: "z"},
		{name: "ollama chat", payload: `{"message":{"role":"assistant","content":"w"}}`, want: "w"},
		{name: "json string", payload: `"quoted \"text\""`, want: `quoted "text"`},
		{name: "plain text", payload: `hello {`, want: `hello {`},
		{name: "model json object", payload: `{"a": 1}`, want: `{"a": 1}`},
		{name: "anthropic ping", payload: `{"type":"ping"}`, want: ""},
		{name: "null error ignored", payload: `{"response":"v","error":null}`, want: "v"},
		{name: "string error", payload: `{"error":"model not found"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DecodeEvent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNDJSON(t *testing.T) {
	stream := strings.Join([]string{
		`{"model":"llama3","response":"THOUGHTS: a","done":false}`,
		``,
		`{"model":"llama3","response":" b","done":false}`,
		`{"model":"llama3","response":"","done":true}`,
		`{"model":"llama3","response":"ignored","done":false}`,
	}, "\n")

	got, err := collect(t, NDJSON(strings.NewReader(stream)))
	if err != nil {
		t.Fatalf("NDJSON() error = %v", err)
	}
	if strings.Join(got, "") != "THOUGHTS: a b" {
		t.Errorf("NDJSON() = %q", got)
	}
}

func TestNDJSON_Errors(t *testing.T) {
	tests := []struct {
		name   string
		stream string
	}{
		{name: "invalid line", stream: "{\"response\":\"a\"}\nnot json\n"},
		{name: "error object", stream: "{\"error\":\"model not found\"}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := collect(t, NDJSON(strings.NewReader(tt.stream))); err == nil {
				t.Error("NDJSON() error = nil, want error")
			}
		})
	}
}
