package pipeline

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/leofalp/wfextract/providers/source"
)

var responses = []string{
	"THOUGHTS: plan the graph ###JSON_START### {\"workflow\": {\"1\": {\"class_type\": \"A\", \"inputs\": {\"text\": \"}{\\\"\"}}}, \"metadata\": {\"v\": 1}}",
	"THOUGHTS: no marker here {\"nodes\": [{\"id\": 1}, {\"id\": 2}]} done",
	"THOUGHTS: truncated {\"workflow\": {\"1\": {}}",
	"Sure:\n```json\n{\"workflow\": {}, \"metadata\": {}}\n```\nanything else?",
	"THOUGHTS: just talking",
	"THOUGHTS: x ###JSON_START### [\"not\", \"an\", \"object\"]",
	"###JSON_START###{\"a\": {\"b\": 1}}",
}

// outcome is the comparable part of a Run.
type outcome struct {
	thoughts string
	document string
	degraded bool
	strategy string
	errKind  string
	raw      string
}

func runOutcome(t require.TestingT, chunks []string, onThought func(string)) outcome {
	result, err := Run(context.Background(), source.Strings(chunks...), onThought)
	if err != nil {
		raw, _ := RawText(err)
		return outcome{errKind: ErrorKind(err), raw: raw}
	}
	data, marshalErr := json.Marshal(result.Document)
	require.NoError(t, marshalErr)
	return outcome{
		thoughts: result.Thoughts,
		document: string(data),
		degraded: result.Degraded,
		strategy: result.Strategy,
	}
}

// drawChunks splits text at arbitrary byte offsets, empty chunks included.
func drawChunks(t *rapid.T, text string) []string {
	cuts := rapid.SliceOfN(rapid.IntRange(0, len(text)), 0, 12).Draw(t, "cuts")
	slices.Sort(cuts)

	chunks := make([]string, 0, len(cuts)+1)
	previous := 0
	for _, cut := range cuts {
		chunks = append(chunks, text[previous:cut])
		previous = cut
	}
	return append(chunks, text[previous:])
}

func TestProperty_ChunkingDoesNotChangeOutcome(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		response := rapid.SampledFrom(responses).Draw(t, "response")
		chunks := drawChunks(t, response)

		var thoughts collect
		want := runOutcome(t, []string{response}, nil)
		got := runOutcome(t, chunks, thoughts.onThought)

		require.Equal(t, want, got)
		if got.errKind == "" {
			require.Equal(t, got.thoughts, thoughts.last(), "last update matches final thoughts")
		}
	})
}

func TestProperty_MarkerPayloadRoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		thoughts := strings.TrimSpace(rapid.StringMatching(`[A-Za-z ,.]{0,60}`).Draw(t, "thoughts"))
		nodes := rapid.MapOfN(
			rapid.StringMatching(`[0-9]{1,3}`),
			rapid.StringMatching(`[A-Za-z{}" \\]{0,10}`),
			1, 5,
		).Draw(t, "nodes")

		graph := make(map[string]any, len(nodes))
		for id, class := range nodes {
			graph[id] = map[string]any{"class_type": class}
		}
		payload, err := json.Marshal(map[string]any{"workflow": graph, "metadata": map[string]any{"source": "test"}})
		require.NoError(t, err)

		response := "THOUGHTS: " + thoughts + " " + DefaultMarker + " " + string(payload)
		got := runOutcome(t, drawChunks(t, response), nil)

		require.Empty(t, got.errKind)
		require.Equal(t, thoughts, got.thoughts)
		require.Equal(t, StrategyMarker, got.strategy)
		require.False(t, got.degraded)
		require.JSONEq(t, string(payload), got.document)
	})
}

func TestProperty_ProseWithoutBracesFails(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prose := rapid.StringMatching(`[^{]{0,80}`).Draw(t, "prose")
		if rapid.Bool().Draw(t, "marker") {
			runes := []rune(prose)
			cut := rapid.IntRange(0, len(runes)).Draw(t, "cut")
			prose = string(runes[:cut]) + DefaultMarker + string(runes[cut:])
		}

		got := runOutcome(t, drawChunks(t, prose), nil)
		require.Equal(t, KindNoRegion, got.errKind)
	})
}

func TestProperty_UnclosedPayloadNeverSucceedsCleanly(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		full := `{"workflow": {"1": {"class_type": "Loader", "inputs": {"a": [1, 2]}}}, "metadata": {}}`
		cut := rapid.IntRange(1, len(full)-1).Draw(t, "cut")
		response := "THOUGHTS: partial " + full[:cut]

		got := runOutcome(t, drawChunks(t, response), nil)
		if got.errKind == "" {
			require.True(t, got.degraded, "success on truncated output must be degraded")
		}
	})
}
