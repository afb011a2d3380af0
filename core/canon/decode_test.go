package canon

import (
	"strings"
	"testing"
)

type testNode struct {
	ClassType string         `json:"class_type"`
	Inputs    map[string]any `json:"inputs"`
}

type testMetadata struct {
	Title   string  `json:"title"`
	Version float64 `json:"version"`
}

func TestDecode(t *testing.T) {
	doc, err := New().Canonicalize(`{"workflow": {"3": {"class_type": "KSampler", "inputs": {"seed": 5}}}, "metadata": {"title": "t", "version": 1.5}}`)
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}

	graph, metadata, err := Decode[map[string]testNode, testMetadata](doc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	node, ok := graph["3"]
	if !ok || node.ClassType != "KSampler" {
		t.Errorf("graph[3] = %+v", node)
	}
	if seed, ok := node.Inputs["seed"].(float64); !ok || seed != 5 {
		t.Errorf("seed = %v", node.Inputs["seed"])
	}
	if metadata.Title != "t" || metadata.Version != 1.5 {
		t.Errorf("metadata = %+v", metadata)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, _, err := Decode[map[string]any, map[string]any](nil); err == nil {
		t.Error("Decode(nil) should fail")
	}

	doc, err := New().Canonicalize(`{"nodes": [{"id": 1}]}`)
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}

	_, _, err = Decode[map[string]testNode, map[string]any](doc)
	if err == nil || !strings.Contains(err.Error(), "decode workflow") {
		t.Errorf("Decode() error = %v, want graph decode failure", err)
	}
}

func TestAs(t *testing.T) {
	ids, err := As[[]int]([]any{1, 2, 3})
	if err != nil {
		t.Fatalf("As() error = %v", err)
	}
	if len(ids) != 3 || ids[2] != 3 {
		t.Errorf("As() = %v", ids)
	}

	if _, err := As[int]("not a number"); err == nil {
		t.Error("As[int](string) should fail")
	}
}
