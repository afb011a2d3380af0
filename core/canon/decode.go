package canon

import (
	"encoding/json"
	"fmt"
)

// As converts a decoded JSON value (for example [Document.Graph]) into T by
// re-encoding it.
//
// Example:
//
//	type Node struct {
//	    ClassType string         `json:"class_type"`
//	    Inputs    map[string]any `json:"inputs"`
//	}
//
//	nodes, err := canon.As[map[string]Node](doc.Graph)
func As[T any](value any) (T, error) {
	var result T

	data, err := json.Marshal(value)
	if err != nil {
		return result, fmt.Errorf("failed to encode %T: %w", value, err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("failed to decode value as %T: %w", result, err)
	}
	return result, nil
}

// Decode converts the graph and the metadata of doc into G and M.
func Decode[G, M any](doc *Document) (G, M, error) {
	var (
		graph    G
		metadata M
	)
	if doc == nil {
		return graph, metadata, fmt.Errorf("decode: nil document")
	}

	graph, err := As[G](doc.Graph)
	if err != nil {
		return graph, metadata, fmt.Errorf("decode %s: %w", doc.graphKey, err)
	}
	metadata, err = As[M](doc.Metadata)
	if err != nil {
		return graph, metadata, fmt.Errorf("decode %s: %w", doc.metadataKey, err)
	}
	return graph, metadata, nil
}
