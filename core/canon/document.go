package canon

import (
	"encoding/json"
	"maps"
)

const (
	// DefaultGraphKey is the top-level key holding the workflow graph.
	DefaultGraphKey = "workflow"
	// DefaultMetadataKey is the top-level key holding auxiliary metadata.
	DefaultMetadataKey = "metadata"
)

// Repair names the structural repair applied while canonicalizing.
type Repair string

const (
	// RepairNone means the payload already had the canonical shape.
	RepairNone Repair = "none"
	// RepairWrapped means the payload was the bare graph and was wrapped.
	RepairWrapped Repair = "wrapped"
	// RepairMetadataAdded means an empty metadata object was synthesised.
	RepairMetadataAdded Repair = "metadata_added"
)

// Document is the canonical workflow document. Graph is never nil and
// Metadata is at least an empty object.
type Document struct {
	Graph    any
	Metadata any

	// Extra holds any other top-level keys the model emitted alongside the
	// recognised ones. They are preserved on output.
	Extra map[string]any

	// Repair records which structural rule produced the document.
	Repair Repair

	// SyntaxRepaired is true when the payload only parsed after lenient
	// syntax repair.
	SyntaxRepaired bool

	graphKey    string
	metadataKey string
}

// GraphKey returns the key the graph is stored under.
func (doc *Document) GraphKey() string {
	return doc.graphKey
}

// MetadataKey returns the key the metadata is stored under.
func (doc *Document) MetadataKey() string {
	return doc.metadataKey
}

// Map returns the document as a top-level JSON object.
func (doc *Document) Map() map[string]any {
	result := make(map[string]any, len(doc.Extra)+2)
	maps.Copy(result, doc.Extra)
	result[doc.graphKey] = doc.Graph
	result[doc.metadataKey] = doc.Metadata
	return result
}

// MarshalJSON encodes the document in its canonical shape.
func (doc *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(doc.Map())
}
