package canon

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// GraphDetector reports whether a parsed value looks like bare workflow
// graph content rather than a document wrapper.
type GraphDetector func(value any) bool

// Canonicalizer parses and repairs payload text. It is immutable after
// construction and safe for concurrent use.
type Canonicalizer struct {
	graphKey    string
	metadataKey string
	detector    GraphDetector
	lenient     bool
}

// Option configures a [Canonicalizer].
type Option func(*Canonicalizer)

// WithGraphKey sets the top-level key of the workflow graph.
func WithGraphKey(key string) Option {
	return func(c *Canonicalizer) {
		c.graphKey = key
	}
}

// WithMetadataKey sets the top-level key of the auxiliary metadata.
func WithMetadataKey(key string) Option {
	return func(c *Canonicalizer) {
		c.metadataKey = key
	}
}

// WithGraphDetector replaces [DefaultGraphDetector]. The detector is only
// consulted for objects carrying neither recognised key.
func WithGraphDetector(detector GraphDetector) Option {
	return func(c *Canonicalizer) {
		c.detector = detector
	}
}

// WithLenientSyntax enables a single jsonrepair pass over payloads that fail
// to parse. Documents produced this way have SyntaxRepaired set.
func WithLenientSyntax(enabled bool) Option {
	return func(c *Canonicalizer) {
		c.lenient = enabled
	}
}

// New creates a Canonicalizer with the default keys and detector.
func New(opts ...Option) *Canonicalizer {
	c := &Canonicalizer{
		graphKey:    DefaultGraphKey,
		metadataKey: DefaultMetadataKey,
		detector:    DefaultGraphDetector,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.detector == nil {
		c.detector = func(any) bool { return false }
	}
	return c
}

// GraphKey returns the configured graph key.
func (c *Canonicalizer) GraphKey() string { return c.graphKey }

// MetadataKey returns the configured metadata key.
func (c *Canonicalizer) MetadataKey() string { return c.metadataKey }

// Canonicalize parses payload and returns the canonical document.
func (c *Canonicalizer) Canonicalize(payload string) (*Document, error) {
	text := StripFences(payload)

	value, err := decode(text)
	syntaxRepaired := false
	if err != nil {
		if !c.lenient {
			return nil, &SyntaxError{RawText: text, Err: err}
		}
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return nil, &SyntaxError{RawText: text, Err: fmt.Errorf("%w (repair failed: %v)", err, repairErr)}
		}
		value, repairErr = decode(repaired)
		if repairErr != nil {
			return nil, &SyntaxError{RawText: text, Err: err}
		}
		syntaxRepaired = true
	}

	doc, err := c.shape(value, text)
	if err != nil {
		return nil, err
	}
	doc.SyntaxRepaired = syntaxRepaired
	return doc, nil
}

// shape applies the structural repair rules in order.
func (c *Canonicalizer) shape(value any, text string) (*Document, error) {
	object, isObject := value.(map[string]any)
	if !isObject {
		return nil, &SchemaRepairError{RawText: text, Reason: fmt.Sprintf("top-level value is %s, not an object", kindOf(value))}
	}

	graph, hasGraph := object[c.graphKey]
	metadata, hasMetadata := object[c.metadataKey]
	if hasGraph && graph == nil {
		hasGraph = false
	}

	switch {
	case hasGraph && hasMetadata && metadata != nil:
		return c.document(graph, metadata, object, RepairNone), nil

	case !hasGraph && !hasMetadata && c.detector(object):
		return c.document(object, map[string]any{}, nil, RepairWrapped), nil

	case hasGraph:
		return c.document(graph, map[string]any{}, object, RepairMetadataAdded), nil

	default:
		return nil, &SchemaRepairError{RawText: text, Reason: fmt.Sprintf("no %q key and the payload does not look like a workflow graph", c.graphKey)}
	}
}

func (c *Canonicalizer) document(graph, metadata any, source map[string]any, repair Repair) *Document {
	var extra map[string]any
	for key, value := range source {
		if key == c.graphKey || key == c.metadataKey {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[key] = value
	}
	return &Document{
		Graph:       graph,
		Metadata:    metadata,
		Extra:       extra,
		Repair:      repair,
		graphKey:    c.graphKey,
		metadataKey: c.metadataKey,
	}
}

// decode parses exactly one JSON value. Numbers are kept as json.Number so
// that integer node ids and seeds survive a round trip unchanged.
func decode(text string) (any, error) {
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if rest := strings.TrimSpace(text[decoder.InputOffset():]); rest != "" {
		return nil, fmt.Errorf("unexpected trailing content after JSON value at offset %d", decoder.InputOffset())
	}
	return value, nil
}

func kindOf(value any) string {
	switch value.(type) {
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// DefaultGraphDetector recognises the two workflow graph layouts models
// produce: the editor layout, an object with a "nodes" array, and the API
// layout, a non-empty object mapping node ids to node objects. An object
// holding either default wrapper key is a wrapper, never a bare graph.
func DefaultGraphDetector(value any) bool {
	object, ok := value.(map[string]any)
	if !ok || len(object) == 0 {
		return false
	}
	for _, key := range []string{DefaultGraphKey, DefaultMetadataKey} {
		if _, ok := object[key]; ok {
			return false
		}
	}
	if _, ok := object["nodes"].([]any); ok {
		return true
	}
	for _, node := range object {
		if _, ok := node.(map[string]any); !ok {
			return false
		}
	}
	return true
}

// fenceTag matches the language tag following an opening fence.
var fenceTag = regexp.MustCompile(`^[A-Za-z0-9_+-]*`)

// StripFences removes a surrounding markdown code fence (with an optional
// language tag), a UTF-8 byte order mark and surrounding whitespace. When an
// opening fence is present, anything after the closing fence is dropped too.
func StripFences(text string) string {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "\uFEFF"))

	if rest, ok := strings.CutPrefix(text, "```"); ok {
		rest = rest[len(fenceTag.FindString(rest)):]
		if end := strings.LastIndex(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}

	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}
