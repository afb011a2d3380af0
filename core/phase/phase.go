package phase

import (
	"fmt"
	"strings"
)

// Phase is the state of a [Splitter].
type Phase int

const (
	// Thinking is the initial phase: chunks are reasoning prose.
	Thinking Phase = iota
	// Payload is entered once the marker has been seen: chunks are
	// structured payload text.
	Payload
)

// String returns the lowercase name of the phase.
func (p Phase) String() string {
	switch p {
	case Thinking:
		return "thinking"
	case Payload:
		return "payload"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Config configures a [Splitter].
type Config struct {
	// Marker is the literal token separating thoughts from payload.
	// Matching is exact substring containment. An empty marker never matches.
	Marker string

	// LabelPrefix is stripped from the start of the thought text when present,
	// e.g. "THOUGHTS:".
	LabelPrefix string

	// OnThought receives the current thought text after every chunk read in
	// the Thinking phase, and once more with the final thoughts when the
	// marker is found. It runs on the caller's goroutine and must not block.
	OnThought func(thoughts string)
}

// Splitter routes stream chunks into a thoughts buffer or a payload buffer.
type Splitter struct {
	config   Config
	phase    Phase
	rolling  strings.Builder
	payload  strings.Builder
	thoughts string
	searched int
}

// New creates a Splitter in the Thinking phase.
func New(config Config) *Splitter {
	return &Splitter{config: config, phase: Thinking}
}

// Write classifies one chunk. Chunk boundaries need not align with the
// marker: the marker is searched for in the whole rolling buffer.
func (s *Splitter) Write(chunk string) {
	switch s.phase {
	case Thinking:
		s.rolling.WriteString(chunk)
		s.scanForMarker()
	case Payload:
		s.payload.WriteString(chunk)
	}
}

// scanForMarker performs the Thinking-phase transition check.
func (s *Splitter) scanForMarker() {
	buffered := s.rolling.String()

	index := -1
	if marker := s.config.Marker; marker != "" {
		// Only the tail that could still hold a marker straddling the last
		// chunk boundary needs rescanning.
		from := max(0, s.searched-len(marker)+1)
		if found := strings.Index(buffered[from:], marker); found >= 0 {
			index = from + found
		}
		s.searched = len(buffered)
	}

	if index < 0 {
		s.thoughts = StripLabel(buffered, s.config.LabelPrefix)
		if isPartialLabel(s.thoughts, s.config.LabelPrefix) {
			s.thoughts = ""
		}
		s.notify()
		return
	}

	s.thoughts = strings.TrimSpace(StripLabel(buffered[:index], s.config.LabelPrefix))
	s.payload.WriteString(buffered[index+len(s.config.Marker):])
	s.phase = Payload
	s.notify()
}

func (s *Splitter) notify() {
	if s.config.OnThought != nil {
		s.config.OnThought(s.thoughts)
	}
}

// Phase returns the current phase.
func (s *Splitter) Phase() Phase {
	return s.phase
}

// Thoughts returns the thought text seen so far, label prefix stripped.
// After the transition to Payload it is final and whitespace-trimmed.
func (s *Splitter) Thoughts() string {
	return s.thoughts
}

// Payload returns the text received after the marker. It is empty while
// the splitter is still in the Thinking phase.
func (s *Splitter) Payload() string {
	return s.payload.String()
}

// Raw returns the text accumulated during the Thinking phase, label prefix
// included. When no marker was seen this is the whole stream; otherwise it
// ends with the chunk that completed the marker.
func (s *Splitter) Raw() string {
	return s.rolling.String()
}

// State is an immutable snapshot of a Splitter.
type State struct {
	Phase    Phase
	Thoughts string
	Payload  string
	Raw      string
}

// Snapshot returns the current state of the splitter.
func (s *Splitter) Snapshot() State {
	return State{
		Phase:    s.phase,
		Thoughts: s.thoughts,
		Payload:  s.payload.String(),
		Raw:      s.rolling.String(),
	}
}

// isPartialLabel reports whether text is the start of a label that has not
// been fully received yet.
func isPartialLabel(text, prefix string) bool {
	return text != "" && len(text) < len(prefix) && strings.HasPrefix(prefix, text)
}

// StripLabel removes prefix from the start of text, ignoring leading
// whitespace before it. Text without the prefix is returned unchanged apart
// from that leading whitespace.
func StripLabel(text, prefix string) string {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if prefix == "" {
		return trimmed
	}
	if stripped, ok := strings.CutPrefix(trimmed, prefix); ok {
		return strings.TrimLeft(stripped, " \t\r\n")
	}
	return trimmed
}
