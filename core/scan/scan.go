package scan

import "strings"

// Span is an inclusive byte range [Start, End] within a text.
type Span struct {
	Start int
	End   int
}

// Slice returns the substring of text covered by the span.
func (span Span) Slice(text string) string {
	return text[span.Start : span.End+1]
}

// Len returns the number of bytes covered by the span.
func (span Span) Len() int {
	return span.End - span.Start + 1
}

// FindBalancedObject returns the span of the first balanced {...} region that
// begins at or after start. Braces inside double-quoted strings are ignored
// and a backslash inside a string escapes the byte that follows it.
//
// The second return value is false when the text holds no '{' at or after
// start, or when the brace depth never returns to zero (a truncated object).
func FindBalancedObject(text string, start int) (Span, bool) {
	if start < 0 {
		start = 0
	}
	if start >= len(text) {
		return Span{}, false
	}

	offset := strings.IndexByte(text[start:], '{')
	if offset < 0 {
		return Span{}, false
	}
	open := start + offset

	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return Span{Start: open, End: i}, true
			}
		}
	}

	return Span{}, false
}

// LastClosingBrace returns the index of the last literal '}' at or after
// from, or -1 when there is none. String context is not considered: callers
// use it only as a best-effort end marker for truncated payloads.
func LastClosingBrace(text string, from int) int {
	if from < 0 {
		from = 0
	}
	if from >= len(text) {
		return -1
	}
	index := strings.LastIndexByte(text[from:], '}')
	if index < 0 {
		return -1
	}
	return from + index
}
