// Package render formats thoughts for terminal output.
package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// htmlTag detects the block and inline tags models sometimes emit in their
// reasoning.
var htmlTag = regexp.MustCompile(`(?i)</?(p|br|div|span|ul|ol|li|b|strong|em|i|code|pre|h[1-6]|a|blockquote|table|tr|td)\b[^>]*>`)

// LooksLikeHTML reports whether text contains HTML markup.
func LooksLikeHTML(text string) bool {
	return htmlTag.MatchString(text)
}

// Markdown converts HTML thoughts to Markdown. Text without markup is
// returned unchanged.
func Markdown(text string) (string, error) {
	if !LooksLikeHTML(text) {
		return text, nil
	}

	markdown, err := htmltomarkdown.ConvertString(text)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

// ThoughtPrinter echoes live thoughts to a writer, printing only what was
// appended since the last update. The last holdBack bytes of each update are
// withheld so a partially received marker is never shown.
type ThoughtPrinter struct {
	mu       sync.Mutex
	out      io.Writer
	holdBack int
	printed  string
}

// NewThoughtPrinter creates a printer writing to out. holdBack is usually
// len(marker)-1.
func NewThoughtPrinter(out io.Writer, holdBack int) *ThoughtPrinter {
	return &ThoughtPrinter{out: out, holdBack: max(holdBack, 0)}
}

// Update is a pipeline thought callback.
func (p *ThoughtPrinter) Update(thoughts string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	end := max(len(thoughts)-p.holdBack, 0)
	for end > 0 && end < len(thoughts) && !utf8.RuneStart(thoughts[end]) {
		end--
	}
	p.emit(thoughts[:end])
}

// Finish prints the rest of the final thoughts and terminates the line.
func (p *ThoughtPrinter) Finish(final string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.emit(final)
	if p.printed != "" && !strings.HasSuffix(p.printed, "\n") {
		_, _ = io.WriteString(p.out, "\n")
	}
}

// emit writes the part of visible not printed yet. Updates that do not
// extend the printed text, such as trimmed final thoughts, are dropped.
func (p *ThoughtPrinter) emit(visible string) {
	if !strings.HasPrefix(visible, p.printed) {
		return
	}
	if delta := visible[len(p.printed):]; delta != "" {
		_, _ = io.WriteString(p.out, delta)
		p.printed = visible
	}
}
