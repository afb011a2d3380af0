package source

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"unicode/utf8"
)

// DefaultChunkSize is the read size used by [Reader] when size <= 0.
const DefaultChunkSize = 512

// Strings yields chunks in order.
func Strings(chunks ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, chunk := range chunks {
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// Reader yields the text of r in reads of up to size bytes. A multi-byte
// UTF-8 sequence split by a read is held back and completed by the next one.
// Any read error other than io.EOF is yielded and ends the sequence.
func Reader(r io.Reader, size int) iter.Seq2[string, error] {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return func(yield func(string, error) bool) {
		buf := make([]byte, size+utf8.UTFMax)
		pending := 0

		for {
			n, err := r.Read(buf[pending : pending+size])
			n += pending
			pending = 0

			if n > 0 {
				complete := completePrefix(buf[:n])
				if err == nil && complete < n {
					pending = copy(buf, buf[complete:n])
				} else {
					complete = n
				}
				if complete > 0 && !yield(string(buf[:complete]), nil) {
					return
				}
			}

			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield("", fmt.Errorf("read stream: %w", err))
				}
				return
			}
		}
	}
}

// completePrefix returns the length of the longest prefix of data that does
// not end inside an incomplete UTF-8 sequence.
func completePrefix(data []byte) int {
	for back := 1; back <= utf8.UTFMax && back <= len(data); back++ {
		start := len(data) - back
		if !utf8.RuneStart(data[start]) {
			continue
		}
		if utf8.FullRune(data[start:]) {
			return len(data)
		}
		return start
	}
	return len(data)
}
