// Package wrap splits source text lines into fixed-width chunks.
package wrap

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// DefaultWidth is the chunk width used when none is configured.
const DefaultWidth = 80

// Wrapper lazily re-segments lines read from a reader into chunks of at most
// width characters. Concatenating every chunk reproduces the concatenation of
// the source lines. A Wrapper is consumed once, in order.
type Wrapper struct {
	reader *bufio.Reader
	width  int
	buffer string
	chunk  string
	eof    bool
	err    error
}

// New returns a Wrapper over r. Widths below 1 are treated as 1.
func New(r io.Reader, width int) *Wrapper {
	if width < 1 {
		width = 1
	}
	return &Wrapper{
		reader: bufio.NewReader(r),
		width:  width,
	}
}

// Next advances to the next chunk. It returns false when the source is
// exhausted or a read error occurred; Err reports which.
func (w *Wrapper) Next() bool {
	if w.err != nil {
		return false
	}
	if w.buffer == "" {
		line, ok := w.readLine()
		if !ok {
			w.chunk = ""
			return false
		}
		w.buffer = line
	}
	cut := splitIndex(w.buffer, w.width)
	w.chunk, w.buffer = w.buffer[:cut], w.buffer[cut:]
	return true
}

// Chunk returns the chunk produced by the last successful Next.
func (w *Wrapper) Chunk() string {
	return w.chunk
}

// Err returns the first read error encountered, if any.
func (w *Wrapper) Err() error {
	return w.err
}

// Width returns the effective chunk width.
func (w *Wrapper) Width() int {
	return w.width
}

// readLine returns the next source line without its "\n" or "\r\n"
// terminator. A final line without a terminator is still returned.
func (w *Wrapper) readLine() (string, bool) {
	if w.eof {
		return "", false
	}
	line, err := w.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			w.err = err
			return "", false
		}
		w.eof = true
		if line == "" {
			return "", false
		}
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true
}

// splitIndex returns the byte offset just past the first width characters of
// s, or len(s) when s is not longer than width.
func splitIndex(s string, width int) int {
	count := 0
	for i := range s {
		if count == width {
			return i
		}
		count++
	}
	return len(s)
}
