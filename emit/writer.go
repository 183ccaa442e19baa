package emit

import (
	"fmt"
	"strings"
)

// Writer accumulates indented target source.
type Writer struct {
	b    strings.Builder
	opts Options
}

// NewWriter returns a writer indenting by opts.Indent spaces per level.
func NewWriter(opts Options) *Writer {
	return &Writer{opts: opts}
}

// Line writes one indented line. An empty format writes a blank line.
func (w *Writer) Line(level int, format string, args ...interface{}) {
	if format == "" {
		w.b.WriteByte('\n')
		return
	}
	w.b.WriteString(w.opts.Pad(level))
	if len(args) > 0 {
		fmt.Fprintf(&w.b, format, args...)
	} else {
		w.b.WriteString(format)
	}
	w.b.WriteByte('\n')
}

// Len returns the number of bytes written.
func (w *Writer) Len() int { return w.b.Len() }

func (w *Writer) String() string { return w.b.String() }

// DocLines splits a doc comment into lines, trimming trailing blanks and
// dropping empty leading and trailing lines.
func DocLines(doc string) []string {
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
