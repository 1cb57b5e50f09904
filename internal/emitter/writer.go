package emitter

import (
	"bytes"
	"fmt"
	"strings"
)

// Writer is an append-only source builder. Append adds to the current line,
// Eol ends it; a new line starts at the current indentation.
type Writer struct {
	buf       bytes.Buffer
	indent    int
	lineStart bool
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{lineStart: true}
}

// Append formats text onto the current line.
func (w *Writer) Append(format string, args ...any) *Writer {
	if w.lineStart {
		w.buf.WriteString(strings.Repeat("\t", w.indent))
		w.lineStart = false
	}
	if len(args) == 0 {
		w.buf.WriteString(format)
	} else {
		fmt.Fprintf(&w.buf, format, args...)
	}
	return w
}

// Eol ends the current line.
func (w *Writer) Eol() *Writer {
	w.buf.WriteByte('\n')
	w.lineStart = true
	return w
}

// Line appends one complete line.
func (w *Writer) Line(format string, args ...any) *Writer {
	return w.Append(format, args...).Eol()
}

// Comment writes text as // comment lines.
func (w *Writer) Comment(text string) *Writer {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			w.Line("//")
			continue
		}
		w.Line("// %s", line)
	}
	return w
}

// Indent increases the indentation of following lines.
func (w *Writer) Indent() *Writer {
	w.indent++
	return w
}

// Dedent decreases the indentation of following lines.
func (w *Writer) Dedent() *Writer {
	if w.indent > 0 {
		w.indent--
	}
	return w
}

// Bytes returns the text written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// String returns the text written so far.
func (w *Writer) String() string {
	return w.buf.String()
}
