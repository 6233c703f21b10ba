// Package term provides the styled terminal writer the reporters write
// through. It only composes output; color-code emission is delegated to
// fatih/color and terminal capability detection is out of scope (separator
// width is a fixed, configurable value).
package term

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// DefaultWidth is the separator width used when none is configured.
const DefaultWidth = 80

// Writer writes plain and styled text to an output sink.
type Writer struct {
	w       io.Writer
	width   int
	noColor bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithWidth sets the full width used by Sep.
func WithWidth(width int) Option {
	return func(t *Writer) {
		t.width = width
	}
}

// WithNoColor disables styling, leaving plain text only.
func WithNoColor(noColor bool) Option {
	return func(t *Writer) {
		t.noColor = noColor
	}
}

// NewWriter creates a Writer over w. A nil w defaults to stderr.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	if w == nil {
		w = os.Stderr
	}
	t := &Writer{w: w, width: DefaultWidth}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Writer) styled(attrs []color.Attribute) *color.Color {
	c := color.New(attrs...)
	if t.noColor {
		c.DisableColor()
	}
	return c
}

// Write writes s, styled when attributes are given.
func (t *Writer) Write(s string, attrs ...color.Attribute) {
	if len(attrs) == 0 {
		fmt.Fprint(t.w, s)
		return
	}
	t.styled(attrs).Fprint(t.w, s)
}

// Line writes s followed by a newline.
func (t *Writer) Line(s string, attrs ...color.Attribute) {
	t.Write(s, attrs...)
	fmt.Fprint(t.w, "\n")
}

// Sep writes a full-width separator built from sepChar, with the title
// centered when non-empty.
func (t *Writer) Sep(sepChar, title string, attrs ...color.Attribute) {
	var line string
	if title != "" {
		n := (t.width - len(title) - 2) / (2 * len(sepChar))
		if n < 1 {
			n = 1
		}
		fill := strings.Repeat(sepChar, n)
		line = fill + " " + title + " " + fill
	} else {
		line = strings.Repeat(sepChar, t.width/len(sepChar))
	}
	trimmed := strings.TrimRight(sepChar, " ")
	if len(line)+len(trimmed) <= t.width {
		line += trimmed
	}
	t.Line(line, attrs...)
}
