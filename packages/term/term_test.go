package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestWriteAndLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithNoColor(true))

	w.Write("hello ")
	w.Write("world", color.FgRed, color.Bold)
	w.Line("")

	assert.Equal(t, "hello world\n", buf.String())
}

func TestSepWithTitle(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithNoColor(true), WithWidth(20))

	w.Sep("=", "TITLE")

	line := strings.TrimSuffix(buf.String(), "\n")
	assert.Contains(t, line, " TITLE ")
	assert.True(t, strings.HasPrefix(line, "======"))
	assert.True(t, len(line) <= 20)
}

func TestSepWithoutTitle(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithNoColor(true), WithWidth(10))

	w.Sep("- ", "")

	// "- " repeats to fill the width exactly; the stripped trailing
	// separator would overflow, so it is not appended.
	assert.Equal(t, "- - - - - \n", buf.String())
}

func TestSepNarrowWidthStillRendersTitle(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithNoColor(true), WithWidth(4))

	w.Sep("=", "a rather long title")

	assert.Equal(t, "= a rather long title =\n", buf.String())
}
