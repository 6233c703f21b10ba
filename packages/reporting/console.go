package reporting

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/fatih/color"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/slate-framework/slate/packages/session"
	"github.com/slate-framework/slate/packages/term"
)

// ConsoleReporter renders a session's lifecycle to a terminal stream:
// progress markers while tests run, per-file PASS/FAIL lines, and a
// session-end summary whose detail depends on the configured verbosity.
//
// Below the Error threshold the summary lists every failure and error with
// its traceback, source context and variable snapshots; above it a concise
// one-line-per-result form is used instead.
type ConsoleReporter struct {
	level   Verbosity
	term    *term.Writer
	writer  io.Writer
	width   int
	noColor bool

	// Per-file state, valid between FileStart and the matching FileEnd.
	fileFailed   bool
	fileHasSkips bool
}

// ConsoleOption configures a ConsoleReporter.
type ConsoleOption func(*ConsoleReporter)

// WithWriter sets the output sink. Defaults to stderr.
func WithWriter(w io.Writer) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.writer = w
	}
}

// WithNoColor disables styled output.
func WithNoColor(noColor bool) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.noColor = noColor
	}
}

// WithWidth sets the separator width.
func WithWidth(width int) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.width = width
	}
}

// NewConsoleReporter creates a reporter with a fixed verbosity threshold.
func NewConsoleReporter(level Verbosity, opts ...ConsoleOption) *ConsoleReporter {
	r := &ConsoleReporter{
		level: level,
		width: term.DefaultWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.term = term.NewWriter(r.writer, term.WithWidth(r.width), term.WithNoColor(r.noColor))
	return r
}

// SessionStart writes the opening separator.
func (r *ConsoleReporter) SessionStart(s *session.Session) {
	if r.level > Error {
		return
	}
	r.term.Sep("=", "Session starts", color.FgWhite, color.Bold)
}

// SessionEnd writes the summary: detailed failure and error listings below
// the Error threshold, the concise per-result form otherwise, then the
// closing separator with totals and duration.
func (r *ConsoleReporter) SessionEnd(s *session.Session) {
	if r.level > Warning {
		// break the sequence of dots before the summary
		r.term.Write("\n")
	}

	if r.level <= Error {
		r.reportRecordGroups("FAILURES", s.Results.AllFailures(), "F")
		r.reportRecordGroups("ERRORS", s.Results.AllErrors(), "E")
	} else if r.level <= Critical {
		r.reportConcise(s)
	}

	msg := "Session ended."
	attrs := []color.Attribute{color.Bold}
	if s.Results.IsSuccess() {
		attrs = append(attrs, color.FgGreen)
	} else {
		attrs = append(attrs, color.FgRed)
		msg += fmt.Sprintf(" %d failures, %d errors.", s.Results.NumFailures(), s.Results.NumErrors())
	}
	msg += " Total duration: " + formatDuration(s.Duration)
	r.term.Sep("=", msg, attrs...)
}

// FileStart resets the per-file flags and writes the filename.
func (r *ConsoleReporter) FileStart(filename string) {
	if r.level > Warning {
		return
	}
	r.fileFailed = false
	r.fileHasSkips = false
	r.term.Write(filename)
	r.term.Write(" ")
}

// FileEnd writes the file's PASS/FAIL verdict.
func (r *ConsoleReporter) FileEnd(filename string) {
	if r.level > Warning {
		return
	}
	r.term.Write("  ")
	switch {
	case r.fileFailed:
		r.term.Line("FAIL", color.FgRed)
	case r.fileHasSkips:
		r.term.Line("PASS", color.FgYellow)
	default:
		r.term.Line("PASS", color.FgGreen)
	}
}

// TestSuccess writes the success marker.
func (r *ConsoleReporter) TestSuccess(res *session.Result) {
	r.term.Write(".")
}

// TestSkip writes the skip marker and marks the file as having skips.
func (r *ConsoleReporter) TestSkip(res *session.Result) {
	r.term.Write("s", color.FgYellow)
	r.fileHasSkips = true
}

// TestError writes the error marker and marks the file failed.
func (r *ConsoleReporter) TestError(res *session.Result) {
	r.fileFailed = true
	r.term.Write("E", color.FgRed)
}

// TestFailure writes the failure marker and marks the file failed.
func (r *ConsoleReporter) TestFailure(res *session.Result) {
	r.fileFailed = true
	r.term.Write("F", color.FgRed)
}

func (r *ConsoleReporter) reportRecordGroups(title string, groups []session.ResultErrors, marker string) {
	r.term.Sep("=", title)
	for _, g := range groups {
		location := g.Result.Location()
		for _, rec := range g.Records {
			r.term.Sep("_", location)
			r.reportRecord(rec, marker)
		}
	}
}

func (r *ConsoleReporter) reportConcise(s *session.Session) {
	for _, res := range s.Results.All() {
		if len(res.Errors()) == 0 && len(res.Failures()) == 0 {
			continue
		}
		r.term.Write(res.Location())
		r.term.Write(":")
		if n := len(res.Errors()); n > 0 {
			r.term.Write(fmt.Sprintf(" %d errors", n))
		}
		if n := len(res.Failures()); n > 0 {
			r.term.Write(fmt.Sprintf(" %d failures", n))
		}
		r.term.Write("\n")
	}
}

func (r *ConsoleReporter) reportRecord(rec *session.Err, marker string) {
	var frames []*session.Frame
	switch {
	case rec.Traceback == nil || len(rec.Traceback.Frames) == 0:
		// no traceback: nothing beyond the location separator
	case r.level > Warning:
		frames = rec.Traceback.Frames[len(rec.Traceback.Frames)-1:]
	default:
		frames = rec.Traceback.Frames
	}

	for i, frame := range frames {
		if i > 0 {
			r.term.Sep("- ", "")
		}
		r.writeFrameVariables(frame)
		lastLine := r.writeFrameCode(frame)
		if i == len(frames)-1 {
			r.term.Write(marker, color.FgRed, color.Bold)
			r.term.Write(leadingWhitespace(lastLine))
			r.term.Write(rec.Message, color.FgRed, color.Bold)
			r.term.Write("\n")
		}
		r.term.Write(fmt.Sprintf("%s:%d:\n", frame.Filename, frame.Lineno))
	}
}

// writeFrameVariables prints the frame's locals then globals on one line,
// comma separated, in the snapshots' insertion order.
func (r *ConsoleReporter) writeFrameVariables(frame *session.Frame) {
	if r.level > Warning {
		return
	}
	if !frame.HasVariables() {
		return
	}
	index := 0
	writeSnapshot := func(m *orderedmap.OrderedMap[string, session.Variable]) {
		if m == nil {
			return
		}
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			if index > 0 {
				r.term.Write(", ")
			}
			r.term.Write(pair.Key+": ", color.FgCyan, color.BlinkSlow)
			r.term.Write(pair.Value.Value)
			index++
		}
	}
	writeSnapshot(frame.Locals)
	writeSnapshot(frame.Globals)
	r.term.Write("\n\n")
}

// writeFrameCode prints the frame's code excerpt and returns the last line
// printed, so the caller can align the error message under it.
func (r *ConsoleReporter) writeFrameCode(frame *session.Frame) string {
	if frame.CodeString == "" {
		return ""
	}
	var lines []string
	if r.level <= Warning {
		lines = strings.Split(strings.TrimSuffix(frame.CodeString, "\n"), "\n")
	} else {
		lines = []string{frame.CodeLine}
	}
	for i, line := range lines {
		if i == len(lines)-1 {
			r.term.Write(">", color.FgWhite, color.Bold)
		} else {
			r.term.Write(" ")
		}
		r.term.Write(line, color.FgWhite, color.Bold)
		r.term.Write("\n")
	}
	return lines[len(lines)-1]
}

func leadingWhitespace(s string) string {
	for i, c := range s {
		if !unicode.IsSpace(c) {
			return s[:i]
		}
	}
	return s
}

// formatDuration renders a duration as zero-padded HH:MM:SS, floored to
// whole seconds. Hours are not truncated beyond the two-digit padding.
func formatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
