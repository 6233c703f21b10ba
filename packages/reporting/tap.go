package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/slate-framework/slate/packages/session"
)

// TAPReporter accumulates a session and writes it in TAP (Test Anything
// Protocol) version 13 format when flushed.
type TAPReporter struct {
	writer  io.Writer
	session *session.Session
}

type TAPOption func(*TAPReporter)

func TAPWithWriter(w io.Writer) TAPOption {
	return func(r *TAPReporter) {
		r.writer = w
	}
}

func NewTAPReporter(opts ...TAPOption) *TAPReporter {
	r := &TAPReporter{writer: os.Stdout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TAPReporter) SessionStart(s *session.Session) {}
func (r *TAPReporter) FileStart(filename string)       {}
func (r *TAPReporter) FileEnd(filename string)         {}
func (r *TAPReporter) TestSuccess(res *session.Result) {}
func (r *TAPReporter) TestSkip(res *session.Result)    {}
func (r *TAPReporter) TestError(res *session.Result)   {}
func (r *TAPReporter) TestFailure(res *session.Result) {}

// SessionEnd captures the finished session for Flush.
func (r *TAPReporter) SessionEnd(s *session.Session) {
	r.session = s
}

// Flush writes the accumulated TAP output.
func (r *TAPReporter) Flush() error {
	if r.session == nil {
		return fmt.Errorf("no session to report")
	}

	all := r.session.Results.All()
	fmt.Fprintf(r.writer, "TAP version 13\n")
	fmt.Fprintf(r.writer, "1..%d\n", len(all))

	for i, res := range all {
		number := i + 1
		location := res.Location()

		if res.Skipped {
			reason := res.SkipReason
			if reason == "" {
				reason = "SKIP"
			}
			fmt.Fprintf(r.writer, "ok %d - %s # SKIP %s\n", number, location, reason)
			continue
		}

		if res.IsSuccess() {
			fmt.Fprintf(r.writer, "ok %d - %s\n", number, location)
			continue
		}

		fmt.Fprintf(r.writer, "not ok %d - %s\n", number, location)
		fmt.Fprintf(r.writer, "  ---\n")
		if errs := res.Errors(); len(errs) > 0 {
			fmt.Fprintf(r.writer, "  errors:\n")
			for _, rec := range errs {
				fmt.Fprintf(r.writer, "    - %s\n", escapeYAML(rec.Message))
			}
		}
		if fails := res.Failures(); len(fails) > 0 {
			fmt.Fprintf(r.writer, "  failures:\n")
			for _, rec := range fails {
				fmt.Fprintf(r.writer, "    - %s\n", escapeYAML(rec.Message))
			}
		}
		fmt.Fprintf(r.writer, "  ...\n")
	}

	fmt.Fprintln(r.writer)
	return nil
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}
