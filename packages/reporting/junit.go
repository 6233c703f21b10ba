package reporting

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/slate-framework/slate/packages/session"
)

// JUnit XML structures

type junitTestSuites struct {
	XMLName   xml.Name         `xml:"testsuites"`
	Name      string           `xml:"name,attr,omitempty"`
	Tests     int              `xml:"tests,attr"`
	Failures  int              `xml:"failures,attr"`
	Errors    int              `xml:"errors,attr"`
	Skipped   int              `xml:"skipped,attr"`
	Time      float64          `xml:"time,attr"`
	Timestamp string           `xml:"timestamp,attr,omitempty"`
	Suites    []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Errors   int             `xml:"errors,attr"`
	Skipped  int             `xml:"skipped,attr"`
	Time     float64         `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *junitDetail  `xml:"failure,omitempty"`
	Error     *junitDetail  `xml:"error,omitempty"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
}

type junitDetail struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

type junitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitReporter accumulates a session and writes it as JUnit XML, one
// testsuite per source file, when flushed.
type JUnitReporter struct {
	writer  io.Writer
	session *session.Session
}

type JUnitOption func(*JUnitReporter)

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(r *JUnitReporter) {
		r.writer = w
	}
}

func NewJUnitReporter(opts ...JUnitOption) *JUnitReporter {
	r := &JUnitReporter{writer: os.Stdout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *JUnitReporter) SessionStart(s *session.Session) {}
func (r *JUnitReporter) FileStart(filename string)       {}
func (r *JUnitReporter) FileEnd(filename string)         {}
func (r *JUnitReporter) TestSuccess(res *session.Result) {}
func (r *JUnitReporter) TestSkip(res *session.Result)    {}
func (r *JUnitReporter) TestError(res *session.Result)   {}
func (r *JUnitReporter) TestFailure(res *session.Result) {}

// SessionEnd captures the finished session for Flush.
func (r *JUnitReporter) SessionEnd(s *session.Session) {
	r.session = s
}

// Flush writes the accumulated JUnit XML output.
func (r *JUnitReporter) Flush() error {
	if r.session == nil {
		return fmt.Errorf("no session to report")
	}

	var suites []junitTestSuite
	suiteIndex := make(map[string]int)

	for _, res := range r.session.Results.All() {
		suiteName := session.GlobalLocation
		caseName := session.GlobalLocation
		if res.Test != nil {
			suiteName = res.Test.File
			caseName = res.Test.Name
		}

		idx, ok := suiteIndex[suiteName]
		if !ok {
			suites = append(suites, junitTestSuite{Name: suiteName})
			idx = len(suites) - 1
			suiteIndex[suiteName] = idx
		}
		suite := &suites[idx]

		tc := junitTestCase{
			Name:      caseName,
			ClassName: suiteName,
			Time:      res.Duration.Seconds(),
		}

		switch {
		case res.Skipped:
			suite.Skipped++
			tc.Skipped = &junitSkipped{Message: res.SkipReason}
		case len(res.Errors()) > 0:
			suite.Errors++
			tc.Error = &junitDetail{
				Message: res.Errors()[0].Message,
				Type:    "Error",
				Content: recordDetails(res.Errors()),
			}
		case len(res.Failures()) > 0:
			suite.Failures++
			tc.Failure = &junitDetail{
				Message: res.Failures()[0].Message,
				Type:    "AssertionError",
				Content: recordDetails(res.Failures()),
			}
		}

		suite.Tests++
		suite.Time += res.Duration.Seconds()
		suite.Cases = append(suite.Cases, tc)
	}

	root := junitTestSuites{
		Name:      "slate",
		Failures:  r.session.Results.NumFailures(),
		Errors:    r.session.Results.NumErrors(),
		Time:      r.session.Duration.Seconds(),
		Timestamp: time.Now().Format(time.RFC3339),
		Suites:    suites,
	}
	for _, s := range suites {
		root.Tests += s.Tests
		root.Skipped += s.Skipped
	}

	fmt.Fprintf(r.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(r.writer)
	encoder.Indent("", "  ")
	return encoder.Encode(root)
}

// recordDetails concatenates record messages with their traceback positions
// into the detail body of a failure or error element.
func recordDetails(records []*session.Err) string {
	var b strings.Builder
	for _, rec := range records {
		b.WriteString(rec.Message)
		b.WriteString("\n")
		if rec.Traceback != nil {
			for _, f := range rec.Traceback.Frames {
				fmt.Fprintf(&b, "  %s:%d:\n", f.Filename, f.Lineno)
			}
		}
	}
	return b.String()
}
