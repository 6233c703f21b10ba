// Package session holds the result data of a finished test session.
//
// A Session aggregates per-test Results; each Result carries the error and
// failure records collected for that test, including captured tracebacks
// with source context and variable snapshots. The reporting packages consume
// this model read-only.
package session

import (
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// GlobalLocation is the location string used for errors and failures that
// are not attributable to a specific test.
const GlobalLocation = "**global**"

// Session is a finished test-execution session.
type Session struct {
	ID       string
	Started  time.Time
	Duration time.Duration
	Results  *Results
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{Results: NewResults()}
}

// TestInfo identifies a single test within a session.
type TestInfo struct {
	File string
	Name string
}

// FQN returns the fully-qualified test identifier.
func (t *TestInfo) FQN() string {
	if t.Name == "" {
		return t.File
	}
	return t.File + ":" + t.Name
}

// Variable is the rendered snapshot of a single local or global variable.
type Variable struct {
	Value string
}

// Frame is one stack level of a captured traceback.
type Frame struct {
	Filename   string
	Lineno     int
	CodeString string // full multi-line excerpt, empty when unavailable
	CodeLine   string // the single faulting line
	Locals     *orderedmap.OrderedMap[string, Variable]
	Globals    *orderedmap.OrderedMap[string, Variable]
}

// NewFrame creates a frame with empty variable snapshots.
func NewFrame(filename string, lineno int) *Frame {
	return &Frame{
		Filename: filename,
		Lineno:   lineno,
		Locals:   orderedmap.New[string, Variable](),
		Globals:  orderedmap.New[string, Variable](),
	}
}

// HasVariables reports whether the frame captured any locals or globals.
func (f *Frame) HasVariables() bool {
	return (f.Locals != nil && f.Locals.Len() > 0) || (f.Globals != nil && f.Globals.Len() > 0)
}

// Traceback is an ordered list of frames, outermost first.
type Traceback struct {
	Frames []*Frame
}

// Err is a single error or failure record attached to a result.
type Err struct {
	Message   string
	Traceback *Traceback // nil when no traceback was captured
}

// Result is the outcome of a single test, or of the session's global scope
// when Test is nil.
type Result struct {
	Test       *TestInfo
	Duration   time.Duration
	Skipped    bool
	SkipReason string

	errors   []*Err
	failures []*Err
}

// NewResult creates a result for the given test. A nil test denotes the
// global scope.
func NewResult(test *TestInfo) *Result {
	return &Result{Test: test}
}

// Location returns the test's fully-qualified identifier, or GlobalLocation
// for the global result.
func (r *Result) Location() string {
	if r.Test == nil {
		return GlobalLocation
	}
	return r.Test.FQN()
}

// AddError attaches an error record.
func (r *Result) AddError(e *Err) {
	r.errors = append(r.errors, e)
}

// AddFailure attaches a failure record.
func (r *Result) AddFailure(e *Err) {
	r.failures = append(r.failures, e)
}

// Errors returns the error records in attachment order.
func (r *Result) Errors() []*Err {
	return r.errors
}

// Failures returns the failure records in attachment order.
func (r *Result) Failures() []*Err {
	return r.failures
}

// IsSuccess reports whether the result has no errors and no failures.
func (r *Result) IsSuccess() bool {
	return len(r.errors) == 0 && len(r.failures) == 0
}

// ResultErrors pairs a result with a subset of its records, grouped the way
// the summary renderers consume them.
type ResultErrors struct {
	Result  *Result
	Records []*Err
}

// Results is the insertion-ordered collection of a session's results.
type Results struct {
	results []*Result
	global  *Result
}

// NewResults creates an empty collection.
func NewResults() *Results {
	return &Results{}
}

// Add appends a test result.
func (rs *Results) Add(r *Result) {
	rs.results = append(rs.results, r)
}

// Global returns the session-global result, creating it on first use.
func (rs *Results) Global() *Result {
	if rs.global == nil {
		rs.global = NewResult(nil)
	}
	return rs.global
}

// All returns every result in insertion order, with the global result last
// when it exists.
func (rs *Results) All() []*Result {
	out := make([]*Result, 0, len(rs.results)+1)
	out = append(out, rs.results...)
	if rs.global != nil {
		out = append(out, rs.global)
	}
	return out
}

// IsSuccess reports whether no result carries errors or failures.
func (rs *Results) IsSuccess() bool {
	for _, r := range rs.All() {
		if !r.IsSuccess() {
			return false
		}
	}
	return true
}

// NumErrors returns the total number of error records in the session.
func (rs *Results) NumErrors() int {
	n := 0
	for _, r := range rs.All() {
		n += len(r.Errors())
	}
	return n
}

// NumFailures returns the total number of failure records in the session.
func (rs *Results) NumFailures() int {
	n := 0
	for _, r := range rs.All() {
		n += len(r.Failures())
	}
	return n
}

// AllErrors returns (result, errors) pairs for every result that has at
// least one error record.
func (rs *Results) AllErrors() []ResultErrors {
	var out []ResultErrors
	for _, r := range rs.All() {
		if len(r.Errors()) > 0 {
			out = append(out, ResultErrors{Result: r, Records: r.Errors()})
		}
	}
	return out
}

// AllFailures returns (result, failures) pairs for every result that has at
// least one failure record.
func (rs *Results) AllFailures() []ResultErrors {
	var out []ResultErrors
	for _, r := range rs.All() {
		if len(r.Failures()) > 0 {
			out = append(out, ResultErrors{Result: r, Records: r.Failures()})
		}
	}
	return out
}
