// Package record persists finished test sessions as versioned JSON
// documents, so they can be rendered, archived and compared after the run.
//
// Variable snapshots are serialized as ordered name/value arrays; JSON
// objects would lose the insertion order the reporters rely on.
package record

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/slate-framework/slate/packages/session"
)

type document struct {
	Version  int         `json:"version"`
	ID       string      `json:"id,omitempty"`
	Started  string      `json:"started,omitempty"`
	Duration float64     `json:"duration"`
	Results  []resultDoc `json:"results"`
}

type resultDoc struct {
	Test       *testDoc `json:"test,omitempty"`
	Duration   float64  `json:"duration,omitempty"`
	Skipped    bool     `json:"skipped,omitempty"`
	SkipReason string   `json:"skip_reason,omitempty"`
	Errors     []errDoc `json:"errors,omitempty"`
	Failures   []errDoc `json:"failures,omitempty"`
}

type testDoc struct {
	File string `json:"file"`
	Name string `json:"name,omitempty"`
}

type errDoc struct {
	Message   string        `json:"message"`
	Traceback *tracebackDoc `json:"traceback,omitempty"`
}

type tracebackDoc struct {
	Frames []frameDoc `json:"frames"`
}

type frameDoc struct {
	Filename   string   `json:"filename"`
	Lineno     int      `json:"lineno"`
	CodeString string   `json:"code_string,omitempty"`
	CodeLine   string   `json:"code_line,omitempty"`
	Locals     []varDoc `json:"locals,omitempty"`
	Globals    []varDoc `json:"globals,omitempty"`
}

type varDoc struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Load reads and decodes a session record file.
func Load(path string) (*session.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	return Parse(data)
}

// Parse decodes a session record document, validating it against the
// embedded schema first.
func Parse(data []byte) (*session.Session, error) {
	version := gjson.GetBytes(data, "version")
	if !version.Exists() {
		return nil, fmt.Errorf("not a session record: missing version field")
	}
	if version.Int() != Version {
		return nil, fmt.Errorf("unsupported record version %d (supported: %d)", version.Int(), Version)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validating record: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid record: %s", strings.Join(msgs, "; "))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return doc.toSession()
}

// Save writes a session record file with the conventional 0644 mode.
func Save(path string, s *session.Session) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// Marshal encodes a session as an indented record document.
func Marshal(s *session.Session) ([]byte, error) {
	doc := fromSession(s)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return append(data, '\n'), nil
}

func (d *document) toSession() (*session.Session, error) {
	s := session.NewSession()
	s.ID = d.ID
	s.Duration = time.Duration(d.Duration * float64(time.Second))
	if d.Started != "" {
		started, err := time.Parse(time.RFC3339, d.Started)
		if err != nil {
			return nil, fmt.Errorf("decoding record: bad started timestamp: %w", err)
		}
		s.Started = started
	}

	for _, rd := range d.Results {
		var res *session.Result
		if rd.Test == nil {
			res = s.Results.Global()
		} else {
			res = session.NewResult(&session.TestInfo{File: rd.Test.File, Name: rd.Test.Name})
			s.Results.Add(res)
		}
		res.Duration = time.Duration(rd.Duration * float64(time.Second))
		res.Skipped = rd.Skipped
		res.SkipReason = rd.SkipReason
		for _, ed := range rd.Errors {
			res.AddError(ed.toErr())
		}
		for _, fd := range rd.Failures {
			res.AddFailure(fd.toErr())
		}
	}
	return s, nil
}

func (e *errDoc) toErr() *session.Err {
	out := &session.Err{Message: e.Message}
	if e.Traceback == nil {
		return out
	}
	tb := &session.Traceback{}
	for _, fd := range e.Traceback.Frames {
		frame := session.NewFrame(fd.Filename, fd.Lineno)
		frame.CodeString = fd.CodeString
		frame.CodeLine = fd.CodeLine
		for _, v := range fd.Locals {
			frame.Locals.Set(v.Name, session.Variable{Value: v.Value})
		}
		for _, v := range fd.Globals {
			frame.Globals.Set(v.Name, session.Variable{Value: v.Value})
		}
		tb.Frames = append(tb.Frames, frame)
	}
	out.Traceback = tb
	return out
}

func fromSession(s *session.Session) *document {
	doc := &document{
		Version:  Version,
		ID:       s.ID,
		Duration: s.Duration.Seconds(),
		Results:  []resultDoc{},
	}
	if !s.Started.IsZero() {
		doc.Started = s.Started.Format(time.RFC3339)
	}

	for _, res := range s.Results.All() {
		rd := resultDoc{
			Duration:   res.Duration.Seconds(),
			Skipped:    res.Skipped,
			SkipReason: res.SkipReason,
		}
		if res.Test != nil {
			rd.Test = &testDoc{File: res.Test.File, Name: res.Test.Name}
		}
		for _, e := range res.Errors() {
			rd.Errors = append(rd.Errors, fromErr(e))
		}
		for _, f := range res.Failures() {
			rd.Failures = append(rd.Failures, fromErr(f))
		}
		doc.Results = append(doc.Results, rd)
	}
	return doc
}

func fromErr(e *session.Err) errDoc {
	ed := errDoc{Message: e.Message}
	if e.Traceback == nil {
		return ed
	}
	tb := &tracebackDoc{Frames: []frameDoc{}}
	for _, f := range e.Traceback.Frames {
		fd := frameDoc{
			Filename:   f.Filename,
			Lineno:     f.Lineno,
			CodeString: f.CodeString,
			CodeLine:   f.CodeLine,
		}
		if f.Locals != nil {
			for pair := f.Locals.Oldest(); pair != nil; pair = pair.Next() {
				fd.Locals = append(fd.Locals, varDoc{Name: pair.Key, Value: pair.Value.Value})
			}
		}
		if f.Globals != nil {
			for pair := f.Globals.Oldest(); pair != nil; pair = pair.Next() {
				fd.Globals = append(fd.Globals, varDoc{Name: pair.Key, Value: pair.Value.Value})
			}
		}
		tb.Frames = append(tb.Frames, fd)
	}
	ed.Traceback = tb
	return ed
}
