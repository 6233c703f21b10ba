package record

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-framework/slate/packages/session"
)

const sampleRecord = `{
  "version": 1,
  "id": "b7e9a9e2-2c42-4a7e-9a6a-3a1f2b9d8c01",
  "duration": 12.5,
  "results": [
    {
      "test": {"file": "tests/test_auth.py", "name": "test_login"},
      "duration": 0.8,
      "failures": [
        {
          "message": "assertion failed",
          "traceback": {
            "frames": [
              {
                "filename": "tests/test_auth.py",
                "lineno": 42,
                "code_string": "def test_login():\n    assert login()\n",
                "code_line": "    assert login()",
                "locals": [
                  {"name": "user", "value": "'admin'"},
                  {"name": "attempts", "value": "3"}
                ]
              }
            ]
          }
        }
      ]
    },
    {
      "test": null,
      "errors": [{"message": "fixture teardown failed"}]
    }
  ]
}`

func TestParseRecord(t *testing.T) {
	s, err := Parse([]byte(sampleRecord))
	require.NoError(t, err)

	assert.Equal(t, "b7e9a9e2-2c42-4a7e-9a6a-3a1f2b9d8c01", s.ID)
	assert.Equal(t, 12500*time.Millisecond, s.Duration)
	assert.Equal(t, 1, s.Results.NumFailures())
	assert.Equal(t, 1, s.Results.NumErrors())

	all := s.Results.All()
	require.Len(t, all, 2)
	assert.Equal(t, "tests/test_auth.py:test_login", all[0].Location())
	assert.Equal(t, "**global**", all[1].Location())

	failure := all[0].Failures()[0]
	require.NotNil(t, failure.Traceback)
	require.Len(t, failure.Traceback.Frames, 1)

	frame := failure.Traceback.Frames[0]
	assert.Equal(t, 42, frame.Lineno)
	assert.Equal(t, "    assert login()", frame.CodeLine)

	var names []string
	for pair := frame.Locals.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	assert.Equal(t, []string{"user", "attempts"}, names)
}

func TestParseRejectsMissingVersion(t *testing.T) {
	_, err := Parse([]byte(`{"duration": 1, "results": []}`))
	assert.ErrorContains(t, err, "missing version")
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	_, err := Parse([]byte(`{"version": 99, "duration": 1, "results": []}`))
	assert.ErrorContains(t, err, "unsupported record version 99")
}

func TestParseRejectsSchemaViolation(t *testing.T) {
	// results must be an array
	_, err := Parse([]byte(`{"version": 1, "duration": 1, "results": {}}`))
	assert.ErrorContains(t, err, "invalid record")
}

func TestRoundTrip(t *testing.T) {
	s := session.NewSession()
	s.ID = "round-trip"
	s.Duration = 3 * time.Second

	res := session.NewResult(&session.TestInfo{File: "tests/test_a.py", Name: "test_one"})
	res.Duration = 250 * time.Millisecond
	frame := session.NewFrame("tests/test_a.py", 7)
	frame.CodeLine = "    assert x"
	frame.Locals.Set("x", session.Variable{Value: "False"})
	res.AddFailure(&session.Err{
		Message:   "x was false",
		Traceback: &session.Traceback{Frames: []*session.Frame{frame}},
	})
	s.Results.Add(res)

	skipped := session.NewResult(&session.TestInfo{File: "tests/test_a.py", Name: "test_two"})
	skipped.Skipped = true
	skipped.SkipReason = "requires network"
	s.Results.Add(skipped)

	data, err := Marshal(s)
	require.NoError(t, err)

	loaded, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, s.Duration, loaded.Duration)
	require.Len(t, loaded.Results.All(), 2)

	got := loaded.Results.All()[0]
	require.Len(t, got.Failures(), 1)
	assert.Equal(t, "x was false", got.Failures()[0].Message)
	gotFrame := got.Failures()[0].Traceback.Frames[0]
	v, ok := gotFrame.Locals.Get("x")
	require.True(t, ok)
	assert.Equal(t, "False", v.Value)

	assert.True(t, loaded.Results.All()[1].Skipped)
	assert.Equal(t, "requires network", loaded.Results.All()[1].SkipReason)
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	s := session.NewSession()
	s.Duration = time.Second
	s.Results.Add(session.NewResult(&session.TestInfo{File: "tests/test_a.py", Name: "test_one"}))

	require.NoError(t, Save(path, s))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.Results.IsSuccess())

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
