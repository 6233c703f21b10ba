package stats

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-framework/slate/packages/session"
	"github.com/slate-framework/slate/packages/term"
)

func timedSession() *session.Session {
	s := session.NewSession()
	for i := 0; i < 100; i++ {
		res := session.NewResult(&session.TestInfo{
			File: "tests/test_perf.py",
			Name: fmt.Sprintf("test_%03d", i),
		})
		res.Duration = time.Duration(i+1) * time.Millisecond
		s.Results.Add(res)
	}
	return s
}

func TestFromSessionPercentiles(t *testing.T) {
	summary := FromSession(timedSession(), 3)

	assert.Equal(t, 100, summary.Tests)
	assert.True(t, summary.P50 > 0)
	assert.True(t, summary.P95 >= summary.P50)
	assert.True(t, summary.P99 >= summary.P95)
	assert.True(t, summary.Max >= summary.P99)

	require.Len(t, summary.Slowest, 3)
	assert.Equal(t, "tests/test_perf.py:test_099", summary.Slowest[0].Location)
	assert.Equal(t, "tests/test_perf.py:test_098", summary.Slowest[1].Location)
}

func TestFromSessionExcludesSkippedAndGlobal(t *testing.T) {
	s := session.NewSession()

	res := session.NewResult(&session.TestInfo{File: "tests/test_a.py", Name: "test_one"})
	res.Duration = 10 * time.Millisecond
	s.Results.Add(res)

	skipped := session.NewResult(&session.TestInfo{File: "tests/test_a.py", Name: "test_two"})
	skipped.Skipped = true
	skipped.Duration = time.Hour
	s.Results.Add(skipped)

	s.Results.Global().AddError(&session.Err{Message: "boom"})

	summary := FromSession(s, 10)
	assert.Equal(t, 1, summary.Tests)
	require.Len(t, summary.Slowest, 1)
	assert.Equal(t, "tests/test_a.py:test_one", summary.Slowest[0].Location)
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := term.NewWriter(&buf, term.WithNoColor(true))

	FromSession(session.NewSession(), 5).Render(w)

	assert.Contains(t, buf.String(), "TIMING")
	assert.Contains(t, buf.String(), "no timed tests")
}

func TestRenderSlowest(t *testing.T) {
	var buf bytes.Buffer
	w := term.NewWriter(&buf, term.WithNoColor(true))

	FromSession(timedSession(), 2).Render(w)

	out := buf.String()
	assert.Contains(t, out, "100 timed tests")
	assert.Contains(t, out, "slowest:")
	assert.Contains(t, out, "tests/test_perf.py:test_099")
	assert.NotContains(t, out, "test_000")
}
