package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-framework/slate/packages/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)

	s := session.NewSession()
	s.ID = "session-1"
	s.Started = time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	s.Duration = 90 * time.Second

	ok := session.NewResult(&session.TestInfo{File: "tests/test_a.py", Name: "test_one"})
	s.Results.Add(ok)

	skipped := session.NewResult(&session.TestInfo{File: "tests/test_a.py", Name: "test_two"})
	skipped.Skipped = true
	s.Results.Add(skipped)

	failed := session.NewResult(&session.TestInfo{File: "tests/test_b.py", Name: "test_three"})
	failed.AddFailure(&session.Err{Message: "assertion failed"})
	s.Results.Add(failed)

	id, err := store.Record(s)
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)

	entries, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "session-1", e.ID)
	assert.Equal(t, 3, e.Total)
	assert.Equal(t, 1, e.Failures)
	assert.Equal(t, 0, e.Errors)
	assert.Equal(t, 1, e.Skips)
	assert.InDelta(t, 90, e.DurationSeconds, 0.001)
	assert.False(t, e.IsSuccess())
	assert.True(t, e.Started.Equal(s.Started))
}

func TestRecordGeneratesID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.Record(session.NewSession())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	entries, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.True(t, entries[0].IsSuccess())
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)

	for i, started := range []time.Time{
		time.Date(2026, 8, 18, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 19, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
	} {
		s := session.NewSession()
		s.ID = string(rune('a' + i))
		s.Started = started
		_, err := store.Record(s)
		require.NoError(t, err)
	}

	entries, err := store.List(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
}
