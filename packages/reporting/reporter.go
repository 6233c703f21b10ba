package reporting

import "github.com/slate-framework/slate/packages/session"

// Reporter receives the lifecycle events of a test session. Events arrive
// from a single goroutine in session order: session start, then per-file
// spans (file start, one event per test, file end), then session end.
type Reporter interface {
	SessionStart(s *session.Session)
	SessionEnd(s *session.Session)
	FileStart(filename string)
	FileEnd(filename string)
	TestSuccess(r *session.Result)
	TestSkip(r *session.Result)
	TestError(r *session.Result)
	TestFailure(r *session.Result)
}

// Flushable is implemented by reporters that accumulate results and write
// their output in one piece after the session ends.
type Flushable interface {
	Flush() error
}
