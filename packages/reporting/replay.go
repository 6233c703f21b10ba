package reporting

import "github.com/slate-framework/slate/packages/session"

// Replay re-drives a finished session's lifecycle through the given
// reporters: session start, a file span per run of consecutive results
// sharing a source file, one event per result, then session end. The global
// result, having no source file, produces no per-test event; its records
// still appear in the session-end summary.
func Replay(s *session.Session, reporters ...Reporter) {
	for _, r := range reporters {
		r.SessionStart(s)
	}

	currentFile := ""
	inFile := false
	closeFile := func() {
		if inFile {
			for _, r := range reporters {
				r.FileEnd(currentFile)
			}
			inFile = false
		}
	}

	for _, res := range s.Results.All() {
		if res.Test == nil {
			continue
		}
		if !inFile || res.Test.File != currentFile {
			closeFile()
			currentFile = res.Test.File
			inFile = true
			for _, r := range reporters {
				r.FileStart(currentFile)
			}
		}
		for _, r := range reporters {
			dispatch(r, res)
		}
	}
	closeFile()

	for _, r := range reporters {
		r.SessionEnd(s)
	}
}

func dispatch(r Reporter, res *session.Result) {
	switch {
	case res.Skipped:
		r.TestSkip(res)
	case len(res.Errors()) > 0:
		r.TestError(res)
	case len(res.Failures()) > 0:
		r.TestFailure(res)
	default:
		r.TestSuccess(res)
	}
}
