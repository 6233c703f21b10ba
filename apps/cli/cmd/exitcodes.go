package cmd

// Exit codes for the slate CLI
const (
	// ExitSuccess indicates the session passed
	ExitSuccess = 0

	// ExitSessionFailed indicates the replayed session had failures or errors
	ExitSessionFailed = 1

	// ExitRecordError indicates the session record could not be read
	ExitRecordError = 2

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
