// Package cmd implements the slate CLI commands using Cobra.
//
// Available commands:
//   - replay: render a recorded session at a chosen verbosity
//   - history: list past sessions from the local history database
//   - version: show slate version information
//
// The CLI supports console, JUnit and TAP output, a watch mode that
// re-renders whenever the record file changes, and an optional local
// session history.
package cmd
