// Package reporting renders finished test sessions for human and machine
// consumption.
//
// Available reporters:
//   - ConsoleReporter: verbosity-gated colored terminal output
//   - JUnitReporter: JUnit XML for CI integration
//   - TAPReporter: Test Anything Protocol output
//
// Reporters implement the Reporter lifecycle interface; those that
// accumulate results before writing also implement Flushable. Replay drives
// the full lifecycle from an already-finished session.
package reporting
