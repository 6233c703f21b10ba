// Package stats aggregates per-test timing from a finished session into
// latency percentiles and a slowest-tests list.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/fatih/color"

	"github.com/slate-framework/slate/packages/session"
	"github.com/slate-framework/slate/packages/term"
)

// Histogram range: 1us to 60s, 3 significant digits (ample for test runtimes).
const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// TestTiming is one test's recorded runtime.
type TestTiming struct {
	Location string
	Duration time.Duration
}

// Summary holds the timing aggregation of a session.
type Summary struct {
	Tests   int
	P50     time.Duration
	P95     time.Duration
	P99     time.Duration
	Max     time.Duration
	Slowest []TestTiming
}

// FromSession aggregates the durations of the session's executed tests.
// Skipped tests and the global result carry no runtime and are excluded.
// slowestN bounds the Slowest list.
func FromSession(s *session.Session, slowestN int) *Summary {
	hist := hdrhistogram.New(minLatencyUs, maxLatencyUs, 3)
	var timings []TestTiming

	for _, res := range s.Results.All() {
		if res.Test == nil || res.Skipped {
			continue
		}
		us := res.Duration.Microseconds()
		if us < minLatencyUs {
			us = minLatencyUs
		}
		if us > maxLatencyUs {
			us = maxLatencyUs
		}
		_ = hist.RecordValue(us)
		timings = append(timings, TestTiming{Location: res.Location(), Duration: res.Duration})
	}

	summary := &Summary{Tests: len(timings)}
	if len(timings) == 0 {
		return summary
	}

	summary.P50 = time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond
	summary.P95 = time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond
	summary.P99 = time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond
	summary.Max = time.Duration(hist.Max()) * time.Microsecond

	sort.SliceStable(timings, func(i, j int) bool {
		return timings[i].Duration > timings[j].Duration
	})
	if slowestN > 0 && len(timings) > slowestN {
		timings = timings[:slowestN]
	}
	summary.Slowest = timings
	return summary
}

// Render writes the summary through the given terminal writer.
func (s *Summary) Render(t *term.Writer) {
	t.Sep("=", "TIMING", color.Bold)
	if s.Tests == 0 {
		t.Line("no timed tests")
		return
	}

	t.Line(fmt.Sprintf("%d timed tests | p50: %s | p95: %s | p99: %s | max: %s",
		s.Tests,
		formatLatency(s.P50),
		formatLatency(s.P95),
		formatLatency(s.P99),
		formatLatency(s.Max)))

	if len(s.Slowest) > 0 {
		t.Line("slowest:")
		for _, timing := range s.Slowest {
			t.Write("  ")
			t.Write(formatLatency(timing.Duration), color.FgCyan)
			t.Line("  " + timing.Location)
		}
	}
}

func formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dμs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
