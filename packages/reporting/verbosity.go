package reporting

import "fmt"

// Verbosity is an output detail threshold. Numerically greater values are
// stricter: a reporter configured at Critical emits almost nothing, one at
// Debug emits everything. Gating is always a `threshold <= level` check.
type Verbosity int

const (
	Debug    Verbosity = 10
	Info     Verbosity = 20
	Warning  Verbosity = 30
	Error    Verbosity = 40
	Critical Verbosity = 50
)

// String returns the lowercase level name.
func (v Verbosity) String() string {
	switch v {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Critical:
		return "critical"
	default:
		return fmt.Sprintf("verbosity(%d)", int(v))
	}
}

// ParseVerbosity parses a level name as used in config files and flags.
func ParseVerbosity(s string) (Verbosity, error) {
	switch s {
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warning":
		return Warning, nil
	case "error":
		return Error, nil
	case "critical":
		return Critical, nil
	default:
		return 0, fmt.Errorf("unknown verbosity %q (use debug, info, warning, error or critical)", s)
	}
}

// Quieter returns the verbosity n steps stricter, clamped to Critical.
func (v Verbosity) Quieter(n int) Verbosity {
	out := v + Verbosity(n*10)
	if out > Critical {
		return Critical
	}
	return out
}

// Louder returns the verbosity n steps more detailed, clamped to Debug.
func (v Verbosity) Louder(n int) Verbosity {
	out := v - Verbosity(n*10)
	if out < Debug {
		return Debug
	}
	return out
}
