package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/slate-framework/slate/packages/config"
	"github.com/slate-framework/slate/packages/history"
	"github.com/slate-framework/slate/packages/record"
	"github.com/slate-framework/slate/packages/reporting"
	"github.com/slate-framework/slate/packages/session"
	"github.com/slate-framework/slate/packages/stats"
	"github.com/slate-framework/slate/packages/term"
)

var replayCmd = &cobra.Command{
	Use:   "replay <record.json>",
	Short: "Render a recorded test session",
	Long: `Render a session record written by a test runner.

Examples:
  slate replay session.json
  slate replay session.json -vv
  slate replay session.json -q --output tap
  slate replay session.json --watch
  slate replay session.json --timing --save-history`,
	Args: cobra.ExactArgs(1),
	RunE: replayCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond

	// SlowestTests is how many slow tests the timing addendum lists
	SlowestTests = 10
)

var (
	verboseFlag     int // each -v makes the threshold one step louder
	quietFlag       int // each -q makes it one step quieter
	noColorFlag     bool
	widthFlag       int
	outputFlag      string
	outputFileFlag  string
	configFlag      string
	watchFlag       bool
	timingFlag      bool
	saveHistoryFlag bool
	historyDBFlag   string
)

func init() {
	replayCmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "More detail (-v, -vv for even more)")
	replayCmd.Flags().CountVarP(&quietFlag, "quiet", "q", "Less detail (-q, -qq for even less)")
	replayCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("SLATE_NO_COLOR", false), "Disable colored output (env: SLATE_NO_COLOR)")
	replayCmd.Flags().IntVar(&widthFlag, "width", 0, "Separator width (default from config, else 80)")
	replayCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("SLATE_OUTPUT", ""), "Output format: console, junit, tap (env: SLATE_OUTPUT)")
	replayCmd.Flags().StringVar(&outputFileFlag, "output-file", "", "Write output to file (default: stderr for console, stdout otherwise)")
	replayCmd.Flags().StringVar(&configFlag, "config", getEnvString("SLATE_CONFIG", ""), "Path to config file (env: SLATE_CONFIG)")
	replayCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the record file and re-render on change")
	replayCmd.Flags().BoolVar(&timingFlag, "timing", false, "Print a timing addendum (percentiles and slowest tests)")
	replayCmd.Flags().BoolVar(&saveHistoryFlag, "save-history", false, "Record the session summary in the history database")
	replayCmd.Flags().StringVar(&historyDBFlag, "history-db", getEnvString("SLATE_HISTORY_DB", ""), "Path to the history database (env: SLATE_HISTORY_DB)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// replaySettings is the resolved configuration of one replay invocation.
type replaySettings struct {
	level   reporting.Verbosity
	noColor bool
	width   int
	output  string
	writer  io.Writer
}

func resolveSettings(fileConfig *config.Config) (*replaySettings, error) {
	level, err := reporting.ParseVerbosity(fileConfig.Verbosity)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	level = level.Louder(verboseFlag).Quieter(quietFlag)

	s := &replaySettings{
		level:   level,
		noColor: noColorFlag || fileConfig.GetNoColor(),
		width:   widthFlag,
		output:  outputFlag,
	}
	if s.width == 0 {
		s.width = fileConfig.Width
	}
	if s.width == 0 {
		s.width = term.DefaultWidth
	}
	if s.output == "" {
		s.output = fileConfig.Output
	}
	return s, nil
}

func replayCommand(cmd *cobra.Command, args []string) error {
	recordPath := args[0]

	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return err
	}
	settings, err := resolveSettings(fileConfig)
	if err != nil {
		return err
	}

	if outputFileFlag != "" {
		outFile, err := os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer outFile.Close()
		settings.writer = outFile
	}

	renderOnce := func() (*session.Session, error) {
		s, err := record.Load(recordPath)
		if err != nil {
			return nil, err
		}

		rep, flush := buildReporter(settings)
		reporting.Replay(s, rep)
		if flush != nil {
			if err := flush(); err != nil {
				return nil, fmt.Errorf("error writing output: %w", err)
			}
		}

		if timingFlag && settings.output == "console" {
			w := settings.writer
			if w == nil {
				w = os.Stderr
			}
			stats.FromSession(s, SlowestTests).Render(
				term.NewWriter(w, term.WithWidth(settings.width), term.WithNoColor(settings.noColor)))
		}
		return s, nil
	}

	s, err := renderOnce()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitRecordError)
	}

	if saveHistoryFlag {
		if err := saveToHistory(fileConfig, s); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	if !watchFlag {
		if !s.Results.IsSuccess() {
			os.Exit(ExitSessionFailed)
		}
		return nil
	}

	return watchRecord(cmd, recordPath, renderOnce)
}

// buildReporter returns the reporter for the configured output format and,
// for accumulating formats, its flush function.
func buildReporter(settings *replaySettings) (reporting.Reporter, func() error) {
	switch settings.output {
	case "junit":
		opts := []reporting.JUnitOption{}
		if settings.writer != nil {
			opts = append(opts, reporting.JUnitWithWriter(settings.writer))
		}
		r := reporting.NewJUnitReporter(opts...)
		return r, r.Flush
	case "tap":
		opts := []reporting.TAPOption{}
		if settings.writer != nil {
			opts = append(opts, reporting.TAPWithWriter(settings.writer))
		}
		r := reporting.NewTAPReporter(opts...)
		return r, r.Flush
	default: // "console"
		opts := []reporting.ConsoleOption{
			reporting.WithNoColor(settings.noColor),
			reporting.WithWidth(settings.width),
		}
		if settings.writer != nil {
			opts = append(opts, reporting.WithWriter(settings.writer))
		}
		return reporting.NewConsoleReporter(settings.level, opts...), nil
	}
}

func saveToHistory(fileConfig *config.Config, s *session.Session) error {
	dbPath := historyDBFlag
	if dbPath == "" {
		dbPath = fileConfig.HistoryDB
	}
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.Record(s); err != nil {
		return err
	}
	return nil
}

// watchRecord re-renders whenever the record file is rewritten. Runners
// typically replace the file atomically, so the watch covers the directory
// and filters events for the record path.
func watchRecord(cmd *cobra.Command, recordPath string, renderOnce func() (*session.Session, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(recordPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", recordPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", recordPath)

	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !sameFile(event.Name, recordPath) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\nRecord changed, re-rendering...\n\n")
					if _, err := renderOnce(); err != nil {
						fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watcher error: %v\n", err)
		}
	}
}

func sameFile(a, b string) bool {
	cleanA, errA := filepath.Abs(a)
	cleanB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return cleanA == cleanB
}
