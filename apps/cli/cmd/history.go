package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/slate-framework/slate/packages/config"
	"github.com/slate-framework/slate/packages/history"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past sessions from the history database",
	Args:  cobra.NoArgs,
	RunE:  historyCommand,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", getEnvInt("SLATE_HISTORY_LIMIT", 20), "Maximum number of sessions to list (env: SLATE_HISTORY_LIMIT)")
	historyCmd.Flags().StringVar(&historyDBFlag, "history-db", getEnvString("SLATE_HISTORY_DB", ""), "Path to the history database (env: SLATE_HISTORY_DB)")
	historyCmd.Flags().StringVar(&configFlag, "config", getEnvString("SLATE_CONFIG", ""), "Path to config file (env: SLATE_CONFIG)")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return err
	}

	dbPath := historyDBFlag
	if dbPath == "" {
		dbPath = fileConfig.HistoryDB
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(historyLimitFlag)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recorded sessions")
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, e := range entries {
		verdict := green("PASS")
		if !e.IsSuccess() {
			verdict = red(fmt.Sprintf("FAIL (%d failures, %d errors)", e.Failures, e.Errors))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %3d tests  %6.1fs  %s\n",
			e.Started.Local().Format(time.DateTime),
			e.ID,
			e.Total,
			e.DurationSeconds,
			verdict)
	}
	return nil
}
