// Command zencheck drives the Zen semantic type checker (internal/check)
// over JSON-encoded AST fixtures. It is the out-of-scope "driver" spec.md
// §1 explicitly excludes from the checker's own responsibilities: loading
// inputs, setting the current filename, and reporting the process exit
// status.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/greenpine82/Zen-C-fork/internal/check"
	"github.com/greenpine82/Zen-C-fork/internal/config"
	"github.com/greenpine82/Zen-C-fork/internal/diag"
	"github.com/greenpine82/Zen-C-fork/internal/history"
	"github.com/greenpine82/Zen-C-fork/internal/loader"
)

func main() {
	cfg := config.Load()

	var (
		noColor    bool
		noHistory  bool
		dbOverride string
		histLimit  int
	)

	root := &cobra.Command{
		Use:   "zencheck",
		Short: "Semantic type checker for Zen AST fixtures",
	}

	checkCmd := &cobra.Command{
		Use:   "check [files or globs...]",
		Short: "Run the type checker against one or more AST fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cfg, args, noColor, noHistory, dbOverride)
		},
	}
	checkCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized diagnostic output")
	checkCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this run in the history store")
	checkCmd.Flags().StringVar(&dbOverride, "db", "", "override the history database path")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent check runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cfg, dbOverride, histLimit)
		},
	}
	historyCmd.Flags().IntVar(&histLimit, "limit", 20, "maximum number of runs to list")
	historyCmd.Flags().StringVar(&dbOverride, "db", "", "override the history database path")

	root.AddCommand(checkCmd, historyCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runCheck(cfg *config.Config, args []string, noColor, noHistory bool, dbOverride string) error {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{cfg.DefaultGlob}
	}

	var files []string
	for _, pattern := range patterns {
		matches, err := loader.Resolve(pattern)
		if err != nil {
			return err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no fixture files matched %v", patterns)
	}

	colored := color.NoColor == false
	if cfg.Color != nil {
		colored = *cfg.Color
	}
	if noColor {
		colored = false
	}

	var store *history.Store
	if !noHistory {
		dbPath := cfg.HistoryDBPath
		if dbOverride != "" {
			dbPath = dbOverride
		}
		s, err := history.Open(dbPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning: could not open history store:", err)
		} else {
			store = s
			defer store.Close()
		}
	}

	worst := 0
	for _, file := range files {
		root, err := loader.LoadFile(file)
		if err != nil {
			return err
		}

		sink := diag.NewWriterSink(os.Stderr, colored)
		ctx := &check.ParserContext{Filename: file}
		code := check.CheckProgram(ctx, root, sink)
		if code > worst {
			worst = code
		}

		if store != nil {
			if err := store.Record(file, code, sink.Diagnostics()); err != nil {
				fmt.Fprintln(os.Stderr, "warning: could not record history:", err)
			}
		}
	}

	if worst != 0 {
		os.Exit(worst)
	}
	return nil
}

func runHistory(cfg *config.Config, dbOverride string, limit int) error {
	dbPath := cfg.HistoryDBPath
	if dbOverride != "" {
		dbPath = dbOverride
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(limit)
	if err != nil {
		return err
	}

	for _, run := range runs {
		status := "PASS"
		if !run.Passed {
			status = "FAIL"
		}
		fmt.Printf("%s  %-6s %-40s errors=%d\n", run.CreatedAt.Format("2006-01-02 15:04:05"), status, run.File, run.ErrorCount)
	}
	return nil
}
