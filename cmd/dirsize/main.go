package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"dirsize/internal/config"
	"dirsize/internal/solver"
)

var version = "0.1.0-dev"

// exitCode carries a non-error exit status out of a command, e.g. "changes
// detected" from compare.
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

type app struct {
	configPath string
	verbose    bool
	cfg        *config.Config
	logger     *slog.Logger
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	a.logger.Debug("config loaded", "path", a.configPath,
		"threshold", cfg.Threshold, "capacity", cfg.Capacity, "required", cfg.Required)
	return nil
}

// params applies query flags that were set explicitly over the config.
func (a *app) params(cmd *cobra.Command) (solver.Params, error) {
	p := solver.Params{
		Threshold: a.cfg.Threshold,
		Capacity:  a.cfg.Capacity,
		Required:  a.cfg.Required,
	}
	flags := cmd.Flags()
	var err error
	if flags.Changed("threshold") {
		if p.Threshold, err = flags.GetUint64("threshold"); err != nil {
			return p, err
		}
	}
	if flags.Changed("capacity") {
		if p.Capacity, err = flags.GetUint64("capacity"); err != nil {
			return p, err
		}
	}
	if flags.Changed("required") {
		if p.Required, err = flags.GetUint64("required"); err != nil {
			return p, err
		}
	}
	return p, nil
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("threshold", 0, "Size bound for the bounded directory sum (default from config)")
	cmd.Flags().Uint64("capacity", 0, "Total disk capacity in bytes (default from config)")
	cmd.Flags().Uint64("required", 0, "Free space required in bytes (default from config)")
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "dirsize",
		Short: "Reconstruct a directory tree from a cd/ls transcript and query its sizes",
		Long: `dirsize replays a shell transcript of "$ cd" and "$ ls" commands into a
directory tree, totals every directory, and answers two questions: the sum of
all directories no larger than a threshold, and the smallest directory whose
deletion frees enough space.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	solveCmd := &cobra.Command{
		Use:   "solve [transcript...]",
		Short: "Answer both size queries for one or more transcripts (stdin if none)",
		RunE:  a.runSolve,
	}
	addQueryFlags(solveCmd)
	solveCmd.Flags().IntP("workers", "w", 0, "Number of transcripts solved concurrently (default from config)")
	solveCmd.Flags().Bool("list", false, "Print the total size of every directory")

	reportCmd := &cobra.Command{
		Use:   "report <transcript> [output-json-filename]",
		Short: "Save a JSON size report for a transcript",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  a.runReport,
	}

	compareCmd := &cobra.Command{
		Use:   "compare <report.json> <transcript|report.json>",
		Short: "Compare a saved report against a transcript or another report",
		Long: `Compare exits 0 when nothing changed, 1 when directories were added,
resized or deleted.`,
		Args: cobra.ExactArgs(2),
		RunE: a.runCompare,
	}

	recordCmd := &cobra.Command{
		Use:   "record <directory> [output-transcript]",
		Short: "Record a cd/ls transcript of a real directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  a.runRecord,
	}

	rootCmd.AddCommand(solveCmd, reportCmd, compareCmd, recordCmd)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var code exitCode
	if errors.As(err, &code) {
		os.Exit(int(code))
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
