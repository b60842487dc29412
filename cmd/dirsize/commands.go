package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dirsize/internal/compare"
	"dirsize/internal/progress"
	"dirsize/internal/solver"
	"dirsize/internal/transcript"
	"dirsize/internal/tree"
	"dirsize/internal/walker"
)

func (a *app) runSolve(cmd *cobra.Command, args []string) error {
	p, err := a.params(cmd)
	if err != nil {
		return err
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to read --list flag: %w", err)
	}
	out := cmd.OutOrStdout()

	switch len(args) {
	case 0:
		lines, err := transcript.ReadLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
		res, err := solver.Solve(lines, p)
		if err != nil {
			return err
		}
		return printResult(out, res, p, list)
	case 1:
		res, err := solver.SolveFile(args[0], p)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return printResult(out, res, p, list)
	}

	workers := a.cfg.Workers
	if cmd.Flags().Changed("workers") {
		if workers, err = cmd.Flags().GetInt("workers"); err != nil {
			return err
		}
	}

	bar := progress.New(int64(len(args)), cmd.ErrOrStderr())
	results, err := solver.SolveFiles(cmd.Context(), args, p, workers, bar, a.logger)
	if err != nil {
		return err
	}
	bar.Finish()

	failed := 0
	for _, fr := range results {
		if fr.Err != nil {
			failed++
			fmt.Fprintf(out, "✗ %s: %v\n\n", fr.Path, fr.Err)
			continue
		}
		fmt.Fprintf(out, "✓ %s (xxh64 %s)\n", fr.Path, fr.Checksum)
		if err := printResult(out, fr.Result, p, list); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d transcripts failed", failed, len(results))
	}
	return nil
}

func printResult(w io.Writer, res *solver.Result, p solver.Params, list bool) error {
	used := res.Sizes.Root()
	fmt.Fprintf(w, "  Directories: %d\n", res.Tree.Len())
	fmt.Fprintf(w, "  Used: %d bytes (%s)\n", used, humanize.IBytes(used))
	fmt.Fprintf(w, "  Sum of directories of at most %d bytes: %d\n", p.Threshold, res.BoundedSum)

	d := res.Deletion
	if d.Needed {
		fmt.Fprintf(w, "  Smallest directory to delete: %d bytes (missing %d of %d required)\n", d.Size, d.Missing, p.Required)
	} else {
		fmt.Fprintf(w, "  No deletion needed: %d bytes free, %d required\n", d.Free, p.Required)
	}

	if !list {
		return nil
	}
	report, err := tree.NewReport(res.Tree, res.Sizes)
	if err != nil {
		return err
	}
	for _, dir := range report.Directories {
		fmt.Fprintf(w, "    %12d  %s\n", dir.Size, dir.Path)
	}
	return nil
}

func (a *app) buildReport(path string) (*tree.Report, error) {
	res, err := solver.SolveFile(path, solver.Params{
		Threshold: a.cfg.Threshold,
		Capacity:  a.cfg.Capacity,
		Required:  a.cfg.Required,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	report, err := tree.NewReport(res.Tree, res.Sizes)
	if err != nil {
		return nil, err
	}
	report.Source = path
	return report, nil
}

func (a *app) runReport(cmd *cobra.Command, args []string) error {
	report, err := a.buildReport(args[0])
	if err != nil {
		return err
	}

	// Set output path - from args, config, or default
	outputPath := a.cfg.OutputFile
	if len(args) == 2 {
		outputPath = args[1]
	}
	if outputPath == "" {
		outputPath = filepath.Join("output", report.Digest+".json")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := tree.Save(report, outputPath); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Report generated successfully\n")
	fmt.Fprintf(out, "  Digest: %s\n", report.Digest)
	fmt.Fprintf(out, "  Directories: %d\n", len(report.Directories))
	fmt.Fprintf(out, "  Used: %s\n", report.UsedHuman)
	fmt.Fprintf(out, "  Output: %s\n", outputPath)
	return nil
}

func (a *app) runCompare(cmd *cobra.Command, args []string) error {
	oldReport, err := tree.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}

	var newReport *tree.Report
	if strings.HasSuffix(args[1], ".json") {
		newReport, err = tree.Load(args[1])
	} else {
		newReport, err = a.buildReport(args[1])
	}
	if err != nil {
		return err
	}
	a.logger.Debug("comparing reports", "old", oldReport.Digest, "new", newReport.Digest)

	result := compare.Compare(oldReport, newReport)
	fmt.Fprintln(cmd.OutOrStdout(), compare.FormatReport(result))

	if result.HasChanges() {
		return exitCode(1)
	}
	return nil
}

func (a *app) runRecord(cmd *cobra.Command, args []string) error {
	absDirectory, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	result, err := walker.Record(absDirectory, a.cfg.Exclude, a.logger)
	if err != nil {
		return fmt.Errorf("failed to record directory: %w", err)
	}
	text := strings.Join(result.Lines, "\n") + "\n"

	if len(args) == 2 {
		if err := os.WriteFile(args[1], []byte(text), 0644); err != nil {
			return fmt.Errorf("failed to write transcript: %w", err)
		}
	} else if _, err := io.WriteString(cmd.OutOrStdout(), text); err != nil {
		return err
	}

	status := cmd.ErrOrStderr()
	fmt.Fprintf(status, "Recorded %d directories, %d files (%s) from %s\n",
		result.Directories, result.Files, humanize.IBytes(result.Bytes), absDirectory)
	if len(result.Errors) > 0 {
		fmt.Fprintf(status, "⚠ Skipped %d entries due to errors\n", len(result.Errors))
	}
	return nil
}
