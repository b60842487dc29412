// Package solver runs the build, aggregate and query pipeline over
// transcripts.
package solver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"dirsize/internal/hash"
	"dirsize/internal/progress"
	"dirsize/internal/query"
	"dirsize/internal/transcript"
	"dirsize/internal/tree"
)

// Params are the inputs of the two queries.
type Params struct {
	Threshold uint64
	Capacity  uint64
	Required  uint64
}

// Result is the answer for one transcript.
type Result struct {
	Tree       *tree.Tree
	Sizes      *tree.Sizes
	BoundedSum uint64
	Deletion   query.Deletion
}

// Solve builds the tree for lines, aggregates it once and answers both
// queries. The queries only read the frozen tree, so they run concurrently.
func Solve(lines []string, p Params) (*Result, error) {
	built, err := tree.BuildLines(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}

	sizes, err := tree.Aggregate(built)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sizes: %w", err)
	}

	res := &Result{Tree: built, Sizes: sizes}

	var g errgroup.Group
	g.Go(func() error {
		sum, err := query.SumAtMost(sizes, p.Threshold)
		if err != nil {
			return fmt.Errorf("bounded sum: %w", err)
		}
		res.BoundedSum = sum
		return nil
	})
	g.Go(func() error {
		d, err := query.DeletionCandidate(sizes, p.Capacity, p.Required)
		if err != nil {
			return fmt.Errorf("deletion candidate: %w", err)
		}
		res.Deletion = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return res, nil
}

// FileResult is the outcome for one transcript file. Exactly one of Result
// and Err is set.
type FileResult struct {
	Path     string
	Checksum string
	Result   *Result
	Err      error
}

// SolveFile reads and solves one transcript file.
func SolveFile(path string, p Params) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	lines, err := transcript.ReadLines(file)
	if err != nil {
		return nil, err
	}
	return Solve(lines, p)
}

// SolveFiles solves transcripts with at most workers running at once.
// Failures are reported per file; only cancellation of ctx fails the batch.
func SolveFiles(ctx context.Context, paths []string, p Params, workers int, bar *progress.Bar, logger *slog.Logger) ([]FileResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bar.Start(path)
			defer bar.Done(path)

			fr := FileResult{Path: path}
			fr.Checksum, fr.Err = hash.HashFile(path)
			if fr.Err == nil {
				fr.Result, fr.Err = SolveFile(path, p)
			}
			if fr.Err != nil {
				logger.Debug("transcript failed", "path", path, "err", fr.Err)
			} else {
				logger.Debug("transcript solved", "path", path,
					"directories", fr.Result.Tree.Len(), "used", fr.Result.Sizes.Root())
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	return results, nil
}
