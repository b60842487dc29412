package walker

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RecordResult is a transcript generated from a real directory.
type RecordResult struct {
	Lines       []string
	Directories int
	Files       int
	Bytes       uint64
	Errors      []error
}

type recorder struct {
	root       string
	exclusions []string
	logger     *slog.Logger
	result     *RecordResult
}

// Record walks rootPath and writes the cd/ls session that would list it:
// every directory is listed before it is entered and left with "cd ..".
// Unreadable subdirectories and entries that cannot be written as a
// transcript line are skipped and reported in Errors.
func Record(rootPath string, exclusions []string, logger *slog.Logger) (*RecordResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &recorder{
		root:       rootPath,
		exclusions: exclusions,
		logger:     logger,
		result: &RecordResult{
			Lines:  []string{"$ cd /"},
			Errors: make([]error, 0),
		},
	}

	// An unreadable root is fatal.
	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	r.result.Directories++
	r.list(rootPath, "", entries)

	return r.result, nil
}

func (r *recorder) list(absPath, relPath string, entries []fs.DirEntry) {
	r.logger.Debug("listing directory", "path", absPath, "entries", len(entries))
	r.emit("$ ls")

	var dirs []string
	for _, d := range entries {
		name := d.Name()
		rel := filepath.Join(relPath, name)

		if shouldExclude(rel, d, r.exclusions) {
			continue
		}
		if strings.ContainsAny(name, "\r\n") {
			r.result.Errors = append(r.result.Errors, fmt.Errorf("%s: name cannot be written to a transcript", filepath.Join(absPath, name)))
			continue
		}

		switch {
		case d.IsDir():
			r.emit("dir " + name)
			dirs = append(dirs, name)
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				r.result.Errors = append(r.result.Errors, err)
				continue
			}
			size := uint64(info.Size())
			r.emit(strconv.FormatUint(size, 10) + " " + name)
			r.result.Files++
			r.result.Bytes += size
		}
	}

	for _, name := range dirs {
		r.result.Directories++
		r.emit("$ cd " + name)

		childPath := filepath.Join(absPath, name)
		entries, err := os.ReadDir(childPath)
		if err != nil {
			r.result.Errors = append(r.result.Errors, err)
			r.logger.Warn("skipping unreadable directory", "path", childPath, "err", err)
		} else {
			r.list(childPath, filepath.Join(relPath, name), entries)
		}

		r.emit("$ cd ..")
	}
}

func (r *recorder) emit(line string) {
	r.result.Lines = append(r.result.Lines, line)
}

func shouldExclude(relPath string, d fs.DirEntry, exclusions []string) bool {
	for _, pattern := range exclusions {
		// Handle directory exclusions (patterns ending with /)
		if strings.HasSuffix(pattern, "/") {
			if !d.IsDir() {
				continue
			}
			dirPattern := strings.TrimSuffix(pattern, "/")
			if matched, _ := filepath.Match(dirPattern, d.Name()); matched || d.Name() == dirPattern {
				return true
			}
			continue
		}

		// Handle file pattern exclusions
		matched, err := filepath.Match(pattern, filepath.Base(relPath))
		if err == nil && matched {
			return true
		}
		// Also try matching against the full relative path for patterns with /
		if strings.Contains(pattern, "/") {
			matched, err := filepath.Match(pattern, filepath.ToSlash(relPath))
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}
