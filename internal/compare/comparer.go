package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"dirsize/internal/tree"
)

type ChangeType string

const (
	Added   ChangeType = "ADDED"
	Resized ChangeType = "RESIZED"
	Deleted ChangeType = "DELETED"
)

type Change struct {
	Type    ChangeType
	Path    string
	OldData *tree.DirectoryRecord
	NewData *tree.DirectoryRecord
}

type CompareResult struct {
	SameDigest bool
	Added      []Change
	Resized    []Change
	Deleted    []Change
}

func (r *CompareResult) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Resized) > 0 || len(r.Deleted) > 0
}

// Compare diffs two reports directory by directory. A directory counts as
// resized when its total size changed.
func Compare(oldReport, newReport *tree.Report) *CompareResult {
	result := &CompareResult{
		SameDigest: oldReport.Digest == newReport.Digest,
		Added:      make([]Change, 0),
		Resized:    make([]Change, 0),
		Deleted:    make([]Change, 0),
	}
	if result.SameDigest {
		return result
	}

	oldDirs := oldReport.Lookup()
	newDirs := newReport.Lookup()

	for path, newData := range newDirs {
		newDataCopy := newData
		if oldData, exists := oldDirs[path]; exists {
			if oldData.Size != newData.Size {
				oldDataCopy := oldData
				result.Resized = append(result.Resized, Change{
					Type:    Resized,
					Path:    path,
					OldData: &oldDataCopy,
					NewData: &newDataCopy,
				})
			}
			continue
		}
		result.Added = append(result.Added, Change{
			Type:    Added,
			Path:    path,
			NewData: &newDataCopy,
		})
	}

	for path, oldData := range oldDirs {
		if _, exists := newDirs[path]; !exists {
			oldDataCopy := oldData
			result.Deleted = append(result.Deleted, Change{
				Type:    Deleted,
				Path:    path,
				OldData: &oldDataCopy,
			})
		}
	}

	// Sort for deterministic output
	for _, changes := range [][]Change{result.Added, result.Resized, result.Deleted} {
		sort.Slice(changes, func(i, j int) bool {
			return changes[i].Path < changes[j].Path
		})
	}

	return result
}

func FormatReport(result *CompareResult) string {
	if !result.HasChanges() {
		return "No changes detected."
	}

	var report strings.Builder
	report.WriteString("Changes detected:\n\n")

	if len(result.Added) > 0 {
		fmt.Fprintf(&report, "ADDED (%d directories):\n", len(result.Added))
		for _, change := range result.Added {
			fmt.Fprintf(&report, "  + %s (size: %s)\n", change.Path, humanize.IBytes(change.NewData.Size))
		}
		report.WriteString("\n")
	}

	if len(result.Resized) > 0 {
		fmt.Fprintf(&report, "RESIZED (%d directories):\n", len(result.Resized))
		for _, change := range result.Resized {
			fmt.Fprintf(&report, "  ~ %s\n", change.Path)
			fmt.Fprintf(&report, "    Old: size=%d bytes, direct=%d bytes\n", change.OldData.Size, change.OldData.DirectBytes)
			fmt.Fprintf(&report, "    New: size=%d bytes, direct=%d bytes\n", change.NewData.Size, change.NewData.DirectBytes)
		}
		report.WriteString("\n")
	}

	if len(result.Deleted) > 0 {
		fmt.Fprintf(&report, "DELETED (%d directories):\n", len(result.Deleted))
		for _, change := range result.Deleted {
			fmt.Fprintf(&report, "  - %s (size: %s)\n", change.Path, humanize.IBytes(change.OldData.Size))
		}
		report.WriteString("\n")
	}

	fmt.Fprintf(&report, "Summary: %d added, %d resized, %d deleted\n",
		len(result.Added), len(result.Resized), len(result.Deleted))

	return report.String()
}
