package tree

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"dirsize/internal/hash"
)

// DirectoryRecord is one directory of a Report.
type DirectoryRecord struct {
	Path        string `json:"path"`
	DirectBytes uint64 `json:"direct_bytes"`
	Size        uint64 `json:"size"`
}

// Report is the JSON summary of a solved transcript. It holds sizes only,
// not the tree itself.
type Report struct {
	Generator   string            `json:"generator"`
	Created     time.Time         `json:"created"`
	Source      string            `json:"source,omitempty"`
	Digest      string            `json:"digest"`
	Used        uint64            `json:"used"`
	UsedHuman   string            `json:"used_human"`
	Directories []DirectoryRecord `json:"directories"`
}

// NewReport lists every directory of t sorted by path, with a Merkle digest
// over the records. Sibling order in the transcript does not affect it.
func NewReport(t *Tree, sizes *Sizes) (*Report, error) {
	records := make([]DirectoryRecord, 0, t.Len())
	for h, total := range sizes.All() {
		path, err := t.Path(h)
		if err != nil {
			return nil, err
		}
		records = append(records, DirectoryRecord{
			Path:        path,
			DirectBytes: t.arena.nodes[h].DirectBytes,
			Size:        total,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})

	digest, err := Digest(records)
	if err != nil {
		return nil, err
	}

	return &Report{
		Generator:   "dirsize",
		Created:     time.Now(),
		Digest:      digest,
		Used:        sizes.Root(),
		UsedHuman:   humanize.IBytes(sizes.Root()),
		Directories: records,
	}, nil
}

// Digest computes the Merkle root over path-sorted records.
func Digest(records []DirectoryRecord) (string, error) {
	leaves := make([][]byte, len(records))
	for i, r := range records {
		leaf := append([]byte(r.Path), 0)
		leaf = strconv.AppendUint(leaf, r.DirectBytes, 10)
		leaves[i] = leaf
	}
	digest, err := hash.MerkleRoot(leaves)
	if err != nil {
		return "", fmt.Errorf("failed to compute digest: %w", err)
	}
	return digest, nil
}

// Lookup indexes the report by path.
func (r *Report) Lookup() map[string]DirectoryRecord {
	m := make(map[string]DirectoryRecord, len(r.Directories))
	for _, d := range r.Directories {
		m[d.Path] = d
	}
	return m
}

func Save(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	// The stored digest must match the records.
	sort.Slice(report.Directories, func(i, j int) bool {
		return report.Directories[i].Path < report.Directories[j].Path
	})
	digest, err := Digest(report.Directories)
	if err != nil {
		return nil, err
	}
	if report.Digest != "" && report.Digest != digest {
		return nil, fmt.Errorf("report digest mismatch: file says %s, content hashes to %s", report.Digest, digest)
	}
	report.Digest = digest

	return &report, nil
}
