// Package query answers the two size questions asked of a built tree.
package query

import (
	"fmt"
	"iter"
	"math/bits"

	"dirsize/internal/tree"
)

// DirectorySizes is the read side of tree.Sizes used here.
type DirectorySizes interface {
	All() iter.Seq2[tree.Handle, uint64]
	Root() uint64
}

// CapacityUnderflowError is returned when the tree uses more space than
// the declared capacity.
type CapacityUnderflowError struct {
	Used     uint64
	Capacity uint64
}

func (e *CapacityUnderflowError) Error() string {
	return fmt.Sprintf("used space %d exceeds capacity %d", e.Used, e.Capacity)
}

// NoCandidateError is returned when no directory is large enough to free
// the missing space.
type NoCandidateError struct {
	Missing uint64
}

func (e *NoCandidateError) Error() string {
	return fmt.Sprintf("no directory frees at least %d bytes", e.Missing)
}

// SumAtMost returns the sum of the sizes of all directories, root included,
// whose size is at most threshold. Nested directories count once each.
func SumAtMost(sizes DirectorySizes, threshold uint64) (uint64, error) {
	var sum uint64
	for _, size := range sizes.All() {
		if size > threshold {
			continue
		}
		var carry uint64
		sum, carry = bits.Add64(sum, size, 0)
		if carry != 0 {
			return 0, tree.ErrSizeOverflow
		}
	}
	return sum, nil
}

// Deletion describes the outcome of DeletionCandidate.
type Deletion struct {
	// Needed is false when free space already covers the requirement; Size
	// and Missing are zero then.
	Needed  bool
	Used    uint64
	Free    uint64
	Missing uint64
	// Size is the smallest directory size that is at least Missing.
	Size uint64
}

// DeletionCandidate finds the smallest directory whose removal brings free
// space on a disk of the given capacity up to required.
func DeletionCandidate(sizes DirectorySizes, capacity, required uint64) (Deletion, error) {
	used := sizes.Root()
	if used > capacity {
		return Deletion{}, &CapacityUnderflowError{Used: used, Capacity: capacity}
	}
	d := Deletion{Used: used, Free: capacity - used}
	if required <= d.Free {
		return d, nil
	}
	d.Needed = true
	d.Missing = required - d.Free

	found := false
	for _, size := range sizes.All() {
		if size >= d.Missing && (!found || size < d.Size) {
			d.Size = size
			found = true
		}
	}
	if !found {
		return Deletion{}, &NoCandidateError{Missing: d.Missing}
	}
	return d, nil
}
