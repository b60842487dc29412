package tree

import (
	"fmt"
	"iter"
	"math/bits"
)

// Sizes maps every directory of a tree to its total size: its own file
// bytes plus the totals of all its subdirectories.
type Sizes struct {
	totals []uint64
	root   Handle
}

type frame struct {
	h        Handle
	expanded bool
}

// Aggregate computes the total size of every directory in one post-order
// pass, so each total is derived from already computed child totals.
func Aggregate(t *Tree) (*Sizes, error) {
	a := t.arena
	totals := make([]uint64, a.Len())

	stack := []frame{{h: t.root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !top.expanded {
			stack = append(stack, frame{h: top.h, expanded: true})
			for _, c := range a.children(top.h) {
				stack = append(stack, frame{h: c})
			}
			continue
		}

		total := a.nodes[top.h].DirectBytes
		for _, c := range a.children(top.h) {
			var carry uint64
			total, carry = bits.Add64(total, totals[c], 0)
			if carry != 0 {
				return nil, fmt.Errorf("%w: directory %q", ErrSizeOverflow, a.nodes[top.h].Name)
			}
		}
		totals[top.h] = total
	}

	return &Sizes{totals: totals, root: t.root}, nil
}

// Of returns the total size of h.
func (s *Sizes) Of(h Handle) (uint64, bool) {
	if h < 0 || int(h) >= len(s.totals) {
		return 0, false
	}
	return s.totals[h], true
}

// Root returns the total size of the root, i.e. the used space.
func (s *Sizes) Root() uint64 {
	return s.totals[s.root]
}

// Len returns the number of directories.
func (s *Sizes) Len() int {
	return len(s.totals)
}

// All yields every directory handle with its total size, in handle order.
func (s *Sizes) All() iter.Seq2[Handle, uint64] {
	return func(yield func(Handle, uint64) bool) {
		for i, total := range s.totals {
			if !yield(Handle(i), total) {
				return
			}
		}
	}
}
