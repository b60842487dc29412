// Package tree holds the directory tree reconstructed from a transcript.
//
// All nodes live in one Arena and refer to each other by Handle, so the
// parent/child back-references need no pointers between nodes.
package tree

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"
)

// Handle identifies a node inside the Arena that issued it. Handles are
// issued in increasing order starting at RootHandle and are never reused.
type Handle int

const (
	// RootHandle is always the first handle issued.
	RootHandle Handle = 0
	// NoParent is the parent of the root.
	NoParent Handle = -1
	// RootName is the name given to the root directory.
	RootName = "/"
)

var (
	// ErrInvalidHandle indicates a handle not issued by this arena.
	ErrInvalidHandle = errors.New("invalid node handle")

	// ErrSizeOverflow indicates a byte total that does not fit in 64 bits.
	ErrSizeOverflow = errors.New("byte total overflows uint64")
)

// Node is a directory. Files are not kept individually, only the sum of
// their sizes in DirectBytes.
type Node struct {
	Name        string
	DirectBytes uint64
	Parent      Handle
	Children    []Handle
}

type childKey struct {
	parent Handle
	name   string
}

// Arena owns every node of one tree.
type Arena struct {
	nodes  []Node
	byName map[childKey]Handle
}

// NewArena returns an arena holding only the root node.
func NewArena() *Arena {
	return &Arena{
		nodes:  []Node{{Name: RootName, Parent: NoParent}},
		byName: make(map[childKey]Handle),
	}
}

// Len reports the number of nodes, which is also the next handle to be issued.
func (a *Arena) Len() int {
	return len(a.nodes)
}

func (a *Arena) valid(h Handle) bool {
	return h >= 0 && int(h) < len(a.nodes)
}

func (a *Arena) check(h Handle) error {
	if !a.valid(h) {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return nil
}

// Child looks up the child of parent called name.
func (a *Arena) Child(parent Handle, name string) (Handle, bool) {
	h, ok := a.byName[childKey{parent: parent, name: name}]
	return h, ok
}

// AddChild returns the child of parent called name, creating it if it does
// not exist yet. created reports whether a new node was issued.
func (a *Arena) AddChild(parent Handle, name string) (h Handle, created bool, err error) {
	if err := a.check(parent); err != nil {
		return 0, false, err
	}
	if h, ok := a.Child(parent, name); ok {
		return h, false, nil
	}

	h = Handle(len(a.nodes))
	a.nodes = append(a.nodes, Node{Name: name, Parent: parent})
	a.nodes[parent].Children = append(a.nodes[parent].Children, h)
	a.byName[childKey{parent: parent, name: name}] = h
	return h, true, nil
}

// AddBytes adds n to the direct byte total of h.
func (a *Arena) AddBytes(h Handle, n uint64) error {
	if err := a.check(h); err != nil {
		return err
	}
	sum, carry := bits.Add64(a.nodes[h].DirectBytes, n, 0)
	if carry != 0 {
		return fmt.Errorf("%w: directory %q", ErrSizeOverflow, a.nodes[h].Name)
	}
	a.nodes[h].DirectBytes = sum
	return nil
}

// Parent returns the parent of h; ok is false for the root.
func (a *Arena) Parent(h Handle) (parent Handle, ok bool) {
	if !a.valid(h) || a.nodes[h].Parent == NoParent {
		return NoParent, false
	}
	return a.nodes[h].Parent, true
}

// Node returns a copy of the node at h. The Children slice is a copy too.
func (a *Arena) Node(h Handle) (Node, error) {
	if err := a.check(h); err != nil {
		return Node{}, err
	}
	n := a.nodes[h]
	n.Children = slices.Clone(n.Children)
	return n, nil
}

// children returns the child handles of h without copying. Callers must not
// modify the result.
func (a *Arena) children(h Handle) []Handle {
	return a.nodes[h].Children
}
