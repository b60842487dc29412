package tree

import (
	"slices"
	"strings"
)

// Tree is a fully built, read-only directory tree. It is safe for concurrent
// readers since nothing mutates it once the Builder hands it out.
type Tree struct {
	arena *Arena
	root  Handle
}

// Root returns the handle of the root directory.
func (t *Tree) Root() Handle {
	return t.root
}

// Len returns the number of directories, root included.
func (t *Tree) Len() int {
	return t.arena.Len()
}

// Node returns a copy of the directory at h.
func (t *Tree) Node(h Handle) (Node, error) {
	return t.arena.Node(h)
}

// Children returns the child handles of h in listing order.
func (t *Tree) Children(h Handle) []Handle {
	if !t.arena.valid(h) {
		return nil
	}
	return slices.Clone(t.arena.children(h))
}

// Parent returns the parent of h; ok is false for the root.
func (t *Tree) Parent(h Handle) (Handle, bool) {
	return t.arena.Parent(h)
}

// Child looks up a child of parent by name.
func (t *Tree) Child(parent Handle, name string) (Handle, bool) {
	return t.arena.Child(parent, name)
}

// Path returns the absolute path of h, e.g. "/a/e".
func (t *Tree) Path(h Handle) (string, error) {
	if err := t.arena.check(h); err != nil {
		return "", err
	}
	var parts []string
	for cur := h; cur != t.root; {
		parts = append(parts, t.arena.nodes[cur].Name)
		cur, _ = t.arena.Parent(cur)
	}
	if len(parts) == 0 {
		return RootName, nil
	}
	slices.Reverse(parts)
	return RootName + strings.Join(parts, "/"), nil
}

// Resolve finds a directory by absolute path.
func (t *Tree) Resolve(path string) (Handle, bool) {
	cur := t.root
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part == "" {
			continue
		}
		next, ok := t.arena.Child(cur, part)
		if !ok {
			return NoParent, false
		}
		cur = next
	}
	return cur, true
}
