package tree

import (
	"errors"
	"fmt"
	"io"

	"dirsize/internal/transcript"
)

// ErrRootEscape is returned for "cd .." issued at the root.
var ErrRootEscape = errors.New("cannot change to the parent of the root directory")

// MissingDirectoryError is returned when cd names a directory that no
// listing of the current directory has shown.
type MissingDirectoryError struct {
	Name string
}

func (e *MissingDirectoryError) Error() string {
	return fmt.Sprintf("directory %q has not been listed in the current directory", e.Name)
}

// Builder replays transcript events against an Arena, tracking the current
// directory. Events must be applied in transcript order.
type Builder struct {
	arena *Arena
	cwd   Handle
}

func NewBuilder() *Builder {
	return &Builder{arena: NewArena(), cwd: RootHandle}
}

// Cwd returns the handle of the current directory.
func (b *Builder) Cwd() Handle {
	return b.cwd
}

// Apply processes one event.
func (b *Builder) Apply(ev transcript.Event) error {
	switch ev := ev.(type) {
	case transcript.ChangeDirectory:
		return b.changeDirectory(ev.Target)
	case transcript.DirectoryEntry:
		_, _, err := b.arena.AddChild(b.cwd, ev.Name)
		return err
	case transcript.FileEntry:
		return b.arena.AddBytes(b.cwd, ev.Size)
	default:
		return fmt.Errorf("unknown transcript event %T", ev)
	}
}

func (b *Builder) changeDirectory(target string) error {
	switch target {
	case transcript.RootTarget:
		b.cwd = RootHandle
	case transcript.ParentTarget:
		parent, ok := b.arena.Parent(b.cwd)
		if !ok {
			return ErrRootEscape
		}
		b.cwd = parent
	default:
		child, ok := b.arena.Child(b.cwd, target)
		if !ok {
			return &MissingDirectoryError{Name: target}
		}
		b.cwd = child
	}
	return nil
}

// Tree freezes the arena. The builder must not be used afterwards.
func (b *Builder) Tree() *Tree {
	t := &Tree{arena: b.arena, root: RootHandle}
	b.arena = nil
	return t
}

// Build replays a complete event sequence.
func Build(events []transcript.Event) (*Tree, error) {
	b := NewBuilder()
	for i, ev := range events {
		if err := b.Apply(ev); err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	return b.Tree(), nil
}

// BuildLines parses and replays transcript lines in a single pass. Errors
// name the offending line.
func BuildLines(lines []string) (*Tree, error) {
	p := transcript.NewParser(lines)
	b := NewBuilder()
	for {
		ev, err := p.Next()
		if err == io.EOF {
			return b.Tree(), nil
		}
		if err != nil {
			return nil, err
		}
		if err := b.Apply(ev); err != nil {
			return nil, fmt.Errorf("after line %d: %w", p.Line(), err)
		}
	}
}
