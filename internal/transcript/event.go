// Package transcript turns a shell session log of cd/ls commands into a
// stream of structured events.
package transcript

import "fmt"

// Event is one structured entry of a transcript. The set of implementations
// is closed: ChangeDirectory, DirectoryEntry and FileEntry.
type Event interface {
	isEvent()
}

// ChangeDirectory is emitted for "$ cd <target>". Target is "/", ".." or a
// bare child name.
type ChangeDirectory struct {
	Target string
}

// DirectoryEntry is emitted for a "dir <name>" line of a listing.
type DirectoryEntry struct {
	Name string
}

// FileEntry is emitted for a "<size> <name>" line of a listing. The file
// name is not kept.
type FileEntry struct {
	Size uint64
}

func (ChangeDirectory) isEvent() {}
func (DirectoryEntry) isEvent()  {}
func (FileEntry) isEvent()       {}

const (
	// RootTarget is the cd argument that moves to the root.
	RootTarget = "/"
	// ParentTarget is the cd argument that moves to the parent.
	ParentTarget = ".."
)

// ParseError reports a transcript line that matches no grammar production.
type ParseError struct {
	Line int // 1-based
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: malformed transcript line %q", e.Line, e.Text)
}
