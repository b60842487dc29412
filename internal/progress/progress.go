package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Bar renders solved/total transcripts on one terminal line. It is safe
// for concurrent use.
type Bar struct {
	total      int64
	current    int64
	width      int
	writer     io.Writer
	mu         sync.Mutex
	active     map[string]bool
	lastUpdate time.Time
}

func New(total int64, w io.Writer) *Bar {
	return &Bar{
		total:      total,
		width:      40,
		writer:     w,
		active:     make(map[string]bool),
		lastUpdate: time.Now(),
	}
}

// Start marks a transcript as being solved.
func (b *Bar) Start(path string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.active[filepath.Base(path)] = true
	b.render()
}

// Done marks a transcript as finished.
func (b *Bar) Done(path string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.active, filepath.Base(path))
	b.current++

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond || b.current == b.total {
		b.lastUpdate = now
		b.render()
	}
}

// Current returns how many transcripts have finished.
func (b *Bar) Current() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// render must be called with mu already locked
func (b *Bar) render() {
	if b.total == 0 {
		return
	}

	current := min(b.current, b.total)
	percent := float64(current) / float64(b.total) * 100
	filledWidth := int(float64(b.width) * float64(current) / float64(b.total))

	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", b.width-filledWidth)

	names := make([]string, 0, len(b.active))
	for name := range b.active {
		names = append(names, name)
	}
	sort.Strings(names)

	var display string
	switch {
	case len(names) > 3:
		display = fmt.Sprintf(" | %s, %s, %s +%d more", names[0], names[1], names[2], len(names)-3)
	case len(names) > 0:
		display = " | " + strings.Join(names, ", ")
	}

	// Clear the line and write progress
	fmt.Fprintf(b.writer, "\r\033[K[%s] %3d%% (%d/%d)%s",
		bar, int(percent), current, b.total, display)
}

func (b *Bar) Finish() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = b.total
	clear(b.active)
	b.render()
	fmt.Fprintf(b.writer, "\n")
}
