package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

const nameWidth = 80

// Counter draws a single, redrawn status line with the number of files
// processed so far and the name of the current one.
type Counter struct {
	writer     io.Writer
	mu         sync.Mutex
	enabled    bool
	interval   time.Duration
	count      int
	name       string
	lastUpdate time.Time
	drawn      bool
}

// New returns a Counter writing to w. Output is suppressed when w is not a
// terminal.
func New(w io.Writer) *Counter {
	return &Counter{
		writer:   w,
		enabled:  isTerminal(w),
		interval: 100 * time.Millisecond,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	// Check if the file is a terminal (character device)
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// Observe records that file number count, named name, is being processed.
func (c *Counter) Observe(count int, name string) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.count = count
	c.name = name

	// Update at most every interval to reduce flickering
	now := time.Now()
	if !c.drawn || now.Sub(c.lastUpdate) >= c.interval {
		c.lastUpdate = now
		c.render()
	}
}

// render must be called with mu already locked
func (c *Counter) render() {
	c.drawn = true
	fmt.Fprintf(c.writer, "\r\033[KWorking on file (%s): %s",
		humanize.Comma(int64(c.count)), truncate(c.name, nameWidth))
}

// Finish clears the status line.
func (c *Counter) Finish() {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drawn {
		fmt.Fprint(c.writer, "\r\033[K")
		c.drawn = false
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
