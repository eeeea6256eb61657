package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func enabledCounter(buf *bytes.Buffer) *Counter {
	c := New(buf)
	c.enabled = true
	return c
}

func TestNew_DisabledForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)

	c.Observe(1, "a.txt")
	c.Finish()

	if buf.Len() != 0 {
		t.Errorf("Expected no output for a non-terminal writer, got %q", buf.String())
	}
}

func TestObserve_RendersCountAndName(t *testing.T) {
	var buf bytes.Buffer
	c := enabledCounter(&buf)

	c.Observe(1234, "photo.jpg")

	out := buf.String()
	if !strings.HasPrefix(out, "\r\033[K") {
		t.Errorf("Expected line redraw prefix, got %q", out)
	}
	if !strings.Contains(out, "Working on file (1,234): photo.jpg") {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestObserve_Throttled(t *testing.T) {
	var buf bytes.Buffer
	c := enabledCounter(&buf)
	c.interval = time.Hour

	c.Observe(1, "a")
	c.Observe(2, "b")
	c.Observe(3, "c")

	if n := strings.Count(buf.String(), "Working on file"); n != 1 {
		t.Errorf("Expected 1 render within the interval, got %d", n)
	}
}

func TestObserve_TruncatesLongNames(t *testing.T) {
	var buf bytes.Buffer
	c := enabledCounter(&buf)

	c.Observe(1, strings.Repeat("x", 200))

	if strings.Contains(buf.String(), strings.Repeat("x", nameWidth+1)) {
		t.Errorf("Name should be truncated to %d characters", nameWidth)
	}
}

func TestFinish_ClearsLine(t *testing.T) {
	var buf bytes.Buffer
	c := enabledCounter(&buf)

	c.Finish()
	if buf.Len() != 0 {
		t.Errorf("Finish without output should write nothing, got %q", buf.String())
	}

	c.Observe(1, "a")
	buf.Reset()
	c.Finish()
	if buf.String() != "\r\033[K" {
		t.Errorf("Expected clear sequence, got %q", buf.String())
	}
}
