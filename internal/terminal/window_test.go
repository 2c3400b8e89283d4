package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nounder/tzig/internal/vt"
)

// newTestWindow builds a window without a PTY so tests never spawn
// shells.
func newTestWindow(x, y, width, height int, border bool, title string) *Window {
	w := &Window{
		X:            x,
		Y:            y,
		Width:        width,
		Height:       height,
		HasBorder:    border,
		DefaultTitle: title,
		Visible:      true,
	}
	cw, ch := w.ContentSize()
	w.Term = vt.NewEmulator(cw, ch)
	w.Term.SetCallbacks(vt.Callbacks{Title: w.SetDynamicTitle})
	return w
}

func TestHiddenWindowRendersNothing(t *testing.T) {
	w := newTestWindow(0, 0, 10, 4, true, "t")
	w.Visible = false

	var buf bytes.Buffer
	w.Render(&buf)
	if buf.Len() != 0 {
		t.Errorf("hidden window wrote %q", buf.String())
	}
}

func TestBorderGeometry(t *testing.T) {
	w := newTestWindow(0, 0, 20, 5, true, "ABC")

	var buf bytes.Buffer
	w.Render(&buf)
	out := buf.String()

	wantTop := "\x1b[1;1H╭──────" + " ABC " + "───────╮"
	if !strings.HasPrefix(out, wantTop) {
		t.Errorf("top row = %q..., want prefix %q", out[:min(len(out), 80)], wantTop)
	}
}

func TestTopEdgeCentering(t *testing.T) {
	tests := []struct {
		name  string
		width int
		title string
		want  string
	}{
		{"centered odd remainder", 20, "ABC", "──────" + " ABC " + "───────"},
		{"centered even remainder", 21, "ABC", "───────" + " ABC " + "───────"},
		{"empty title", 10, "", "────────"},
		{"title fills width", 10, "abcdef", " abcdef "},
		{"title truncated", 10, "abcdefghij", " abcdef "},
		{"narrow window drops title", 4, "xy", "──"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWindow(0, 0, tt.width, 5, true, tt.title)
			got := w.topEdge()
			if got != tt.want {
				t.Errorf("topEdge() = %q, want %q", got, tt.want)
			}
			if n := len([]rune(got)); n != tt.width-2 {
				t.Errorf("topEdge() width = %d runes, want %d", n, tt.width-2)
			}
		})
	}
}

func TestDynamicTitle(t *testing.T) {
	w := newTestWindow(0, 0, 30, 6, true, "default")

	if w.Title() != "default" {
		t.Errorf("initial title = %q, want default", w.Title())
	}

	// Shell sets the title through OSC 2.
	w.FeedOutput([]byte("\x1b]2;from shell\x1b\\"))
	if w.Title() != "from shell" {
		t.Errorf("title = %q, want %q", w.Title(), "from shell")
	}

	// Oversized titles truncate silently at the buffer capacity.
	long := strings.Repeat("x", 400)
	w.SetDynamicTitle(long)
	if got := w.Title(); len(got) != 256 {
		t.Errorf("truncated title len = %d, want 256", len(got))
	}
}

func TestContentStyling(t *testing.T) {
	w := newTestWindow(0, 0, 20, 3, false, "")
	w.FeedOutput([]byte("\x1b[1;31mx\x1b[0m"))

	var buf bytes.Buffer
	w.Render(&buf)
	out := buf.String()

	want := "\x1b[1;1H" + "\x1b[0m\x1b[1m\x1b[31m" + "x" + "\x1b[0m"
	if !strings.HasPrefix(out, want) {
		t.Fatalf("row 0 = %q..., want prefix %q", out[:min(len(out), 60)], want)
	}
	// The padding after the styled run must carry no SGR.
	rest := out[len(want):]
	rowEnd := strings.Index(rest, "\x1b[2;")
	if rowEnd < 0 {
		rowEnd = len(rest)
	}
	if strings.Contains(rest[:rowEnd], "\x1b[0m") || strings.Contains(rest[:rowEnd], "m") {
		t.Errorf("padding carries styling: %q", rest[:rowEnd])
	}
}

func TestStyleRunCompression(t *testing.T) {
	w := newTestWindow(0, 0, 10, 1, false, "")
	// Two cells of the same style, then one different.
	w.FeedOutput([]byte("\x1b[31mab\x1b[32mc"))

	var buf bytes.Buffer
	w.Render(&buf)
	out := buf.String()

	if got := strings.Count(out, "\x1b[31m"); got != 1 {
		t.Errorf("red SGR emitted %d times, want 1 (run compression)", got)
	}
	if got := strings.Count(out, "\x1b[32m"); got != 1 {
		t.Errorf("green SGR emitted %d times, want 1", got)
	}
	if !strings.Contains(out, "\x1b[31mab") {
		t.Errorf("styled run broken up: %q", out)
	}
}

func TestZOrderComposition(t *testing.T) {
	main := newTestWindow(0, 0, 20, 6, false, "")
	m := NewWindowManager(main)

	// Two overlapping borderless floats appended by hand so no PTYs
	// spawn. Later windows must paint over earlier ones.
	a := newTestWindow(2, 1, 8, 3, false, "")
	b := newTestWindow(4, 2, 8, 3, false, "")
	m.Floating = append(m.Floating, a, b)

	a.FeedOutput([]byte("aaaaaaaa\r\naaaaaaaa\r\naaaaaaaa"))
	b.FeedOutput([]byte("bbbbbbbb\r\nbbbbbbbb\r\nbbbbbbbb"))

	var buf bytes.Buffer
	m.Render(&buf)

	// Replay the frame into a host-sized model and inspect the overlap.
	host := vt.NewEmulator(20, 6)
	_, _ = host.Write(buf.Bytes())

	if c := host.CellAt(5, 2); c == nil || c.Rune != 'b' {
		t.Errorf("overlap cell = %+v, want 'b' on top", c)
	}
	if c := host.CellAt(2, 1); c == nil || c.Rune != 'a' {
		t.Errorf("uncovered cell = %+v, want 'a'", c)
	}
}

func TestContentSize(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		border   bool
		wantCols int
		wantRows int
	}{
		{"borderless full rect", 10, 5, false, 10, 5},
		{"bordered inset", 10, 5, true, 8, 3},
		{"tiny bordered floors at one", 2, 2, true, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWindow(0, 0, tt.w, tt.h, tt.border, "")
			cols, rows := w.ContentSize()
			if cols != tt.wantCols || rows != tt.wantRows {
				t.Errorf("ContentSize() = %dx%d, want %dx%d", cols, rows, tt.wantCols, tt.wantRows)
			}
		})
	}
}

func TestShellFromEnv(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")
	if got := ShellFromEnv(); got != "/bin/zsh" {
		t.Errorf("ShellFromEnv() = %q, want /bin/zsh", got)
	}
	t.Setenv("SHELL", "")
	if got := ShellFromEnv(); got != "/bin/sh" {
		t.Errorf("ShellFromEnv() fallback = %q, want /bin/sh", got)
	}
}
