package terminal

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"

	"github.com/nounder/tzig/internal/vt"
)

// titleBufSize bounds the dynamic window title. Longer titles are
// silently truncated.
const titleBufSize = 256

// Border glyphs.
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Window is a rectangle composited onto the host terminal: a screen
// model, optional border and title, and optionally its own shell PTY.
// The main window is borderless, PTY-less, and host-sized; floating
// windows are bordered and own a shell.
type Window struct {
	ID string

	// Position and extent in host cells, 0-indexed.
	X, Y          int
	Width, Height int

	HasBorder    bool
	DefaultTitle string

	// Dynamic title set by the shell via OSC 0/2. Bounded; empty
	// length falls back to DefaultTitle.
	titleBuf [titleBufSize]byte
	titleLen int

	// Term models the content area. Its dimensions never change after
	// init.
	Term *vt.Emulator

	// Owned shell, nil for the main window.
	Pty *os.File
	Cmd *exec.Cmd

	Visible bool
}

// NewMainWindow creates the borderless window mirroring the main
// shell. Its screen model covers the full host terminal; the PTY
// behind it is owned by the proxy, not the window.
func NewMainWindow(width, height int) *Window {
	w := &Window{
		ID:      uuid.NewString(),
		Width:   width,
		Height:  height,
		Visible: true,
	}
	w.Term = vt.NewEmulator(width, height)
	return w
}

// NewFloatingWindow creates a bordered window at x, y backed by its
// own shell PTY sized to the content area. Spawn failure is returned
// to the caller; the window is not usable in that case.
func NewFloatingWindow(x, y, width, height int, title string) (*Window, error) {
	w := &Window{
		ID:           uuid.NewString(),
		X:            x,
		Y:            y,
		Width:        width,
		Height:       height,
		HasBorder:    true,
		DefaultTitle: title,
		Visible:      true,
	}

	cw, ch := w.ContentSize()
	w.Term = vt.NewEmulator(cw, ch)
	w.Term.SetCallbacks(vt.Callbacks{
		Title: w.SetDynamicTitle,
	})

	ptm, cmd, err := StartShell(cw, ch)
	if err != nil {
		return nil, fmt.Errorf("floating window shell: %w", err)
	}
	w.Pty = ptm
	w.Cmd = cmd
	return w, nil
}

// Close releases the window's shell, if any: SIGTERM to the child,
// then close the master.
func (w *Window) Close() {
	if w.Pty != nil || w.Cmd != nil {
		StopShell(w.Pty, w.Cmd)
		w.Pty = nil
		w.Cmd = nil
	}
}

// ContentSize returns the dimensions of the content area: the full
// rect, or the rect inset by the border with a 1x1 floor.
func (w *Window) ContentSize() (cols, rows int) {
	if !w.HasBorder {
		return w.Width, w.Height
	}
	return max(1, w.Width-2), max(1, w.Height-2)
}

// ContentOrigin returns the absolute 0-indexed host position of the
// content area's top-left cell.
func (w *Window) ContentOrigin() (x, y int) {
	if !w.HasBorder {
		return w.X, w.Y
	}
	return w.X + 1, w.Y + 1
}

// SetDynamicTitle stores a title set by the shell, truncating silently
// at the buffer capacity.
func (w *Window) SetDynamicTitle(title string) {
	n := copy(w.titleBuf[:], title)
	w.titleLen = n
}

// Title returns the dynamic title when set, else the default title.
func (w *Window) Title() string {
	if w.titleLen > 0 {
		return string(w.titleBuf[:w.titleLen])
	}
	return w.DefaultTitle
}

// SendInput writes input bytes to the window's PTY. Writes to a dead
// or absent PTY fail silently per the routing contract; the error is
// informational.
func (w *Window) SendInput(input []byte) error {
	if w.Pty == nil {
		return fmt.Errorf("window %s has no pty", w.ID)
	}
	_, err := w.Pty.Write(input)
	return err
}

// FeedOutput feeds shell output bytes into the window's screen model.
func (w *Window) FeedOutput(p []byte) {
	_, _ = w.Term.Write(p)
}

// Render paints the window onto out with absolute cursor addressing:
// border first (when present), then the modeled content, one styled
// row at a time. Hidden windows render nothing.
func (w *Window) Render(out io.Writer) {
	if !w.Visible {
		return
	}
	if w.HasBorder {
		w.renderBorder(out)
	}
	w.renderContent(out)
}

// renderBorder draws the rounded frame with the title centered in the
// top edge.
func (w *Window) renderBorder(out io.Writer) {
	if w.Width < 2 || w.Height < 2 {
		return
	}

	moveTo(out, w.X, w.Y)
	io.WriteString(out, borderTopLeft)
	io.WriteString(out, w.topEdge())
	io.WriteString(out, borderTopRight)

	for row := 1; row < w.Height-1; row++ {
		moveTo(out, w.X, w.Y+row)
		io.WriteString(out, borderVertical)
		moveTo(out, w.X+w.Width-1, w.Y+row)
		io.WriteString(out, borderVertical)
	}

	moveTo(out, w.X, w.Y+w.Height-1)
	io.WriteString(out, borderBottomLeft)
	for i := 0; i < w.Width-2; i++ {
		io.WriteString(out, borderHorizontal)
	}
	io.WriteString(out, borderBottomRight)
}

// topEdge builds the inner top row: horizontal fill with the title
// centered, flanked by one space each side when non-empty. The title's
// visible length is capped at width-4 to keep the flanking cells.
func (w *Window) topEdge() string {
	inner := w.Width - 2
	if inner <= 0 {
		return ""
	}

	title := w.Title()
	maxTitle := w.Width - 4
	if maxTitle < 0 {
		maxTitle = 0
	}
	if ansi.StringWidth(title) > maxTitle {
		title = ansi.Truncate(title, maxTitle, "")
	}

	decorated := ""
	if ansi.StringWidth(title) > 0 {
		decorated = " " + title + " "
	}

	total := ansi.StringWidth(decorated)
	if total > inner {
		decorated = ansi.Truncate(decorated, inner, "")
		total = inner
	}

	padBefore := (inner - total) / 2
	padAfter := inner - total - padBefore

	var b []byte
	for i := 0; i < padBefore; i++ {
		b = append(b, borderHorizontal...)
	}
	b = append(b, decorated...)
	for i := 0; i < padAfter; i++ {
		b = append(b, borderHorizontal...)
	}
	return string(b)
}

// renderContent paints the model's viewport rows into the content
// area. Style transitions are emitted only when the style identity
// changes between consecutive cells, with a reset before each new
// non-empty style; trailing columns and rows fill with plain spaces.
func (w *Window) renderContent(out io.Writer) {
	cw, ch := w.ContentSize()
	ox, oy := w.ContentOrigin()
	scr := w.Term.Screen()

	for row := 0; row < ch; row++ {
		moveTo(out, ox, oy+row)

		line := scr.Row(row)
		if line == nil {
			writeSpaces(out, cw)
			continue
		}

		var cur vt.Style
		col := 0
		for col < cw && col < len(line) {
			cell := line[col]
			if cell.Width == 0 {
				// Continuation of a wide rune already painted.
				col++
				continue
			}
			if !cell.Style.Equals(cur) {
				io.WriteString(out, "\x1b[0m")
				io.WriteString(out, cell.Style.SGR())
				cur = cell.Style
			}
			if cell.Rune == 0 {
				io.WriteString(out, " ")
			} else {
				io.WriteString(out, string(cell.Rune))
			}
			col += max(1, cell.Width)
		}

		if !cur.IsZero() {
			io.WriteString(out, "\x1b[0m")
		}
		if col < cw {
			writeSpaces(out, cw-col)
		}
	}
}

// moveTo emits absolute cursor positioning for a 0-indexed host cell.
func moveTo(out io.Writer, x, y int) {
	fmt.Fprintf(out, "\x1b[%d;%dH", y+1, x+1)
}

func writeSpaces(out io.Writer, n int) {
	for i := 0; i < n; i++ {
		io.WriteString(out, " ")
	}
}
