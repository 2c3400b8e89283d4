package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Host terminal size fallback, used when the size query fails (for
// example when stdin is a pipe in tests).
const (
	FallbackCols = 80
	FallbackRows = 24
)

// RawMode holds the host terminal's original termios so every exit
// path can restore it.
type RawMode struct {
	fd    int
	state *term.State
}

// EnterRawMode puts the terminal on fd into raw mode (no echo, no
// canonical processing, no signal keys, no output post-processing) and
// snapshots the prior state. Failure is fatal to startup.
func EnterRawMode(fd int) (*RawMode, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}
	return &RawMode{fd: fd, state: state}, nil
}

// Restore puts the terminal back into its original mode. Safe to call
// more than once.
func (r *RawMode) Restore() {
	if r == nil || r.state == nil {
		return
	}
	_ = term.Restore(r.fd, r.state)
	r.state = nil
}

// HostSize returns the host terminal dimensions, falling back to
// 80x24 when the size ioctl fails.
func HostSize() (cols, rows int) {
	cols, rows, err := term.GetSize(int(os.Stdin.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return FallbackCols, FallbackRows
	}
	return cols, rows
}
