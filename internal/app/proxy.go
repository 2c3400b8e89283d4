package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/nounder/tzig/internal/config"
	"github.com/nounder/tzig/internal/terminal"
)

// Proxy is the multiplexing core. It owns all mutable state: the main
// shell's PTY and screen model, the window manager with its floating
// shell, the overlay flag, and the query forwarder. Everything runs on
// the event-loop goroutine; nothing here is shared.
type Proxy struct {
	cols, rows int

	// Main shell, owned by the proxy itself rather than a window.
	mainPty *os.File
	mainCmd *exec.Cmd
	mainWin *terminal.Window

	wm    *terminal.WindowManager
	float *terminal.Window

	forwarder QueryForwarder

	// overlayVisible gates compositing: false means raw pass-through.
	overlayVisible bool

	// out is the user terminal. Frames are written buffered and
	// flushed once per frame.
	out *bufio.Writer

	logger *log.Logger
}

// New spawns the main shell sized to the host terminal and one
// floating shell window, centered and half the host size. Spawn
// failures are fatal to startup.
func New(cols, rows int, logger *log.Logger) (*Proxy, error) {
	p := &Proxy{
		cols:   cols,
		rows:   rows,
		out:    bufio.NewWriter(os.Stdout),
		logger: logger,
	}

	mainPty, mainCmd, err := terminal.StartShell(cols, rows)
	if err != nil {
		return nil, fmt.Errorf("main shell: %w", err)
	}
	p.mainPty = mainPty
	p.mainCmd = mainCmd

	p.mainWin = terminal.NewMainWindow(cols, rows)
	p.wm = terminal.NewWindowManager(p.mainWin)

	fw := max(config.MinFloatingWidth, cols/2)
	fh := max(config.MinFloatingHeight, rows/2)
	fx := (cols - fw) / 2
	fy := (rows - fh) / 2

	float, err := p.wm.CreateFloatingWindow(fx, fy, fw, fh, config.DefaultFloatingTitle)
	if err != nil {
		terminal.StopShell(mainPty, mainCmd)
		return nil, err
	}
	p.float = float

	logger.Debug("proxy ready",
		"host", fmt.Sprintf("%dx%d", cols, rows),
		"float", fmt.Sprintf("%dx%d@%d,%d", fw, fh, fx, fy),
		"window", float.ID)

	return p, nil
}

// Cleanup releases the shells and leaves the host terminal on its
// primary screen. Safe to call once after the loop exits on any path;
// termios restoration is the caller's deferred obligation.
func (p *Proxy) Cleanup() {
	if p.overlayVisible {
		io.WriteString(p.out, "\x1b[?1049l")
		p.overlayVisible = false
	}
	_ = p.out.Flush()
	p.wm.Close()
	terminal.StopShell(p.mainPty, p.mainCmd)
}

// feedMain routes main-shell output: always into the model, and either
// raw to the user terminal (pass-through) or into a recomposited frame
// (overlay).
func (p *Proxy) feedMain(data []byte) {
	p.mainWin.FeedOutput(data)
	if p.overlayVisible {
		p.renderAll()
		return
	}
	_, _ = p.out.Write(data)
	_ = p.out.Flush()
}

// feedFloat routes floating-shell output: query scan first, then the
// model, then a recomposite when the overlay is up.
func (p *Proxy) feedFloat(data []byte) {
	if n := p.forwarder.Scan(data, p.out, p.float.Pty); n > 0 {
		p.logger.Debug("forwarded terminal queries", "count", n)
		_ = p.out.Flush()
	}
	p.float.FeedOutput(data)
	if p.overlayVisible {
		p.renderAll()
	}
}

// handleStdin processes one read of user-terminal input: pending query
// responses first, then the overlay hotkey, then routing to whichever
// shell holds focus.
func (p *Proxy) handleStdin(data []byte) {
	if p.forwarder.Route(data) {
		p.logger.Debug("routed query response", "len", len(data))
		return
	}

	if isToggleHotkey(data) {
		p.toggleOverlay()
		return
	}

	if p.overlayVisible {
		// Focus is on the floating shell; a dead PTY swallows the
		// bytes silently.
		_ = p.float.SendInput(data)
		return
	}
	_, _ = p.mainPty.Write(data)
}

// isToggleHotkey recognizes the overlay toggle: a lone Ctrl+] byte, or
// its exact Kitty keyboard-protocol encoding.
func isToggleHotkey(data []byte) bool {
	if len(data) == 1 && data[0] == config.ToggleByte {
		return true
	}
	return len(data) == len(config.ToggleKittySeq) && string(data) == string(config.ToggleKittySeq)
}

// OverlayVisible reports the overlay state.
func (p *Proxy) OverlayVisible() bool { return p.overlayVisible }
