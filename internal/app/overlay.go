package app

import (
	"fmt"
	"io"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/nounder/tzig/internal/config"
)

// toggleOverlay flips between pass-through and the composited overlay.
func (p *Proxy) toggleOverlay() {
	if p.overlayVisible {
		p.hideOverlay()
	} else {
		p.showOverlay()
	}
}

// showOverlay drains whatever the main shell already wrote, so the
// primary screen is complete before it freezes, then enters the
// alternate screen and paints the first composed frame.
func (p *Proxy) showOverlay() {
	p.logger.Debug("overlay show")
	p.drainMainPty()
	io.WriteString(p.out, "\x1b[?1049h")
	p.overlayVisible = true
	p.renderAll()
}

// hideOverlay paints one last model-based frame so the transition has
// a coherent picture, leaves the alternate screen, and pokes the main
// shell with SIGWINCH so prompts and full-screen programs repaint.
func (p *Proxy) hideOverlay() {
	p.logger.Debug("overlay hide")
	p.renderMainWindowOnly()
	io.WriteString(p.out, "\x1b[?1049l")
	_ = p.out.Flush()
	p.overlayVisible = false

	if p.mainCmd != nil && p.mainCmd.Process != nil {
		_ = p.mainCmd.Process.Signal(syscall.SIGWINCH)
	}
}

// drainMainPty consumes the main PTY's pending readable bytes within a
// hard bound, feeding the model and passing them through to the still
// primary screen.
func (p *Proxy) drainMainPty() {
	if p.mainPty == nil {
		return
	}
	fd := int(p.mainPty.Fd())
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	buf := make([]byte, config.ReadBufferSize)

	for i := 0; i < config.DrainMaxIterations; i++ {
		fds[0].Revents = 0
		n, err := unix.Poll(fds, int(config.DrainPollTimeout.Milliseconds()))
		if err != nil || n == 0 || fds[0].Revents&unix.POLLIN == 0 {
			break
		}
		rn, rerr := unix.Read(fd, buf)
		if rn <= 0 || rerr != nil {
			break
		}
		p.mainWin.FeedOutput(buf[:rn])
		_, _ = p.out.Write(buf[:rn])
	}
	_ = p.out.Flush()
}

// renderAll composes one full frame: hide cursor, clear, main window
// from its model, floating windows on top, user-visible cursor at the
// floating shell's cursor, show cursor, single flush.
func (p *Proxy) renderAll() {
	io.WriteString(p.out, "\x1b[?25l\x1b[H\x1b[2J")
	p.wm.Render(p.out)

	if p.float.Visible {
		cx, cy := p.float.Term.CursorPosition()
		ox, oy := p.float.ContentOrigin()
		fmt.Fprintf(p.out, "\x1b[%d;%dH", oy+cy+1, ox+cx+1)
	}

	io.WriteString(p.out, "\x1b[?25h")
	_ = p.out.Flush()
}

// renderMainWindowOnly is renderAll without the floating layer or
// cursor repositioning.
func (p *Proxy) renderMainWindowOnly() {
	io.WriteString(p.out, "\x1b[?25l\x1b[H\x1b[2J")
	p.wm.RenderMainOnly(p.out)
	io.WriteString(p.out, "\x1b[?25h")
	_ = p.out.Flush()
}
