package app

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/nounder/tzig/internal/config"
)

// Run drives the proxy: one blocking poll over the user terminal, the
// main PTY, and the floating PTY, dispatching every ready endpoint per
// wake. It returns when the main shell goes away or the user terminal
// fails; both are normal shutdown. The floating shell dying merely
// disables its descriptor.
func (p *Proxy) Run() error {
	stdinFd := int(os.Stdin.Fd())
	mainFd := int(p.mainPty.Fd())
	floatFd := -1
	if p.float.Pty != nil {
		floatFd = int(p.float.Pty.Fd())
	}

	fds := []unix.PollFd{
		{Fd: int32(stdinFd), Events: unix.POLLIN},
		{Fd: int32(mainFd), Events: unix.POLLIN},
		{Fd: int32(floatFd), Events: unix.POLLIN},
	}
	const (
		idxStdin = iota
		idxMain
		idxFloat
	)

	buf := make([]byte, config.ReadBufferSize)

	for {
		for i := range fds {
			fds[i].Revents = 0
		}
		if _, err := unix.Poll(fds, -1); err != nil {
			if err == unix.EINTR {
				continue
			}
			p.logger.Debug("poll failed", "err", err)
			return nil
		}

		if fds[idxStdin].Revents&unix.POLLIN != 0 {
			n, err := unix.Read(stdinFd, buf)
			if n <= 0 || err != nil {
				p.logger.Debug("stdin closed", "err", err)
				return nil
			}
			p.handleStdin(buf[:n])
		}

		if fds[idxMain].Revents&unix.POLLIN != 0 {
			n, err := unix.Read(mainFd, buf)
			if n <= 0 || err != nil {
				// Main shell exited; shut down.
				p.logger.Debug("main shell exited", "err", err)
				return nil
			}
			p.feedMain(buf[:n])
		} else if fds[idxMain].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
			p.logger.Debug("main pty hangup")
			return nil
		}

		if fds[idxFloat].Fd >= 0 {
			if fds[idxFloat].Revents&unix.POLLIN != 0 {
				n, err := unix.Read(int(fds[idxFloat].Fd), buf)
				switch {
				case err != nil || n < 0:
					// Non-fatal: the floating window goes inert.
					p.logger.Debug("float pty read failed", "err", err)
					fds[idxFloat].Fd = -1
				case n > 0:
					p.feedFloat(buf[:n])
				}
			} else if fds[idxFloat].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
				p.logger.Debug("float pty hangup")
				fds[idxFloat].Fd = -1
			}
		}
	}
}
