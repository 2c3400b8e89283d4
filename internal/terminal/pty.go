// Package terminal provides PTY lifecycle, raw-mode handling, and the
// window model composited over the host terminal.
package terminal

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/charmbracelet/colorprofile"
	"github.com/creack/pty"
)

// Cached TERM/COLORTERM for child shells, detected once per process.
var (
	childTermType  string
	childColorTerm string
	childEnvOnce   sync.Once
)

// ShellFromEnv returns the shell named by $SHELL, falling back to
// /bin/sh.
func ShellFromEnv() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

// StartShell spawns the user's shell on a fresh PTY sized cols x rows.
// The child gets the full parent environment plus TERM/COLORTERM
// matched to the host terminal's capabilities. The returned master
// file and command are owned by the caller.
func StartShell(cols, rows int) (*os.File, *exec.Cmd, error) {
	shell := ShellFromEnv()

	// #nosec G204 -- the shell is intentionally user-controlled.
	cmd := exec.Command(shell)

	termType, colorTerm := childTerminalEnv()
	env := os.Environ()
	env = append(env, "TERM="+termType)
	if colorTerm != "" {
		env = append(env, "COLORTERM="+colorTerm)
	}
	cmd.Env = env

	ptm, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("start shell %q: %w", shell, err)
	}
	return ptm, cmd, nil
}

// StopShell terminates a shell started with StartShell: SIGTERM to the
// child, then close the master. Both steps are best effort.
func StopShell(ptm *os.File, cmd *exec.Cmd) {
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Signal(syscall.SIGTERM)
	}
	if ptm != nil {
		_ = ptm.Close()
	}
}

// childTerminalEnv returns TERM and COLORTERM values for child shells,
// derived from the host terminal's color capabilities.
func childTerminalEnv() (termType, colorTerm string) {
	childEnvOnce.Do(func() {
		profile := colorprofile.Detect(os.Stdout, os.Environ())
		childTermType, childColorTerm = profileToEnv(profile)
	})
	return childTermType, childColorTerm
}

// profileToEnv maps a detected color profile to TERM and COLORTERM.
func profileToEnv(profile colorprofile.Profile) (termType, colorTerm string) {
	parentTerm := os.Getenv("TERM")

	switch profile {
	case colorprofile.TrueColor:
		if parentTerm != "" {
			termType = parentTerm
		} else {
			termType = "xterm-256color"
		}
		colorTerm = "truecolor"

	case colorprofile.ANSI256:
		switch {
		case strings.Contains(parentTerm, "256color"):
			termType = parentTerm
		case strings.HasPrefix(parentTerm, "screen"):
			termType = "screen-256color"
		case strings.HasPrefix(parentTerm, "tmux"):
			termType = "tmux-256color"
		default:
			termType = "xterm-256color"
		}

	case colorprofile.ANSI:
		if parentTerm != "" && parentTerm != "dumb" {
			termType = parentTerm
		} else {
			termType = "xterm"
		}

	case colorprofile.Ascii, colorprofile.NoTTY:
		termType = "dumb"

	default:
		termType = "xterm-256color"
	}

	return termType, colorTerm
}
