// Package app wires the proxy core: the poll-driven event loop, the
// overlay controller, and terminal-query forwarding between a floating
// shell and the user's terminal.
package app

import (
	"bytes"
	"io"
)

// Terminal capability queries recognized in floating-shell output.
// The user's terminal is the only authoritative responder, so these
// are replayed to it byte-for-byte.
var recognizedQueries = [][]byte{
	[]byte("\x1b[0c"),  // Primary DA, explicit parameter
	[]byte("\x1b[c"),   // Primary DA
	[]byte("\x1b[>0c"), // Secondary DA, explicit parameter
	[]byte("\x1b[>c"),  // Secondary DA
	[]byte("\x1b[5n"),  // DSR operating status
	[]byte("\x1b[6n"),  // DSR cursor position
}

// QueryForwarder spots DA/DSR queries in a floating shell's output,
// forwards them to the user terminal, and remembers where the next
// response from the terminal has to be routed. The pending route is a
// one-shot: the first response-looking input consumes it.
type QueryForwarder struct {
	armed  bool
	target io.Writer
}

// Scan forwards every recognized query found in data to out and arms
// response routing toward source. It returns the number of queries
// forwarded.
func (f *QueryForwarder) Scan(data []byte, out io.Writer, source io.Writer) int {
	forwarded := 0
	for i := 0; i < len(data); {
		if data[i] != 0x1b {
			i++
			continue
		}
		matched := false
		for _, q := range recognizedQueries {
			if bytes.HasPrefix(data[i:], q) {
				_, _ = out.Write(q)
				f.armed = true
				f.target = source
				i += len(q)
				forwarded++
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return forwarded
}

// Armed reports whether a query response is pending.
func (f *QueryForwarder) Armed() bool { return f.armed }

// IsResponse reports whether buf looks like a DA/DSR response: a CSI
// introducer with a final byte of c, n, or R.
func IsResponse(buf []byte) bool {
	if len(buf) < 3 || buf[0] != 0x1b || buf[1] != '[' {
		return false
	}
	switch buf[len(buf)-1] {
	case 'c', 'n', 'R':
		return true
	}
	return false
}

// Route delivers buf to the remembered floating PTY when routing is
// armed and buf looks like a query response. It reports whether the
// bytes were consumed; consumed bytes must not be treated as user
// keystrokes. The write is best effort: a dead PTY fails silently.
func (f *QueryForwarder) Route(buf []byte) bool {
	if !f.armed || !IsResponse(buf) {
		return false
	}
	f.armed = false
	if f.target != nil {
		_, _ = f.target.Write(buf)
	}
	return true
}
