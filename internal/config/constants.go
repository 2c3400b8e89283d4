// Package config provides process-wide constants for the proxy.
package config

import "time"

// =============================================================================
// Hotkeys
// =============================================================================

const (
	// ToggleByte is the single-byte overlay toggle, Ctrl+].
	ToggleByte = 0x1d
)

// ToggleKittySeq is the Kitty keyboard-protocol encoding of Ctrl+],
// accepted as an alternative overlay toggle.
var ToggleKittySeq = []byte("\x1b[93;5u")

// =============================================================================
// I/O
// =============================================================================

const (
	// ReadBufferSize is the per-read ceiling for every endpoint.
	ReadBufferSize = 4096

	// DrainMaxIterations bounds the main-PTY drain loop run before
	// entering the overlay.
	DrainMaxIterations = 5

	// DrainPollTimeout is the per-iteration poll timeout of the drain
	// loop.
	DrainPollTimeout = 1 * time.Millisecond
)

// =============================================================================
// Floating window defaults
// =============================================================================

const (
	// MinFloatingWidth and MinFloatingHeight keep the default floating
	// window large enough for a border plus one content cell.
	MinFloatingWidth  = 4
	MinFloatingHeight = 3

	// DefaultFloatingTitle is shown until the shell sets its own title.
	DefaultFloatingTitle = "shell"
)

// =============================================================================
// Debugging
// =============================================================================

const (
	// DebugLogPath receives structured logs when --debug is set.
	DebugLogPath = "/tmp/tzig-debug.log"
)
