package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nounder/tzig/internal/app"
	"github.com/nounder/tzig/internal/config"
	"github.com/nounder/tzig/internal/terminal"
)

// runLocal starts the proxy on the current terminal. The termios
// snapshot taken here is restored on every exit path via defer.
func runLocal() error {
	logger := newLogger()

	cols, rows := terminal.HostSize()

	raw, err := terminal.EnterRawMode(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer raw.Restore()

	proxy, err := app.New(cols, rows, logger)
	if err != nil {
		return err
	}
	defer proxy.Cleanup()

	return proxy.Run()
}

// newLogger returns a debug logger writing to the debug log file when
// --debug is set, and a discarding logger otherwise. stdout and stderr
// belong to the terminal session while the proxy runs.
func newLogger() *log.Logger {
	if !debugMode {
		return log.New(io.Discard)
	}
	f, err := os.OpenFile(config.DebugLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(io.Discard)
	}
	logger := log.New(f)
	logger.SetLevel(log.DebugLevel)
	return logger
}
