// Package logger builds the application logger shared by the CLI commands.
package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a leveled logger writing to w. Verbose enables debug-level
// tracing of the spawn/wait cycle; otherwise only warnings and errors appear
// so the terminal stays clean for child output.
func New(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "minish",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}
