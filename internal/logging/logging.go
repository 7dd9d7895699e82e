// Package logging builds the process logger.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the named level. An unknown level
// falls back to info and says so.
func New(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "betl", Level: log.InfoLevel})
	if level == "" {
		return logger
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		return logger
	}
	logger.SetLevel(lvl)
	return logger
}
