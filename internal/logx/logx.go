// Package logx
package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds a structured logger at the given level. Unknown levels fall
// back to info.
func New(level string) zerolog.Logger {
	return NewWriter(os.Stdout, level)
}

// NewWriter builds a logger writing to w.
func NewWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

// Nop returns a disabled logger for components that don't need output.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
