package internal

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a console logger at the named level. Unknown or empty
// levels fall back to info.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
