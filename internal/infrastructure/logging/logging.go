package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger writing to w. Unknown levels fall back to info.
// format "console" produces human readable output; anything else writes JSON lines.
func New(level, format string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
