package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const serviceName = "productsdb-api"

// New returns the root logger. Unknown or empty levels fall back to info.
func New(level string) *zerolog.Logger {
	return NewWithWriter(os.Stdout, level)
}

func NewWithWriter(w io.Writer, level string) *zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return &logger
}
