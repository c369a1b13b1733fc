package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pointsrv/internal/shared/types"
)

// TimeFormat is used for console timestamps. Progress across the concurrent
// clients is compared by these, so seconds are enough.
const TimeFormat = "15:04:05"

// Init configures the process logger: console output on stderr and, when
// cfg.File is set, the same events appended to that file.
// The returned closer releases the file and is never nil.
func Init(cfg types.LogConf) (io.Closer, error) {
	levelStr := strings.ToLower(cfg.Level)
	level, err := zerolog.ParseLevel(levelStr)
	switch {
	case levelStr == "":
		level = zerolog.InfoLevel
	case err != nil:
		level = zerolog.InfoLevel
		fmt.Fprintf(os.Stderr, "Unknown log level '%s', defaulting to 'info'\n", levelStr)
	}

	// Force all timestamps to be in UTC.
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	var out io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: TimeFormat,
	}
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(out, f)
		closer = f
	}

	log.Logger = New(out, level)
	Info().Msgf("Logger initialized with level: %s", level.String())
	return closer, nil
}

// New builds a timestamped logger writing to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// WithComponent returns a child of the process logger tagged with name.
// Components receive this logger in their constructors instead of reaching
// for the global one.
func WithComponent(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// Info starts a new message with info level on the process logger.
func Info() *zerolog.Event {
	return log.Info()
}

// Fatal starts a new message with fatal level. The program will exit.
func Fatal() *zerolog.Event {
	return log.Fatal()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
