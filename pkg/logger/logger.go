package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Init(os.Stdout, true)
}

// Init rebuilds the logger on out and installs it as the zerolog global logger.
// Console output is colored and human readable; otherwise lines are JSON.
func Init(out io.Writer, console bool) {
	if console {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	Log = zerolog.New(out).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Logger()
	log.Logger = Log
}

// ResolveLevel picks LOG_LEVEL when set, else derives it from the server mode.
func ResolveLevel(level, serverMode string) string {
	if strings.TrimSpace(level) != "" {
		return level
	}
	if strings.EqualFold(serverMode, "release") {
		return zerolog.InfoLevel.String()
	}
	return zerolog.DebugLevel.String()
}

// SetLevel sets the log level
func SetLevel(levelStr string) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelStr)))
	if err != nil || levelStr == "" {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
	log.Logger = Log
}
