// README: slog setup; JSON into a rotating file when configured, text on stderr otherwise.
package infra

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger installs the default slog logger and returns the closer for the
// log file (a no-op closer when logging to stderr).
func SetupLogger(logFile string, debug bool) io.Closer {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if logFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
		return io.NopCloser(nil)
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     30, // days
	}
	opts.AddSource = true
	slog.SetDefault(slog.New(slog.NewJSONHandler(rotator, opts)))
	return rotator
}
