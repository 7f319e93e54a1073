package contract

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a text logger writing to w. Verbose enables debug records.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetupLogging installs a stderr logger as the slog default.
func SetupLogging(verbose bool) *slog.Logger {
	logger := NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	return logger
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}

// LogWarn logs a warning with its cause.
func LogWarn(msg string, err error) {
	slog.Warn(msg, "err", err)
}
