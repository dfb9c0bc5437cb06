// Package logging provides the structured logger shared by the simulator
// commands. It wraps log/slog with a text handler on stderr and a level
// taken from AXESIM_LOG_LEVEL or an explicit flag.
package logging

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel is the environment variable read by NewFromEnv.
const EnvLevel = "AXESIM_LOG_LEVEL"

type Logger struct {
	*slog.Logger
}

// New writes text records at or above level to w.
func New(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{slog.New(handler)}
}

// NewFromEnv logs to stderr at the level named by AXESIM_LOG_LEVEL,
// defaulting to WARN so normal command output stays clean.
func NewFromEnv() *Logger {
	level, err := ParseLevel(os.Getenv(EnvLevel))
	if err != nil {
		level = slog.LevelWarn
	}
	return New(os.Stderr, level)
}

// Discard drops every record.
func Discard() *Logger {
	return New(io.Discard, slog.LevelError+1)
}

// ParseLevel accepts DEBUG, INFO, WARN (or WARNING) and ERROR in any case.
// An empty string means WARN.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "", "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("unknown log level: %q", s)
}

// WithRun tags every record with a run id. An empty id generates one.
func (l *Logger) WithRun(id string) *Logger {
	if id == "" {
		id = NewRunID()
	}
	return &Logger{l.Logger.With("run", id)}
}

// NewRunID returns a short random hex id.
func NewRunID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
