// Package logging configures logrus for the application. The TUI owns the
// terminal, so entries go to a file in the data directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// FileName is the log file created in the data directory
const FileName = "taskboard.log"

// DebugEnv forces debug level when set to a true value
const DebugEnv = "TASKBOARD_DEBUG"

// ResolveLevel parses level, letting TASKBOARD_DEBUG override it
func ResolveLevel(level string) (log.Level, error) {
	if dbg, err := strconv.ParseBool(os.Getenv(DebugEnv)); err == nil && dbg {
		return log.DebugLevel, nil
	}
	if level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// New returns a logger writing to w at the given level
func New(w io.Writer, level log.Level) *log.Logger {
	logger := log.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return logger
}

// OpenFile creates dataDir if needed and returns a logger appending to
// dataDir/taskboard.log. The caller closes the returned file.
func OpenFile(dataDir, level string) (*log.Logger, io.Closer, error) {
	lvl, err := ResolveLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dataDir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, lvl), f, nil
}
