// Package logging owns the process-wide structured logger.
//
// Logging is off by default. Set JJGRAPH_LOG_FILE to a path to enable it and
// JJGRAPH_LOG_LEVEL to debug, info, warn or error to control verbosity. The
// terminal belongs to the UI, so nothing is ever written to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// EnvLogFile names the file log lines are appended to.
	EnvLogFile = "JJGRAPH_LOG_FILE"

	// EnvLogLevel selects the minimum level that is written.
	EnvLogLevel = "JJGRAPH_LOG_LEVEL"
)

var (
	mu         sync.RWMutex
	logger     *log.Logger
	loggerOnce sync.Once
	logEnabled bool

	discard = log.New(io.Discard)
)

// FromEnv initializes the logger from JJGRAPH_LOG_FILE and
// JJGRAPH_LOG_LEVEL. It is a no-op when the file variable is unset.
func FromEnv() error {
	logPath := os.Getenv(EnvLogFile)
	if logPath == "" {
		return nil
	}

	return Init(logPath, ParseLevel(os.Getenv(EnvLogLevel)))
}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Init opens logPath for appending and installs a file logger at level.
// Only the first call has an effect. An empty path leaves logging disabled.
func Init(logPath string, level log.Level) error {
	var initErr error
	loggerOnce.Do(func() {
		if logPath == "" {
			return
		}

		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			initErr = fmt.Errorf("open log file: %w", err)
			return
		}

		SetLogger(log.NewWithOptions(f, log.Options{
			Level:           level,
			Prefix:          "jjgraph",
			ReportTimestamp: true,
		}))
	})
	return initErr
}

// SetLogger replaces the logger. Passing nil disables logging.
func SetLogger(l *log.Logger) {
	mu.Lock()
	defer mu.Unlock()

	logger = l
	logEnabled = l != nil
}

// Enabled reports whether log lines go anywhere.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()

	return logEnabled
}

// Logger returns the active logger, or one that discards everything.
func Logger() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if !logEnabled || logger == nil {
		return discard
	}
	return logger
}

// With returns a child logger carrying a component prefix.
func With(component string) *log.Logger {
	return Logger().WithPrefix(component)
}

// Op starts timing an operation and returns the function that logs its
// outcome.
//
//	done := logging.Op("Snapshot", "revset", revset)
//	defer func() { done(err) }()
func Op(op string, keyvals ...any) func(error) {
	if !Enabled() {
		return func(error) {}
	}

	start := time.Now()
	return func(err error) {
		logOutcome(op, start, keyvals, nil, err)
	}
}

// OpWithResult is like Op but the returned function also accepts key/value
// pairs describing the result.
//
//	done := logging.OpWithResult("Snapshot")
//	done(nil, "nodes", len(nodes))
func OpWithResult(op string, keyvals ...any) func(error, ...any) {
	if !Enabled() {
		return func(error, ...any) {}
	}

	start := time.Now()
	return func(err error, resultKeyvals ...any) {
		logOutcome(op, start, keyvals, resultKeyvals, err)
	}
}

func logOutcome(op string, start time.Time, keyvals, resultKeyvals []any, err error) {
	args := make([]any, 0, len(keyvals)+len(resultKeyvals)+6)
	args = append(args, "op", op)
	args = append(args, "duration", time.Since(start).String())
	args = append(args, keyvals...)
	args = append(args, resultKeyvals...)

	l := Logger()
	if err != nil {
		args = append(args, "error", err.Error())
		l.Error("operation failed", args...)
		return
	}
	l.Info("operation complete", args...)
}

// Truncate shortens s to maxLen bytes for safe logging.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
