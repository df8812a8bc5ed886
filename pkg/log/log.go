// Package log configures the global logrus logger: rotated file output via
// lumberjack plus optional console output, and component-scoped entries so
// every service logs under a stable component name.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// Default rotation policy for the application log file.
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 20
	defaultMaxAgeDays = 30
)

// Fields is re-exported so callers do not import logrus directly.
type Fields = log.Fields

// Options controls global logger initialization.
type Options struct {
	// AppName names the log file (<dir>/<AppName>.log).
	AppName string

	// Dir is the log directory. Defaults to "logs".
	Dir string

	// Debug enables debug level and console output.
	Debug bool

	// EnableConsoleLog mirrors log output to stdout.
	EnableConsoleLog bool

	// MaxSizeMB, MaxBackups, MaxAgeDays override the rotation policy.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	// setupOnce guarantees Setup runs at most once per process.
	setupOnce    sync.Once
	globalCloser io.Closer
	globalErr    error
)

// Setup initializes the global logging system. Call it once at process start
// and defer Close on the returned closer.
func Setup(opts Options) (io.Closer, error) {
	setupOnce.Do(func() {
		globalCloser, globalErr = setup(opts)
	})
	return globalCloser, globalErr
}

func setup(opts Options) (io.Closer, error) {
	if opts.AppName == "" {
		return nil, fmt.Errorf("log setup: AppName is required")
	}

	logDir := opts.Dir
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("log setup: creating log directory: %w", err)
	}

	maxSize := opts.MaxSizeMB
	if maxSize == 0 {
		maxSize = defaultMaxSizeMB
	}
	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = defaultMaxBackups
	}
	maxAge := opts.MaxAgeDays
	if maxAge == 0 {
		maxAge = defaultMaxAgeDays
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, opts.AppName+".log"),
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		LocalTime:  true,
	}

	writers := []io.Writer{fileWriter}
	if opts.EnableConsoleLog || opts.Debug {
		writers = append(writers, os.Stdout)
	}
	log.SetOutput(io.MultiWriter(writers...))

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	return fileWriter, nil
}

// WithComponent returns an entry tagged with the given component name.
// Components use a dotted notation, e.g. "sync.driver" or "api.service".
func WithComponent(component string) *log.Entry {
	return log.WithField("component", component)
}

// WithComponentAndFields returns an entry tagged with a component name plus
// additional structured fields.
func WithComponentAndFields(component string, fields Fields) *log.Entry {
	return log.WithField("component", component).WithFields(fields)
}

// StandardLogger exposes the underlying logrus logger for adapters
// (cron logger, echo logger) that need the raw instance.
func StandardLogger() *log.Logger {
	return log.StandardLogger()
}
