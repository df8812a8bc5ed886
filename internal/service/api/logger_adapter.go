package api

import (
	"io"

	"github.com/labstack/gommon/log"

	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

// echoLogger adapts the application logger to echo's gommon log.Logger
// interface so the framework's own messages land in the same log file.
// Most methods are plain delegation boilerplate.
type echoLogger struct {
	*applog.Logger
}

func (l echoLogger) Output() io.Writer {
	return l.Logger.Out
}

func (l echoLogger) SetOutput(w io.Writer) {
	l.Logger.SetOutput(w)
}

func (l echoLogger) Prefix() string {
	return ""
}

func (l echoLogger) SetPrefix(string) {
	// prefixes are not used
}

func (l echoLogger) Level() log.Lvl {
	switch l.Logger.Level {
	case applog.DebugLevel, applog.TraceLevel:
		return log.DEBUG
	case applog.InfoLevel:
		return log.INFO
	case applog.WarnLevel:
		return log.WARN
	case applog.ErrorLevel:
		return log.ERROR
	}
	return log.OFF
}

func (l echoLogger) SetLevel(lvl log.Lvl) {
	switch lvl {
	case log.DEBUG:
		l.Logger.SetLevel(applog.DebugLevel)
	case log.INFO:
		l.Logger.SetLevel(applog.InfoLevel)
	case log.WARN:
		l.Logger.SetLevel(applog.WarnLevel)
	case log.ERROR:
		l.Logger.SetLevel(applog.ErrorLevel)
	}
}

func (l echoLogger) SetHeader(string) {
	// headers are not used
}

func (l echoLogger) Printj(j log.JSON) {
	l.Logger.WithFields(map[string]any(j)).Print()
}

func (l echoLogger) Debugj(j log.JSON) {
	l.Logger.WithFields(map[string]any(j)).Debug()
}

func (l echoLogger) Infoj(j log.JSON) {
	l.Logger.WithFields(map[string]any(j)).Info()
}

func (l echoLogger) Warnj(j log.JSON) {
	l.Logger.WithFields(map[string]any(j)).Warn()
}

func (l echoLogger) Errorj(j log.JSON) {
	l.Logger.WithFields(map[string]any(j)).Error()
}

func (l echoLogger) Fatalj(j log.JSON) {
	l.Logger.WithFields(map[string]any(j)).Fatal()
}

func (l echoLogger) Panicj(j log.JSON) {
	l.Logger.WithFields(map[string]any(j)).Panic()
}
