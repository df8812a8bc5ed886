package log

import (
	"github.com/sirupsen/logrus"
)

// Level is an alias for logrus.Level.
type Level = logrus.Level

// Severity levels, highest first.
const (
	PanicLevel Level = logrus.PanicLevel
	FatalLevel Level = logrus.FatalLevel
	ErrorLevel Level = logrus.ErrorLevel
	WarnLevel  Level = logrus.WarnLevel
	InfoLevel  Level = logrus.InfoLevel
	DebugLevel Level = logrus.DebugLevel
	TraceLevel Level = logrus.TraceLevel
)

// AllLevels is an alias for logrus.AllLevels.
var AllLevels = logrus.AllLevels

// Entry is an alias for logrus.Entry.
type Entry = logrus.Entry

// Logger is an alias for logrus.Logger so adapter code outside this package
// never imports logrus directly.
type Logger = logrus.Logger
