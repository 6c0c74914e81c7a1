// Package obslog is the one place this CLI touches a logging library.
// Everything else logs through the diffmodel.Session capability; obslog
// is what a Session implementation calls into.
package obslog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var base = logrus.New()

func init() {
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// SetLevel parses and applies a log level name ("debug", "info", "warn",
// "error"), falling back to info on an unrecognized name.
func SetLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)
}

// Fields is a set of structured key/value pairs attached to a log entry.
type Fields = logrus.Fields

// WithFields returns a logger entry decorated with the given structured
// fields, mirroring the logrus.WithFields(logrus.Fields{...}) idiom used
// throughout this pack's other logrus-based services.
func WithFields(fields Fields) *logrus.Entry {
	return base.WithFields(fields)
}

// Warn logs a warning-level message with no structured context.
func Warn(message string) {
	base.Warn(message)
}

// Error logs an error-level message with no structured context.
func Error(message string) {
	base.Error(message)
}

// Info logs an info-level message with no structured context.
func Info(message string) {
	base.Info(message)
}
