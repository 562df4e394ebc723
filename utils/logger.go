package utils

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger provides leveled logging throughout the application. Every entry
// carries the RunId of the pipeline run that produced it.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a Logger writing coloured text to stdout.
func NewLogger() *Logger {
	return NewLoggerWith("development", "debug", os.Stdout)
}

// NewLoggerWith creates a Logger for the given environment and level. The
// production environment writes JSON, anything else writes text.
func NewLoggerWith(environment, level string, out io.Writer) *Logger {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	base := &logrus.Logger{
		Out:   out,
		Hooks: make(logrus.LevelHooks),
		Level: lvl,
	}
	if environment == "production" {
		base.Formatter = &logrus.JSONFormatter{}
	} else {
		base.Formatter = &logrus.TextFormatter{
			ForceColors:      true,
			FullTimestamp:    true,
			TimestampFormat:  "2006-01-02 15:04:05",
			QuoteEmptyFields: true,
		}
	}

	return &Logger{entry: base.WithField("RunId", uuid.New().String())}
}

// RunID returns the identifier attached to every entry of this logger.
func (l *Logger) RunID() string {
	if id, ok := l.entry.Data["RunId"].(string); ok {
		return id
	}
	return ""
}

// WithField returns a child logger carrying an extra field.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Info(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.entry.Debugf(format, args...)
}
