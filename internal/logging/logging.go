package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// JSONLogger is the structured logger used by the commands. It implements
// Logger on top of logrus and prints JSON lines.
type JSONLogger struct {
	entry *logrus.Entry
}

// New creates a logger writing JSON lines to w. The commands pass stderr so
// stdout stays reserved for console lines. component is optional and is
// attached to every line.
func New(w io.Writer, component string, level logrus.Level) *JSONLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})

	entry := logrus.NewEntry(l)
	if component != "" {
		entry = entry.WithField("component", component)
	}
	return &JSONLogger{entry: entry}
}

// ParseLevel parses a level name, falling back to info for empty input.
func ParseLevel(name string) (logrus.Level, error) {
	if name == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(name)
}

func (s *JSONLogger) withFields(fields []Field) *logrus.Entry {
	if len(fields) == 0 {
		return s.entry
	}
	m := make(logrus.Fields, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	return s.entry.WithFields(m)
}

func (s *JSONLogger) Debug(msg string, fields ...Field) {
	s.withFields(fields).Debug(msg)
}

func (s *JSONLogger) Info(msg string, fields ...Field) {
	s.withFields(fields).Info(msg)
}

func (s *JSONLogger) Warn(msg string, fields ...Field) {
	s.withFields(fields).Warn(msg)
}

func (s *JSONLogger) Error(msg string, fields ...Field) {
	s.withFields(fields).Error(msg)
}

// With returns a child logger carrying fields on every line. A "component"
// field replaces the parent's component.
func (s *JSONLogger) With(fields ...Field) Logger {
	return &JSONLogger{entry: s.withFields(fields)}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return New(io.Discard, "", logrus.PanicLevel)
}
