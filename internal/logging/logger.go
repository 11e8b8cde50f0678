// Package logging carries the structured run logs of the verifiers and the
// fixture server.
package logging

// Logger is what verifiers, browser backends and the fixture server log
// through. Commands hand in a JSONLogger on stderr; tests hand in a
// testutil.DummyLogger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	// Warn is used for failed verifications, which never abort the command.
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With scopes a logger to a run or backend, e.g. run_id or backend.
	With(fields ...Field) Logger
}

// Field is one structured key/value pair on a log line.
type Field struct {
	Key   string
	Value any
}

// Err is shorthand for the "error" field.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}
