package verify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/raysh454/pageverify/internal/browser"
	"github.com/raysh454/pageverify/internal/console"
)

// ErrorKind classifies why a run failed.
type ErrorKind string

const (
	KindNone       ErrorKind = "none"
	KindNavigation ErrorKind = "navigation"
	KindTimeout    ErrorKind = "timeout"
	KindOther      ErrorKind = "other"
)

// Classify maps err onto an ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, browser.ErrNavigation):
		return KindNavigation
	case errors.Is(err, browser.ErrConditionTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	default:
		return KindOther
	}
}

// Report is the outcome of one verifier run. Failures are recorded here and
// printed, never returned.
type Report struct {
	RunID    string
	Verifier string
	URL      string

	Screenshot string
	Bytes      int

	Console []console.Message

	// IndicatorInDOM is set by the loading verifier when the indicator was
	// hidden but its text is still in the document.
	IndicatorInDOM bool

	Err  error
	Kind ErrorKind

	Started  time.Time
	Duration time.Duration
}

// OK reports whether the run produced its screenshot without error.
func (r *Report) OK() bool {
	return r.Err == nil
}

// consoleLog collects messages delivered from backend goroutines.
type consoleLog struct {
	mu   sync.Mutex
	msgs []console.Message
}

func (c *consoleLog) add(m console.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, m)
}

func (c *consoleLog) snapshot() []console.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]console.Message(nil), c.msgs...)
}
