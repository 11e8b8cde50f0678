package browser

import (
	"context"
	"sync"
	"time"
)

// netTracker counts in-flight requests reported by the backend's network
// events. The network is idle once nothing has been in flight for the idle
// window.
type netTracker struct {
	mu       sync.Mutex
	inflight map[string]struct{}
	last     time.Time
	now      func() time.Time
}

func newNetTracker() *netTracker {
	return &netTracker{
		inflight: map[string]struct{}{},
		last:     time.Now(),
		now:      time.Now,
	}
}

func (t *netTracker) started(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inflight[id] = struct{}{}
	t.last = t.now()
}

func (t *netTracker) finished(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.inflight[id]; !ok {
		return
	}
	delete(t.inflight, id)
	t.last = t.now()
}

// reset forgets requests from a previous document.
func (t *netTracker) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inflight = map[string]struct{}{}
	t.last = t.now()
}

func (t *netTracker) idleFor(idle time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight) == 0 && t.now().Sub(t.last) >= idle
}

func (t *netTracker) wait(ctx context.Context, idle, timeout time.Duration) error {
	interval := idle / 10
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	return pollUntil(ctx, interval, timeout, "network idle", func(context.Context) (bool, error) {
		return t.idleFor(idle), nil
	})
}
