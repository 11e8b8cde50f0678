package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// pollUntil calls check every interval until it reports true, the timeout
// elapses or ctx is cancelled. Timeout expiry wraps ErrConditionTimeout and the
// last check error, if any.
func pollUntil(ctx context.Context, interval, timeout time.Duration, what string, check func(ctx context.Context) (bool, error)) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		ok, err := check(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				if lastErr != nil && !errors.Is(lastErr, context.DeadlineExceeded) {
					return fmt.Errorf("%w: %s after %s (last error: %v)", ErrConditionTimeout, what, timeout, lastErr)
				}
				return fmt.Errorf("%w: %s after %s", ErrConditionTimeout, what, timeout)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
