package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Backoff configuration for catalog requests.
const (
	InitialBackoff = 500 * time.Millisecond
	MaxBackoff     = 15 * time.Second
)

// StatusError reports a non-success HTTP status from the catalog.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("catalog: %s failed (status %d)", e.Op, e.Status)
	}
	return fmt.Sprintf("catalog: %s failed (status %d): %s", e.Op, e.Status, e.Body)
}

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetriable reports whether err represents a transient condition that
// warrants an automatic retry (rate limits, timeouts, connection errors).
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status == 429 || statusErr.Status >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	message := strings.ToLower(err.Error())
	for _, token := range []string{
		"timeout",
		"connection reset",
		"connection refused",
		"temporary failure",
		"eof",
	} {
		if strings.Contains(message, token) {
			return true
		}
	}
	return false
}

func backoffFor(attempt int) time.Duration {
	backoff := InitialBackoff * time.Duration(1<<uint(attempt-1))
	if backoff > MaxBackoff {
		backoff = MaxBackoff
	}
	return backoff
}
