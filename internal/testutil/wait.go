package testutil

import (
	"context"
	"testing"
	"time"
)

// Context returns a context that ends after timeout, at the test deadline,
// or when the test finishes, whichever comes first.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if deadline, ok := t.Deadline(); ok {
		if remaining := time.Until(deadline) - time.Second; remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}
	ctx, cancel := context.WithTimeout(t.Context(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// Eventually checks cond every interval and fails the test with msg if it
// has not held within timeout.
func Eventually(t testing.TB, timeout, interval time.Duration, cond func() bool, msg string) {
	t.Helper()
	start := time.Now()
	for !cond() {
		if time.Since(start) >= timeout {
			t.Fatalf("%s (waited %s)", msg, timeout)
		}
		time.Sleep(interval)
	}
}
