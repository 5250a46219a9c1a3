package hass

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExecuteWithRetrySucceedsAfterTransientFailure(t *testing.T) {
	attempts := 0
	err := executeWithRetry(context.Background(), "test", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	err := executeWithRetry(context.Background(), "test", func() error {
		attempts++
		return errors.New("read: connection reset by peer")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != maxRetries {
		t.Fatalf("expected %d attempts, got %d", maxRetries, attempts)
	}
}

func TestExecuteWithRetryDoesNotRetryAuthFailures(t *testing.T) {
	attempts := 0
	err := executeWithRetry(context.Background(), "test", func() error {
		attempts++
		return fmt.Errorf("%w: token expired", ErrAuthFailed)
	})
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt for auth failure, got %d", attempts)
	}
}

func TestExecuteWithRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := executeWithRetry(ctx, "test", func() error {
		t.Fatal("function should not run with cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"connection_refused", errors.New("dial tcp 127.0.0.1:8123: connection refused"), true},
		{"timeout", errors.New("read tcp: i/o timeout"), true},
		{"no_such_host", errors.New("lookup homeassistant.local: no such host"), true},
		{"bad_handshake", errors.New("websocket: bad handshake"), true},
		{"auth", ErrAuthFailed, false},
		{"deadline", context.DeadlineExceeded, false},
		{"command_failure", errors.New("lovelace/resources failed: not supported"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRetryableError(tc.err); got != tc.retryable {
				t.Fatalf("expected retryable=%v for %v, got %v", tc.retryable, tc.err, got)
			}
		})
	}
}

func TestSleepWithContextReturnsEarlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := sleepWithContext(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected immediate return, slept %v", elapsed)
	}
}
