package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDoWithTimeout(t *testing.T) {
	executed := false
	doFn := func(ctx context.Context) error {
		executed = true
		return nil
	}

	err := DoWithTimeout(1*time.Second, doFn)
	if err != nil {
		t.Fatal(err)
	}

	if !executed {
		t.Errorf("function has not been executed")
	}
}

func TestDoWithTimeoutReturnsFunctionError(t *testing.T) {
	expectedError := fmt.Errorf("something went wrong")

	err := DoWithTimeout(1*time.Second, func(ctx context.Context) error {
		return expectedError
	})

	if err != expectedError {
		t.Errorf(
			"unexpected error\nexpected: [%v]\nactual:   [%v]",
			expectedError,
			err,
		)
	}
}

func TestDoWithTimeoutExceedTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	err := DoWithTimeout(100*time.Millisecond, func(ctx context.Context) error {
		<-release
		return nil
	})

	if !errors.Is(err, ErrTimeout) {
		t.Errorf(
			"unexpected error\nexpected: [%v]\nactual:   [%v]",
			ErrTimeout,
			err,
		)
	}

	if elapsed := time.Since(start); elapsed > 1*time.Second {
		t.Errorf("timeout not applied, returned after [%v]", elapsed)
	}
}

func TestDoWithTimeoutCancelsContext(t *testing.T) {
	cancelled := make(chan struct{})

	err := DoWithTimeout(50*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("unexpected error: [%v]", err)
	}

	select {
	case <-cancelled:
	case <-time.After(1 * time.Second):
		t.Errorf("context has not been cancelled")
	}
}

func TestDoWithTimeoutNoTimeout(t *testing.T) {
	executed := false

	err := DoWithTimeout(0, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			return fmt.Errorf("unexpected deadline")
		}
		executed = true
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if !executed {
		t.Errorf("function has not been executed")
	}
}
