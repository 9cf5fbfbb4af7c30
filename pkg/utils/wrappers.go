package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned by DoWithTimeout when the executed function did not
// complete before the timeout.
var ErrTimeout = errors.New("operation timed out")

// DoWithTimeout executes the provided doFn in a separate goroutine and waits
// until it completes or until the timeout is hit. doFn receives a context
// cancelled on timeout; CPU-bound functions which do not observe it keep
// running in the background, but their result is discarded. A non-positive
// timeout means no timeout.
func DoWithTimeout(
	timeout time.Duration,
	doFn func(ctx context.Context) error,
) error {
	if timeout <= 0 {
		return doFn(context.Background())
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Buffered so the goroutine does not leak when nobody waits for it.
	result := make(chan error, 1)
	go func() {
		result <- doFn(ctx)
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w: timeout [%v] exceeded", ErrTimeout, timeout)
	}
}
