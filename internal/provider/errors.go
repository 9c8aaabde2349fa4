package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidArgument is returned when the caller supplies unusable input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrProviderUnavailable is returned when an upstream call does not finish in time.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// NotFoundError reports that no provider produced a trailer for a search.
type NotFoundError struct {
	SearchText string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("trailer for %s is not found", e.SearchText)
}

// ItemError wraps a failure for a single title or hit. Item errors are logged
// and skipped; they never abort the rest of a search.
type ItemError struct {
	Provider string
	Item     string
	Err      error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: item %s: %v", e.Provider, e.Item, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// ProviderError represents an error from a provider
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	Retry      bool
	RetryAfter int // Seconds to wait before retry
}

func (e *ProviderError) Error() string {
	return e.Message
}

// CallWithTimeout runs fn and gives up once timeout elapses or ctx is done.
// It exists for SDKs that do not accept a context. An expired deadline is
// reported as ErrProviderUnavailable; fn keeps running in the background
// until its own HTTP client times out.
func CallWithTimeout[T any](ctx context.Context, name string, timeout time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if timeout <= 0 {
		return fn()
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := fn()
		done <- result{value: value, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return res.value, res.err
	case <-timer.C:
		return zero, fmt.Errorf("%w: %s did not respond within %s", ErrProviderUnavailable, name, timeout)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, name, ctx.Err())
		}
		return zero, ctx.Err()
	}
}
