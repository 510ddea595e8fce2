package jobtech

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"
)

// permanentError marks an error that must not be retried (client errors
// like 400/404, or unknown filter values).
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// permanent wraps err so retryWithBackoff stops immediately.
func permanent(err error) error {
	return &permanentError{err: err}
}

// retryWithBackoff retries fn with exponential backoff and jitter.
// Stops retrying immediately if the error is marked permanent.
//
// Backoff formula: delay = initialDelay * 2^attempt ± 25% jitter.
// With initialDelay=1s, maxRetries=2: attempt 0 immediate, then ~1s, ~2s.
func retryWithBackoff(ctx context.Context, maxRetries int, initialDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var permErr *permanentError
		if errors.As(err, &permErr) {
			return permErr.Unwrap()
		}

		// Don't delay after the last attempt
		if attempt == maxRetries {
			break
		}

		delay := time.Duration(float64(initialDelay) * math.Pow(2, float64(attempt)))

		// Add jitter (±25%)
		halfDelay := int64(delay) / 2
		if halfDelay <= 0 {
			halfDelay = 1
		}
		jitterBig, jerr := rand.Int(rand.Reader, big.NewInt(halfDelay))
		if jerr != nil {
			jitterBig = big.NewInt(0)
		}
		delay = delay - delay/4 + time.Duration(jitterBig.Int64())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry canceled: %w", ctx.Err())
		}
	}

	return lastErr
}
