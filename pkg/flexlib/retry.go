package flexlib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Default retry configuration values.
const (
	DEF_MAX_RETRIES = 3
	DEF_BASE_DELAY  = 1 * time.Second
)

// RetryConfig holds the retry policy for remote API calls. Backoff is
// linear: the delay between attempt k and k+1 is k * BaseDelay.
type RetryConfig struct {
	MaxRetries int           // Maximum number of attempts per call
	BaseDelay  time.Duration // Delay unit between attempts
}

// DefaultRetryConfig returns a RetryConfig with the default policy of
// 3 attempts spaced 1s, 2s apart.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: DEF_MAX_RETRIES,
		BaseDelay:  DEF_BASE_DELAY,
	}
}

// ErrorCategory classifies errors for retry decisions.
type ErrorCategory int

const (
	// ErrCategoryTerminal marks errors the server will never accept
	// unmodified; retrying is pointless.
	ErrCategoryTerminal ErrorCategory = iota
	// ErrCategoryTransient marks network/timeout/server failures worth
	// retrying.
	ErrCategoryTransient
)

// HTTPStatusError carries a non-2xx response status so ClassifyError can
// distinguish server trouble from rejected requests.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// ClassifyError determines whether an error is worth retrying.
// Connection problems, timeouts and 5xx responses are transient; 4xx
// responses and context cancellation are terminal. Unknown errors are
// treated as transient since malformed-request detection is advisory:
// exhausting retries is the safe fallback.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return ErrCategoryTerminal
	}

	if errors.Is(err, context.Canceled) {
		return ErrCategoryTerminal
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 &&
			statusErr.StatusCode != http.StatusRequestTimeout &&
			statusErr.StatusCode != http.StatusTooManyRequests {
			return ErrCategoryTerminal
		}
		return ErrCategoryTransient
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrCategoryTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrCategoryTransient
	}

	// String-based pattern matching for wrapped transport errors.
	errStr := strings.ToLower(err.Error())
	terminalPatterns := []string{
		"unauthorized",
		"forbidden",
		"bad request",
	}
	for _, pattern := range terminalPatterns {
		if strings.Contains(errStr, pattern) {
			return ErrCategoryTerminal
		}
	}

	return ErrCategoryTransient
}

// CalculateBackoff computes the delay after the given 1-based attempt.
func (c *RetryConfig) CalculateBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(attempt) * c.BaseDelay
}

// WaitForRetry blocks until the backoff for the given attempt has elapsed
// or the context is cancelled.
func (c *RetryConfig) WaitForRetry(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.CalculateBackoff(attempt)):
		return nil
	}
}
