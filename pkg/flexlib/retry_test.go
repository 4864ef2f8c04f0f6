package flexlib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCategory
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: ErrCategoryTerminal,
		},
		{
			name:     "context.Canceled",
			err:      context.Canceled,
			expected: ErrCategoryTerminal,
		},
		{
			name:     "http 400",
			err:      &HTTPStatusError{StatusCode: 400},
			expected: ErrCategoryTerminal,
		},
		{
			name:     "http 401",
			err:      &HTTPStatusError{StatusCode: 401},
			expected: ErrCategoryTerminal,
		},
		{
			name:     "wrapped http 404",
			err:      fmt.Errorf("create: %w", &HTTPStatusError{StatusCode: 404}),
			expected: ErrCategoryTerminal,
		},
		{
			name:     "http 429 is transient",
			err:      &HTTPStatusError{StatusCode: 429},
			expected: ErrCategoryTransient,
		},
		{
			name:     "http 500",
			err:      &HTTPStatusError{StatusCode: 500},
			expected: ErrCategoryTransient,
		},
		{
			name:     "http 503",
			err:      &HTTPStatusError{StatusCode: 503},
			expected: ErrCategoryTransient,
		},
		{
			name:     "io.EOF",
			err:      io.EOF,
			expected: ErrCategoryTransient,
		},
		{
			name:     "net timeout",
			err:      timeoutErr{},
			expected: ErrCategoryTransient,
		},
		{
			name:     "unknown error falls back to transient",
			err:      errors.New("some random error"),
			expected: ErrCategoryTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.expected {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestCalculateBackoffIsLinear(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Second}

	for attempt := 1; attempt <= 3; attempt++ {
		want := time.Duration(attempt) * time.Second
		if got := cfg.CalculateBackoff(attempt); got != want {
			t.Errorf("CalculateBackoff(%d) = %v, want %v", attempt, got, want)
		}
	}
	if got := cfg.CalculateBackoff(0); got != time.Second {
		t.Errorf("CalculateBackoff(0) = %v, want %v", got, time.Second)
	}
}

func TestWaitForRetryRespectsContext(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := cfg.WaitForRetry(ctx, 1)
	if err == nil {
		t.Fatal("expected context error")
	}
	if time.Since(start) > time.Second {
		t.Fatal("WaitForRetry did not return promptly on cancellation")
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.BaseDelay != time.Second {
		t.Errorf("BaseDelay = %v, want 1s", cfg.BaseDelay)
	}
}
