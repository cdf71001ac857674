package util

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"
)

// RetryConfig controls the backoff loop for flaky filesystem operations.
// Song folders commonly live on network volumes, where a stat or copy can
// fail transiently during a mount hiccup.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryConfig returns the retry settings used for file access
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 3,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     2 * time.Second,
	}
}

// IsRetryableError reports whether an error looks transient. Permission
// and not-found errors are final; network-volume I/O errors are not.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var pathError *os.PathError
	if errors.As(err, &pathError) {
		err = pathError.Err
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EAGAIN,
			syscall.ETIMEDOUT,
			syscall.ESTALE, // stale NFS handle
			syscall.EIO:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"timeout",
		"timed out",
		"temporary failure",
		"resource temporarily unavailable",
		"i/o error",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// Retry runs operation with exponential backoff until it succeeds, fails
// with a non-retryable error, or exhausts the configured attempts.
func Retry(cfg *RetryConfig, name string, operation func() error) error {
	if cfg == nil {
		cfg = DefaultRetryConfig()
	}

	wait := cfg.InitialWait
	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err = operation()
		if err == nil {
			if attempt > 1 {
				DebugLog("%s succeeded on attempt %d/%d", name, attempt, cfg.MaxAttempts)
			}
			return nil
		}
		if !IsRetryableError(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		DebugLog("%s failed (attempt %d/%d), retrying in %v: %v",
			name, attempt, cfg.MaxAttempts, wait, err)
		time.Sleep(wait)
		wait *= 2
		if wait > cfg.MaxWait {
			wait = cfg.MaxWait
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, cfg.MaxAttempts, err)
}
