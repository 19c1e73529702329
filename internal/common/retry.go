package common

import (
	"database/sql"
	"time"
)

// IsTemporary reports whether err advertises itself as temporary.
func IsTemporary(err error) bool {
	if temp, ok := err.(interface{ Temporary() bool }); ok {
		return temp.Temporary()
	}
	return false
}

// IsRetryable reports whether the operation that produced err may be retried.
func IsRetryable(err error) bool {
	return IsTemporary(err) || err == sql.ErrConnDone
}

// WithRetry runs operation up to maxRetries times with linear backoff,
// stopping early on non-retryable errors.
func WithRetry(operation func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		time.Sleep(time.Second * time.Duration(i+1))
	}
	return err
}
