package store

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps a transient failure that survived the retry budget.
// Callers surface it to the user as "try again later" rather than crashing.
var ErrUnavailable = errors.New("store unavailable")

// TransientError marks a failure worth retrying: timeouts, dropped
// connections, a locked database file.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return fmt.Sprintf("transient store error: %v", e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// FatalError marks a failure that retrying cannot fix: constraint violations,
// unmarshalable payloads. It propagates to the caller immediately.
type FatalError struct{ Err error }

func (e *FatalError) Error() string { return fmt.Sprintf("fatal store error: %v", e.Err) }
func (e *FatalError) Unwrap() error { return e.Err }

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
