package service

import (
	"errors"
	"fmt"
)

// ErrTimeout marks a rate source request that ran out of time.
// It is propagated to callers verbatim, without retries at this layer.
var ErrTimeout = errors.New("rate source timed out")

// ResolutionError aborts a whole batch request: either the reference
// asset or one of the requested assets could not be resolved. No
// partial answers are produced.
type ResolutionError struct {
	reason string
}

func (e *ResolutionError) Error() string {
	return "resolution failed: " + e.reason
}

// NewResolutionError builds a ResolutionError with the given reason.
func NewResolutionError(format string, args ...any) *ResolutionError {
	return &ResolutionError{reason: fmt.Sprintf(format, args...)}
}

// IsResolutionError reports whether err is (or wraps) a ResolutionError.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}

// SourceError wraps an upstream failure of the remote rate source.
// The cause is preserved and propagated verbatim to the caller.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return "rate source: " + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
