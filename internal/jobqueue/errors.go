package jobqueue

import "errors"

// permanentError wraps a failure the queue should not retry: a parse
// failure, a 404, or any other condition retrying cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as non-retryable. A handler returns Permanent(err) for
// failures the error taxonomy classifies as permanent (malformed content,
// repository or file not found, a blocked record); the queue records the
// failure and does not schedule another attempt.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err (or anything it wraps) was marked
// non-retryable via Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
