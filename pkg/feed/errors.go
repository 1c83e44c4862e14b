package feed

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks upstream payloads that do not match the expected schema.
var ErrMalformedResponse = errors.New("feed: malformed response")

// StatusError reports a non-2xx upstream answer.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed: %s: http status %d: %s", e.Path, e.Code, e.Body)
}

// Retryable reports whether the upstream may succeed on a later attempt.
func (e *StatusError) Retryable() bool {
	return e.Code == 429 || e.Code >= 500
}

func malformed(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
}
