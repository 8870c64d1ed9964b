// ABOUTME: Error taxonomy for the conversation service client
// ABOUTME: NetworkError for transport failures, StatusError for non-2xx responses

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches a StatusError carrying 404 Not Found.
var ErrNotFound = errors.New("conversation not found")

// maxErrorBody bounds how much of a failed response body is kept for logging.
const maxErrorBody = 512

// NetworkError reports a request that never completed.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError reports a request that completed with a non-success status.
type StatusError struct {
	Op         string
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsServer reports whether err is a non-2xx response.
func IsServer(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
