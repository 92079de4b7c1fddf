package apiclient

import (
	"errors"
	"fmt"
)

// HTTPError represents a non-2xx response from the upstream API.
type HTTPError struct {
	StatusCode int
	Path       string
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("upstream GET %s: status=%d body=%s", e.Path, e.StatusCode, string(e.Body))
}

// StatusCode extracts the upstream status from err, or 0 when err is not an HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
