package target

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoUploadEndpoint indicates every candidate bundle-install endpoint
// answered 404.
var ErrNoUploadEndpoint = errors.New("target: no bundle upload endpoint accepted the request")

// APIError is a non-success response from the target store, carrying the
// status code and the raw body for diagnosis.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("target: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from the target store. A 404 on a
// lookup means "no match", not a failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is a 400 or 409 from the target store.
// On a create this usually means an identically keyed entity raced us in.
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusConflict
}
