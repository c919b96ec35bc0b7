package scales

import (
	"errors"
	"net/http"
)

// Domain errors for rating-scale reference operations.
var (
	ErrClassNotFound = errors.New("rating class not found")
	ErrMissingScale  = errors.New("scale_code and strategy are required")
)

// MapHTTPStatus maps scale domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrClassNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrMissingScale) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
