package entities

import (
	"errors"
	"net/http"
)

// Domain errors for entity and committee-case operations.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrCaseNotFound = errors.New("committee case not found")
	ErrDuplicate    = errors.New("entity already exists")
	ErrInvalidID    = errors.New("invalid entity id")
)

// MapHTTPStatus maps entity domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrCaseNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
