package api

import "errors"

var (
	// ErrUnavailable means the backend could not be reached at all.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized covers 401/403 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTimeout marks a request aborted by its deadline.
	ErrTimeout = errors.New("request timed out")
	// ErrProtocol marks a response the client cannot interpret, such as a
	// non-JSON body where JSON is required. Distinct from a validation
	// failure reported inside a well-formed response.
	ErrProtocol = errors.New("unexpected response format")
	// ErrNotFound covers 404 responses.
	ErrNotFound = errors.New("not found")
)
