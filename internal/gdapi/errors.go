package gdapi

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the server answers "-1" for a level ID.
	ErrNotFound = errors.New("level not found")

	// ErrMalformedResponse is returned when a 200 body has no name field.
	ErrMalformedResponse = errors.New("malformed level response")
)

// APIError is a non-200 answer from the level database.
type APIError struct {
	LevelID    int64
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("level %d: unexpected status %d", e.LevelID, e.StatusCode)
	}
	return fmt.Sprintf("level %d: unexpected status %d: %s", e.LevelID, e.StatusCode, e.Message)
}
