package apexapi

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrRateLimited = errors.New("apexapi: rate limited (429)")
	ErrBadPayload  = errors.New("apexapi: malformed json")
)

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apexapi status %d: %s", e.Status, e.Body)
}
