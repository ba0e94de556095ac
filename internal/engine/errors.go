package engine

import (
	"errors"
	"fmt"
)

// ErrCrumbUnavailable is returned when the CSRF crumb cannot be fetched before a launch
var ErrCrumbUnavailable = errors.New("crumb unavailable")

// LaunchRejectedError is returned when the server refuses to create a build
type LaunchRejectedError struct {
	StatusCode int
	Reason     string
}

func (e *LaunchRejectedError) Error() string {
	return fmt.Sprintf("launch rejected with status %d: %s", e.StatusCode, e.Reason)
}
