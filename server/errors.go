package server

import "fmt"

// ErrBadRequest defines malformed request error.
type ErrBadRequest struct {
	Reason string
}

// Error formats output.
func (e *ErrBadRequest) Error() string {
	if "" == e.Reason {
		return "bad request"
	}

	return e.Reason
}

// ErrCommandFailed defines device command failure.
type ErrCommandFailed struct {
	Message string
}

// Error formats output.
func (e *ErrCommandFailed) Error() string {
	return fmt.Sprintf("command failed: %s", e.Message)
}
