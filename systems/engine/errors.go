package engine

import (
	"fmt"
	"strings"
)

// ErrUnknownProgram defines unknown program error.
type ErrUnknownProgram struct {
	Name string
}

// Error formats output.
func (e *ErrUnknownProgram) Error() string {
	return fmt.Sprintf("unknown program %s, available programs: %s", e.Name, strings.Join(Names(), ", "))
}
