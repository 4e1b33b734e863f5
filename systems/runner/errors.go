package runner

import "fmt"

// ErrProgramNotRunning defines stop request for an absent run.
type ErrProgramNotRunning struct {
	Key string
}

// Error formats output.
func (e *ErrProgramNotRunning) Error() string {
	return fmt.Sprintf("program %s is not running", e.Key)
}
