// Package common contains types shared by every bulbd system.
package common

// ILoggerProvider defines logger provider which is passed to every system.
type ILoggerProvider interface {
	Debug(msg string, fields ...string)
	Info(msg string, fields ...string)
	Warn(msg string, fields ...string)
	Error(msg string, err error, fields ...string)
	Fatal(msg string, err error, fields ...string)
}

// ProgramState describes lifecycle state of a running program.
type ProgramState string

const (
	// ProgramRunning is reported right before the engine loop starts.
	ProgramRunning ProgramState = "running"
	// ProgramCompleted is reported when the duration budget is exhausted.
	ProgramCompleted ProgramState = "completed"
	// ProgramStopped is reported when the run was cancelled.
	ProgramStopped ProgramState = "stopped"
	// ProgramError is reported when the run could not be performed.
	ProgramError ProgramState = "error"
)

// MsgProgramStatus describes program status update.
type MsgProgramStatus struct {
	RunID    string       `json:"run_id"`
	Bulb     string       `json:"bulb"`
	Program  string       `json:"program"`
	Status   ProgramState `json:"status"`
	Duration float64      `json:"duration,omitempty"`
	Elapsed  float64      `json:"elapsed,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// MsgBulbUpdate describes bulb state update.
type MsgBulbUpdate struct {
	Bulb   string                 `json:"bulb"`
	Status map[string]interface{} `json:"status"`
}
