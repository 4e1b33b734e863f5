package providers

import "time"

// IRunnerProvider defines running programs registry.
type IRunnerProvider interface {
	Start(bulb string, program string, duration time.Duration) (string, error)
	Stop(bulb string, program string) error
	IsRunning(bulb string, program string) bool
	Running() []*RunInfo
	StopAll(timeout time.Duration)
}

// RunInfo describes active program run.
type RunInfo struct {
	RunID    string    `json:"run_id"`
	Bulb     string    `json:"bulb"`
	Program  string    `json:"program"`
	Started  time.Time `json:"started"`
	Duration float64   `json:"duration"`
}
