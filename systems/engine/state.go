package engine

// State describes engine lifecycle.
type State int32

const (
	// StateIdle is a fresh engine.
	StateIdle State = iota
	// StateRunning is an engine inside its loop.
	StateRunning
	// StateCompleted is an engine which exhausted its duration.
	StateCompleted
	// StateCancelled is an engine stopped by its token.
	StateCancelled
)

// String returns state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}
