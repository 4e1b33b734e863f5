package engine

import "sync"

// CancelToken is a one-shot cancellation flag shared between
// an engine and its owner.
type CancelToken struct {
	once sync.Once
	done chan struct{}
}

// NewCancelToken constructs a new token.
func NewCancelToken() *CancelToken {
	return &CancelToken{
		done: make(chan struct{}),
	}
}

// Cancel requests termination. Subsequent calls do nothing.
func (t *CancelToken) Cancel() {
	t.once.Do(func() {
		close(t.done)
	})
}

// Cancelled returns whether termination was requested.
func (t *CancelToken) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel which is closed on cancellation.
func (t *CancelToken) Done() <-chan struct{} {
	return t.done
}
