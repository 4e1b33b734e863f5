//+build !release

package mocks

import (
	"sync"

	"github.com/bulbd/bulbd/common"
)

// FakeNotifier records pushed messages.
type FakeNotifier struct {
	sync.Mutex
	Bulbs    []*common.MsgBulbUpdate
	Programs []*common.MsgProgramStatus
	closed   bool
}

// BulbUpdate records bulb update.
func (f *FakeNotifier) BulbUpdate(msg *common.MsgBulbUpdate) {
	f.Lock()
	defer f.Unlock()

	f.Bulbs = append(f.Bulbs, msg)
}

// ProgramStatus records program status.
func (f *FakeNotifier) ProgramStatus(msg *common.MsgProgramStatus) {
	f.Lock()
	defer f.Unlock()

	f.Programs = append(f.Programs, msg)
}

// Close marks notifier as closed.
func (f *FakeNotifier) Close() {
	f.Lock()
	defer f.Unlock()

	f.closed = true
}

// ProgramStates returns recorded program states.
func (f *FakeNotifier) ProgramStates() []common.ProgramState {
	f.Lock()
	defer f.Unlock()

	out := make([]common.ProgramState, 0, len(f.Programs))
	for _, v := range f.Programs {
		out = append(out, v.Status)
	}

	return out
}

// FakeNewNotifier creates a fake notification provider.
func FakeNewNotifier() *FakeNotifier {
	return &FakeNotifier{}
}
