//+build !release

package mocks

import (
	"sync"
	"time"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
)

// FakeStorage keeps history in memory.
type FakeStorage struct {
	sync.Mutex
	entries []*providers.HistoryEntry
	err     error
}

// Record stores a status.
func (f *FakeStorage) Record(msg *common.MsgProgramStatus) error {
	f.Lock()
	defer f.Unlock()

	if nil != f.err {
		return f.err
	}

	f.entries = append(f.entries, &providers.HistoryEntry{MsgProgramStatus: *msg, Time: time.Now()})
	return nil
}

// History returns latest entries first.
func (f *FakeStorage) History(limit int) ([]*providers.HistoryEntry, error) {
	f.Lock()
	defer f.Unlock()

	if nil != f.err {
		return nil, f.err
	}

	out := make([]*providers.HistoryEntry, 0)
	for ii := len(f.entries) - 1; ii >= 0 && len(out) < limit; ii-- {
		out = append(out, f.entries[ii])
	}

	return out, nil
}

// Close does nothing.
func (f *FakeStorage) Close() error {
	return nil
}

// SetError makes every call fail.
func (f *FakeStorage) SetError(err error) {
	f.Lock()
	defer f.Unlock()

	f.err = err
}

// FakeNewStorage creates a fake history storage.
func FakeNewStorage() *FakeStorage {
	return &FakeStorage{entries: make([]*providers.HistoryEntry, 0)}
}
