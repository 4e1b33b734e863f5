//+build !release

package mocks

import (
	"github.com/bulbd/bulbd/common"
)

// FakeFanOut returns input channels as subscriptions.
type FakeFanOut struct {
	inBulbUpdates    chan *common.MsgBulbUpdate
	inProgramUpdates chan *common.MsgProgramStatus
}

// SubscribeBulbUpdates returns input channel.
func (f *FakeFanOut) SubscribeBulbUpdates() (int64, chan *common.MsgBulbUpdate) {
	return 1, f.inBulbUpdates
}

// UnSubscribeBulbUpdates does nothing.
func (f *FakeFanOut) UnSubscribeBulbUpdates(int64) {
}

// ChannelInBulbUpdates returns input channel.
func (f *FakeFanOut) ChannelInBulbUpdates() chan *common.MsgBulbUpdate {
	return f.inBulbUpdates
}

// SubscribeProgramUpdates returns input channel.
func (f *FakeFanOut) SubscribeProgramUpdates() (int64, chan *common.MsgProgramStatus) {
	return 1, f.inProgramUpdates
}

// UnSubscribeProgramUpdates does nothing.
func (f *FakeFanOut) UnSubscribeProgramUpdates(int64) {
}

// ChannelInProgramUpdates returns input channel.
func (f *FakeFanOut) ChannelInProgramUpdates() chan *common.MsgProgramStatus {
	return f.inProgramUpdates
}

// FakeNewFanOut creates a fake fan-out with large buffers.
func FakeNewFanOut() *FakeFanOut {
	return &FakeFanOut{
		inBulbUpdates:    make(chan *common.MsgBulbUpdate, 100),
		inProgramUpdates: make(chan *common.MsgProgramStatus, 100),
	}
}
