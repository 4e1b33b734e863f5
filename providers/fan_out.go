package providers

import "github.com/bulbd/bulbd/common"

// IFanOutProvider defines internal pub-sub channels.
type IFanOutProvider interface {
	SubscribeBulbUpdates() (int64, chan *common.MsgBulbUpdate)
	UnSubscribeBulbUpdates(int64)
	ChannelInBulbUpdates() chan *common.MsgBulbUpdate
	SubscribeProgramUpdates() (int64, chan *common.MsgProgramStatus)
	UnSubscribeProgramUpdates(int64)
	ChannelInProgramUpdates() chan *common.MsgProgramStatus
}
