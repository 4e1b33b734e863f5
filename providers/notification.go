package providers

import "github.com/bulbd/bulbd/common"

// INotificationProvider defines external status push.
type INotificationProvider interface {
	BulbUpdate(*common.MsgBulbUpdate)
	ProgramStatus(*common.MsgProgramStatus)
	Close()
}
