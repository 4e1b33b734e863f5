package providers

import (
	"time"

	"github.com/bulbd/bulbd/common"
)

// IStorageProvider defines program runs history storage.
type IStorageProvider interface {
	Record(*common.MsgProgramStatus) error
	History(limit int) ([]*HistoryEntry, error)
	Close() error
}

// HistoryEntry is a single stored program status.
type HistoryEntry struct {
	common.MsgProgramStatus
	Time time.Time `json:"time"`
}
