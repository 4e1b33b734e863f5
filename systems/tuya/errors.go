package tuya

import "fmt"

// ErrUnsupportedVersion defines unknown protocol version error.
type ErrUnsupportedVersion struct {
	Version string
}

// Error formats output.
func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("protocol version %s is not supported", e.Version)
}

// ErrDeviceReturnCode defines non-zero device return code.
type ErrDeviceReturnCode struct {
	Code uint32
	Body string
}

// Error formats output.
func (e *ErrDeviceReturnCode) Error() string {
	return fmt.Sprintf("device returned code %d: %s", e.Code, e.Body)
}

// ErrBadFrame defines malformed frame error.
type ErrBadFrame struct {
	Reason string
}

// Error formats output.
func (e *ErrBadFrame) Error() string {
	return fmt.Sprintf("bad frame: %s", e.Reason)
}
