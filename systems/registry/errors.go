package registry

import (
	"fmt"
	"strings"
)

// ErrUnknownBulb defines unknown bulb selector.
type ErrUnknownBulb struct {
	Name  string
	Known []string
}

// Error formats output.
func (e *ErrUnknownBulb) Error() string {
	return fmt.Sprintf("bulb %s not found, available bulbs: %s", e.Name, strings.Join(e.Known, ", "))
}

// ErrNoDevices defines devices file without bulbs.
type ErrNoDevices struct {
	File string
}

// Error formats output.
func (e *ErrNoDevices) Error() string {
	return fmt.Sprintf("no bulb devices found in %s", e.File)
}
