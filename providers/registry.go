package providers

// IRegistryProvider defines configured bulbs registry.
type IRegistryProvider interface {
	Devices() []*DeviceInfo
	Resolve(selector string) ([]*NamedBulb, error)
	Close()
}

// DeviceInfo has connection data of a configured bulb.
type DeviceInfo struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	Address  string `json:"ip"`
	LocalKey string `json:"-"`
	Version  string `json:"version"`
}

// NamedBulb pairs bulb name with its handle.
type NamedBulb struct {
	Name   string
	Handle IBulbHandle
}
