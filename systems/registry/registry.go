// Package registry contains configured bulbs registry.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/bulb"
	"github.com/bulbd/bulbd/systems/tuya"
	"github.com/bulbd/bulbd/utils"
	"github.com/gobwas/glob"
)

const (
	// Logger system.
	logSystem = "registry"
	// Characters turning selector into a glob.
	globChars = "*?[{"
)

// HandleFactory creates a connection to a bulb.
type HandleFactory func(info *providers.DeviceInfo) (providers.IBulbHandle, error)

// ConstructRegistry has data required for a new registry.
type ConstructRegistry struct {
	Logger   common.ILoggerProvider
	Settings *providers.DeviceSettings
	// Optional, tuya bulbs are used by default.
	Factory HandleFactory
}

// Registry implementation.
type registry struct {
	sync.Mutex

	logger  common.ILoggerProvider
	factory HandleFactory
	devices map[string]*providers.DeviceInfo
	handles map[string]providers.IBulbHandle
}

// NewRegistry loads devices file and constructs a new registry.
func NewRegistry(ctor *ConstructRegistry) (providers.IRegistryProvider, error) {
	r := &registry{
		logger:  ctor.Logger,
		factory: ctor.Factory,
		devices: make(map[string]*providers.DeviceInfo),
		handles: make(map[string]providers.IBulbHandle),
	}

	if nil == r.factory {
		r.factory = tuyaFactory(ctor.Settings)
	}

	if err := r.loadDevices(ctor.Settings.File, ctor.Settings.Version); err != nil {
		return nil, err
	}

	return r, nil
}

// Devices returns configured bulbs ordered by name.
func (r *registry) Devices() []*providers.DeviceInfo {
	out := make([]*providers.DeviceInfo, 0, len(r.devices))
	for _, n := range r.names() {
		out = append(out, r.devices[n])
	}

	return out
}

// Resolve returns handles of bulbs matching selector: exact name, all_bulbs or a glob.
func (r *registry) Resolve(selector string) ([]*providers.NamedBulb, error) {
	selector = utils.NormalizeBulbName(selector)
	names, err := r.match(selector)
	if err != nil {
		return nil, err
	}

	out := make([]*providers.NamedBulb, 0, len(names))
	for _, n := range names {
		h, err := r.handle(n)
		if err != nil {
			return nil, err
		}

		out = append(out, &providers.NamedBulb{Name: n, Handle: h})
	}

	return out, nil
}

// Close closes opened connections.
func (r *registry) Close() {
	r.Lock()
	defer r.Unlock()

	for k, v := range r.handles {
		if p, ok := v.(*bulb.Paced); ok {
			v = p.Unwrap()
		}

		if c, ok := v.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				r.logger.Warn("Failed to close bulb connection", common.LogSystemToken, logSystem,
					common.LogBulbToken, k, common.LogErrorToken, err.Error())
			}
		}
	}

	r.handles = make(map[string]providers.IBulbHandle)
}

// Returns sorted bulb names matching selector.
func (r *registry) match(selector string) ([]string, error) {
	if common.AllBulbs == selector {
		return r.names(), nil
	}

	if _, ok := r.devices[selector]; ok {
		return []string{selector}, nil
	}

	if !strings.ContainsAny(selector, globChars) {
		return nil, &ErrUnknownBulb{Name: selector, Known: r.names()}
	}

	g, err := glob.Compile(selector)
	if err != nil {
		return nil, &ErrUnknownBulb{Name: selector, Known: r.names()}
	}

	out := make([]string, 0)
	for _, n := range r.names() {
		if g.Match(n) {
			out = append(out, n)
		}
	}

	if 0 == len(out) {
		return nil, &ErrUnknownBulb{Name: selector, Known: r.names()}
	}

	return out, nil
}

// Returns cached handle or creates a new one.
func (r *registry) handle(name string) (providers.IBulbHandle, error) {
	r.Lock()
	defer r.Unlock()

	if h, ok := r.handles[name]; ok {
		return h, nil
	}

	h, err := r.factory(r.devices[name])
	if err != nil {
		r.logger.Error("Failed to create bulb handle", err, common.LogSystemToken, logSystem,
			common.LogBulbToken, name)
		return nil, err
	}

	r.handles[name] = h
	return h, nil
}

func (r *registry) names() []string {
	names := make([]string, 0, len(r.devices))
	for k := range r.devices {
		names = append(names, k)
	}

	sort.Strings(names)
	return names
}

// Creates paced tuya bulbs.
func tuyaFactory(settings *providers.DeviceSettings) HandleFactory {
	return func(info *providers.DeviceInfo) (providers.IBulbHandle, error) {
		b, err := tuya.NewBulb(&tuya.Settings{
			ID:       info.ID,
			Address:  info.Address,
			Port:     settings.Port,
			LocalKey: info.LocalKey,
			Version:  info.Version,
			Timeout:  settings.Timeout,
		})
		if err != nil {
			return nil, err
		}

		return bulb.NewPaced(b, settings.CommandsPerSecond), nil
	}
}
