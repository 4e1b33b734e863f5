//+build !release

package mocks

import (
	"sort"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/pkg/errors"
)

type fakeRegistry struct {
	bulbs map[string]providers.IBulbHandle
}

func (f *fakeRegistry) Devices() []*providers.DeviceInfo {
	out := make([]*providers.DeviceInfo, 0, len(f.bulbs))
	for _, n := range f.names() {
		out = append(out, &providers.DeviceInfo{Name: n, ID: n, Address: "127.0.0.1", Version: "3.5"})
	}

	return out
}

func (f *fakeRegistry) Resolve(selector string) ([]*providers.NamedBulb, error) {
	if common.AllBulbs == selector {
		out := make([]*providers.NamedBulb, 0, len(f.bulbs))
		for _, n := range f.names() {
			out = append(out, &providers.NamedBulb{Name: n, Handle: f.bulbs[n]})
		}
		return out, nil
	}

	h, ok := f.bulbs[selector]
	if !ok {
		return nil, errors.Errorf("bulb %s not found", selector)
	}

	return []*providers.NamedBulb{{Name: selector, Handle: h}}, nil
}

func (f *fakeRegistry) Close() {
}

func (f *fakeRegistry) names() []string {
	names := make([]string, 0, len(f.bulbs))
	for k := range f.bulbs {
		names = append(names, k)
	}

	sort.Strings(names)
	return names
}

// FakeNewRegistry creates a registry with given named handles.
func FakeNewRegistry(bulbs map[string]providers.IBulbHandle) providers.IRegistryProvider {
	return &fakeRegistry{bulbs: bulbs}
}
