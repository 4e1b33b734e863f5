package registry

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/mocks"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/bulb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devicesJSON = `[
	{"id": "id1", "name": "Bedroom", "key": "0123456789abcdef", "ip": "10.0.0.1", "version": "3.3", "category": "dj"},
	{"id": "id2", "name": "bed side ", "key": "0123456789abcdef", "ip": "10.0.0.2", "version": 3.4},
	{"id": "id3", "name": "Kitchen", "key": "0123456789abcdef", "ip": "10.0.0.3", "version": ""},
	{"id": "id4", "name": "Plug", "key": "0123456789abcdef", "ip": "10.0.0.4", "category": "cz"},
	{"id": "id5", "name": "Offline", "key": "0123456789abcdef", "ip": ""}
]`

func writeDevices(t *testing.T, data string) string {
	dir, err := ioutil.TempDir("", "bulbd-registry")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) }) // nolint: errcheck

	file := filepath.Join(dir, "devices.json")
	require.NoError(t, ioutil.WriteFile(file, []byte(data), 0600))
	return file
}

func settings(file string) *providers.DeviceSettings {
	return &providers.DeviceSettings{
		File:              file,
		Version:           "3.5",
		Port:              6668,
		Timeout:           time.Second,
		CommandsPerSecond: 10,
	}
}

func newRegistry(t *testing.T, created *[]string) providers.IRegistryProvider {
	r, err := NewRegistry(&ConstructRegistry{
		Logger:   mocks.FakeNewLogger(nil),
		Settings: settings(writeDevices(t, devicesJSON)),
		Factory: func(info *providers.DeviceInfo) (providers.IBulbHandle, error) {
			*created = append(*created, info.Name)
			return mocks.FakeNewBulb(), nil
		},
	})
	require.NoError(t, err)
	return r
}

// Tests devices file loading.
func TestDevices(t *testing.T) {
	created := make([]string, 0)
	r := newRegistry(t, &created)

	devices := r.Devices()
	require.Len(t, devices, 3)

	assert.Equal(t, "bed side", devices[0].Name)
	assert.Equal(t, "3.4", devices[0].Version)
	assert.Equal(t, "bedroom", devices[1].Name)
	assert.Equal(t, "3.3", devices[1].Version)
	assert.Equal(t, "10.0.0.1", devices[1].Address)
	assert.Equal(t, "kitchen", devices[2].Name)
	assert.Equal(t, "3.5", devices[2].Version)

	assert.Empty(t, created)
}

// Tests selectors.
func TestResolve(t *testing.T) {
	created := make([]string, 0)
	r := newRegistry(t, &created)

	data := []struct {
		selector string
		names    []string
	}{
		{"kitchen", []string{"kitchen"}},
		{" KITCHEN ", []string{"kitchen"}},
		{common.AllBulbs, []string{"bed side", "bedroom", "kitchen"}},
		{"bed*", []string{"bed side", "bedroom"}},
		{"k?tchen", []string{"kitchen"}},
	}

	for _, v := range data {
		bulbs, err := r.Resolve(v.selector)
		require.NoError(t, err, v.selector)

		names := make([]string, 0)
		for _, b := range bulbs {
			names = append(names, b.Name)
			assert.NotNil(t, b.Handle)
		}

		assert.Equal(t, v.names, names, v.selector)
	}

	assert.Len(t, created, 3)
}

// Tests that handles are cached.
func TestHandleCache(t *testing.T) {
	created := make([]string, 0)
	r := newRegistry(t, &created)

	first, err := r.Resolve("kitchen")
	require.NoError(t, err)
	second, err := r.Resolve(common.AllBulbs)
	require.NoError(t, err)

	assert.True(t, first[0].Handle == second[2].Handle)
	assert.Equal(t, []string{"kitchen", "bed side", "bedroom"}, created)

	r.Close()
	third, err := r.Resolve("kitchen")
	require.NoError(t, err)
	assert.False(t, first[0].Handle == third[0].Handle)
}

// Tests unknown selectors.
func TestUnknownBulb(t *testing.T) {
	created := make([]string, 0)
	r := newRegistry(t, &created)

	for _, v := range []string{"plug", "offline", "garage*", "[", ""} {
		_, err := r.Resolve(v)
		require.Error(t, err, v)

		e, ok := err.(*ErrUnknownBulb)
		require.True(t, ok, v)
		assert.Equal(t, []string{"bed side", "bedroom", "kitchen"}, e.Known)
		assert.Contains(t, e.Error(), "bed side, bedroom, kitchen")
	}
}

// Tests handle creation failure.
func TestFactoryFailure(t *testing.T) {
	r, err := NewRegistry(&ConstructRegistry{
		Logger:   mocks.FakeNewLogger(nil),
		Settings: settings(writeDevices(t, devicesJSON)),
		Factory: func(info *providers.DeviceInfo) (providers.IBulbHandle, error) {
			return nil, errors.New("boom")
		},
	})
	require.NoError(t, err)

	_, err = r.Resolve("kitchen")
	assert.EqualError(t, err, "boom")
}

// Tests default tuya handles.
func TestTuyaFactory(t *testing.T) {
	r, err := NewRegistry(&ConstructRegistry{
		Logger:   mocks.FakeNewLogger(nil),
		Settings: settings(writeDevices(t, devicesJSON)),
	})
	require.NoError(t, err)

	bulbs, err := r.Resolve("bedroom")
	require.NoError(t, err)
	_, ok := bulbs[0].Handle.(*bulb.Paced)
	assert.True(t, ok)

	r.Close()
}

// Tests wrong devices files.
func TestWrongFiles(t *testing.T) {
	data := []string{
		"",
		"{}",
		`[{"id": "id4", "name": "Plug", "key": "k", "ip": "10.0.0.4", "category": "cz"}]`,
		`[{"id": "id1", "name": "a", "key": "k", "ip": "10.0.0.1", "version": true}]`,
	}

	for _, v := range data {
		_, err := NewRegistry(&ConstructRegistry{
			Logger:   mocks.FakeNewLogger(nil),
			Settings: settings(writeDevices(t, v)),
		})
		assert.Error(t, err, v)
	}

	_, err := NewRegistry(&ConstructRegistry{
		Logger:   mocks.FakeNewLogger(nil),
		Settings: settings(filepath.Join(os.TempDir(), "bulbd-missing", "devices.json")),
	})
	assert.Error(t, err)
}
