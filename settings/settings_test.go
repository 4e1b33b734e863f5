package settings

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	dir, err := ioutil.TempDir("", "bulbd")
	require.NoError(t, err)

	path := filepath.Join(dir, "bulbd.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(data), 0600))
	return path
}

// Tests loading full config.
func TestLoad(t *testing.T) {
	os.Setenv("BULBD_TEST_PASSWORD", "secret") // nolint: errcheck
	defer os.Unsetenv("BULBD_TEST_PASSWORD")   // nolint: errcheck

	path := writeConfig(t, `
server:
  port: 8080
  cacheTTL: 10s
log:
  provider: json
  level: debug
devices:
  file: /etc/bulbd/devices.json
  version: "3.3"
mqtt:
  broker: tcp://localhost:1883
  password: {{ env "BULBD_TEST_PASSWORD" }}
schedules:
  - cron: "0 0 20 * * *"
    program: color_fade
    bulb: all_bulbs
`)
	defer os.RemoveAll(filepath.Dir(path)) // nolint: errcheck

	out := &bytes.Buffer{}
	s, err := Load(&ConstructSettings{Path: path, Out: out})
	require.NoError(t, err)
	defer s.Cron().Stop()

	cfg := s.Config()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "json", cfg.Log.Provider)
	assert.Equal(t, "/etc/bulbd/devices.json", cfg.Devices.File)
	assert.Equal(t, "3.3", cfg.Devices.Version)
	assert.Equal(t, 6668, cfg.Devices.Port)
	assert.Equal(t, "secret", cfg.MQTT.Password)
	assert.Equal(t, "bulbd", cfg.MQTT.Topic)
	require.Len(t, cfg.Schedules, 1)
	assert.Equal(t, 60*time.Second, cfg.Schedules[0].Duration)

	assert.NotNil(t, s.SystemLogger())
	assert.NotNil(t, s.Validator())
	assert.NotNil(t, s.FanOut())
}

// Tests defaults when config file is absent.
func TestLoadDefaults(t *testing.T) {
	dir, err := ioutil.TempDir("", "bulbd")
	require.NoError(t, err)
	defer os.RemoveAll(dir) // nolint: errcheck

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd) // nolint: errcheck

	out := &bytes.Buffer{}
	s, err := Load(&ConstructSettings{Out: out})
	require.NoError(t, err)
	defer s.Cron().Stop()

	cfg := s.Config()
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "console", cfg.Log.Provider)
	assert.Equal(t, "3.5", cfg.Devices.Version)
	assert.Equal(t, "devices.json", cfg.Devices.File)
	assert.Equal(t, "", cfg.Storage.Path)
	assert.Equal(t, 50, cfg.Storage.History)
	assert.Contains(t, out.String(), "Config file is not found")
}

// Tests explicit missing file.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load(&ConstructSettings{Path: "/non/existing/bulbd.yaml", Out: &bytes.Buffer{}})
	assert.Error(t, err)
}

// Tests invalid configs.
func TestLoadInvalid(t *testing.T) {
	data := []string{
		"server:\n  port: 100000\n",
		"log:\n  provider: syslog\n",
		"devices:\n  version: \"3.1\"\n",
		"mqtt:\n  broker: localhost\n",
		"schedules:\n  - program: color_fade\n",
		"server: [",
		"{{ env }",
	}

	for _, v := range data {
		path := writeConfig(t, v)
		_, err := Load(&ConstructSettings{Path: path, Out: &bytes.Buffer{}})
		assert.Error(t, err, v)
		os.RemoveAll(filepath.Dir(path)) // nolint: errcheck
	}
}
