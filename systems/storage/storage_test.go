package storage

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/mocks"
	"github.com/bulbd/bulbd/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T, history int) (providers.IStorageProvider, string) {
	dir, err := ioutil.TempDir("", "bulbd-storage")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) }) // nolint: errcheck

	path := filepath.Join(dir, "history.db")
	p, err := NewStorageProvider(&ConstructStorage{
		Logger:   mocks.FakeNewLogger(nil),
		Settings: &providers.StorageSettings{Path: path, History: history},
	})
	require.NoError(t, err)
	return p, path
}

// Tests that empty storage is not causing errors.
func TestEmptyStorage(t *testing.T) {
	p, err := NewStorageProvider(&ConstructStorage{
		Logger:   mocks.FakeNewLogger(nil),
		Settings: &providers.StorageSettings{},
	})
	require.NoError(t, err)

	assert.NoError(t, p.Record(&common.MsgProgramStatus{RunID: "1"}))
	h, err := p.History(10)
	require.NoError(t, err)
	assert.Empty(t, h)
	assert.NoError(t, p.Close())
}

// Tests history ordering and limits.
func TestHistory(t *testing.T) {
	p, _ := newStorage(t, 2)
	defer p.Close() // nolint: errcheck

	require.NoError(t, p.Record(&common.MsgProgramStatus{
		RunID: "1", Bulb: "desk", Program: "disco_mode", Status: common.ProgramRunning, Duration: 30,
	}))
	require.NoError(t, p.Record(&common.MsgProgramStatus{
		RunID: "1", Bulb: "desk", Program: "disco_mode", Status: common.ProgramStopped, Duration: 30,
		Elapsed: 1.5,
	}))
	require.NoError(t, p.Record(&common.MsgProgramStatus{
		Bulb: "kitchen", Program: "color_fade", Status: common.ProgramError, Error: "bulb kitchen not found",
	}))

	h, err := p.History(10)
	require.NoError(t, err)
	require.Len(t, h, 3)

	assert.Equal(t, common.ProgramError, h[0].Status)
	assert.Equal(t, "bulb kitchen not found", h[0].Error)
	assert.Equal(t, common.ProgramStopped, h[1].Status)
	assert.Equal(t, 1.5, h[1].Elapsed)
	assert.Equal(t, 30.0, h[1].Duration)
	assert.Equal(t, "1", h[2].RunID)
	assert.False(t, h[2].Time.After(h[0].Time))

	h, err = p.History(0)
	require.NoError(t, err)
	assert.Len(t, h, 2)
}

// Tests that history survives reopening.
func TestReopen(t *testing.T) {
	p, path := newStorage(t, 10)
	require.NoError(t, p.Record(&common.MsgProgramStatus{RunID: "1", Status: common.ProgramCompleted}))
	require.NoError(t, p.Close())

	p, err := NewStorageProvider(&ConstructStorage{
		Logger:   mocks.FakeNewLogger(nil),
		Settings: &providers.StorageSettings{Path: path, History: 10},
	})
	require.NoError(t, err)
	defer p.Close() // nolint: errcheck

	h, err := p.History(10)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, common.ProgramCompleted, h[0].Status)
}

// Tests wrong database path.
func TestWrongPath(t *testing.T) {
	_, err := NewStorageProvider(&ConstructStorage{
		Logger:   mocks.FakeNewLogger(nil),
		Settings: &providers.StorageSettings{Path: filepath.Join(os.TempDir(), "bulbd-missing", "x", "h.db")},
	})
	assert.Error(t, err)
}
