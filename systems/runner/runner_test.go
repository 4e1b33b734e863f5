package runner

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/mocks"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/engine"
	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	runner   providers.IRunnerProvider
	bulbs    map[string]*mocks.FakeBulb
	fanOut   *mocks.FakeFanOut
	storage  *mocks.FakeStorage
	notifier *mocks.FakeNotifier
	cron     *mocks.FakeCron
}

func newFixture(t *testing.T, schedules ...*providers.ScheduleSettings) *fixture {
	f := &fixture{
		bulbs: map[string]*mocks.FakeBulb{
			"desk":  mocks.FakeNewBulb(),
			"floor": mocks.FakeNewBulb(),
		},
		fanOut:   mocks.FakeNewFanOut(),
		storage:  mocks.FakeNewStorage(),
		notifier: mocks.FakeNewNotifier(),
		cron:     mocks.FakeNewCron(),
	}

	handles := make(map[string]providers.IBulbHandle)
	for k, v := range f.bulbs {
		handles[k] = v
	}

	r, err := NewRunner(&ConstructRunner{
		Logger:    mocks.FakeNewLogger(nil),
		Registry:  mocks.FakeNewRegistry(handles),
		FanOut:    f.fanOut,
		Storage:   f.storage,
		Notifier:  f.notifier,
		Cron:      f.cron,
		Schedules: schedules,
	})
	require.NoError(t, err)

	f.runner = r
	return f
}

func (f *fixture) waitStates(t *testing.T, states ...common.ProgramState) {
	assert.Eventually(t, func() bool {
		return len(f.notifier.ProgramStates()) >= len(states)
	}, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, states, f.notifier.ProgramStates())
}

// Tests start and stop of a program.
func TestStartStop(t *testing.T) {
	defer leaktest.Check(t)()

	f := newFixture(t)
	id, err := f.runner.Start("desk", engine.ProgramDisco, time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.True(t, f.runner.IsRunning("desk", engine.ProgramDisco))
	assert.False(t, f.runner.IsRunning("floor", engine.ProgramDisco))

	running := f.runner.Running()
	require.Len(t, running, 1)
	assert.Equal(t, id, running[0].RunID)
	assert.Equal(t, 60.0, running[0].Duration)

	require.NoError(t, f.runner.Stop("desk", engine.ProgramDisco))
	assert.False(t, f.runner.IsRunning("desk", engine.ProgramDisco))
	f.waitStates(t, common.ProgramRunning, common.ProgramStopped)

	err = f.runner.Stop("desk", engine.ProgramDisco)
	require.Error(t, err)
	_, ok := err.(*ErrProgramNotRunning)
	assert.True(t, ok)
	assert.Contains(t, err.Error(), "desk_disco_mode")
}

// Tests that wrong input is rejected before anything runs.
func TestStartErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.runner.Start("desk", "wrong", time.Second)
	require.Error(t, err)
	_, ok := err.(*engine.ErrUnknownProgram)
	assert.True(t, ok)

	_, err = f.runner.Start("kitchen", engine.ProgramDisco, time.Second)
	require.Error(t, err)

	assert.Empty(t, f.runner.Running())
	assert.Empty(t, f.notifier.ProgramStates())
}

// Tests natural completion of a run.
func TestCompletion(t *testing.T) {
	defer leaktest.Check(t)()

	f := newFixture(t)
	_, err := f.runner.Start("desk", engine.ProgramDisco, 100*time.Millisecond)
	require.NoError(t, err)

	f.waitStates(t, common.ProgramRunning, common.ProgramCompleted)
	assert.False(t, f.runner.IsRunning("desk", engine.ProgramDisco))

	history, err := f.storage.History(10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, common.ProgramCompleted, history[0].Status)
	assert.True(t, history[0].Elapsed > 0)
	assert.Equal(t, history[0].RunID, history[1].RunID)
}

// Tests that a new start replaces a previous run of the same key.
func TestReplace(t *testing.T) {
	defer leaktest.Check(t)()

	f := newFixture(t)
	first, err := f.runner.Start("desk", engine.ProgramDisco, time.Minute)
	require.NoError(t, err)
	second, err := f.runner.Start("desk", engine.ProgramDisco, time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	running := f.runner.Running()
	require.Len(t, running, 1)
	assert.Equal(t, second, running[0].RunID)

	f.runner.StopAll(2 * time.Second)
	f.waitStates(t, common.ProgramRunning, common.ProgramStopped, common.ProgramRunning, common.ProgramStopped)
	assert.Equal(t, first, f.notifier.Programs[1].RunID)
}

// Tests concurrent starts of the same key.
func TestConcurrentStart(t *testing.T) {
	defer leaktest.Check(t)()

	f := newFixture(t)
	wg := sync.WaitGroup{}
	for ii := 0; ii < 10; ii++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.runner.Start("desk", engine.ProgramRandomColors, time.Minute)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.Len(t, f.runner.Running(), 1)

	f.runner.StopAll(2 * time.Second)
	assert.Empty(t, f.runner.Running())
}

// Tests that different keys run side by side.
func TestIndependentKeys(t *testing.T) {
	defer leaktest.Check(t)()

	f := newFixture(t)
	_, err := f.runner.Start("desk", engine.ProgramDisco, time.Minute)
	require.NoError(t, err)
	_, err = f.runner.Start("floor", engine.ProgramDisco, time.Minute)
	require.NoError(t, err)
	_, err = f.runner.Start(common.AllBulbs, engine.ProgramColorFade, time.Minute)
	require.NoError(t, err)

	running := f.runner.Running()
	require.Len(t, running, 3)
	assert.Equal(t, "desk", running[0].Bulb)
	assert.Equal(t, common.AllBulbs, running[2].Bulb)

	f.runner.StopAll(2 * time.Second)
	assert.Empty(t, f.runner.Running())
}

// Tests that default duration of a program is used.
func TestDefaultDuration(t *testing.T) {
	defer leaktest.Check(t)()

	f := newFixture(t)
	_, err := f.runner.Start("desk", engine.ProgramColorFade, 0)
	require.NoError(t, err)

	running := f.runner.Running()
	require.Len(t, running, 1)
	assert.Equal(t, (15 * time.Minute).Seconds(), running[0].Duration)

	require.NoError(t, f.runner.Stop("desk", engine.ProgramColorFade))
}

// Tests that applied colours reach bulb updates.
func TestBulbUpdates(t *testing.T) {
	defer leaktest.Check(t)()

	f := newFixture(t)
	_, err := f.runner.Start("desk", engine.ProgramDisco, 100*time.Millisecond)
	require.NoError(t, err)
	f.waitStates(t, common.ProgramRunning, common.ProgramCompleted)

	select {
	case msg := <-f.fanOut.ChannelInBulbUpdates():
		assert.Equal(t, "desk", msg.Bulb)
		assert.Equal(t, engine.ProgramDisco, msg.Status["program"])
		assert.NotNil(t, msg.Status["rgb"])
	default:
		t.Fatal("no bulb update")
	}

	select {
	case msg := <-f.fanOut.ChannelInProgramUpdates():
		assert.Equal(t, common.ProgramRunning, msg.Status)
	default:
		t.Fatal("no program update")
	}
}

// Tests that storage failures don't stop programs.
func TestStorageFailure(t *testing.T) {
	defer leaktest.Check(t)()

	f := newFixture(t)
	f.storage.SetError(errors.New("disk"))

	_, err := f.runner.Start("desk", engine.ProgramDisco, 100*time.Millisecond)
	require.NoError(t, err)
	f.waitStates(t, common.ProgramRunning, common.ProgramCompleted)
	assert.NotEmpty(t, f.bulbs["desk"].Colours())
}

// Tests that a stuck run doesn't block a new start forever.
func TestJoinTimeout(t *testing.T) {
	f := newFixture(t)
	f.bulbs["desk"].WithDelay(300 * time.Millisecond)

	r := f.runner.(*runner)
	r.joinTimeout = 20 * time.Millisecond

	_, err := f.runner.Start("desk", engine.ProgramDisco, time.Minute)
	require.NoError(t, err)

	started := time.Now()
	second, err := f.runner.Start("desk", engine.ProgramDisco, time.Minute)
	require.NoError(t, err)
	assert.True(t, time.Since(started) < 250*time.Millisecond)

	running := f.runner.Running()
	require.Len(t, running, 1)
	assert.Equal(t, second, running[0].RunID)

	f.runner.StopAll(3 * time.Second)
}

// Tests that selectors differing in case and padding share one run.
func TestSelectorNormalization(t *testing.T) {
	defer leaktest.Check(t)()

	f := newFixture(t)
	first, err := f.runner.Start("desk", engine.ProgramDisco, time.Minute)
	require.NoError(t, err)
	second, err := f.runner.Start("  Desk ", engine.ProgramDisco, time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	running := f.runner.Running()
	require.Len(t, running, 1)
	assert.Equal(t, second, running[0].RunID)
	assert.Equal(t, "desk", running[0].Bulb)
	assert.True(t, f.runner.IsRunning("DESK", engine.ProgramDisco))

	require.NoError(t, f.runner.Stop("Desk", engine.ProgramDisco))
	assert.False(t, f.runner.IsRunning("desk", engine.ProgramDisco))
	assert.Empty(t, f.runner.Running())
	f.waitStates(t, common.ProgramRunning, common.ProgramStopped, common.ProgramRunning, common.ProgramStopped)
}

// Tests that stop of a stuck run returns after join timeout.
func TestStopTimeout(t *testing.T) {
	f := newFixture(t)
	f.bulbs["desk"].WithDelay(300 * time.Millisecond)

	r := f.runner.(*runner)
	r.joinTimeout = 20 * time.Millisecond

	_, err := f.runner.Start("desk", engine.ProgramDisco, time.Minute)
	require.NoError(t, err)

	started := time.Now()
	require.NoError(t, f.runner.Stop("desk", engine.ProgramDisco))
	assert.True(t, time.Since(started) < 250*time.Millisecond)

	f.runner.StopAll(3 * time.Second)
	assert.Empty(t, f.runner.Running())
}
