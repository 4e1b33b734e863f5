package runner

import (
	"testing"
	"time"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/mocks"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests that schedules start programs.
func TestSchedules(t *testing.T) {
	f := newFixture(t, &providers.ScheduleSettings{
		Cron:     "0 7 * * *",
		Program:  engine.ProgramColorFade,
		Bulb:     common.AllBulbs,
		Duration: time.Minute,
	})

	assert.Equal(t, []string{"0 7 * * *"}, f.cron.Specs())

	f.cron.FireAll()
	assert.True(t, f.runner.IsRunning(common.AllBulbs, engine.ProgramColorFade))

	f.runner.StopAll(2 * time.Second)
	assert.Empty(t, f.cron.Specs())
	assert.False(t, f.runner.IsRunning(common.AllBulbs, engine.ProgramColorFade))
}

// Tests that scheduled start failures are reported.
func TestScheduleFailure(t *testing.T) {
	f := newFixture(t, &providers.ScheduleSettings{
		Cron:    "@hourly",
		Program: engine.ProgramDisco,
		Bulb:    "kitchen",
	})

	f.cron.FireAll()
	f.waitStates(t, common.ProgramError)
	assert.NotEmpty(t, f.notifier.Programs[0].Error)
}

// Tests that schedules with unknown programs are rejected.
func TestScheduleUnknownProgram(t *testing.T) {
	cron := mocks.FakeNewCron()
	_, err := NewRunner(&ConstructRunner{
		Logger:   mocks.FakeNewLogger(nil),
		Registry: mocks.FakeNewRegistry(nil),
		Cron:     cron,
		Schedules: []*providers.ScheduleSettings{
			{Cron: "@hourly", Program: engine.ProgramDisco, Bulb: "desk"},
			{Cron: "@daily", Program: "wrong", Bulb: "desk"},
		},
	})

	require.Error(t, err)
	assert.Empty(t, cron.Specs())
}
