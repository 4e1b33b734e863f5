package cmd

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/bulbd/bulbd/mocks"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/bulb"
	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedBulb() (*providers.NamedBulb, *mocks.FakeBulb) {
	f := mocks.FakeNewBulb()
	return &providers.NamedBulb{Name: "desk", Handle: f}, f
}

// Tests duration parsing.
func TestParseDuration(t *testing.T) {
	data := []struct {
		in  string
		out time.Duration
		err bool
	}{
		{"30", 30 * time.Second, false},
		{"1.5", 1500 * time.Millisecond, false},
		{"15m", 15 * time.Minute, false},
		{"-1", 0, true},
		{"-1s", 0, true},
		{"soon", 0, true},
		{"604800", 7 * 24 * time.Hour, false},
		{"1e300", 0, true},
		{"169h", 0, true},
	}

	for _, v := range data {
		d, err := parseDuration(v.in)
		if v.err {
			assert.Error(t, err, v.in)
			continue
		}

		require.NoError(t, err, v.in)
		assert.Equal(t, v.out, d, v.in)
	}
}

// Tests action values validation.
func TestParseValues(t *testing.T) {
	v, err := parseValues("color", []string{"1", "2", "3", "4"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)

	_, err = parseValues("color", []string{"1", "2"})
	assert.Error(t, err)
	_, err = parseValues("brightness", nil)
	assert.EqualError(t, err, "brightness value required (10-1000)")
	_, err = parseValues("brightness", []string{"bright"})
	assert.Error(t, err)
	_, err = parseValues("dance", nil)
	assert.EqualError(t, err, "unknown action: dance")
}

// Tests actions.
func TestPerform(t *testing.T) {
	ctl := bulb.NewController(mocks.FakeNewLogger(nil))
	b, f := namedBulb()
	out := &bytes.Buffer{}

	assert.True(t, perform(ctl, b, "on", nil, out))
	assert.True(t, perform(ctl, b, "brightness", []string{"5000"}, out))
	assert.True(t, perform(ctl, b, "temperature", []string{"300"}, out))
	assert.True(t, perform(ctl, b, "color", []string{"255", "0", "0"}, out))
	assert.Equal(t, []string{"SetPower(true)", "SetBrightness(1000)", "SetWhite(1000,300)", "SetColour(255,0,0)"},
		f.Calls())
	assert.Contains(t, out.String(), "Bulb turned ON")

	out.Reset()
	assert.True(t, perform(ctl, b, "status", nil, out))
	assert.Contains(t, out.String(), "colour")

	out.Reset()
	assert.False(t, perform(ctl, b, "fly", nil, out))
	assert.Contains(t, out.String(), "unknown action: fly")
}

// Tests failed actions output.
func TestPerformFailure(t *testing.T) {
	ctl := bulb.NewController(mocks.FakeNewLogger(nil))
	b, f := namedBulb()
	f.FailOn("SetPower", errors.New("timeout")).FailOn("Status", errors.New("timeout"))
	out := &bytes.Buffer{}

	assert.False(t, perform(ctl, b, "off", nil, out))
	assert.Contains(t, out.String(), "timeout")

	out.Reset()
	assert.False(t, perform(ctl, b, "status", nil, out))
	assert.Contains(t, out.String(), "Error getting status")
}

// Tests list output.
func TestPrintList(t *testing.T) {
	out := &bytes.Buffer{}
	printList(out, []*providers.DeviceInfo{{Name: "desk", Address: "10.0.0.1", Version: "3.4"}})

	assert.Contains(t, out.String(), "desk")
	assert.Contains(t, out.String(), "v3.4")
	assert.Contains(t, out.String(), "all_bulbs")
	assert.Contains(t, out.String(), "random_colors")
}

// Tests commands registration and parsing.
func TestRegister(t *testing.T) {
	options := &Options{}
	parser := flags.NewParser(options, flags.None)
	require.NoError(t, Register(parser, options))

	for _, v := range []string{"serve", "control", "program", "list"} {
		assert.NotNil(t, parser.Find(v), v)
	}

	p := parser.Find("program").Data().(*ProgramCommand)
	_, err := parser.ParseArgs([]string{"-c", "x.yaml", "program", "-i", "5", "wrong", "desk"})
	require.Error(t, err)
	assert.Equal(t, "x.yaml", options.Config)
	assert.Equal(t, 5.0, p.Interval)
	assert.Equal(t, "wrong", p.Args.Program)
}

// Tests that program duration help names its unit.
func TestProgramDurationHelp(t *testing.T) {
	options := &Options{}
	parser := flags.NewParser(options, flags.None)
	require.NoError(t, Register(parser, options))

	args := parser.Find("program").Args()
	require.Len(t, args, 3)
	assert.Equal(t, "duration", args[2].Name)
	assert.Contains(t, args[2].Description, "seconds")
	assert.Contains(t, args[2].Description, "15m")
}
