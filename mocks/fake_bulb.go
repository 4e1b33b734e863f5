//+build !release

package mocks

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bulbd/bulbd/systems/color"
)

// FakeBulb is an in-memory bulb with scriptable failures.
type FakeBulb struct {
	sync.Mutex
	calls   []string
	colours []color.RGB
	fail    map[string]error
	state   map[string]interface{}
	delay   time.Duration
}

// FakeNewBulb creates a powered off white bulb.
func FakeNewBulb() *FakeBulb {
	return &FakeBulb{
		fail: make(map[string]error),
		state: map[string]interface{}{
			"20": false,
			"21": "white",
			"22": float64(1000),
			"23": float64(0),
		},
	}
}

// FailOn makes method return an error. Nil error resets.
func (f *FakeBulb) FailOn(method string, err error) *FakeBulb {
	f.Lock()
	defer f.Unlock()

	if nil == err {
		delete(f.fail, method)
	} else {
		f.fail[method] = err
	}

	return f
}

// WithDelay makes every call block for a given duration.
func (f *FakeBulb) WithDelay(delay time.Duration) *FakeBulb {
	f.Lock()
	defer f.Unlock()

	f.delay = delay
	return f
}

// Calls returns a copy of the calls log.
func (f *FakeBulb) Calls() []string {
	f.Lock()
	defer f.Unlock()

	return append([]string{}, f.calls...)
}

// Colours returns every colour passed to SetColour.
func (f *FakeBulb) Colours() []color.RGB {
	f.Lock()
	defer f.Unlock()

	return append([]color.RGB{}, f.colours...)
}

// State returns a copy of data points.
func (f *FakeBulb) State() map[string]interface{} {
	f.Lock()
	defer f.Unlock()

	return f.copyState()
}

// SetColour records colour.
func (f *FakeBulb) SetColour(r, g, b int) error {
	return f.call("SetColour", fmt.Sprintf("%d,%d,%d", r, g, b), func() {
		c := color.NewRGB(r, g, b)
		f.colours = append(f.colours, c)
		f.state["21"] = "colour"
		f.state["24"] = c.HSV().Hex()
	})
}

// SetValue records raw value.
func (f *FakeBulb) SetValue(dps int, value string) error {
	return f.call("SetValue", fmt.Sprintf("%d,%s", dps, value), func() {
		f.state[strconv.Itoa(dps)] = value
	})
}

// SetPower records power state.
func (f *FakeBulb) SetPower(on bool) error {
	return f.call("SetPower", strconv.FormatBool(on), func() {
		f.state["20"] = on
	})
}

// SetBrightness records brightness.
func (f *FakeBulb) SetBrightness(value int) error {
	return f.call("SetBrightness", strconv.Itoa(value), func() {
		f.state["22"] = float64(value)
	})
}

// SetWhite records white mode.
func (f *FakeBulb) SetWhite(brightness, temperature int) error {
	return f.call("SetWhite", fmt.Sprintf("%d,%d", brightness, temperature), func() {
		f.state["21"] = "white"
		f.state["22"] = float64(brightness)
		f.state["23"] = float64(temperature)
	})
}

// Status returns data points.
func (f *FakeBulb) Status() (map[string]interface{}, error) {
	var out map[string]interface{}
	err := f.call("Status", "", func() {
		out = f.copyState()
	})

	return out, err
}

func (f *FakeBulb) call(method string, args string, apply func()) error {
	f.Lock()
	delay := f.delay
	f.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.Lock()
	defer f.Unlock()

	f.calls = append(f.calls, fmt.Sprintf("%s(%s)", method, args))
	if err, ok := f.fail[method]; ok {
		return err
	}

	apply()
	return nil
}

func (f *FakeBulb) copyState() map[string]interface{} {
	out := make(map[string]interface{}, len(f.state))
	for k, v := range f.state {
		out[k] = v
	}

	return out
}
