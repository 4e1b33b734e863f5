package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/bulb"
	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// ControlCommand performs a single action on bulbs.
type ControlCommand struct {
	options *Options
	out     io.Writer

	Args struct {
		Bulb   string   `positional-arg-name:"bulb" description:"Bulb name, glob or all_bulbs" required:"yes"`
		Action string   `positional-arg-name:"action" description:"on, off, status, brightness, temperature or color" required:"yes"`
		Values []string `positional-arg-name:"values" description:"Action values"`
	} `positional-args:"yes"`
}

// Execute runs the command.
func (c *ControlCommand) Execute([]string) error {
	a, err := newApp(c.options, nil)
	if err != nil {
		return err
	}
	defer a.registry.Close()

	bulbs, err := a.registry.Resolve(c.Args.Bulb)
	if err != nil {
		return err
	}

	failed := 0
	for _, b := range bulbs {
		if len(bulbs) > 1 {
			fmt.Fprintf(c.out, "\nControlling bulb: %s\n", b.Name) // nolint: errcheck
		}

		if !perform(a.controller, b, strings.ToLower(c.Args.Action), c.Args.Values, c.out) {
			failed++
		}
	}

	if failed > 0 {
		return errors.Errorf("%d of %d bulbs failed", failed, len(bulbs))
	}

	return nil
}

// Performs an action on a single bulb, prints outcome.
func perform(ctl *bulb.Controller, b *providers.NamedBulb, action string, values []string, out io.Writer) bool {
	ints, err := parseValues(action, values)
	if err != nil {
		color.New(color.FgRed).Fprintln(out, err.Error()) // nolint: errcheck
		return false
	}

	var res *bulb.Result
	switch action {
	case "on":
		res = ctl.TurnOn(b)
	case "off":
		res = ctl.TurnOff(b)
	case "toggle":
		res = ctl.Toggle(b)
	case "brightness":
		res = ctl.SetBrightness(b, ints[0])
	case "temperature":
		res = ctl.SetTemperature(b, ints[0])
	case "color":
		res = ctl.SetColor(b, ints[0], ints[1], ints[2])
	case "status":
		st, err := ctl.GetStatus(b)
		if err != nil {
			color.New(color.FgRed).Fprintf(out, "Error getting status: %s\n", err.Error()) // nolint: errcheck
			return false
		}

		for _, l := range st.Lines() {
			fmt.Fprintln(out, l) // nolint: errcheck
		}

		return true
	}

	printResult(out, res)
	return res.OK
}

// Validates action and converts its values.
func parseValues(action string, values []string) ([]int, error) {
	required := map[string]int{
		"on":          0,
		"off":         0,
		"toggle":      0,
		"status":      0,
		"brightness":  1,
		"temperature": 1,
		"color":       3,
	}

	n, ok := required[action]
	if !ok {
		return nil, errors.Errorf("unknown action: %s", action)
	}

	if len(values) < n {
		switch action {
		case "brightness":
			return nil, errors.New("brightness value required (10-1000)")
		case "temperature":
			return nil, errors.New("temperature value required (0-1000)")
		default:
			return nil, errors.New("color requires 3 values: <r> <g> <b>")
		}
	}

	out := make([]int, 0, n)
	for _, v := range values[:n] {
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Errorf("%s is not a number", v)
		}

		out = append(out, i)
	}

	return out, nil
}

func printResult(out io.Writer, res *bulb.Result) {
	if res.OK {
		color.New(color.FgGreen).Fprintln(out, res.Message) // nolint: errcheck
		return
	}

	color.New(color.FgRed).Fprintln(out, res.Message) // nolint: errcheck
	for _, v := range res.Stages {
		fmt.Fprintf(out, "  %s\n", v) // nolint: errcheck
	}
}
