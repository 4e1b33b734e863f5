// Package cmd contains command line commands.
package cmd

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/settings"
	"github.com/bulbd/bulbd/systems/bulb"
	"github.com/bulbd/bulbd/systems/registry"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// Options defines global arguments.
type Options struct {
	Config string `short:"c" long:"config" description:"Config file. Defaults to bulbd.yaml if it exists."`
}

// Loaded configuration and bulbs.
type app struct {
	settings   providers.ISettingsProvider
	registry   providers.IRegistryProvider
	controller *bulb.Controller
}

// Register adds all commands to the parser.
func Register(parser *flags.Parser, options *Options) error {
	commands := []struct {
		name  string
		short string
		long  string
		data  interface{}
	}{
		{"serve", "Start web server", "Starts web server, dashboard and scheduled programs.",
			&ServeCommand{options: options}},
		{"control", "Control bulbs", "Actions: on, off, status, brightness N, temperature N, color R G B.",
			&ControlCommand{options: options, out: os.Stdout}},
		{"program", "Run a program", "Runs a lighting program until it completes or Ctrl+C is pressed.",
			&ProgramCommand{options: options, out: os.Stdout}},
		{"list", "List bulbs and programs", "Lists configured bulbs and available programs.",
			&ListCommand{options: options, out: os.Stdout}},
	}

	for _, v := range commands {
		if _, err := parser.AddCommand(v.name, v.short, v.long, v.data); err != nil {
			return errors.Wrapf(err, "failed to register %s command", v.name)
		}
	}

	return nil
}

// Loads settings and bulbs registry.
func newApp(options *Options, logOut io.Writer) (*app, error) {
	s, err := settings.Load(&settings.ConstructSettings{Path: options.Config, Out: logOut})
	if err != nil {
		return nil, err
	}

	r, err := registry.NewRegistry(&registry.ConstructRegistry{
		Logger:   s.SystemLogger(),
		Settings: &s.Config().Devices,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		settings:   s,
		registry:   r,
		controller: bulb.NewController(s.SystemLogger()),
	}, nil
}

// Longest accepted program duration.
const maxDuration = 7 * 24 * time.Hour

// Parses duration: either a plain number of seconds or a Go duration.
func parseDuration(value string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if secs < 0 {
			return 0, errors.Errorf("negative duration %s", value)
		}

		if secs > maxDuration.Seconds() {
			return 0, errors.Errorf("duration %s is longer than %s", value, maxDuration)
		}

		return time.Duration(secs * float64(time.Second)), nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Errorf("wrong duration %s", value)
	}

	if d < 0 {
		return 0, errors.Errorf("negative duration %s", value)
	}

	if d > maxDuration {
		return 0, errors.Errorf("duration %s is longer than %s", value, maxDuration)
	}

	return d, nil
}
