package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/systems/color"
	"github.com/bulbd/bulbd/systems/engine"
	fcolor "github.com/fatih/color"
)

// ProgramCommand runs a program in foreground.
type ProgramCommand struct {
	options *Options
	out     io.Writer

	Interval float64 `short:"i" long:"interval" description:"Seconds between random colors, 1-30."`

	Args struct {
		Program  string `positional-arg-name:"program" description:"color_fade, disco_mode or random_colors" required:"yes"`
		Bulb     string `positional-arg-name:"bulb" description:"Bulb name, glob or all_bulbs" required:"yes"`
		Duration string `positional-arg-name:"duration" description:"Run time: plain number is seconds, use Go duration for other units, e.g. 15m"`
	} `positional-args:"yes"`
}

// Execute runs the command.
func (c *ProgramCommand) Execute([]string) error {
	prog, err := engine.Lookup(c.Args.Program)
	if err != nil {
		return err
	}

	if c.Interval > 0 {
		prog = prog.WithInterval(time.Duration(c.Interval * float64(time.Second)))
	}

	duration := prog.Duration
	if "" != c.Args.Duration {
		if duration, err = parseDuration(c.Args.Duration); err != nil {
			return err
		}
	}

	a, err := newApp(c.options, nil)
	if err != nil {
		return err
	}
	defer a.registry.Close()

	bulbs, err := a.registry.Resolve(c.Args.Bulb)
	if err != nil {
		return err
	}

	token := engine.NewCancelToken()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		select {
		case <-signals:
			fmt.Fprintln(c.out, "\nStopping...") // nolint: errcheck
			token.Cancel()
		case <-token.Done():
		}
	}()

	fmt.Fprintf(c.out, "Running %s on %s for %s. Press Ctrl+C to stop.\n", // nolint: errcheck
		prog.Name, c.Args.Bulb, duration)

	e := engine.NewEngine(&engine.ConstructEngine{
		Logger:    a.settings.SystemLogger(),
		Config:    prog.Config,
		Observer:  &printer{out: c.out},
		LogFields: []string{common.LogProgramToken, prog.Name, common.LogBulbToken, c.Args.Bulb},
	})

	state := e.Run(bulbs, duration, token)
	token.Cancel()

	fcolor.New(fcolor.FgGreen).Fprintf(c.out, "Program %s %s\n", prog.Name, state) // nolint: errcheck
	return nil
}

// Prints engine progress.
type printer struct {
	out io.Writer
}

// Applied prints colour.
func (p *printer) Applied(c color.RGB) {
	fcolor.New(fcolor.FgCyan).Fprintf(p.out, "Color: %s\n", c) // nolint: errcheck
}

// Finished prints number of transitions.
func (p *printer) Finished(_ engine.State, transitions int) {
	fmt.Fprintf(p.out, "Transitions: %d\n", transitions) // nolint: errcheck
}
