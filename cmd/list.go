package cmd

import (
	"fmt"
	"io"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/engine"
	"github.com/fatih/color"
)

// ListCommand prints bulbs and programs.
type ListCommand struct {
	options *Options
	out     io.Writer
}

// Execute runs the command.
func (c *ListCommand) Execute([]string) error {
	a, err := newApp(c.options, nil)
	if err != nil {
		return err
	}
	defer a.registry.Close()

	printList(c.out, a.registry.Devices())
	return nil
}

func printList(out io.Writer, devices []*providers.DeviceInfo) {
	bold := color.New(color.Bold)

	bold.Fprintln(out, "Bulbs:") // nolint: errcheck
	for _, d := range devices {
		fmt.Fprintf(out, "  %-20s %-15s v%s\n", d.Name, d.Address, d.Version) // nolint: errcheck
	}
	fmt.Fprintf(out, "  %s\n", common.AllBulbs) // nolint: errcheck

	bold.Fprintln(out, "Programs:") // nolint: errcheck
	for _, p := range engine.Programs() {
		fmt.Fprintf(out, "  %-20s %s (default %s)\n", p.Name, p.Description, p.Duration) // nolint: errcheck
	}
}
