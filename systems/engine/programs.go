package engine

import (
	"sort"
	"time"

	"github.com/bulbd/bulbd/systems/color"
)

// Program names.
const (
	// ProgramColorFade slowly fades between soft colours.
	ProgramColorFade = "color_fade"
	// ProgramDisco rapidly changes vibrant colours.
	ProgramDisco = "disco_mode"
	// ProgramRandomColors changes random colours at an interval.
	ProgramRandomColors = "random_colors"
)

const (
	// MinInterval is the shortest random colours interval.
	MinInterval = 1 * time.Second
	// MaxInterval is the longest random colours interval.
	MaxInterval = 30 * time.Second
)

// Program is a catalogue entry.
type Program struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Config      Config        `json:"-"`
	Duration    time.Duration `json:"-"`
}

var catalogue = map[string]*Program{
	ProgramColorFade: {
		Name:        ProgramColorFade,
		Description: "Smooth transitions between soft colors",
		Config:      Config{Steps: 20, Transition: 30 * time.Second, Policy: color.PolicySoft},
		Duration:    15 * time.Minute,
	},
	ProgramDisco: {
		Name:        ProgramDisco,
		Description: "Rapid vibrant color changes",
		Config:      Config{Steps: 1, Transition: 300 * time.Millisecond, Policy: color.PolicyVibrant},
		Duration:    30 * time.Second,
	},
	ProgramRandomColors: {
		Name:        ProgramRandomColors,
		Description: "Random colors every few seconds",
		Config:      Config{Steps: 1, Transition: 3 * time.Second, Policy: color.PolicyUniform},
		Duration:    5 * time.Minute,
	},
}

// Lookup returns program by name.
func Lookup(name string) (*Program, error) {
	p, ok := catalogue[name]
	if !ok {
		return nil, &ErrUnknownProgram{Name: name}
	}

	cp := *p
	return &cp, nil
}

// Programs returns every known program sorted by name.
func Programs() []*Program {
	out := make([]*Program, 0, len(catalogue))
	for _, n := range Names() {
		p, _ := Lookup(n) // nolint: errcheck
		out = append(out, p)
	}

	return out
}

// Names returns sorted program names.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for k := range catalogue {
		names = append(names, k)
	}

	sort.Strings(names)
	return names
}

// WithInterval returns a copy of random colours program with a different interval,
// clamped to [MinInterval, MaxInterval]. Other programs are copied as is.
func (p *Program) WithInterval(interval time.Duration) *Program {
	cp := *p
	if cp.Name != ProgramRandomColors {
		return &cp
	}

	if interval < MinInterval {
		interval = MinInterval
	}

	if interval > MaxInterval {
		interval = MaxInterval
	}

	cp.Config.Transition = interval
	return &cp
}
