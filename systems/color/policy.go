package color

import (
	"math/rand"
	"strings"

	"github.com/pkg/errors"
)

// Policy describes how random colors are generated.
type Policy int

const (
	// PolicySoft draws every channel from [50,200].
	PolicySoft Policy = iota
	// PolicyVibrant draws one dominant channel from [180,255], others from [0,100].
	PolicyVibrant
	// PolicyUniform draws every channel from [0,255].
	PolicyUniform
)

const (
	softLow         = 50
	softHigh        = 200
	vibrantLow      = 180
	vibrantHigh     = 255
	vibrantMaxOther = 100
)

// String returns policy name.
func (p Policy) String() string {
	switch p {
	case PolicySoft:
		return "soft"
	case PolicyVibrant:
		return "vibrant"
	case PolicyUniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// ParsePolicy transforms policy name into Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "soft":
		return PolicySoft, nil
	case "vibrant":
		return PolicyVibrant, nil
	case "uniform":
		return PolicyUniform, nil
	default:
		return PolicyUniform, errors.Errorf("unknown color policy %s", name)
	}
}

// Generate picks a new random color.
func (p Policy) Generate(rnd *rand.Rand) RGB {
	switch p {
	case PolicySoft:
		return RGB{
			R: between(rnd, softLow, softHigh),
			G: between(rnd, softLow, softHigh),
			B: between(rnd, softLow, softHigh),
		}
	case PolicyVibrant:
		var ch [3]int
		primary := rnd.Intn(3)
		for ii := range ch {
			if ii == primary {
				ch[ii] = between(rnd, vibrantLow, vibrantHigh)
			} else {
				ch[ii] = between(rnd, 0, vibrantMaxOther)
			}
		}

		return RGB{R: ch[0], G: ch[1], B: ch[2]}
	default:
		return RGB{
			R: between(rnd, 0, MaxChannel),
			G: between(rnd, 0, MaxChannel),
			B: between(rnd, 0, MaxChannel),
		}
	}
}

// Inclusive on both ends.
func between(rnd *rand.Rand, lo, hi int) int {
	return lo + rnd.Intn(hi-lo+1)
}
