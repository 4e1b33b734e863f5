package color

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

const (
	// HueRange is the exclusive upper bound of hue.
	HueRange = 360
	// HSVScale is the upper bound of saturation and value.
	HSVScale = 1000
	// HexLength is the length of hex encoded HSV payload.
	HexLength = 12
)

// HSV is a device-native color: hue in [0,360), saturation and value in [0,1000].
type HSV struct {
	H int `json:"h"`
	S int `json:"s"`
	V int `json:"v"`
}

// HSV converts color to the device representation.
// Components are rounded to nearest, keeping round trips within 3 per channel.
func (c RGB) HSV() HSV {
	cf := colorful.Color{
		R: float64(ClampChannel(c.R)) / MaxChannel,
		G: float64(ClampChannel(c.G)) / MaxChannel,
		B: float64(ClampChannel(c.B)) / MaxChannel,
	}

	h, s, v := cf.Hsv()
	hue := int(math.Round(h)) % HueRange
	if hue < 0 {
		hue += HueRange
	}

	return HSV{
		H: hue,
		S: int(math.Round(s * HSVScale)),
		V: int(math.Round(v * HSVScale)),
	}
}

// RGB converts device color back to RGB.
func (h HSV) RGB() RGB {
	r, g, b := colorful.Hsv(float64(h.H), float64(h.S)/HSVScale, float64(h.V)/HSVScale).Clamped().RGB255()
	return RGB{R: int(r), G: int(g), B: int(b)}
}

// JSON serializes color as {"h":..,"s":..,"v":..}.
func (h HSV) JSON() string {
	d, _ := json.Marshal(h) // nolint: gosec
	return string(d)
}

// Hex serializes color as 12 lowercase hex characters, 4 per component.
func (h HSV) Hex() string {
	return fmt.Sprintf("%04x%04x%04x", uint16(h.H), uint16(h.S), uint16(h.V))
}

// String formats color the way it's logged.
func (h HSV) String() string {
	return fmt.Sprintf("H:%d S:%d V:%d", h.H, h.S, h.V)
}

// ParseHex decodes 12 hex characters into HSV.
func ParseHex(data string) (HSV, error) {
	if HexLength != len(data) {
		return HSV{}, errors.Errorf("expected %d hex characters, got %d", HexLength, len(data))
	}

	var parts [3]int
	for ii := 0; ii < 3; ii++ {
		v, err := strconv.ParseUint(data[ii*4:ii*4+4], 16, 16)
		if err != nil {
			return HSV{}, errors.Wrap(err, "bad hex component")
		}

		parts[ii] = int(v)
	}

	return HSV{H: parts[0], S: parts[1], V: parts[2]}, nil
}
