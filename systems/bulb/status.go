package bulb

import (
	"fmt"
	"strconv"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/color"
	"github.com/bulbd/bulbd/systems/tuya"
	"github.com/pkg/errors"
)

// Status is a decoded bulb status snapshot.
type Status struct {
	Bulb        string                 `json:"bulb"`
	Power       bool                   `json:"power"`
	Mode        string                 `json:"mode"`
	Brightness  int                    `json:"brightness"`
	Temperature int                    `json:"temperature"`
	Color       color.DecodedColor     `json:"color"`
	RGB         *color.RGB             `json:"rgb,omitempty"`
	DPS         map[string]interface{} `json:"dps"`
}

// GetStatus reads and decodes bulb status.
func (c *Controller) GetStatus(b *providers.NamedBulb) (*Status, error) {
	var dps map[string]interface{}
	err := safeCall(func() error {
		var err error
		dps, err = b.Handle.Status()
		return err
	})

	if err != nil {
		c.logger.Error("Error getting status", err, common.LogSystemToken, logSystem, common.LogBulbToken, b.Name)
		return nil, err
	}

	if nil == dps {
		return nil, errors.New("no status data returned")
	}

	return Decode(b.Name, dps), nil
}

// Decode builds Status from raw data points. Malformed values are left zeroed.
func Decode(name string, dps map[string]interface{}) *Status {
	st := &Status{
		Bulb:  name,
		DPS:   dps,
		Color: color.Decode(dps[key(tuya.DPSColour)]),
	}

	if v, ok := dps[key(tuya.DPSPower)].(bool); ok {
		st.Power = v
	}

	if v, ok := dps[key(tuya.DPSMode)].(string); ok {
		st.Mode = v
	} else {
		st.Mode = "unknown"
	}

	st.Brightness = toInt(dps[key(tuya.DPSBrightness)])
	st.Temperature = toInt(dps[key(tuya.DPSTemperature)])

	if nil != st.Color.HSV {
		rgb := st.Color.HSV.RGB()
		st.RGB = &rgb
	}

	return st
}

// Lines formats status for console output.
func (s *Status) Lines() []string {
	power := "OFF"
	if s.Power {
		power = "ON"
	}

	lines := []string{
		fmt.Sprintf("Power: %s", power),
		fmt.Sprintf("Mode: %s", s.Mode),
		fmt.Sprintf("Brightness: %d", s.Brightness),
		fmt.Sprintf("Color Temperature: %d", s.Temperature),
	}

	if s.Color.Kind != color.DecodedAbsent {
		lines = append(lines, fmt.Sprintf("Color: %s", s.Color))
	}

	return lines
}

func key(dps int) string {
	return strconv.Itoa(dps)
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		i, err := strconv.Atoi(n)
		if err == nil {
			return i
		}
	}

	return 0
}
