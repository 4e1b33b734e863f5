// Package bulb implements bulb commands on top of IBulbHandle:
// clamping, colour command fallbacks and status decoding.
package bulb

import (
	"fmt"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/color"
	"github.com/bulbd/bulbd/systems/tuya"
	"github.com/pkg/errors"
)

const (
	// Logger system.
	logSystem = "bulb"
)

// Colour command stages.
const (
	// StageNative is a device native colour command.
	StageNative = "native"
	// StageJSON is a raw colour data point with HSV JSON.
	StageJSON = "json"
	// StageHex is a raw colour data point with HSV hex.
	StageHex = "hex"
)

// Result describes outcome of a single bulb command.
type Result struct {
	Bulb    string   `json:"bulb"`
	OK      bool     `json:"success"`
	Message string   `json:"message"`
	Stages  []string `json:"stages,omitempty"`
}

// Controller sends commands to bulbs. It's stateless and safe for concurrent use.
type Controller struct {
	logger common.ILoggerProvider
}

// NewController constructs a new controller.
func NewController(logger common.ILoggerProvider) *Controller {
	return &Controller{
		logger: logger,
	}
}

// SetColor sets RGB colour, falling back to raw HSV data points
// when device rejects the native command.
func (c *Controller) SetColor(b *providers.NamedBulb, r, g, bl int) *Result {
	rgb := color.NewRGB(r, g, bl)
	res := &Result{Bulb: b.Name, Stages: make([]string, 0, 3)}

	err := safeCall(func() error { return b.Handle.SetColour(rgb.R, rgb.G, rgb.B) })
	if c.stage(res, b.Name, rgb, StageNative, err) {
		res.Message = fmt.Sprintf("Color set to %s", rgb)
		return res
	}

	hsv := rgb.HSV()
	err = safeCall(func() error {
		if err := b.Handle.SetValue(tuya.DPSMode, tuya.ModeColour); err != nil {
			return errors.Wrap(err, "mode")
		}

		return b.Handle.SetValue(tuya.DPSColour, hsv.JSON())
	})
	if c.stage(res, b.Name, rgb, StageJSON, err) {
		res.Message = fmt.Sprintf("Color set to %s using HSV JSON format", rgb)
		return res
	}

	err = safeCall(func() error { return b.Handle.SetValue(tuya.DPSColour, hsv.Hex()) })
	if c.stage(res, b.Name, rgb, StageHex, err) {
		res.Message = fmt.Sprintf("Color set to %s using HSV hex format", rgb)
		return res
	}

	res.Message = fmt.Sprintf("All color setting methods failed: %s", errorText(err))
	return res
}

// SetBrightness sets white brightness, clamped to [10,1000].
func (c *Controller) SetBrightness(b *providers.NamedBulb, value int) *Result {
	value = color.ClampBrightness(value)
	return c.single(b, fmt.Sprintf("Brightness set to %d", value), "Error setting brightness",
		func() error { return b.Handle.SetBrightness(value) })
}

// SetTemperature sets white temperature, clamped to [0,1000], at full brightness.
func (c *Controller) SetTemperature(b *providers.NamedBulb, value int) *Result {
	value = color.ClampTemperature(value)
	return c.single(b, fmt.Sprintf("Color temperature set to %d", value), "Error setting color temperature",
		func() error { return b.Handle.SetWhite(color.MaxBrightness, value) })
}

// TurnOn powers bulb on.
func (c *Controller) TurnOn(b *providers.NamedBulb) *Result {
	return c.single(b, "Bulb turned ON", "Error turning bulb ON",
		func() error { return b.Handle.SetPower(true) })
}

// TurnOff powers bulb off.
func (c *Controller) TurnOff(b *providers.NamedBulb) *Result {
	return c.single(b, "Bulb turned OFF", "Error turning bulb OFF",
		func() error { return b.Handle.SetPower(false) })
}

// Toggle inverts power state.
func (c *Controller) Toggle(b *providers.NamedBulb) *Result {
	st, err := c.GetStatus(b)
	if err != nil {
		return &Result{Bulb: b.Name, Message: fmt.Sprintf("Error getting status: %s", err.Error())}
	}

	if st.Power {
		return c.TurnOff(b)
	}

	return c.TurnOn(b)
}

// Records stage outcome, returns whether stage succeeded.
func (c *Controller) stage(res *Result, name string, rgb color.RGB, stage string, err error) bool {
	if err != nil {
		res.Stages = append(res.Stages, fmt.Sprintf("%s: %s", stage, err.Error()))
		c.logger.Warn("Color command failed", common.LogSystemToken, logSystem, common.LogBulbToken, name,
			common.LogColorToken, rgb.String(), common.LogStageToken, stage, common.LogErrorToken, err.Error())
		return false
	}

	res.OK = true
	res.Stages = append(res.Stages, fmt.Sprintf("%s: ok", stage))
	c.logger.Debug("Color set", common.LogSystemToken, logSystem, common.LogBulbToken, name,
		common.LogColorToken, rgb.String(), common.LogStageToken, stage)
	return true
}

func (c *Controller) single(b *providers.NamedBulb, okMsg string, failMsg string, call func() error) *Result {
	if err := safeCall(call); err != nil {
		c.logger.Error(failMsg, err, common.LogSystemToken, logSystem, common.LogBulbToken, b.Name)
		return &Result{Bulb: b.Name, Message: fmt.Sprintf("%s: %s", failMsg, err.Error())}
	}

	c.logger.Debug(okMsg, common.LogSystemToken, logSystem, common.LogBulbToken, b.Name)
	return &Result{Bulb: b.Name, OK: true, Message: okMsg}
}

// Converts handle panics into errors.
func safeCall(call func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("device call panicked: %v", r)
		}
	}()

	return call()
}

func errorText(err error) string {
	if nil == err {
		return ""
	}

	return err.Error()
}
