package bulb

import (
	"context"

	"github.com/bulbd/bulbd/providers"
	"golang.org/x/time/rate"
)

// Paced limits commands rate of a single handle.
type Paced struct {
	handle  providers.IBulbHandle
	limiter *rate.Limiter
}

// NewPaced wraps handle with a limiter. Non-positive rate returns handle as is.
func NewPaced(handle providers.IBulbHandle, perSecond float64) providers.IBulbHandle {
	if perSecond <= 0 {
		return handle
	}

	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}

	return &Paced{
		handle:  handle,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// SetColour waits for a token and sets colour.
func (p *Paced) SetColour(r, g, b int) error {
	p.wait()
	return p.handle.SetColour(r, g, b)
}

// SetValue waits for a token and sets raw value.
func (p *Paced) SetValue(dps int, value string) error {
	p.wait()
	return p.handle.SetValue(dps, value)
}

// SetPower waits for a token and sets power.
func (p *Paced) SetPower(on bool) error {
	p.wait()
	return p.handle.SetPower(on)
}

// SetBrightness waits for a token and sets brightness.
func (p *Paced) SetBrightness(value int) error {
	p.wait()
	return p.handle.SetBrightness(value)
}

// SetWhite waits for a token and sets white mode.
func (p *Paced) SetWhite(brightness, temperature int) error {
	p.wait()
	return p.handle.SetWhite(brightness, temperature)
}

// Status waits for a token and reads status.
func (p *Paced) Status() (map[string]interface{}, error) {
	p.wait()
	return p.handle.Status()
}

// Unwrap returns underlying handle.
func (p *Paced) Unwrap() providers.IBulbHandle {
	return p.handle
}

func (p *Paced) wait() {
	p.limiter.Wait(context.Background()) // nolint: errcheck
}
