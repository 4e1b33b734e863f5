package providers

// IBulbHandle defines capabilities of a single controllable bulb.
// Every call is a blocking device round trip.
type IBulbHandle interface {
	SetColour(r, g, b int) error
	SetValue(dps int, value string) error
	SetPower(on bool) error
	SetBrightness(value int) error
	SetWhite(brightness, temperature int) error
	Status() (map[string]interface{}, error)
}
