// Package color contains bulb color math: clamping, RGB to HSV conversion,
// Tuya color payload codecs and transition helpers.
package color

import (
	"fmt"
)

const (
	// MinBrightness is the lowest brightness accepted by bulbs.
	MinBrightness = 10
	// MaxBrightness is the highest brightness accepted by bulbs.
	MaxBrightness = 1000
	// MinTemperature is the warmest white.
	MinTemperature = 0
	// MaxTemperature is the coolest white.
	MaxTemperature = 1000
	// MaxChannel is the highest value of a single RGB channel.
	MaxChannel = 255
)

// RGB is a color with every channel in [0,255].
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// NewRGB constructs a color, clamping out of range channels.
func NewRGB(r, g, b int) RGB {
	return RGB{R: ClampChannel(r), G: ClampChannel(g), B: ClampChannel(b)}
}

// String formats color the way it's logged.
func (c RGB) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.R, c.G, c.B)
}

// Channels returns channels as an array.
func (c RGB) Channels() [3]int {
	return [3]int{c.R, c.G, c.B}
}

// ClampChannel bounds single RGB channel to [0,255].
func ClampChannel(v int) int {
	return clamp(v, 0, MaxChannel)
}

// ClampBrightness bounds brightness to [10,1000].
func ClampBrightness(v int) int {
	return clamp(v, MinBrightness, MaxBrightness)
}

// ClampTemperature bounds color temperature to [0,1000].
func ClampTemperature(v int) int {
	return clamp(v, MinTemperature, MaxTemperature)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// Interpolate returns the color located step/total of the way from one
// color to another. Every channel is truncated independently.
func Interpolate(from, to RGB, step, total int) RGB {
	if total <= 0 {
		return to
	}

	ch := func(a, b int) int {
		return int(float64(a) + float64(b-a)*float64(step)/float64(total))
	}

	return RGB{
		R: ch(from.R, to.R),
		G: ch(from.G, to.G),
		B: ch(from.B, to.B),
	}
}
