package color

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Tests soft policy bounds.
func TestSoftPolicy(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for ii := 0; ii < 1000; ii++ {
		for _, v := range PolicySoft.Generate(rnd).Channels() {
			assert.True(t, v >= 50 && v <= 200, "soft channel %d", v)
		}
	}
}

// Tests vibrant policy has a dominant channel.
func TestVibrantPolicy(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for ii := 0; ii < 1000; ii++ {
		c := PolicyVibrant.Generate(rnd)
		high := 0
		for _, v := range c.Channels() {
			assert.True(t, v >= 0 && v <= 255)
			if v >= 180 {
				high++
			} else {
				assert.True(t, v <= 100, "non-dominant channel %d", v)
			}
		}

		assert.Equal(t, 1, high, c.String())
	}
}

// Tests uniform policy bounds.
func TestUniformPolicy(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for ii := 0; ii < 1000; ii++ {
		for _, v := range PolicyUniform.Generate(rnd).Channels() {
			assert.True(t, v >= 0 && v <= 255)
		}
	}
}

// Tests policy names.
func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{PolicySoft, PolicyVibrant, PolicyUniform} {
		parsed, err := ParsePolicy(p.String())
		assert.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := ParsePolicy("neon")
	assert.Error(t, err)
}
