// Package tuya implements local network client for Tuya v2 smart bulbs.
//
// Supported protocol versions are 3.3 (AES-ECB, CRC32 frames),
// 3.4 (session key, AES-ECB, HMAC-SHA256 frames) and
// 3.5 (session key, AES-GCM, 0x6699 frames).
package tuya

import "time"

// Protocol versions.
const (
	// Version33 describes protocol 3.3.
	Version33 = "3.3"
	// Version34 describes protocol 3.4.
	Version34 = "3.4"
	// Version35 describes protocol 3.5.
	Version35 = "3.5"
)

// DefaultPort is a local TCP port every Tuya device listens on.
const DefaultPort = 6668

// DefaultTimeout is applied to dial and single round trip.
const DefaultTimeout = 5 * time.Second

// Bulb data points.
const (
	// DPSPower holds bool power state.
	DPSPower = 20
	// DPSMode holds work mode: white, colour, scene, music.
	DPSMode = 21
	// DPSBrightness holds white brightness, 10-1000.
	DPSBrightness = 22
	// DPSTemperature holds white temperature, 0-1000.
	DPSTemperature = 23
	// DPSColour holds colour payload.
	DPSColour = 24
)

// Work modes.
const (
	// ModeWhite describes white mode.
	ModeWhite = "white"
	// ModeColour describes colour mode.
	ModeColour = "colour"
)

// Message commands.
const (
	cmdSessKeyNegStart  uint32 = 0x03
	cmdSessKeyNegResp   uint32 = 0x04
	cmdSessKeyNegFinish uint32 = 0x05
	cmdControl          uint32 = 0x07
	cmdStatus           uint32 = 0x08
	cmdHeartBeat        uint32 = 0x09
	cmdDPQuery          uint32 = 0x0a
	cmdControlNew       uint32 = 0x0d
	cmdDPQueryNew       uint32 = 0x10
)

// Frame markers.
const (
	prefix55AA uint32 = 0x000055AA
	suffix55AA uint32 = 0x0000AA55
	prefix6699 uint32 = 0x00006699
	suffix6699 uint32 = 0x00009966
)

const (
	header55AALen = 16
	header6699Len = 18
	crcLen        = 4
	hmacLen       = 32
	suffixLen     = 4
	retCodeLen    = 4
	gcmIVLen      = 12
	gcmTagLen     = 16
	nonceLen      = 16
	versionPadLen = 12
	maxFrameLen   = 64 * 1024
)
