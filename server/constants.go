package server

import "time"

// muxKeys describes enum with known API tokens.
type muxKeys string

const (
	// urlBulb describes bulb selector URL param.
	urlBulb muxKeys = "bulb"
	// routeAPI describes base api prefix.
	routeAPI = "/api"
	// Default program duration, seconds.
	defaultProgramDuration = 60
	// Longest program run, seconds. Must match runRequest validation.
	maxProgramDuration = 604800
	// Per program wait during shutdown.
	programStopTimeout = time.Second
)

// Websocket event types.
const (
	wsBulbUpdate    = "bulb_update"
	wsProgramStatus = "program_status"
)
