package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/bulb"
	"github.com/bulbd/bulbd/systems/color"
	"github.com/gorilla/mux"
)

type brightnessRequest struct {
	Brightness *int `json:"brightness" validate:"required"`
}

type temperatureRequest struct {
	Temperature *int `json:"temperature" validate:"required"`
}

type colorRequest struct {
	R *int `json:"r" validate:"required"`
	G *int `json:"g" validate:"required"`
	B *int `json:"b" validate:"required"`
}

// Returns status of every configured bulb.
func (s *BulbServer) getBulbs(writer http.ResponseWriter, _ *http.Request) {
	respond(writer, s.allStatuses())
}

// Inverts power of selected bulbs.
func (s *BulbServer) toggleBulb(writer http.ResponseWriter, request *http.Request) {
	bulbs, ok := s.resolve(writer, request)
	if !ok {
		return
	}

	results := make([]*bulb.Result, 0, len(bulbs))
	power := false
	for _, b := range bulbs {
		st, err := s.controller.GetStatus(b)
		if err != nil {
			s.respondResults(writer, append(results, &bulb.Result{
				Bulb:    b.Name,
				Message: fmt.Sprintf("Failed to get current status: %s", err.Error()),
			}), nil)
			return
		}

		power = !st.Power
		res := s.controller.TurnOn(b)
		if !power {
			res = s.controller.TurnOff(b)
		}

		results = append(results, res)
		s.bulbChanged(b, res, map[string]interface{}{"power": power})
	}

	s.respondResults(writer, results, map[string]interface{}{"power": power})
}

// Sets brightness of selected bulbs.
func (s *BulbServer) setBrightness(writer http.ResponseWriter, request *http.Request) {
	bulbs, ok := s.resolve(writer, request)
	if !ok {
		return
	}

	body := &brightnessRequest{}
	if err := s.readBody(request, body); err != nil {
		respondError(writer, &ErrBadRequest{Reason: "Brightness value not provided"})
		return
	}

	value := color.ClampBrightness(*body.Brightness)
	s.applyAll(writer, bulbs, func(b *providers.NamedBulb) *bulb.Result {
		return s.controller.SetBrightness(b, value)
	}, map[string]interface{}{"brightness": value})
}

// Sets white temperature of selected bulbs.
func (s *BulbServer) setTemperature(writer http.ResponseWriter, request *http.Request) {
	bulbs, ok := s.resolve(writer, request)
	if !ok {
		return
	}

	body := &temperatureRequest{}
	if err := s.readBody(request, body); err != nil {
		respondError(writer, &ErrBadRequest{Reason: "Temperature value not provided"})
		return
	}

	value := color.ClampTemperature(*body.Temperature)
	s.applyAll(writer, bulbs, func(b *providers.NamedBulb) *bulb.Result {
		return s.controller.SetTemperature(b, value)
	}, map[string]interface{}{"temperature": value, "mode": "white"})
}

// Sets colour of selected bulbs.
func (s *BulbServer) setColor(writer http.ResponseWriter, request *http.Request) {
	bulbs, ok := s.resolve(writer, request)
	if !ok {
		return
	}

	body := &colorRequest{}
	if err := s.readBody(request, body); err != nil {
		respondError(writer, &ErrBadRequest{Reason: "RGB color values not provided"})
		return
	}

	rgb := color.NewRGB(*body.R, *body.G, *body.B)
	s.applyAll(writer, bulbs, func(b *providers.NamedBulb) *bulb.Result {
		return s.controller.SetColor(b, rgb.R, rgb.G, rgb.B)
	}, map[string]interface{}{"color": rgb, "mode": "colour"})
}

// Resolves bulb URL param, responds on failure.
func (s *BulbServer) resolve(writer http.ResponseWriter, request *http.Request) ([]*providers.NamedBulb, bool) {
	bulbs, err := s.registry.Resolve(mux.Vars(request)[string(urlBulb)])
	if err != nil {
		respondError(writer, err)
		return nil, false
	}

	return bulbs, true
}

// Applies command to every bulb and responds with combined outcome.
func (s *BulbServer) applyAll(writer http.ResponseWriter, bulbs []*providers.NamedBulb,
	call func(*providers.NamedBulb) *bulb.Result, state map[string]interface{}) {
	results := make([]*bulb.Result, 0, len(bulbs))
	for _, b := range bulbs {
		res := call(b)
		results = append(results, res)
		s.bulbChanged(b, res, state)
	}

	s.respondResults(writer, results, state)
}

// Responds success only if every command succeeded.
func (s *BulbServer) respondResults(writer http.ResponseWriter, results []*bulb.Result,
	state map[string]interface{}) {
	failed := make([]string, 0)
	for _, v := range results {
		if !v.OK {
			failed = append(failed, fmt.Sprintf("%s: %s", v.Bulb, v.Message))
		}
	}

	if len(failed) > 0 {
		respondStatus(writer, http.StatusInternalServerError, map[string]interface{}{
			"status":  "error",
			"error":   (&ErrCommandFailed{Message: strings.Join(failed, "; ")}).Error(),
			"results": results,
		})
		return
	}

	out := map[string]interface{}{"status": "success", "results": results}
	for k, v := range state {
		out[k] = v
	}

	respond(writer, out)
}

// Drops cached status and notifies listeners.
func (s *BulbServer) bulbChanged(b *providers.NamedBulb, res *bulb.Result, state map[string]interface{}) {
	s.cache.Invalidate(b.Name)
	if !res.OK {
		return
	}

	msg := &common.MsgBulbUpdate{Bulb: b.Name, Status: state}
	select {
	case s.Settings.FanOut().ChannelInBulbUpdates() <- msg:
	default:
		s.Logger.Warn("Bulb update dropped", common.LogSystemToken, logSystem, common.LogBulbToken, b.Name)
	}
}
