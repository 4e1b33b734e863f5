package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bulbd/bulbd/systems/engine"
	"github.com/bulbd/bulbd/systems/runner"
)

type runRequest struct {
	Program  string  `json:"program" validate:"required"`
	Bulb     string  `json:"bulb" validate:"required"`
	Duration float64 `json:"duration" validate:"gte=0,lte=604800" default:"60"`
}

type stopRequest struct {
	Program string `json:"program" validate:"required"`
	Bulb    string `json:"bulb" validate:"required"`
}

// Returns programs catalogue.
func (s *BulbServer) getPrograms(writer http.ResponseWriter, _ *http.Request) {
	respond(writer, map[string]interface{}{
		"programs": engine.Names(),
		"details":  engine.Programs(),
	})
}

// Starts a program, replacing the same one on the same bulb.
func (s *BulbServer) runProgram(writer http.ResponseWriter, request *http.Request) {
	body := &runRequest{}
	if err := s.readBody(request, body); err != nil {
		reason := "Program and bulb name must be provided"
		if body.Program != "" && body.Bulb != "" {
			reason = fmt.Sprintf("Duration must be between 0 and %d seconds", maxProgramDuration)
		}

		respondError(writer, &ErrBadRequest{Reason: reason})
		return
	}

	duration := time.Duration(body.Duration * float64(time.Second))
	id, err := s.runner.Start(body.Bulb, body.Program, duration)
	if err != nil {
		respondError(writer, err)
		return
	}

	respond(writer, map[string]interface{}{
		"status": "success",
		"run_id": id,
		"message": fmt.Sprintf("Program %s started on %s for %s seconds", body.Program, body.Bulb,
			strconv.FormatFloat(body.Duration, 'f', -1, 64)),
	})
}

// Stops a running program.
func (s *BulbServer) stopProgram(writer http.ResponseWriter, request *http.Request) {
	body := &stopRequest{}
	if err := s.readBody(request, body); err != nil {
		respondError(writer, &ErrBadRequest{Reason: "Program and bulb name must be provided"})
		return
	}

	if err := s.runner.Stop(body.Bulb, body.Program); err != nil {
		if _, ok := err.(*runner.ErrProgramNotRunning); ok {
			respondStatus(writer, http.StatusNotFound, map[string]string{
				"status":  "error",
				"message": fmt.Sprintf("No running program %s found for %s", body.Program, body.Bulb),
			})
			return
		}

		respondError(writer, err)
		return
	}

	respond(writer, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Program %s stopped", body.Program),
	})
}

// Returns active runs.
func (s *BulbServer) getRunning(writer http.ResponseWriter, _ *http.Request) {
	respond(writer, s.runner.Running())
}

// Returns program runs history, limit is read from the query.
func (s *BulbServer) getHistory(writer http.ResponseWriter, request *http.Request) {
	limit := 0
	if l := request.URL.Query().Get("limit"); "" != l {
		v, err := strconv.Atoi(l)
		if err != nil || v < 0 {
			respondError(writer, &ErrBadRequest{Reason: "wrong limit"})
			return
		}

		limit = v
	}

	h, err := s.storage.History(limit)
	if err != nil {
		respondError(writer, err)
		return
	}

	respond(writer, h)
}
