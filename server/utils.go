package server

import (
	"encoding/json"
	"net/http"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/systems/engine"
	"github.com/bulbd/bulbd/systems/registry"
	"github.com/bulbd/bulbd/systems/runner"
	"github.com/pkg/errors"
)

// Generic API respond.
func respond(writer http.ResponseWriter, data interface{}) {
	respondStatus(writer, http.StatusOK, data)
}

// API respond with a given status.
func respondStatus(writer http.ResponseWriter, status int, data interface{}) {
	d, err := json.Marshal(data)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	writer.Write(d) // nolint: errcheck
}

// Responds with an error, status code depends on error type.
func respondError(writer http.ResponseWriter, err error) {
	respondStatus(writer, errorStatus(err), map[string]string{"status": "error", "error": err.Error()})
}

// Maps error to HTTP status.
func errorStatus(err error) int {
	switch errors.Cause(err).(type) {
	case *registry.ErrUnknownBulb, *engine.ErrUnknownProgram, *runner.ErrProgramNotRunning:
		return http.StatusNotFound
	case *ErrBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Reads and validates JSON body. Defaults are applied.
func (s *BulbServer) readBody(request *http.Request, data interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(data); err != nil {
		return &ErrBadRequest{Reason: "malformed JSON body"}
	}

	if !s.validator.Validate(data) {
		return &ErrBadRequest{Reason: "missing or wrong fields"}
	}

	return nil
}

// Logger middleware for the API.
func (s *BulbServer) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Logger.Debug("REST invocation", common.LogSystemToken, logSystem, common.LogURLToken, r.RequestURI)
		next.ServeHTTP(w, r)
	})
}
