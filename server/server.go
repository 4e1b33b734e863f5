// Package server contains bulbd web server.
package server

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"sync"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/bulb"
	"github.com/bulbd/bulbd/utils"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	// Logger system representation.
	logSystem = "server"
)

//go:embed static
var static embed.FS

// ConstructServer has data required for a new server.
type ConstructServer struct {
	Settings   providers.ISettingsProvider
	Registry   providers.IRegistryProvider
	Runner     providers.IRunnerProvider
	Storage    providers.IStorageProvider
	Controller *bulb.Controller
}

// BulbServer serves API, dashboard and live updates.
type BulbServer struct {
	sync.Mutex

	Settings providers.ISettingsProvider
	Logger   common.ILoggerProvider

	registry   providers.IRegistryProvider
	runner     providers.IRunnerProvider
	storage    providers.IStorageProvider
	controller *bulb.Controller
	validator  providers.IValidatorProvider
	cache      *statusCache
	wsSettings websocket.Upgrader
	http       *http.Server
}

// NewServer constructs a new server.
func NewServer(ctor *ConstructServer) *BulbServer {
	logger := ctor.Settings.SystemLogger()
	s := &BulbServer{
		Settings:   ctor.Settings,
		Logger:     logger,
		registry:   ctor.Registry,
		runner:     ctor.Runner,
		storage:    ctor.Storage,
		controller: ctor.Controller,
		validator:  utils.NewValidator(logger),
		cache:      newStatusCache(ctor.Controller, ctor.Settings.Config().Server.CacheTTL),
		wsSettings: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}

	if nil == s.controller {
		s.controller = bulb.NewController(logger)
		s.cache.controller = s.controller
	}

	return s
}

// Start begins listening, requests are served in background.
func (s *BulbServer) Start() error {
	cfg := s.Settings.Config().Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}

	s.Lock()
	s.http = &http.Server{Handler: s.Handler()}
	srv := s.http
	s.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("Server failed", err, common.LogSystemToken, logSystem)
		}
	}()

	s.Logger.Info(fmt.Sprintf("Started server on %s", addr), common.LogSystemToken, logSystem)
	return nil
}

// Shutdown stops all programs and the HTTP server.
func (s *BulbServer) Shutdown(ctx context.Context) error {
	s.Logger.Info("Stopping all programs", common.LogSystemToken, logSystem)
	s.runner.StopAll(programStopTimeout)

	s.Lock()
	srv := s.http
	s.Unlock()

	if nil == srv {
		return nil
	}

	return srv.Shutdown(ctx)
}

// Handler returns complete router with middlewares.
func (s *BulbServer) Handler() http.Handler {
	router := mux.NewRouter()
	s.registerAPI(router)

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(
		handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(router))
}

// All API registration.
func (s *BulbServer) registerAPI(router *mux.Router) {
	router.HandleFunc("/", s.index).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.handleWS)

	apiRouter := router.PathPrefix(routeAPI).Subrouter()
	apiRouter.HandleFunc("/bulbs", s.getBulbs).Methods(http.MethodGet)
	apiRouter.HandleFunc(fmt.Sprintf("/bulbs/{%s}/toggle", urlBulb), s.toggleBulb).Methods(http.MethodPost)
	apiRouter.HandleFunc(fmt.Sprintf("/bulbs/{%s}/brightness", urlBulb), s.setBrightness).
		Methods(http.MethodPost)
	apiRouter.HandleFunc(fmt.Sprintf("/bulbs/{%s}/temperature", urlBulb), s.setTemperature).
		Methods(http.MethodPost)
	apiRouter.HandleFunc(fmt.Sprintf("/bulbs/{%s}/color", urlBulb), s.setColor).Methods(http.MethodPost)

	apiRouter.HandleFunc("/programs", s.getPrograms).Methods(http.MethodGet)
	apiRouter.HandleFunc("/programs/run", s.runProgram).Methods(http.MethodPost)
	apiRouter.HandleFunc("/programs/stop", s.stopProgram).Methods(http.MethodPost)
	apiRouter.HandleFunc("/programs/running", s.getRunning).Methods(http.MethodGet)
	apiRouter.HandleFunc("/programs/history", s.getHistory).Methods(http.MethodGet)
	apiRouter.Use(s.logMiddleware)
}

// Serves embedded dashboard.
func (s *BulbServer) index(writer http.ResponseWriter, _ *http.Request) {
	data, err := fs.ReadFile(static, "static/index.html")
	if err != nil {
		respondError(writer, err)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.Write(data) // nolint: errcheck
}
