package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/server"
	"github.com/bulbd/bulbd/systems/notification"
	"github.com/bulbd/bulbd/systems/runner"
	"github.com/bulbd/bulbd/systems/storage"
)

// Logger system.
const logSystem = "serve"

// ServeCommand runs web server until interrupted.
type ServeCommand struct {
	options *Options
}

// Execute runs the command.
func (c *ServeCommand) Execute([]string) error {
	a, err := newApp(c.options, nil)
	if err != nil {
		return err
	}
	defer a.registry.Close()

	cfg := a.settings.Config()
	logger := a.settings.SystemLogger()

	history, err := storage.NewStorageProvider(&storage.ConstructStorage{
		Logger:   logger,
		Settings: &cfg.Storage,
	})
	if err != nil {
		return err
	}
	defer history.Close() // nolint: errcheck

	notifier := notification.NewNotificationProvider(&notification.ConstructNotification{
		Logger:   logger,
		Settings: &cfg.MQTT,
		FanOut:   a.settings.FanOut(),
	})
	defer notifier.Close()

	run, err := runner.NewRunner(&runner.ConstructRunner{
		Logger:    logger,
		Registry:  a.registry,
		FanOut:    a.settings.FanOut(),
		Storage:   history,
		Notifier:  notifier,
		Cron:      a.settings.Cron(),
		Schedules: cfg.Schedules,
	})
	if err != nil {
		return err
	}
	defer a.settings.Cron().Stop()

	var srv providers.IServerProvider = server.NewServer(&server.ConstructServer{
		Settings:   a.settings,
		Registry:   a.registry,
		Runner:     run,
		Storage:    history,
		Controller: a.controller,
	})

	if err := srv.Start(); err != nil {
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	<-signals
	signal.Stop(signals)

	logger.Info("Received stop command, exiting", common.LogSystemToken, logSystem)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(ctx)
}
