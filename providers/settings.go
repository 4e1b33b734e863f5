package providers

import (
	"time"

	"github.com/bulbd/bulbd/common"
)

// ISettingsProvider defines settings loader provider logic.
type ISettingsProvider interface {
	SystemLogger() common.ILoggerProvider
	Cron() ICronProvider
	Validator() IValidatorProvider
	FanOut() IFanOutProvider
	Config() *Config
}

// Config has complete application configuration.
type Config struct {
	Server    ServerSettings      `yaml:"server"`
	Log       LogSettings         `yaml:"log"`
	Devices   DeviceSettings      `yaml:"devices"`
	Storage   StorageSettings     `yaml:"storage"`
	MQTT      MQTTSettings        `yaml:"mqtt"`
	Schedules []*ScheduleSettings `yaml:"schedules"`
}

// ServerSettings has configured data for the web server.
type ServerSettings struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" validate:"required,port" default:"5000"`
	CacheTTL        time.Duration `yaml:"cacheTTL" validate:"gte=0" default:"5s"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" validate:"gt=0" default:"5s"`
}

// LogSettings has configured data for the logger.
type LogSettings struct {
	Provider string `yaml:"provider" validate:"oneof=console json" default:"console"`
	Level    string `yaml:"level" validate:"oneof=debug info warn error" default:"info"`
}

// DeviceSettings has configured data for bulbs connections.
type DeviceSettings struct {
	File              string        `yaml:"file" validate:"required" default:"devices.json"`
	Version           string        `yaml:"version" validate:"oneof=3.3 3.4 3.5" default:"3.5"`
	Port              int           `yaml:"port" validate:"port" default:"6668"`
	Timeout           time.Duration `yaml:"timeout" validate:"gt=0" default:"5s"`
	CommandsPerSecond float64       `yaml:"commandsPerSecond" validate:"gte=0" default:"10"`
}

// StorageSettings has configured data for program history.
// Empty path disables history.
type StorageSettings struct {
	Path    string `yaml:"path"`
	History int    `yaml:"history" validate:"gt=0" default:"50"`
}

// MQTTSettings has configured data for MQTT status push.
// Empty broker disables push.
type MQTTSettings struct {
	Broker   string `yaml:"broker" validate:"omitempty,broker"`
	ClientID string `yaml:"clientId" default:"bulbd"`
	Topic    string `yaml:"topic" validate:"required" default:"bulbd"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      byte   `yaml:"qos" validate:"lte=2"`
}

// ScheduleSettings describes a program started by cron.
type ScheduleSettings struct {
	Cron     string        `yaml:"cron" validate:"required"`
	Program  string        `yaml:"program" validate:"required"`
	Bulb     string        `yaml:"bulb" validate:"required"`
	Duration time.Duration `yaml:"duration" validate:"gt=0" default:"60s"`
}
