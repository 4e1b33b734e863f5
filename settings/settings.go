// Package settings is responsible for parsing yaml-based configuration.
package settings

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/fanout"
	"github.com/bulbd/bulbd/systems/logger"
	"github.com/bulbd/bulbd/utils"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	// Logger system.
	logSystem = "settings"
)

// DefaultConfigFile is used when no config file is passed.
const DefaultConfigFile = "bulbd.yaml"

// ConstructSettings has data required for loading settings.
type ConstructSettings struct {
	// Config file path, empty uses DefaultConfigFile if it exists.
	Path string
	// Log output, defaults to stderr.
	Out io.Writer
}

// System settings.
type settingsProvider struct {
	logger    common.ILoggerProvider
	cron      providers.ICronProvider
	validator providers.IValidatorProvider
	fanOut    providers.IFanOutProvider
	config    *providers.Config
}

// Load reads and validates system configuration.
func Load(ctor *ConstructSettings) (providers.ISettingsProvider, error) {
	out := ctor.Out
	if nil == out {
		out = os.Stderr
	}

	bootLogger := logger.NewConsoleLogger(out)
	s := &settingsProvider{
		logger: bootLogger,
		config: &providers.Config{},
	}

	s.validator = utils.NewValidator(s.logger)

	data, err := readConfig(ctor.Path)
	if err != nil {
		return nil, err
	}

	if nil == data {
		s.logger.Warn("Config file is not found, using defaults",
			common.LogSystemToken, logSystem, common.LogFileToken, DefaultConfigFile)
	} else {
		data, err = newTemplateProvider(s.logger).Process(data)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, s.config); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	if !s.validator.Validate(s.config) {
		return nil, &utils.ErrInvalidConfig{}
	}

	for _, v := range s.config.Schedules {
		if nil == v || !s.validator.Validate(v) {
			return nil, &utils.ErrInvalidConfig{}
		}
	}

	s.logger, err = logger.NewLoggerProvider(&logger.ConstructLogger{
		Provider: s.config.Log.Provider,
		Level:    s.config.Log.Level,
		Out:      out,
	})
	if err != nil {
		return nil, err
	}

	s.validator.SetLogger(s.logger)
	s.cron = utils.NewCron()
	s.fanOut = fanout.NewFanOut()

	return s, nil
}

// SystemLogger returns system logger.
func (s *settingsProvider) SystemLogger() common.ILoggerProvider {
	return s.logger
}

// Cron returns cron provider.
func (s *settingsProvider) Cron() providers.ICronProvider {
	return s.cron
}

// Validator returns validator provider.
func (s *settingsProvider) Validator() providers.IValidatorProvider {
	return s.validator
}

// FanOut returns internal pub-sub.
func (s *settingsProvider) FanOut() providers.IFanOutProvider {
	return s.fanOut
}

// Config returns loaded configuration.
func (s *settingsProvider) Config() *providers.Config {
	return s.config
}

// Reads config file. Absent default file is not an error.
func readConfig(path string) ([]byte, error) {
	explicit := "" != path
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := ioutil.ReadFile(path)
	if err == nil {
		return data, nil
	}

	if os.IsNotExist(err) && !explicit {
		return nil, nil
	}

	return nil, errors.Wrapf(err, "failed to read config file %s", path)
}
