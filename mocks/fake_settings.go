//+build !release

package mocks

import (
	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
)

type fakeSettings struct {
	logger common.ILoggerProvider
	cron   providers.ICronProvider
	fanOut providers.IFanOutProvider
	config *providers.Config
}

func (f *fakeSettings) SystemLogger() common.ILoggerProvider {
	return f.logger
}

func (f *fakeSettings) Cron() providers.ICronProvider {
	return f.cron
}

func (f *fakeSettings) Validator() providers.IValidatorProvider {
	return FakeNewValidator(true)
}

func (f *fakeSettings) FanOut() providers.IFanOutProvider {
	return f.fanOut
}

func (f *fakeSettings) Config() *providers.Config {
	return f.config
}

// FakeNewSettings creates a fake settings provider.
// Nil config is replaced with an empty one.
func FakeNewSettings(config *providers.Config) providers.ISettingsProvider {
	if nil == config {
		config = &providers.Config{}
	}

	return &fakeSettings{
		logger: FakeNewLogger(nil),
		cron:   FakeNewCron(),
		fanOut: FakeNewFanOut(),
		config: config,
	}
}
