package settings

import (
	"bytes"
	"os"
	"text/template"

	"github.com/bulbd/bulbd/common"
	"github.com/pkg/errors"
)

// Template engine provider.
type templateProvider struct {
	logger    common.ILoggerProvider
	functions template.FuncMap
}

// Constructs a new template engine.
func newTemplateProvider(logger common.ILoggerProvider) *templateProvider {
	provider := &templateProvider{
		logger: logger,
	}

	provider.functions = template.FuncMap{
		"env": provider.getEnvVariable,
	}

	return provider
}

// Process applies template functions to the raw config,
// allowing to read values from environment variables.
func (p *templateProvider) Process(rawFile []byte) ([]byte, error) {
	tpl, err := template.New("bulbd").Funcs(p.functions).Parse(string(rawFile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse template")
	}

	b := bytes.Buffer{}
	if err := tpl.Execute(&b, nil); err != nil {
		return nil, errors.Wrap(err, "failed to execute template")
	}

	return b.Bytes(), nil
}

// Returns environment variable.
func (p *templateProvider) getEnvVariable(name string) string {
	p.logger.Debug("Template is requesting environment variable",
		common.LogFieldToken, name, common.LogSystemToken, logSystem)
	return os.Getenv(name)
}
