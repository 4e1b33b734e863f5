package logger

import (
	"io"
	"time"

	"github.com/bulbd/bulbd/common"
	"github.com/rs/zerolog"
)

// Structured JSON logger.
type jsonLogger struct {
	logger zerolog.Logger
}

// NewJSONLogger constructs a new zerolog-backed logger.
func NewJSONLogger(out io.Writer) common.ILoggerProvider {
	zerolog.TimeFieldFormat = time.RFC3339
	return &jsonLogger{
		logger: zerolog.New(out).With().Timestamp().Logger(),
	}
}

// Debug sends debug level message.
func (p *jsonLogger) Debug(msg string, fields ...string) {
	p.send(p.logger.Debug(), msg, fields)
}

// Info sends info level message.
func (p *jsonLogger) Info(msg string, fields ...string) {
	p.send(p.logger.Info(), msg, fields)
}

// Warn sends warning level message.
func (p *jsonLogger) Warn(msg string, fields ...string) {
	p.send(p.logger.Warn(), msg, fields)
}

// Error sends error level message.
func (p *jsonLogger) Error(msg string, err error, fields ...string) {
	p.send(p.logger.Error().Str(common.LogErrorToken, errorText(err)), msg, fields)
}

// Fatal sends fatal level message and exits.
func (p *jsonLogger) Fatal(msg string, err error, fields ...string) {
	p.send(p.logger.Fatal().Str(common.LogErrorToken, errorText(err)), msg, fields)
}

func (p *jsonLogger) send(e *zerolog.Event, msg string, fields []string) {
	for k, v := range withFields(fields...) {
		e = e.Str(k, v)
	}

	e.Msg(msg)
}
