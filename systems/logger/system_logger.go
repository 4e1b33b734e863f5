package logger

import (
	"github.com/bulbd/bulbd/common"
)

// System logger implementation.
type systemLogger struct {
	logger common.ILoggerProvider
	fields []string
}

// NewSystemLogger constructs a logger which adds system name
// and extra fields to every message.
func NewSystemLogger(logger common.ILoggerProvider, system string, extra ...string) common.ILoggerProvider {
	return &systemLogger{
		logger: logger,
		fields: append([]string{common.LogSystemToken, system}, extra...),
	}
}

// Debug sends debug level message.
func (l *systemLogger) Debug(msg string, fields ...string) {
	l.logger.Debug(msg, append(fields, l.fields...)...)
}

// Info sends info level message.
func (l *systemLogger) Info(msg string, fields ...string) {
	l.logger.Info(msg, append(fields, l.fields...)...)
}

// Warn sends warning level message.
func (l *systemLogger) Warn(msg string, fields ...string) {
	l.logger.Warn(msg, append(fields, l.fields...)...)
}

// Error sends error level message.
func (l *systemLogger) Error(msg string, err error, fields ...string) {
	l.logger.Error(msg, err, append(fields, l.fields...)...)
}

// Fatal sends fatal level message and exits.
func (l *systemLogger) Fatal(msg string, err error, fields ...string) {
	l.logger.Fatal(msg, err, append(fields, l.fields...)...)
}
