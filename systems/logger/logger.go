// Package logger provides bulbd logger implementations.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/bulbd/bulbd/common"
	"github.com/pkg/errors"
)

// Level describes logger verbosity.
type Level int

const (
	// LevelDebug enables every message.
	LevelDebug Level = iota
	// LevelInfo enables info and above.
	LevelInfo
	// LevelWarn enables warnings and above.
	LevelWarn
	// LevelError enables errors only.
	LevelError
)

const (
	// ProviderConsole describes coloured console logger.
	ProviderConsole = "console"
	// ProviderJSON describes structured JSON logger.
	ProviderJSON = "json"
)

// ConstructLogger has data required for a new logger.
type ConstructLogger struct {
	Provider string
	Level    string
	Out      io.Writer
}

// Level-filtering wrapper around the actual logger.
type provider struct {
	logger common.ILoggerProvider
	level  Level
}

// NewLoggerProvider constructs a new logger.
func NewLoggerProvider(ctor *ConstructLogger) (common.ILoggerProvider, error) {
	out := ctor.Out
	if nil == out {
		out = os.Stderr
	}

	var l common.ILoggerProvider
	switch strings.ToLower(ctor.Provider) {
	case "", ProviderConsole:
		l = NewConsoleLogger(out)
	case ProviderJSON:
		l = NewJSONLogger(out)
	default:
		return nil, errors.Errorf("unknown logger provider %s", ctor.Provider)
	}

	return &provider{
		logger: l,
		level:  ParseLevel(ctor.Level),
	}, nil
}

// ParseLevel transforms config level into Level. Unknown values fall back to info.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Debug sends debug level message.
func (p *provider) Debug(msg string, fields ...string) {
	if p.level <= LevelDebug {
		p.logger.Debug(msg, fields...)
	}
}

// Info sends info level message.
func (p *provider) Info(msg string, fields ...string) {
	if p.level <= LevelInfo {
		p.logger.Info(msg, fields...)
	}
}

// Warn sends warning level message.
func (p *provider) Warn(msg string, fields ...string) {
	if p.level <= LevelWarn {
		p.logger.Warn(msg, fields...)
	}
}

// Error sends error level message.
func (p *provider) Error(msg string, err error, fields ...string) {
	p.logger.Error(msg, err, fields...)
}

// Fatal sends fatal level message and exits.
func (p *provider) Fatal(msg string, err error, fields ...string) {
	p.logger.Fatal(msg, err, fields...)
}

// Helper method to add generic fields to the output.
func withFields(fields ...string) map[string]string {
	fLen := len(fields)
	result := make(map[string]string, fLen/2)
	for ii := 0; ii < fLen; ii += 2 {
		if ii+1 >= fLen {
			break
		}

		result[fields[ii]] = fields[ii+1]
	}

	return result
}

// Error might be nil when a failure is reported as a plain bool.
func errorText(err error) string {
	if nil == err {
		return "unknown"
	}

	return err.Error()
}
