package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/bulbd/bulbd/common"
	"github.com/fatih/color"
)

// Default console logger.
type consoleLogger struct {
	sync.Mutex
	out io.Writer
}

// Debug prints debug level message.
func (p *consoleLogger) Debug(msg string, fields ...string) {
	p.output(msg, withFields(fields...), color.FgCyan)
}

// Info prints info level message.
func (p *consoleLogger) Info(msg string, fields ...string) {
	p.output(msg, withFields(fields...), color.FgGreen)
}

// Warn prints warning level message.
func (p *consoleLogger) Warn(msg string, fields ...string) {
	p.output(msg, withFields(fields...), color.FgYellow)
}

// Error prints error level message.
func (p *consoleLogger) Error(msg string, err error, fields ...string) {
	fields = append(fields, common.LogErrorToken, errorText(err))
	p.output(msg, withFields(fields...), color.FgRed)
}

// Fatal prints fatal level message and exits.
func (p *consoleLogger) Fatal(msg string, err error, fields ...string) {
	fields = append(fields, common.LogErrorToken, errorText(err))
	p.output(msg, withFields(fields...), color.FgRed)
	os.Exit(1)
}

// NewConsoleLogger constructs a new console logger.
func NewConsoleLogger(out io.Writer) common.ILoggerProvider {
	return &consoleLogger{out: out}
}

// Prepares final string.
func (p *consoleLogger) output(msg string, fields map[string]string, c color.Attribute) {
	newM := fmt.Sprintf("%s   %s", time.Now().Local().Format(time.StampMilli), msg)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		newM = fmt.Sprintf("%s\n          %s: %s", newM, k, fields[k])
	}

	p.Lock()
	defer p.Unlock()
	//noinspection GoUnhandledErrorResult
	color.New(c).Fprintln(p.out, newM) // nolint: gosec
}
