package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// Tests proper fields allocation.
func TestCorrectFields(t *testing.T) {
	r := withFields("f1", "f1", "f2", "f2")
	if 2 != len(r) {
		t.Fail()
	}

	r = withFields("f1", "f1", "f2", "f2", "f3")
	if 2 != len(r) {
		t.Fail()
	}
}

// Tests that console logger prints fields.
func TestConsoleOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf)
	l.Error("Failed", errors.New("boom"), "bulb", "top")

	out := buf.String()
	assert.True(t, strings.Contains(out, "Failed"), "message")
	assert.True(t, strings.Contains(out, "bulb: top"), "field")
	assert.True(t, strings.Contains(out, "error: boom"), "error")
}
