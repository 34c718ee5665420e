package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseColor(t *testing.T) {
	terminal := &output{terminal: true}
	pipe := &output{}

	assert.True(t, useColor(ColorAlways, pipe))
	assert.False(t, useColor(ColorNever, terminal))
	assert.False(t, useColor(ColorAuto, pipe))

	t.Run("auto on a terminal", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		require.NoError(t, os.Unsetenv("NO_COLOR"))
		assert.True(t, useColor(ColorAuto, terminal))
	})

	t.Run("NO_COLOR disables auto", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.False(t, useColor(ColorAuto, terminal), "NO_COLOR applies even when empty")
	})
}

func TestOpenOutputBuffer(t *testing.T) {
	var buf bytes.Buffer
	out := newOutput("", &buf)
	require.NoError(t, out.open())

	assert.False(t, out.terminal)
	assert.Same(t, &buf, out.w)
	assert.NoError(t, out.close())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger("debug", &buf)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger = newLogger("chatty", &buf)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level 'chatty'")
}
