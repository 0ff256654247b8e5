package logger

import (
	"testing"

	"github.com/patro/calendar-engine/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	l, err := New(config.LoggerConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l.WithComponent("test").WithRequestID("abc"))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.LoggerConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
