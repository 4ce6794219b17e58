package logging

import (
	"testing"

	"github.com/Speshl/gorrc_tello/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() {
		log.SetLevel(log.InfoLevel)
		log.SetFormatter(&log.TextFormatter{})
	})

	require.NoError(t, Setup(config.LogConfig{Level: "debug", Format: "json"}))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	require.NoError(t, Setup(config.LogConfig{Level: "warn", Format: "text"}))
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)
}

func TestSetupErrors(t *testing.T) {
	assert.Error(t, Setup(config.LogConfig{Level: "loud", Format: "text"}))
	assert.Error(t, Setup(config.LogConfig{Level: "info", Format: "xml"}))
}
