package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4*cfg.Audio.PeriodSize, cfg.Audio.BufferSize)
}

func TestValidateRejectsBadSizing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"buffer not 4x period", func(c *Config) { c.Audio.BufferSize = 1000 }},
		{"zero period", func(c *Config) { c.Audio.PeriodSize = 0 }},
		{"negative rate", func(c *Config) { c.Audio.SampleRate = -1 }},
		{"start threshold beyond buffer", func(c *Config) { c.Audio.StartThreshold = 2048 }},
		{"stop threshold beyond buffer", func(c *Config) { c.Audio.StopThreshold = -1 }},
		{"missing local device", func(c *Config) { c.Devices.Local = "" }},
		{"missing remote device", func(c *Config) { c.Devices.Remote = "" }},
		{"unknown aec mode", func(c *Config) { c.AEC.Mode = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Audio.BufferSize = cfg.Audio.PeriodSize // violates buffer = 4x period

	_, err := NewSession(cfg, testLogger(), newScriptOpener(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewSessionRequiresLogger(t *testing.T) {
	_, err := NewSession(testConfig(), nil, newScriptOpener(), nil, nil)
	assert.Error(t, err)
}
