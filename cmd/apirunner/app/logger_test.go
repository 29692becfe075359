package app

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		expected    string
		wantWarning bool
	}{
		{name: "default", config: &Config{}, expected: "info"},
		{name: "verbose", config: &Config{Verbose: true}, expected: "debug"},
		{name: "quiet", config: &Config{Quiet: true}, expected: "warn"},
		{name: "flag overrides verbose", config: &Config{LogLevel: "error", Verbose: true}, expected: "error"},
		{name: "flag overrides quiet", config: &Config{LogLevel: "trace", Quiet: true}, expected: "trace"},
		{name: "verbose and quiet", config: &Config{Verbose: true, Quiet: true}, expected: "warn", wantWarning: true},
		{name: "env used without flags", config: &Config{EnvLogLevel: "error"}, expected: "error"},
		{name: "verbose overrides env", config: &Config{EnvLogLevel: "error", Verbose: true}, expected: "debug"},
		{name: "invalid flag", config: &Config{LogLevel: "loud"}, expected: "info", wantWarning: true},
		{name: "invalid env", config: &Config{EnvLogLevel: "loud"}, expected: "info", wantWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warnings bytes.Buffer
			assert.Equal(t, tt.expected, determineLogLevel(tt.config, &warnings))
			assert.Equal(t, tt.wantWarning, warnings.Len() > 0, warnings.String())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var warnings bytes.Buffer
	logger := newLogger(&Config{Verbose: true, LogFormat: "json", LogOutput: "discard"}, &warnings)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	assert.Empty(t, warnings.String())

	logger = newLogger(&Config{Quiet: true, LogFormat: "json", LogOutput: "discard"}, &warnings)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}
