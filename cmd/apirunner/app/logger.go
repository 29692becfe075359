package app

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/apirunner/pkg/logging"
)

// logLevels lists the levels accepted by --log-level and LOG_LEVEL.
var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// NewLogger creates a configured logger based on the application configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag
//  2. -v/--verbose flag (debug)
//  3. -q/--quiet flag (warn)
//  4. LOG_LEVEL environment variable
//  5. info
func NewLogger(config *Config) zerolog.Logger {
	return newLogger(config, os.Stderr)
}

func newLogger(config *Config, warnings io.Writer) zerolog.Logger {
	level := determineLogLevel(config, warnings)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
	})
}

// determineLogLevel applies the precedence rules, warning on warnings
// about invalid or conflicting input.
func determineLogLevel(config *Config, warnings io.Writer) string {
	if config.LogLevel != "" {
		return validLogLevel(config.LogLevel, "--log-level", warnings)
	}

	switch {
	case config.Verbose && config.Quiet:
		fmt.Fprintln(warnings, "Warning: both --verbose and --quiet specified, using --quiet")
		return "warn"
	case config.Verbose:
		return "debug"
	case config.Quiet:
		return "warn"
	}

	if config.EnvLogLevel != "" {
		return validLogLevel(config.EnvLogLevel, "LOG_LEVEL", warnings)
	}
	return "info"
}

// validLogLevel returns level if known and info otherwise.
func validLogLevel(level, source string, warnings io.Writer) string {
	if slices.Contains(logLevels, level) {
		return level
	}
	fmt.Fprintf(warnings, "Warning: invalid %s %q, using \"info\"\n", source, level)
	return "info"
}
