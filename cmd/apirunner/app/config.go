package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/apirunner/pkg/constants"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/store"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Store configuration
	StoreBackend string
	StorePath    string

	// Client configuration
	DetailConcurrency int
	HubSpotToken      string

	// Logging configuration
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.apirunner.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindEnv()

	viper.SetDefault("store_backend", string(store.BackendFile))
	viper.SetDefault("store_path", constants.DefaultStorePath)

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(constants.DefaultConfigName)
		}
	}

	// A missing config file is fine.
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Format:  viper.GetString("format"),

		ConfigFile: viper.ConfigFileUsed(),

		StoreBackend: viper.GetString("store_backend"),
		StorePath:    viper.GetString("store_path"),

		DetailConcurrency: viper.GetInt("detail_concurrency"),
		HubSpotToken:      viper.GetString("hubspot_token"),

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that would otherwise fail late, when the client
// is first created.
func (c *Config) Validate() error {
	switch store.Backend(c.StoreBackend) {
	case store.BackendMemory, store.BackendFile, store.BackendSQLite, "":
	default:
		return fmt.Errorf("invalid store_backend %q: must be one of memory, file, sqlite", c.StoreBackend)
	}
	if c.DetailConcurrency < 0 {
		return fmt.Errorf("invalid detail_concurrency %d: must not be negative", c.DetailConcurrency)
	}
	return nil
}

// LoadFile reads an explicit config file given with --config. Values from
// the file replace those found during LoadConfig.
func (c *Config) LoadFile(path string) error {
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return errors.NewParseError("yaml", path, "reading config file", err)
	}

	c.ConfigFile = viper.ConfigFileUsed()
	c.StoreBackend = viper.GetString("store_backend")
	c.StorePath = viper.GetString("store_path")
	c.DetailConcurrency = viper.GetInt("detail_concurrency")
	c.HubSpotToken = viper.GetString("hubspot_token")
	if f := viper.GetString("format"); f != "" && c.Format == "" {
		c.Format = f
	}

	return c.Validate()
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// bindEnv binds environment variables whose names differ from their keys.
func bindEnv() {
	bindings := map[string][]string{
		"hubspot_token":  {"HUBSPOT_TOKEN", "HUBSPOT_PRIVATE_APP_TOKEN"},
		"store_backend":  {"APIRUNNER_STORE_BACKEND", "STORE_BACKEND"},
		"store_path":     {"APIRUNNER_STORE_PATH", "STORE_PATH"},
		"server_api_key": {"APIRUNNER_API_KEY"},
	}
	for key, envs := range bindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable for %s: %v\n", key, err)
		}
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
