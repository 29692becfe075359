package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("APIRUNNER_STORE_BACKEND", "")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	if config.StoreBackend != "file" {
		t.Errorf("StoreBackend = %s, want file", config.StoreBackend)
	}
	if config.StorePath == "" {
		t.Error("StorePath not set to default")
	}
}

// TestConfig_EnvironmentVariables verifies environment variable loading,
// including the aliases bound in bindEnv.
func TestConfig_EnvironmentVariables(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(*Config) (string, bool)
	}{
		{
			name: "HUBSPOT_TOKEN",
			env:  map[string]string{"HUBSPOT_TOKEN": "pat-1"},
			check: func(c *Config) (string, bool) {
				return c.HubSpotToken, c.HubSpotToken == "pat-1"
			},
		},
		{
			name: "HUBSPOT_PRIVATE_APP_TOKEN",
			env:  map[string]string{"HUBSPOT_TOKEN": "", "HUBSPOT_PRIVATE_APP_TOKEN": "pat-2"},
			check: func(c *Config) (string, bool) {
				return c.HubSpotToken, c.HubSpotToken == "pat-2"
			},
		},
		{
			name: "APIRUNNER_STORE_BACKEND",
			env:  map[string]string{"APIRUNNER_STORE_BACKEND": "sqlite", "APIRUNNER_STORE_PATH": "/tmp/x.db"},
			check: func(c *Config) (string, bool) {
				return c.StoreBackend + " " + c.StorePath, c.StoreBackend == "sqlite" && c.StorePath == "/tmp/x.db"
			},
		},
		{
			name: "DETAIL_CONCURRENCY",
			env:  map[string]string{"DETAIL_CONCURRENCY": "4"},
			check: func(c *Config) (string, bool) {
				return "", c.DetailConcurrency == 4
			},
		},
		{
			name: "LOG_LEVEL",
			env:  map[string]string{"LOG_LEVEL": "warn"},
			check: func(c *Config) (string, bool) {
				return c.EnvLogLevel, c.EnvLogLevel == "warn" && c.LogLevel == ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			config, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() failed: %v", err)
			}
			if got, ok := tt.check(config); !ok {
				t.Errorf("unexpected value %q", got)
			}
		})
	}
}

// TestConfig_Validate verifies rejected values.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{StoreBackend: "memory"}, false},
		{"file", Config{StoreBackend: "file"}, false},
		{"sqlite", Config{StoreBackend: "sqlite"}, false},
		{"empty", Config{}, false},
		{"unknown backend", Config{StoreBackend: "redis"}, true},
		{"negative concurrency", Config{DetailConcurrency: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestConfig_LoadFile verifies an explicit --config file.
func TestConfig_LoadFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "apirunner.yaml")
	data := "store_backend: memory\ndetail_concurrency: 3\nformat: yaml\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	config := &Config{}
	if err := config.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if config.StoreBackend != "memory" {
		t.Errorf("StoreBackend = %s, want memory", config.StoreBackend)
	}
	if config.DetailConcurrency != 3 {
		t.Errorf("DetailConcurrency = %d, want 3", config.DetailConcurrency)
	}
	if config.Format != "yaml" {
		t.Errorf("Format = %s, want yaml", config.Format)
	}

	if err := (&Config{}).LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile() succeeded for a missing file")
	}
}

// TestConfig_UpdateFromFlags verifies flags override loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "info"}

	config.UpdateFromFlags(true, false, true, "", "")
	if !config.Verbose || !config.NoColor {
		t.Error("boolean flags not applied")
	}
	if config.Format != "yaml" || config.LogLevel != "info" {
		t.Error("empty flag values replaced loaded values")
	}

	config.UpdateFromFlags(false, true, false, "json", "debug")
	if config.Format != "json" || config.LogLevel != "debug" || !config.Quiet {
		t.Errorf("flags not applied: %+v", config)
	}
}
