// Package constants provides shared constants used throughout the apirunner codebase.
// This includes timeouts, limits, file permissions, and the fixed names the
// request profiles and the HTTP surface rely on.
package constants

import "time"

// Timeout constants
const (
	// ProxyTimeout is the hard per-call timeout of the proxy executor.
	ProxyTimeout = 30 * time.Second

	// DialTimeout is the timeout for establishing network connections
	DialTimeout = 10 * time.Second

	// KeepAliveInterval is the interval between keep-alive probes
	KeepAliveInterval = 30 * time.Second

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 5 * time.Second
)

// Network constants
const (
	// MaxIdleConnections is the maximum number of idle connections in the pool
	MaxIdleConnections = 100

	// MaxConnectionsPerHost is the maximum number of connections per host
	MaxConnectionsPerHost = 10
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for files that may hold API keys (rw-------)
	SecureFilePermissions = 0600
)

// Dataset defaults
const (
	// DefaultMaxItems is the number of list items kept when no limit is given.
	DefaultMaxItems = 20

	// DefaultDetailConcurrency keeps detail fetches strictly sequential.
	DefaultDetailConcurrency = 1
)

// Auth defaults
const (
	// DefaultAuthHeader is used by apiKeyHeader auth when no header name is set.
	DefaultAuthHeader = "Authorization"

	// DefaultAuthQuery is used by apiKeyQuery auth when no parameter name is set.
	DefaultAuthQuery = "api_key"
)

// Status texts used on synthetic responses.
const (
	// StatusTextNetworkError labels transport failures and timeouts.
	StatusTextNetworkError = "NetworkError"

	// StatusTextDryRun labels dry-run upsert executions.
	StatusTextDryRun = "DryRun"

	// StatusTextNoop labels upsert executions that had nothing to change.
	StatusTextNoop = "Noop"

	// TimeoutMessage is the rawText of a timed-out proxy call.
	TimeoutMessage = "Request timed out"
)

// Persistence keys
const (
	// CurrentProfileKey holds the last used profile.
	CurrentProfileKey = "apiRunner.currentProfile"

	// DatasetKeyPrefix prefixes every saved dataset key.
	DatasetKeyPrefix = "apiRunner.dataset."
)

// Path constants
const (
	// DefaultConfigName is the config file name searched in $HOME and the working directory.
	DefaultConfigName = ".apirunner"

	// DefaultStorePath is the default directory or database file for persisted values.
	DefaultStorePath = "~/.apirunner/store"
)
