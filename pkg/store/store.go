// Package store persists named JSON blobs: the current request profile and
// saved datasets.
//
// A Store is a plain key/value collaborator. It knows nothing about the
// shapes it holds; the typed helpers in this package encode and decode
// profiles and datasets on top of it.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/apirunner/pkg/errors"
)

// Store is a key/value store of JSON documents.
type Store interface {
	// Get returns the value stored under key, or a *errors.NotFoundError.
	Get(ctx context.Context, key string) (json.RawMessage, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value json.RawMessage) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the keys starting with prefix in sorted order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}

// Backend names a Store implementation.
type Backend string

// Supported backends.
const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Open creates a store for backend. path is a directory for the file backend
// and a database file for sqlite; it is ignored for memory. A leading "~"
// is expanded to the home directory.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendFile:
		return NewFile(expandHome(path))
	case BackendSQLite:
		return NewSQLite(expandHome(path))
	default:
		return nil, &errors.ConfigError{Component: "store", Message: "unknown backend " + string(backend)}
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func notFound(key string) error {
	return errors.NewNotFoundError("key", key)
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.NewValidationError("key", key, "must not be empty")
	}
	return nil
}
