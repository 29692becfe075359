package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/apirunner/pkg/dataset"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/profile"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFile(filepath.Join(dir, "files"))
	require.NoError(t, err)
	db, err := NewSQLite(filepath.Join(dir, "store.db"))
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": db,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "missing")
			assert.True(t, errors.IsNotFound(err))

			require.NoError(t, s.Set(ctx, "a/b c", json.RawMessage(`{"x":1}`)))
			got, err := s.Get(ctx, "a/b c")
			require.NoError(t, err)
			assert.JSONEq(t, `{"x":1}`, string(got))

			require.NoError(t, s.Set(ctx, "a/b c", json.RawMessage(`[1,2]`)))
			got, err = s.Get(ctx, "a/b c")
			require.NoError(t, err)
			assert.JSONEq(t, `[1,2]`, string(got))

			require.NoError(t, s.Set(ctx, "p.2", json.RawMessage(`2`)))
			require.NoError(t, s.Set(ctx, "p.1", json.RawMessage(`1`)))
			keys, err := s.Keys(ctx, "p.")
			require.NoError(t, err)
			assert.Equal(t, []string{"p.1", "p.2"}, keys)

			all, err := s.Keys(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"a/b c", "p.1", "p.2"}, all)

			require.NoError(t, s.Delete(ctx, "p.1"))
			require.NoError(t, s.Delete(ctx, "p.1"))
			keys, err = s.Keys(ctx, "p.")
			require.NoError(t, err)
			assert.Equal(t, []string{"p.2"}, keys)

			assert.True(t, errors.IsValidationError(s.Set(ctx, " ", json.RawMessage(`1`))))
		})
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	value := json.RawMessage(`"abc"`)
	require.NoError(t, m.Set(ctx, "k", value))
	value[1] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(got))
}

func TestFilePermissions(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, f.Set(context.Background(), "secret", json.RawMessage(`{}`)))

	info, err := os.Stat(filepath.Join(dir, "secret.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestOpen(t *testing.T) {
	s, err := Open(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(BackendSQLite, ":memory:")
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open("redis", "")
	assert.Error(t, err)

	_, err = Open(BackendFile, "")
	assert.Error(t, err)
}

func TestDatasetHelpers(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ds := &dataset.BuiltDataset{
				SourceName: "contacts",
				Rows: []dataset.Row{
					map[string]any{"id": "1"},
					map[string]any{"__error": true, "status": 500.0, "statusText": "Internal Server Error"},
				},
				BuiltAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
				Count:   2,
			}
			require.NoError(t, SaveDataset(ctx, s, "march", ds))
			require.NoError(t, SaveDataset(ctx, s, "april", &dataset.BuiltDataset{Rows: []dataset.Row{}}))

			got, err := LoadDataset(ctx, s, "march")
			require.NoError(t, err)
			if d := cmp.Diff(ds, got); d != "" {
				t.Errorf("LoadDataset() mismatch (-want +got):\n%s", d)
			}

			names, err := ListDatasets(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, []string{"april", "march"}, names)

			require.NoError(t, DeleteDataset(ctx, s, "april"))
			_, err = LoadDataset(ctx, s, "april")
			assert.True(t, errors.IsNotFound(err))
			assert.Contains(t, err.Error(), `dataset "april" not found`)

			assert.True(t, errors.IsValidationError(SaveDataset(ctx, s, "", ds)))
		})
	}
}

func TestCurrentProfileHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := LoadCurrentProfile(ctx, s)
	assert.True(t, errors.IsNotFound(err))

	p := profile.Profile{
		Name:    "search",
		BaseURL: "https://api.example.com",
		Path:    "/search",
		Method:  "POST",
		Headers: profile.Values{"X-A": "1"},
		Query:   profile.Values{},
		Body:    map[string]any{"q": "x"},
		Auth:    profile.AuthConfig{Type: profile.AuthAPIKeyQuery, QueryName: "key", APIKey: "k"},
	}
	require.NoError(t, SaveCurrentProfile(ctx, s, p))

	got, err := LoadCurrentProfile(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	raw, err := s.Get(ctx, "apiRunner.currentProfile")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"baseUrl"`)
}

func TestCorruptValue(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, DatasetKey("bad"), json.RawMessage(`{"rows":`)))
	_, err := LoadDataset(ctx, s, "bad")
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))
}
