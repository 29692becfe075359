package apirunner

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/apirunner/pkg/dataset"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/hubspot"
	"github.com/agentstation/apirunner/pkg/logging"
	"github.com/agentstation/apirunner/pkg/profile"
	"github.com/agentstation/apirunner/pkg/proxy"
	"github.com/agentstation/apirunner/pkg/store"
)

func newRemote(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/items":
			_, _ = io.WriteString(w, `{"items":[{"id":1},{"id":2}]}`)
		case "/items/1", "/items/2":
			_, _ = io.WriteString(w, `{"detail":"`+r.URL.Path+`"}`)
		case "/crm/v3/objects/contacts/search":
			_, _ = io.WriteString(w, `{"total":1,"results":[{"id":"42","properties":{"email":"a@b.com","firstname":"Old"}}]}`)
		case "/crm/v3/objects/contacts/42":
			_, _ = io.WriteString(w, `{"id":"42"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientRun(t *testing.T) {
	remote := newRemote(t)
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	var seen atomic.Int32
	c.OnResponse(func(proxy.Request, proxy.Response) { seen.Add(1) })

	p := profile.Profile{Name: "items", BaseURL: remote.URL, Path: "/items", Method: "GET"}
	resp, err := c.Run(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, int32(1), seen.Load())

	current, err := c.CurrentProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "items", current.Name)

	_, err = c.Run(context.Background(), profile.Profile{BaseURL: "nope"})
	assert.True(t, errors.IsValidationError(err))
}

func TestClientRunWithoutRemembering(t *testing.T) {
	remote := newRemote(t)
	c, err := New(WithRememberProfile(false))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Run(context.Background(), profile.Profile{BaseURL: remote.URL, Path: "/items"})
	require.NoError(t, err)
	_, err = c.CurrentProfile(context.Background())
	assert.True(t, errors.IsNotFound(err))
}

func TestClientDatasetLifecycle(t *testing.T) {
	remote := newRemote(t)
	c, err := New(WithStore(store.NewMemory()), WithDetailConcurrency(2))
	require.NoError(t, err)
	defer c.Close()

	var built *dataset.BuiltDataset
	c.OnDatasetBuilt(func(ds *dataset.BuiltDataset) { built = ds })

	ctx := context.Background()
	list := profile.Profile{Name: "items", BaseURL: remote.URL, Path: "/items", Method: "GET"}
	detail := profile.Profile{BaseURL: remote.URL, Path: "/items/{id}", Method: "GET"}

	ds, err := c.BuildDataset(ctx, list, "items", dataset.WithDetail(detail, "id", "id"))
	require.NoError(t, err)
	assert.Same(t, ds, built)
	assert.Equal(t, "items", ds.SourceName)
	assert.Equal(t, []dataset.Row{
		map[string]any{"detail": "/items/1"},
		map[string]any{"detail": "/items/2"},
	}, ds.Rows)

	require.NoError(t, c.SaveDataset(ctx, "items", ds))
	names, err := c.ListDatasets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"items"}, names)

	loaded, err := c.LoadDataset(ctx, "items")
	require.NoError(t, err)
	assert.Equal(t, ds.Rows, loaded.Rows)

	require.NoError(t, c.DeleteDataset(ctx, "items"))
	_, err = c.LoadDataset(ctx, "items")
	assert.True(t, errors.IsNotFound(err))
}

func TestClientUpsert(t *testing.T) {
	remote := newRemote(t)
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	var executed []bool
	c.OnUpsertExecuted(func(_ hubspot.Plan, dryRun bool, _ proxy.Response) {
		executed = append(executed, dryRun)
	})

	ctx := context.Background()
	base := profile.Profile{BaseURL: remote.URL, Auth: profile.AuthConfig{Type: profile.AuthBearer, BearerToken: "pat"}}

	plan, err := c.PlanUpsert(ctx, base, map[string]any{"email": "a@b.com", "firstname": "New"})
	require.NoError(t, err)
	assert.Equal(t, hubspot.ActionUpdate, plan.Action)
	assert.Equal(t, "42", plan.ID)

	resp, err := c.ExecuteUpsert(ctx, base, plan, true)
	require.NoError(t, err)
	assert.Equal(t, "DryRun", resp.StatusText)

	resp, err = c.ExecuteUpsert(ctx, base, plan, false)
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, []bool{true, false}, executed)
}

func TestClientOptions(t *testing.T) {
	_, err := New(WithTimeout(0))
	assert.Error(t, err)

	_, err = New(WithDetailConcurrency(0))
	assert.Error(t, err)

	_, err = New(WithStoreBackend("mongo", ""))
	assert.Error(t, err)

	calls := 0
	c, err := New(
		WithExecutor(proxy.ExecutorFunc(func(context.Context, proxy.Request) proxy.Response {
			calls++
			return proxy.Synthetic("Stub", nil)
		})),
		WithTimeout(time.Second),
		WithStoreBackend(store.BackendSQLite, ":memory:"),
	)
	require.NoError(t, err)
	defer c.Close()

	resp := c.Proxy(context.Background(), proxy.Request{URL: "https://x.test", Method: "GET"})
	assert.Equal(t, "Stub", resp.StatusText)
	assert.Equal(t, 1, calls)
	assert.IsType(t, &store.SQLite{}, c.Store())
}

func TestClientWithLogger(t *testing.T) {
	original := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(originalLevel)
	})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	c, err := New(WithLogger(&logger), WithRememberProfile(false))
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, logging.Configured())
	assert.Contains(t, buf.String(), "Client created")
}
