// Package apirunner provides the main entry point for running declarative
// HTTP request profiles, building datasets from list and detail calls, and
// planning idempotent CRM upserts.
//
// The Client wires the building blocks together:
//   - profile resolution and the proxy executor for single calls
//   - the dataset builder for list-then-detail collections
//   - the upsert planner and executor for create/update/noop decisions
//   - a key/value store for the current profile and named datasets
//
// Example usage:
//
//	runner, err := apirunner.New(apirunner.WithStore(store.NewMemory()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer runner.Close()
//
//	p, err := profile.Load("contacts.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ds, err := runner.BuildDataset(ctx, p, "results", dataset.WithMaxItems(10))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = runner.SaveDataset(ctx, "contacts", ds)
package apirunner

import (
	"context"

	"github.com/agentstation/apirunner/pkg/dataset"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/hubspot"
	"github.com/agentstation/apirunner/pkg/logging"
	"github.com/agentstation/apirunner/pkg/profile"
	"github.com/agentstation/apirunner/pkg/proxy"
	"github.com/agentstation/apirunner/pkg/store"
)

// Compile-time interface checks to ensure proper implementation.
var (
	_ Client  = (*client)(nil)
	_ Runner  = (*client)(nil)
	_ Upserts = (*client)(nil)
)

// Runner executes single calls and datasets.
type Runner interface {
	// Proxy relays an already resolved request.
	Proxy(ctx context.Context, req proxy.Request) proxy.Response

	// Run resolves and executes a profile. Only an invalid profile is an
	// error; transport and HTTP failures are encoded in the response.
	Run(ctx context.Context, p profile.Profile) (proxy.Response, error)

	// BuildDataset runs list and optional detail calls into a dataset.
	BuildDataset(ctx context.Context, list profile.Profile, arrayPath string, opts ...dataset.Option) (*dataset.BuiltDataset, error)
}

// Upserts plans and executes CRM upserts.
type Upserts interface {
	// PlanUpsert decides create, update or noop for properties.
	PlanUpsert(ctx context.Context, base profile.Profile, properties map[string]any) (hubspot.Plan, error)

	// ExecuteUpsert carries out plan, or only describes it when dryRun is set.
	ExecuteUpsert(ctx context.Context, base profile.Profile, plan hubspot.Plan, dryRun bool) (proxy.Response, error)

	// Planner exposes the underlying planner for mapping-based planning.
	Planner() *hubspot.Planner
}

// Client is the complete apirunner API.
type Client interface {
	// Runner executes profiles and builds datasets
	Runner

	// Upserts plans and executes CRM upserts
	Upserts

	// Persistence saves profiles and datasets in the configured store
	Persistence

	// Hooks provides access to event callback registration
	Hooks

	// Close releases the store.
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	exec    proxy.Executor
	planner *hubspot.Planner
	store   store.Store
	hooks   *hooks
}

// New creates a new Client with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	switch {
	case o.logger != nil:
		logging.SetDefault(*o.logger)
	case !logging.Configured():
		logging.ConfigureFromEnv()
	}

	c := &client{
		options: o,
		store:   o.store,
		hooks:   newHooks(),
	}

	c.exec = o.executor
	if c.exec == nil {
		c.exec = proxy.NewHTTPExecutor(o.executorOptions()...)
	}
	c.exec = c.hooks.wrap(c.exec)
	c.planner = hubspot.NewPlanner(c.exec, o.plannerOptions...)

	if c.store == nil {
		if c.store, err = store.Open(o.storeBackend, o.storePath); err != nil {
			return nil, errors.WrapResource("open", "store", string(o.storeBackend), err)
		}
	}

	logging.Debug().
		Str("store", string(o.storeBackend)).
		Dur("timeout", o.timeout).
		Msg("Client created")
	return c, nil
}

// Proxy relays req through the executor.
func (c *client) Proxy(ctx context.Context, req proxy.Request) proxy.Response {
	return c.exec.Execute(ctx, req)
}

// Run validates and executes p. When configured, p is remembered as the
// current profile.
func (c *client) Run(ctx context.Context, p profile.Profile) (proxy.Response, error) {
	if err := p.Validate(); err != nil {
		return proxy.Response{}, err
	}
	ctx = logging.WithProfile(ctx, p.Name)

	resp := c.exec.Execute(ctx, profile.ToRequest(p))
	if c.options.rememberProfile {
		if err := store.SaveCurrentProfile(ctx, c.store, p); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("Could not remember current profile")
		}
	}
	return resp, nil
}

// BuildDataset builds a dataset and fires the dataset hooks.
func (c *client) BuildDataset(ctx context.Context, list profile.Profile, arrayPath string, opts ...dataset.Option) (*dataset.BuiltDataset, error) {
	if err := list.Validate(); err != nil {
		return nil, err
	}
	all := append([]dataset.Option{
		dataset.WithSourceName(list.Name),
		dataset.WithConcurrency(c.options.concurrency),
	}, opts...)

	ds, err := dataset.Build(ctx, c.exec, list, arrayPath, all...)
	if err != nil {
		return nil, err
	}
	c.hooks.triggerDatasetBuilt(ds)
	return ds, nil
}

// PlanUpsert plans a contact upsert keyed by email.
func (c *client) PlanUpsert(ctx context.Context, base profile.Profile, properties map[string]any) (hubspot.Plan, error) {
	return c.planner.PlanContactByEmail(ctx, base, properties)
}

// ExecuteUpsert executes plan and fires the upsert hooks.
func (c *client) ExecuteUpsert(ctx context.Context, base profile.Profile, plan hubspot.Plan, dryRun bool) (proxy.Response, error) {
	resp, err := c.planner.Execute(ctx, base, plan, dryRun)
	if err != nil {
		return resp, err
	}
	c.hooks.triggerUpsertExecuted(plan, dryRun, resp)
	return resp, nil
}

// Planner returns the configured upsert planner.
func (c *client) Planner() *hubspot.Planner {
	return c.planner
}

// Close releases the store.
func (c *client) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
