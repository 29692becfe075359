package apirunner

import (
	"context"
	"sync"

	"github.com/agentstation/apirunner/pkg/dataset"
	"github.com/agentstation/apirunner/pkg/hubspot"
	"github.com/agentstation/apirunner/pkg/proxy"
)

// Hook function types for client events
type (
	// ResponseHook is called after every outbound call, detail calls included
	ResponseHook func(req proxy.Request, resp proxy.Response)

	// DatasetBuiltHook is called when a dataset has been built
	DatasetBuiltHook func(ds *dataset.BuiltDataset)

	// UpsertExecutedHook is called after an upsert plan was executed or dry-run
	UpsertExecutedHook func(plan hubspot.Plan, dryRun bool, resp proxy.Response)
)

// Hooks provides event callback registration.
type Hooks interface {
	// OnResponse registers a callback for every proxied response
	OnResponse(ResponseHook)

	// OnDatasetBuilt registers a callback for built datasets
	OnDatasetBuilt(DatasetBuiltHook)

	// OnUpsertExecuted registers a callback for executed upserts
	OnUpsertExecuted(UpsertExecutedHook)
}

// hooks manages event callbacks
type hooks struct {
	mu               sync.RWMutex
	onResponse       []ResponseHook
	onDatasetBuilt   []DatasetBuiltHook
	onUpsertExecuted []UpsertExecutedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnResponse registers a callback for every proxied response.
func (c *client) OnResponse(fn ResponseHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onResponse = append(c.hooks.onResponse, fn)
}

// OnDatasetBuilt registers a callback for built datasets.
func (c *client) OnDatasetBuilt(fn DatasetBuiltHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onDatasetBuilt = append(c.hooks.onDatasetBuilt, fn)
}

// OnUpsertExecuted registers a callback for executed upserts.
func (c *client) OnUpsertExecuted(fn UpsertExecutedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onUpsertExecuted = append(c.hooks.onUpsertExecuted, fn)
}

// wrap returns an executor that reports every call to the response hooks.
func (h *hooks) wrap(exec proxy.Executor) proxy.Executor {
	return proxy.ExecutorFunc(func(ctx context.Context, req proxy.Request) proxy.Response {
		resp := exec.Execute(ctx, req)
		h.triggerResponse(req, resp)
		return resp
	})
}

func (h *hooks) triggerResponse(req proxy.Request, resp proxy.Response) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onResponse {
		hook(req, resp)
	}
}

func (h *hooks) triggerDatasetBuilt(ds *dataset.BuiltDataset) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onDatasetBuilt {
		hook(ds)
	}
}

func (h *hooks) triggerUpsertExecuted(plan hubspot.Plan, dryRun bool, resp proxy.Response) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onUpsertExecuted {
		hook(plan, dryRun, resp)
	}
}
