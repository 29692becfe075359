package apirunner

import (
	"context"

	"github.com/agentstation/apirunner/pkg/dataset"
	"github.com/agentstation/apirunner/pkg/profile"
	"github.com/agentstation/apirunner/pkg/store"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence saves the current profile and named datasets.
type Persistence interface {
	// SaveDataset stores ds under name, replacing any previous dataset.
	SaveDataset(ctx context.Context, name string, ds *dataset.BuiltDataset) error

	// LoadDataset returns the dataset saved under name.
	LoadDataset(ctx context.Context, name string) (*dataset.BuiltDataset, error)

	// DeleteDataset removes a saved dataset.
	DeleteDataset(ctx context.Context, name string) error

	// ListDatasets returns the saved dataset names.
	ListDatasets(ctx context.Context) ([]string, error)

	// CurrentProfile returns the last used profile.
	CurrentProfile(ctx context.Context) (profile.Profile, error)

	// SetCurrentProfile remembers p as the last used profile.
	SetCurrentProfile(ctx context.Context, p profile.Profile) error

	// Store exposes the underlying key/value store.
	Store() store.Store
}

// SaveDataset stores ds under name.
func (c *client) SaveDataset(ctx context.Context, name string, ds *dataset.BuiltDataset) error {
	return store.SaveDataset(ctx, c.store, name, ds)
}

// LoadDataset returns the dataset saved under name.
func (c *client) LoadDataset(ctx context.Context, name string) (*dataset.BuiltDataset, error) {
	return store.LoadDataset(ctx, c.store, name)
}

// DeleteDataset removes a saved dataset.
func (c *client) DeleteDataset(ctx context.Context, name string) error {
	return store.DeleteDataset(ctx, c.store, name)
}

// ListDatasets returns the saved dataset names.
func (c *client) ListDatasets(ctx context.Context) ([]string, error) {
	return store.ListDatasets(ctx, c.store)
}

// CurrentProfile returns the last used profile.
func (c *client) CurrentProfile(ctx context.Context) (profile.Profile, error) {
	return store.LoadCurrentProfile(ctx, c.store)
}

// SetCurrentProfile remembers p as the last used profile.
func (c *client) SetCurrentProfile(ctx context.Context, p profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return store.SaveCurrentProfile(ctx, c.store, p)
}

// Store exposes the underlying key/value store.
func (c *client) Store() store.Store {
	return c.store
}
