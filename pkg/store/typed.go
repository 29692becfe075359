package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/agentstation/apirunner/pkg/constants"
	"github.com/agentstation/apirunner/pkg/dataset"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/profile"
)

// DatasetKey returns the store key of a named dataset.
func DatasetKey(name string) string {
	return constants.DatasetKeyPrefix + name
}

// SaveDataset stores ds under name.
func SaveDataset(ctx context.Context, s Store, name string, ds *dataset.BuiltDataset) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewValidationError("name", name, "dataset name is required")
	}
	return setJSON(ctx, s, DatasetKey(name), ds)
}

// LoadDataset returns the dataset saved under name.
func LoadDataset(ctx context.Context, s Store, name string) (*dataset.BuiltDataset, error) {
	var ds dataset.BuiltDataset
	if err := getJSON(ctx, s, DatasetKey(name), &ds); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("dataset", name)
		}
		return nil, err
	}
	return &ds, nil
}

// DeleteDataset removes the dataset saved under name.
func DeleteDataset(ctx context.Context, s Store, name string) error {
	return s.Delete(ctx, DatasetKey(name))
}

// ListDatasets returns the names of all saved datasets in sorted order.
func ListDatasets(ctx context.Context, s Store) ([]string, error) {
	keys, err := s.Keys(ctx, constants.DatasetKeyPrefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = strings.TrimPrefix(key, constants.DatasetKeyPrefix)
	}
	return names, nil
}

// SaveCurrentProfile remembers p as the last used profile.
func SaveCurrentProfile(ctx context.Context, s Store, p profile.Profile) error {
	return setJSON(ctx, s, constants.CurrentProfileKey, p)
}

// LoadCurrentProfile returns the last used profile.
func LoadCurrentProfile(ctx context.Context, s Store) (profile.Profile, error) {
	var p profile.Profile
	if err := getJSON(ctx, s, constants.CurrentProfileKey, &p); err != nil {
		if errors.IsNotFound(err) {
			return profile.Profile{}, errors.NewNotFoundError("profile", "current")
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func setJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.WrapValidation(key, err)
	}
	return s.Set(ctx, key, data)
}

func getJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.WrapParse("json", key, err)
	}
	return nil
}
