package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is a process-local Store. Values never expire.
type Memory struct {
	items *gocache.Cache
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: gocache.New(gocache.NoExpiration, 0)}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (json.RawMessage, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, notFound(key)
	}
	return clone(v.(json.RawMessage)), nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key string, value json.RawMessage) error {
	if err := validKey(key); err != nil {
		return err
	}
	m.items.Set(key, clone(value), gocache.NoExpiration)
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

// Keys implements Store.
func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	keys := []string{}
	for key := range m.items.Items() {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.items.Flush()
	return nil
}

func clone(b json.RawMessage) json.RawMessage {
	return append(json.RawMessage(nil), b...)
}
