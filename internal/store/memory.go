package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It uses a map guarded by an RWMutex and is suitable for development,
// tests, and single-instance deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	flags  map[string]Flag
	nextID int64
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		flags:  make(map[string]Flag),
		nextID: 1,
	}
}

// List retrieves all flags ordered by key.
func (m *MemoryStore) List(ctx context.Context) ([]Flag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Flag, 0, len(m.flags))
	for _, flag := range m.flags {
		result = append(result, flag.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

// Get retrieves a single flag by key.
func (m *MemoryStore) Get(ctx context.Context, key string) (*Flag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	flag, exists := m.flags[key]
	if !exists {
		return nil, ErrNotFound
	}
	out := flag.Clone()
	return &out, nil
}

// Create inserts a new flag.
func (m *MemoryStore) Create(ctx context.Context, params CreateParams) (*Flag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.flags[params.Key]; exists {
		return nil, ErrExists
	}

	flag := Flag{
		ID:        m.nextID,
		Key:       params.Key,
		Enabled:   params.Enabled,
		Rollout:   cloneRollout(params.Rollout),
		Variants:  cloneVariants(params.Variants),
		UpdatedAt: now(),
	}
	m.nextID++
	m.flags[params.Key] = flag

	out := flag.Clone()
	return &out, nil
}

// Update applies a partial update to an existing flag.
func (m *MemoryStore) Update(ctx context.Context, key string, params UpdateParams) (*Flag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	flag, exists := m.flags[key]
	if !exists {
		return nil, ErrNotFound
	}

	if params.Enabled != nil {
		flag.Enabled = *params.Enabled
	}
	if params.Rollout != nil {
		flag.Rollout = cloneRollout(params.Rollout)
	}
	if params.Variants != nil {
		flag.Variants = cloneVariants(params.Variants)
	}
	flag.UpdatedAt = now()
	m.flags[key] = flag

	out := flag.Clone()
	return &out, nil
}

// Delete removes a flag by key.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.flags[key]; !exists {
		return ErrNotFound
	}
	delete(m.flags, key)
	return nil
}

// Close is a no-op for MemoryStore.
func (m *MemoryStore) Close() error {
	return nil
}
