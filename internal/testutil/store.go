package testutil

import (
	"context"
	"sync"

	"github.com/dtroode/outagetracker/internal/model"
)

var _ model.KeyValueBackend = (*MemoryBackend)(nil)

// MemoryBackend is an in-memory KeyValueBackend with injectable failures.
// With HonorContext set it fails on done contexts like a networked backend.
type MemoryBackend struct {
	mu           sync.Mutex
	values       map[string]string
	GetErr       error
	SetErr       error
	DeleteErr    error
	HonorContext bool
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: map[string]string{}}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ctxErr(ctx); err != nil {
		return "", err
	}
	if m.GetErr != nil {
		return "", m.GetErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", model.ErrNotFound
	}
	return v, nil
}

func (m *MemoryBackend) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ctxErr(ctx); err != nil {
		return err
	}
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ctxErr(ctx); err != nil {
		return err
	}
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.values, key)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }

func (m *MemoryBackend) ctxErr(ctx context.Context) error {
	if !m.HonorContext {
		return nil
	}
	return ctx.Err()
}

// Has reports whether key is present.
func (m *MemoryBackend) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}

// Raw returns the stored value for key without failure injection.
func (m *MemoryBackend) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}
