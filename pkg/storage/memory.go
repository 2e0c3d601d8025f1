package storage

import (
	"context"
	"sort"
	"sync"
)

// MockStorage is an in memory Storage used by tests and by the "memory" backend.
type MockStorage struct {
	lock     sync.RWMutex
	data     map[string][]byte
	failures map[string]error
}

// NewMockStorage returns an empty in memory store.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		data:     make(map[string][]byte),
		failures: make(map[string]error),
	}
}

// FailWrites makes every following write to key return err. A nil err clears it.
func (m *MockStorage) FailWrites(key string, err error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if err == nil {
		delete(m.failures, key)
		return
	}
	m.failures[key] = err
}

func (m *MockStorage) Write(ctx context.Context, key string, body []byte, options *Options) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if err, exists := m.failures[key]; exists {
		return err
	}

	c := make([]byte, len(body))
	copy(c, body)
	m.data[key] = c
	return nil
}

func (m *MockStorage) Read(ctx context.Context, key string) ([]byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	b, exists := m.data[key]
	if !exists {
		return nil, ErrNotFound
	}

	c := make([]byte, len(b))
	copy(c, b)
	return c, nil
}

func (m *MockStorage) Remove(ctx context.Context, key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, exists := m.data[key]; !exists {
		return ErrNotFound
	}
	delete(m.data, key)
	return nil
}

func (m *MockStorage) Search(ctx context.Context, query map[string]string) ([][]byte, error) {
	keys, err := m.List(ctx, query["path"])
	if err != nil {
		return nil, err
	}

	result := make([][]byte, 0, len(keys))
	for _, key := range keys {
		b, err := m.Read(ctx, key)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, nil
}

func (m *MockStorage) List(ctx context.Context, path string) ([]string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	prefix := childPrefix(path)
	keys := []string{}
	for key := range m.data {
		if isDirectChild(prefix, key) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)
	return keys, nil
}

func (m *MockStorage) Clear(ctx context.Context, query map[string]string) error {
	keys, err := m.List(ctx, query["path"])
	if err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}
