package visibility

import (
	"sync"
)

// Storage is a raw key-value medium. Get reports whether the key exists.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type MemoryStorage struct {
	mutex  sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: map[string]string{},
	}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mutex.Lock()
	m.values[key] = value
	m.mutex.Unlock()
	return nil
}
