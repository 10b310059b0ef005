// Package tokenstore persists the last known identity token and user
// identity across CLI invocations.
package tokenstore

import (
	"fmt"
	"sync"
)

// Credential keys. Together they form the persisted credential.
const (
	KeyToken    = "token"
	KeyUsername = "username"
	KeyFullName = "fullName"
	KeyIsAuth   = "isAuth"
)

// Keys lists every credential key in the order they are written
var Keys = []string{KeyToken, KeyUsername, KeyFullName, KeyIsAuth}

// Store is a persistent key-value store.
// Get reports whether the key was present. Removing an absent key is not an error.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Clear removes every credential key from s. It attempts all keys and
// returns the first error encountered.
func Clear(s Store) error {
	var firstErr error
	for _, key := range Keys {
		if err := s.Remove(key); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	return firstErr
}

// Memory is an in-process Store, useful for tests
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
