package blobstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// memoryBackend keeps objects in a map. Failures can be injected per operation.
type memoryBackend struct {
	mu      sync.RWMutex
	objects map[string][]byte
	fail    map[string]error
}

func (m *memoryBackend) injected(op string) error {
	return m.fail[op]
}

func (m *memoryBackend) put(ctx context.Context, key string, content []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("put"); err != nil {
		return err
	}
	m.objects[key] = append([]byte(nil), content...)
	return nil
}

func (m *memoryBackend) get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.injected("get"); err != nil {
		return nil, err
	}
	b, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return append([]byte(nil), b...), nil
}

func (m *memoryBackend) remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("remove"); err != nil {
		return err
	}
	delete(m.objects, key)
	return nil
}

func (m *memoryBackend) list(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (m *memoryBackend) presign(ctx context.Context, key string) (string, error) {
	return "memory://" + key, nil
}

// MemoryStore is an in-process Store for tests and local runs.
type MemoryStore struct {
	*ObjectStore
	mem *memoryBackend
}

func NewMemoryStore(renderer Renderer, logger *zap.SugaredLogger) *MemoryStore {
	mem := &memoryBackend{objects: map[string][]byte{}, fail: map[string]error{}}
	return &MemoryStore{ObjectStore: newObjectStore(mem, renderer, "", logger), mem: mem}
}

// FailOn makes every later call of op ("put", "get" or "remove") return err. A nil err clears it.
func (m *MemoryStore) FailOn(op string, err error) {
	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	if err == nil {
		delete(m.mem.fail, op)
		return
	}
	m.mem.fail[op] = err
}

// Put stores raw content under id, bypassing folders. Useful to seed templates.
func (m *MemoryStore) Put(id string, content []byte) {
	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	m.mem.objects[id] = append([]byte(nil), content...)
}

func (m *MemoryStore) Exists(id string) bool {
	m.mem.mu.RLock()
	defer m.mem.mu.RUnlock()
	_, ok := m.mem.objects[id]
	return ok
}

// Count returns the number of stored objects, folder markers excluded.
func (m *MemoryStore) Count() int {
	m.mem.mu.RLock()
	defer m.mem.mu.RUnlock()
	n := 0
	for k := range m.mem.objects {
		if !strings.HasSuffix(k, "/"+folderMarker) {
			n++
		}
	}
	return n
}
