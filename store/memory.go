package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Client used by tests. Values are normalized
// through JSON so reads behave like the wire round-trip of the real store.
// FailPaths forces errors for paths with the given prefix, simulating an
// unreachable or denied collection.
type Memory struct {
	mu        sync.Mutex
	root      map[string]interface{}
	FailPaths map[string]error
}

func NewMemory() *Memory {
	return &Memory{root: map[string]interface{}{}}
}

func (m *Memory) Fail(pathPrefix string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPaths == nil {
		m.FailPaths = map[string]error{}
	}
	m.FailPaths[pathPrefix] = err
}

func (m *Memory) failFor(path string) error {
	for prefix, err := range m.FailPaths {
		if strings.HasPrefix(path, prefix) {
			return err
		}
	}
	return nil
}

func (m *Memory) ReadOnce(ctx context.Context, path string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor(path); err != nil {
		return err
	}
	v, ok := m.lookup(path)
	if !ok {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}

func (m *Memory) Push(ctx context.Context, path string, record interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor(path); err != nil {
		return "", err
	}
	key := strings.ReplaceAll(uuid.New().String(), "-", "")[:20]
	m.set(path+"/"+key, normalize(record))
	return key, nil
}

func (m *Memory) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor(path); err != nil {
		return err
	}
	for k, v := range fields {
		m.set(path+"/"+k, normalize(v))
	}
	return nil
}

func (m *Memory) Set(ctx context.Context, path string, record interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor(path); err != nil {
		return err
	}
	m.set(path, normalize(record))
	return nil
}

func (m *Memory) Remove(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor(path); err != nil {
		return err
	}
	segs := split(path)
	parent, ok := m.walk(segs[:len(segs)-1])
	if ok {
		delete(parent, segs[len(segs)-1])
	}
	return nil
}

func (m *Memory) lookup(path string) (interface{}, bool) {
	segs := split(path)
	node := interface{}(m.root)
	for _, s := range segs {
		obj, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = obj[s]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func (m *Memory) set(path string, value interface{}) {
	segs := split(path)
	parent := m.root
	for _, s := range segs[:len(segs)-1] {
		child, ok := parent[s].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			parent[s] = child
		}
		parent = child
	}
	parent[segs[len(segs)-1]] = value
}

func (m *Memory) walk(segs []string) (map[string]interface{}, bool) {
	parent := m.root
	for _, s := range segs {
		child, ok := parent[s].(map[string]interface{})
		if !ok {
			return nil, false
		}
		parent = child
	}
	return parent, true
}

func split(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

func normalize(v interface{}) interface{} {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}
