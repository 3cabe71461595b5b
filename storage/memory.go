package storage

import (
	"encoding/json"
	"sync"

	"github.com/eringen/udaxgui/blog"
)

// LocalStorageKey is the key the collection blob lives under.
const LocalStorageKey = "blog_posts"

// Memory keeps the collection as a serialized blob in a process-local
// key/value map, the same shape a browser's local storage holds. Data is
// lost on restart.
type Memory struct {
	collection
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemory returns an empty in-process backend.
func NewMemory() *Memory {
	m := &Memory{items: make(map[string][]byte)}
	m.collection.b = m
	return m
}

func (m *Memory) load() ([]blog.Post, error) {
	m.mu.RLock()
	raw, ok := m.items[LocalStorageKey]
	m.mu.RUnlock()
	if !ok {
		return []blog.Post{}, nil
	}
	var posts []blog.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		// A corrupt blob reads as empty, like a failed JSON.parse.
		return []blog.Post{}, nil
	}
	return posts, nil
}

func (m *Memory) save(posts []blog.Post) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.items[LocalStorageKey] = raw
	m.mu.Unlock()
	return nil
}

// Close is a no-op for the memory backend.
func (m *Memory) Close() error { return nil }
