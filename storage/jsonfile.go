package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/eringen/udaxgui/blog"
)

// DefaultDataFile is the file backend's collection. It holds drafts, so it
// lives outside the served public tree, next to DefaultDatabasePath.
const DefaultDataFile = "data/posts.json"

// JSONFile stores the collection as one pretty-printed JSON array.
type JSONFile struct {
	collection
	path string
}

// NewJSONFile returns a file backend at path. The file is created on the
// first write; a missing file reads as an empty collection.
func NewJSONFile(path string) *JSONFile {
	if path == "" {
		path = DefaultDataFile
	}
	f := &JSONFile{path: path}
	f.collection.b = f
	return f
}

// Path returns the collection file location.
func (f *JSONFile) Path() string { return f.path }

func (f *JSONFile) load() ([]blog.Post, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []blog.Post{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	var posts []blog.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if posts == nil {
		posts = []blog.Post{}
	}
	return posts, nil
}

func (f *JSONFile) save(posts []blog.Post) error {
	if posts == nil {
		posts = []blog.Post{}
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, f.path)
}

// Close is a no-op for the file backend.
func (f *JSONFile) Close() error { return nil }
