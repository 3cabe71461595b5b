package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eringen/udaxgui/blog"
)

// Export file names inside the static data directory.
const (
	PostsFile      = "posts.json"
	CategoriesFile = "categories.json"
)

// DefaultExportDir is served under /public/, so only published posts go there.
const DefaultExportDir = "public/static-data"

// ErrExportOverwrite guards the file backend's own collection from being
// replaced by a published-only export.
var ErrExportOverwrite = errors.New("export would overwrite the source collection")

// Export writes the published posts (newest first) and the aggregated
// categories of src into dir as pretty-printed JSON. posts.json is readable
// by the file backend.
func Export(ctx context.Context, src Adapter, dir string) (nPosts, nCats int, err error) {
	target := filepath.Join(dir, PostsFile)
	if f, ok := src.(*JSONFile); ok && filepath.Clean(f.Path()) == filepath.Clean(target) {
		return 0, 0, ErrExportOverwrite
	}

	all, err := src.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list posts: %w", err)
	}
	published := blog.Published(all)
	if err := NewJSONFile(target).ReplaceAll(ctx, published); err != nil {
		return 0, 0, fmt.Errorf("write %s: %w", PostsFile, err)
	}

	cats := blog.AggregateCategories(blog.Predefined(), published)
	data, err := json.MarshalIndent(cats, "", "  ")
	if err != nil {
		return 0, 0, err
	}
	if err := os.WriteFile(filepath.Join(dir, CategoriesFile), data, 0o644); err != nil {
		return 0, 0, fmt.Errorf("write %s: %w", CategoriesFile, err)
	}
	return len(published), len(cats), nil
}
