// Package storage persists blog posts. Every backend implements Adapter;
// Open picks one by name at startup.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/udaxgui/blog"
)

var (
	// ErrNotFound is returned when no post matches the id or slug.
	ErrNotFound = errors.New("post not found")
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Adapter is the persistence contract shared by all backends.
type Adapter interface {
	// List returns every post, newest first.
	List(ctx context.Context) ([]blog.Post, error)
	// GetBySlug returns the post with slug, published or not.
	GetBySlug(ctx context.Context, slug string) (blog.Post, error)
	// GetByID returns the post with id.
	GetByID(ctx context.Context, id string) (blog.Post, error)
	// Create validates in, assigns id, timestamps and slug, and stores it.
	Create(ctx context.Context, in blog.PostInput) (blog.Post, error)
	// Update merges patch into the post with id.
	Update(ctx context.Context, id string, patch blog.PostPatch) (blog.Post, error)
	// Delete removes the post with id.
	Delete(ctx context.Context, id string) error
	// ReplaceAll overwrites the whole collection.
	ReplaceAll(ctx context.Context, posts []blog.Post) error
	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendGorm   = "gorm"
)

// Config selects and locates a backend.
type Config struct {
	Backend      string // file, memory, sqlite or gorm
	DataFile     string // JSON collection path for the file backend
	DatabasePath string // SQLite path for the sqlite and gorm backends
}

// Open returns the backend named by cfg.Backend.
func Open(cfg Config) (Adapter, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewJSONFile(cfg.DataFile), nil
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		return NewSQLite(cfg.DatabasePath)
	case BackendGorm:
		return NewGorm(cfg.DatabasePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func now() time.Time {
	return time.Now().UTC()
}

// validateAll checks every post of a bulk write before anything is stored.
func validateAll(posts []blog.Post) error {
	for i, p := range posts {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("post %d: %w", i, err)
		}
	}
	return nil
}

// prepareBulk fills ids and timestamps missing from a bulk payload and
// gives every post a unique slug, the same way Create does: the given slug
// or the title is slugified, an empty base becomes "post", and later
// duplicates in the batch get numeric suffixes.
func prepareBulk(posts []blog.Post) []blog.Post {
	out := make([]blog.Post, len(posts))
	t := now()
	assigned := make(map[string]bool, len(posts))
	taken := func(slug string) bool { return assigned[slug] }
	for i, p := range posts {
		if p.ID == "" {
			p.ID = newID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = t
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
		base := blog.Slugify(p.Slug)
		if base == "" {
			base = blog.Slugify(p.Title)
		}
		p.Slug = blog.UniqueSlug(base, taken)
		assigned[p.Slug] = true
		out[i] = p
	}
	return out
}
