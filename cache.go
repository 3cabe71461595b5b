package udaxgui

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/eringen/udaxgui/blog"
	"github.com/eringen/udaxgui/storage"
)

// PostCache holds one snapshot of the full post collection with a TTL.
// Public handlers take a single snapshot per request and derive every
// listing from it.
type PostCache struct {
	mu      sync.RWMutex
	posts   []blog.Post
	fetched time.Time
	ttl     time.Duration
	source  *storage.Posts
	logger  *slog.Logger
}

// NewPostCache creates a PostCache backed by p.
func NewPostCache(p *storage.Posts, ttl time.Duration, logger *slog.Logger) *PostCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PostCache{source: p, ttl: ttl, logger: logger}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// Snapshot returns every post, published or not, newest first. The
// returned slice is the caller's own copy. A storage failure yields an
// empty snapshot that is not cached.
func (c *PostCache) Snapshot(ctx context.Context) []blog.Post {
	c.mu.RLock()
	if c.valid() {
		posts := slices.Clone(c.posts)
		c.mu.RUnlock()
		return posts
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid() {
		posts, err := c.source.Adapter().List(ctx)
		if err != nil {
			c.logger.Warn("load post snapshot failed, serving empty collection", "error", err)
			return []blog.Post{}
		}
		c.posts = posts
		c.fetched = time.Now()
	}
	return slices.Clone(c.posts)
}
