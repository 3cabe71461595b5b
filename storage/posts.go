package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eringen/udaxgui/blog"
)

// Posts wraps an Adapter with the read-soft-fail policy: a failing read
// is logged and degrades to an empty result, while writes return their
// errors untouched.
type Posts struct {
	adapter Adapter
	logger  *slog.Logger
}

// NewPosts wraps a. A nil logger discards output.
func NewPosts(a Adapter, logger *slog.Logger) *Posts {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Posts{adapter: a, logger: logger}
}

// Adapter returns the wrapped backend.
func (p *Posts) Adapter() Adapter { return p.adapter }

// List returns every post newest first, or an empty slice if storage fails.
func (p *Posts) List(ctx context.Context) []blog.Post {
	posts, err := p.adapter.List(ctx)
	if err != nil {
		p.logger.Warn("list posts failed, serving empty collection", "error", err)
		return []blog.Post{}
	}
	return posts
}

// Published returns the published posts newest first.
func (p *Posts) Published(ctx context.Context) []blog.Post {
	return blog.Published(p.List(ctx))
}

// GetBySlug returns the published post with slug. Drafts, missing posts
// and storage failures all report ErrNotFound.
func (p *Posts) GetBySlug(ctx context.Context, slug string) (blog.Post, error) {
	post, err := p.adapter.GetBySlug(ctx, slug)
	if err != nil {
		p.logRead("get post by slug", slug, err)
		return blog.Post{}, ErrNotFound
	}
	if !post.Published {
		return blog.Post{}, ErrNotFound
	}
	return post, nil
}

// GetByID returns the post with id, published or not.
func (p *Posts) GetByID(ctx context.Context, id string) (blog.Post, error) {
	post, err := p.adapter.GetByID(ctx, id)
	if err != nil {
		p.logRead("get post by id", id, err)
		return blog.Post{}, ErrNotFound
	}
	return post, nil
}

func (p *Posts) logRead(op, key string, err error) {
	if errors.Is(err, ErrNotFound) {
		return
	}
	p.logger.Warn(op+" failed", "key", key, "error", err)
}

// Create stores a new post.
func (p *Posts) Create(ctx context.Context, in blog.PostInput) (blog.Post, error) {
	post, err := p.adapter.Create(ctx, in)
	if err != nil {
		return blog.Post{}, err
	}
	p.logger.Info("post created", "id", post.ID, "slug", post.Slug)
	return post, nil
}

// Update applies patch to the post with id.
func (p *Posts) Update(ctx context.Context, id string, patch blog.PostPatch) (blog.Post, error) {
	post, err := p.adapter.Update(ctx, id, patch)
	if err != nil {
		return blog.Post{}, err
	}
	p.logger.Info("post updated", "id", post.ID, "slug", post.Slug)
	return post, nil
}

// Delete removes the post with id.
func (p *Posts) Delete(ctx context.Context, id string) error {
	if err := p.adapter.Delete(ctx, id); err != nil {
		return err
	}
	p.logger.Info("post deleted", "id", id)
	return nil
}

// ReplaceAll overwrites the collection.
func (p *Posts) ReplaceAll(ctx context.Context, posts []blog.Post) error {
	if err := p.adapter.ReplaceAll(ctx, posts); err != nil {
		return err
	}
	p.logger.Info("collection replaced", "count", len(posts))
	return nil
}

// Categories returns the predefined categories merged with those in use.
func (p *Posts) Categories(ctx context.Context) []blog.Category {
	return blog.AggregateCategories(blog.Predefined(), p.List(ctx))
}

// Close closes the backend.
func (p *Posts) Close() error {
	return p.adapter.Close()
}
