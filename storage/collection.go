package storage

import (
	"context"
	"sync"

	"github.com/eringen/udaxgui/blog"
)

// blob loads and saves the whole post collection as one unit.
type blob interface {
	load() ([]blog.Post, error)
	save(posts []blog.Post) error
}

// collection implements Adapter on top of a blob. Every mutation loads the
// full collection, edits it in memory and writes it back wholesale. The
// mutex only serializes writers inside this process; separate processes
// sharing the blob still race and the last write wins.
type collection struct {
	mu sync.Mutex
	b  blob
}

func (c *collection) List(ctx context.Context) ([]blog.Post, error) {
	posts, err := c.b.load()
	if err != nil {
		return nil, err
	}
	blog.SortNewestFirst(posts)
	return posts, nil
}

func (c *collection) GetBySlug(ctx context.Context, slug string) (blog.Post, error) {
	posts, err := c.List(ctx)
	if err != nil {
		return blog.Post{}, err
	}
	if p, ok := blog.FindBySlug(posts, slug); ok {
		return p, nil
	}
	return blog.Post{}, ErrNotFound
}

func (c *collection) GetByID(ctx context.Context, id string) (blog.Post, error) {
	posts, err := c.b.load()
	if err != nil {
		return blog.Post{}, err
	}
	if i := indexByID(posts, id); i >= 0 {
		return posts[i], nil
	}
	return blog.Post{}, ErrNotFound
}

func (c *collection) Create(ctx context.Context, in blog.PostInput) (blog.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	posts, err := c.b.load()
	if err != nil {
		return blog.Post{}, err
	}
	p, err := blog.NewPost(in, newID(), now(), slugTaken(posts, ""))
	if err != nil {
		return blog.Post{}, err
	}
	posts = append(posts, p)
	if err := c.b.save(posts); err != nil {
		return blog.Post{}, err
	}
	return p, nil
}

func (c *collection) Update(ctx context.Context, id string, patch blog.PostPatch) (blog.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	posts, err := c.b.load()
	if err != nil {
		return blog.Post{}, err
	}
	i := indexByID(posts, id)
	if i < 0 {
		return blog.Post{}, ErrNotFound
	}
	updated, err := posts[i].Apply(patch, now(), slugTaken(posts, id))
	if err != nil {
		return blog.Post{}, err
	}
	posts[i] = updated
	if err := c.b.save(posts); err != nil {
		return blog.Post{}, err
	}
	return updated, nil
}

func (c *collection) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	posts, err := c.b.load()
	if err != nil {
		return err
	}
	i := indexByID(posts, id)
	if i < 0 {
		return ErrNotFound
	}
	posts = append(posts[:i], posts[i+1:]...)
	return c.b.save(posts)
}

func (c *collection) ReplaceAll(ctx context.Context, posts []blog.Post) error {
	if err := validateAll(posts); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.b.save(prepareBulk(posts))
}

func indexByID(posts []blog.Post, id string) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// slugTaken reports slugs used by posts other than the one with selfID.
func slugTaken(posts []blog.Post, selfID string) func(string) bool {
	return func(slug string) bool {
		for _, p := range posts {
			if p.ID != selfID && p.Slug == slug {
				return true
			}
		}
		return false
	}
}
