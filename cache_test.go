package udaxgui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eringen/udaxgui/blog"
	"github.com/eringen/udaxgui/storage"
)

type countingAdapter struct {
	storage.Adapter
	lists int
	fail  bool
}

func (c *countingAdapter) List(ctx context.Context) ([]blog.Post, error) {
	c.lists++
	if c.fail {
		return nil, errors.New("disk on fire")
	}
	return c.Adapter.List(ctx)
}

func TestPostCacheServesSnapshotUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	ad := &countingAdapter{Adapter: storage.NewMemory()}
	posts := storage.NewPosts(ad, nil)
	cache := NewPostCache(posts, time.Minute, nil)

	if _, err := posts.Create(ctx, blog.PostInput{Title: "One", Content: "c"}); err != nil {
		t.Fatal(err)
	}
	if got := cache.Snapshot(ctx); len(got) != 1 {
		t.Fatalf("Snapshot = %d posts, want 1", len(got))
	}

	posts.Create(ctx, blog.PostInput{Title: "Two", Content: "c"})
	if got := cache.Snapshot(ctx); len(got) != 1 {
		t.Errorf("Snapshot before Invalidate = %d posts, want cached 1", len(got))
	}
	if ad.lists != 1 {
		t.Errorf("storage listed %d times, want 1", ad.lists)
	}

	cache.Invalidate()
	if got := cache.Snapshot(ctx); len(got) != 2 {
		t.Errorf("Snapshot after Invalidate = %d posts, want 2", len(got))
	}
}

func TestPostCacheReturnsCopies(t *testing.T) {
	ctx := context.Background()
	posts := storage.NewPosts(storage.NewMemory(), nil)
	posts.Create(ctx, blog.PostInput{Title: "Original", Content: "c"})
	cache := NewPostCache(posts, time.Minute, nil)

	first := cache.Snapshot(ctx)
	first[0].Title = "mutated"
	if got := cache.Snapshot(ctx); got[0].Title != "Original" {
		t.Errorf("cached post title = %q, want Original", got[0].Title)
	}
}

func TestPostCacheDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	ad := &countingAdapter{Adapter: storage.NewMemory(), fail: true}
	cache := NewPostCache(storage.NewPosts(ad, nil), time.Minute, nil)

	if got := cache.Snapshot(ctx); len(got) != 0 {
		t.Fatalf("failed Snapshot = %d posts, want 0", len(got))
	}
	ad.fail = false
	ad.Adapter.Create(ctx, blog.PostInput{Title: "Back", Content: "c"})
	if got := cache.Snapshot(ctx); len(got) != 1 {
		t.Errorf("Snapshot after recovery = %d posts, want 1", len(got))
	}
	if ad.lists != 2 {
		t.Errorf("storage listed %d times, want 2", ad.lists)
	}
}
