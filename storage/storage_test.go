package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/udaxgui/blog"
)

type backendFactory func(t *testing.T) Adapter

func backends() map[string]backendFactory {
	return map[string]backendFactory{
		BackendFile: func(t *testing.T) Adapter {
			return NewJSONFile(filepath.Join(t.TempDir(), "static-data", "posts.json"))
		},
		BackendMemory: func(t *testing.T) Adapter {
			return NewMemory()
		},
		BackendSQLite: func(t *testing.T) Adapter {
			s, err := NewSQLite(filepath.Join(t.TempDir(), "blog.db"))
			if err != nil {
				t.Fatalf("NewSQLite failed: %v", err)
			}
			return s
		},
		BackendGorm: func(t *testing.T) Adapter {
			g, err := NewGorm(filepath.Join(t.TempDir(), "orm.db"))
			if err != nil {
				t.Fatalf("NewGorm failed: %v", err)
			}
			return g
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, a Adapter)) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			a := factory(t)
			defer a.Close()
			fn(t, a)
		})
	}
}

func mustCreate(t *testing.T, a Adapter, in blog.PostInput) blog.Post {
	t.Helper()
	p, err := a.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", in.Title, err)
	}
	return p
}

func TestCreateThenGetBySlug(t *testing.T) {
	forEachBackend(t, func(t *testing.T, a Adapter) {
		ctx := context.Background()
		created := mustCreate(t, a, blog.PostInput{
			Title:    "Паулын зарласан сайн мэдээ",
			Excerpt:  "Товч",
			Content:  "**Сайн** мэдээ",
			Category: "Сайн мэдээ",
			Image:    "/uploads/a.jpg",
			Featured: blog.Bool(true),
		})
		if created.ID == "" {
			t.Fatal("ID should be assigned")
		}
		if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
			t.Fatal("timestamps should be assigned")
		}

		got, err := a.GetBySlug(ctx, created.Slug)
		if err != nil {
			t.Fatalf("GetBySlug failed: %v", err)
		}
		got.CreatedAt, got.UpdatedAt = created.CreatedAt, created.UpdatedAt
		if got != created {
			t.Errorf("GetBySlug = %+v, want %+v", got, created)
		}

		byID, err := a.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if byID.Slug != created.Slug {
			t.Errorf("GetByID slug = %q, want %q", byID.Slug, created.Slug)
		}
	})
}

func TestCreateRejectsMissingFields(t *testing.T) {
	forEachBackend(t, func(t *testing.T, a Adapter) {
		ctx := context.Background()
		if _, err := a.Create(ctx, blog.PostInput{Title: "no content"}); !errors.Is(err, blog.ErrValidation) {
			t.Errorf("Create without content err = %v, want ErrValidation", err)
		}
		posts, err := a.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(posts) != 0 {
			t.Errorf("rejected create wrote %d posts", len(posts))
		}
	})
}

func TestListNewestFirst(t *testing.T) {
	forEachBackend(t, func(t *testing.T, a Adapter) {
		for _, title := range []string{"first", "second", "third"} {
			mustCreate(t, a, blog.PostInput{Title: title, Content: "c"})
			time.Sleep(2 * time.Millisecond)
		}
		posts, err := a.List(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(posts) != 3 {
			t.Fatalf("List count = %d, want 3", len(posts))
		}
		want := []string{"third", "second", "first"}
		for i, title := range want {
			if posts[i].Title != title {
				t.Errorf("List[%d] = %q, want %q", i, posts[i].Title, title)
			}
		}
	})
}

func TestDuplicateTitlesGetDistinctSlugs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, a Adapter) {
		p1 := mustCreate(t, a, blog.PostInput{Title: "Same Title", Content: "c"})
		p2 := mustCreate(t, a, blog.PostInput{Title: "Same Title", Content: "c"})
		if p1.Slug != "same-title" || p2.Slug != "same-title-2" {
			t.Errorf("slugs = %q, %q", p1.Slug, p2.Slug)
		}
	})
}

func TestUpdateMergesFields(t *testing.T) {
	forEachBackend(t, func(t *testing.T, a Adapter) {
		ctx := context.Background()
		orig := mustCreate(t, a, blog.PostInput{Title: "Original", Excerpt: "e", Content: "c", Category: "A"})
		time.Sleep(2 * time.Millisecond)

		updated, err := a.Update(ctx, orig.ID, blog.PostPatch{Published: blog.Bool(false)})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Published {
			t.Error("Published should be false after update")
		}
		if updated.Title != "Original" || updated.Excerpt != "e" || updated.Category != "A" {
			t.Errorf("untouched fields changed: %+v", updated)
		}
		if !updated.UpdatedAt.After(orig.UpdatedAt) {
			t.Errorf("UpdatedAt not refreshed: %v -> %v", orig.UpdatedAt, updated.UpdatedAt)
		}

		stored, err := a.GetByID(ctx, orig.ID)
		if err != nil {
			t.Fatal(err)
		}
		if stored.Published {
			t.Error("stored post should be unpublished")
		}
		if !stored.CreatedAt.Equal(orig.CreatedAt) {
			t.Errorf("CreatedAt changed: %v -> %v", orig.CreatedAt, stored.CreatedAt)
		}

		renamed, err := a.Update(ctx, orig.ID, blog.PostPatch{Title: blog.String("Renamed")})
		if err != nil {
			t.Fatal(err)
		}
		if renamed.Slug != "renamed" {
			t.Errorf("slug after rename = %q", renamed.Slug)
		}
		if _, err := a.GetBySlug(ctx, "original"); !errors.Is(err, ErrNotFound) {
			t.Errorf("old slug lookup err = %v, want ErrNotFound", err)
		}
	})
}

func TestUpdateMissing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, a Adapter) {
		_, err := a.Update(context.Background(), "missing", blog.PostPatch{Title: blog.String("x")})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Update(missing) err = %v, want ErrNotFound", err)
		}
	})
}

func TestDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, a Adapter) {
		ctx := context.Background()
		p := mustCreate(t, a, blog.PostInput{Title: "To Delete", Content: "c"})
		if err := a.Delete(ctx, p.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := a.GetByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByID after delete err = %v, want ErrNotFound", err)
		}
		if err := a.Delete(ctx, p.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("second Delete err = %v, want ErrNotFound", err)
		}
	})
}

func TestReplaceAll(t *testing.T) {
	forEachBackend(t, func(t *testing.T, a Adapter) {
		ctx := context.Background()
		mustCreate(t, a, blog.PostInput{Title: "Old", Content: "c"})

		base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		err := a.ReplaceAll(ctx, []blog.Post{
			{ID: "a", Title: "A", Slug: "a", Content: "c", Published: true, CreatedAt: base},
			{ID: "b", Title: "B", Content: "c", CreatedAt: base.Add(time.Hour)},
		})
		if err != nil {
			t.Fatalf("ReplaceAll failed: %v", err)
		}
		posts, err := a.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(posts) != 2 || posts[0].ID != "b" || posts[1].ID != "a" {
			t.Fatalf("List after ReplaceAll = %+v", posts)
		}
		if posts[0].Slug != "b" {
			t.Errorf("missing slug should be derived, got %q", posts[0].Slug)
		}

		err = a.ReplaceAll(ctx, []blog.Post{{ID: "c", Title: "C"}})
		if !errors.Is(err, blog.ErrValidation) {
			t.Errorf("ReplaceAll invalid err = %v, want ErrValidation", err)
		}
		posts, _ = a.List(ctx)
		if len(posts) != 2 {
			t.Errorf("invalid ReplaceAll changed the collection: %d posts", len(posts))
		}
	})
}

func TestReplaceAllAssignsUniqueSlugs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, a Adapter) {
		ctx := context.Background()
		base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		err := a.ReplaceAll(ctx, []blog.Post{
			{ID: "old", Title: "Same", Content: "c", Published: true, CreatedAt: base},
			{ID: "new", Title: "Same", Content: "c", CreatedAt: base.Add(time.Hour)},
			{ID: "bang", Title: "!!!", Content: "c", Published: true, CreatedAt: base.Add(2 * time.Hour)},
			{ID: "dup", Title: "Other", Slug: "same", Content: "c", CreatedAt: base.Add(3 * time.Hour)},
		})
		if err != nil {
			t.Fatalf("ReplaceAll failed: %v", err)
		}
		want := map[string]string{"old": "same", "new": "same-2", "bang": "post", "dup": "same-3"}
		for id, slug := range want {
			p, err := a.GetByID(ctx, id)
			if err != nil {
				t.Fatalf("GetByID(%s) failed: %v", id, err)
			}
			if p.Slug != slug {
				t.Errorf("post %s slug = %q, want %q", id, p.Slug, slug)
			}
		}
		got, err := a.GetBySlug(ctx, "same")
		if err != nil || got.ID != "old" {
			t.Errorf("GetBySlug(same) = %q, %v; want the first post in the batch", got.ID, err)
		}
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{BackendFile, BackendMemory, BackendSQLite, BackendGorm} {
		a, err := Open(Config{
			Backend:      name,
			DataFile:     filepath.Join(dir, "posts.json"),
			DatabasePath: filepath.Join(dir, name+".db"),
		})
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", name, err)
		}
		a.Close()
	}
	if _, err := Open(Config{Backend: "d1"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(d1) err = %v, want ErrUnknownBackend", err)
	}
}
