// Package seed holds the default posts a fresh site starts with.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eringen/udaxgui/blog"
	"github.com/eringen/udaxgui/storage"
)

//go:embed posts.json
var postsJSON []byte

// Posts returns the default posts.
func Posts() ([]blog.PostInput, error) {
	var posts []blog.PostInput
	if err := json.Unmarshal(postsJSON, &posts); err != nil {
		return nil, fmt.Errorf("decode seed posts: %w", err)
	}
	return posts, nil
}

// Run creates every default post whose slug is not stored yet and
// reports how many were created.
func Run(ctx context.Context, a storage.Adapter, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	posts, err := Posts()
	if err != nil {
		return 0, err
	}
	created := 0
	for _, in := range posts {
		slug := blog.Slugify(in.Slug)
		if slug == "" {
			slug = blog.Slugify(in.Title)
		}
		_, err := a.GetBySlug(ctx, slug)
		if err == nil {
			logger.Info("seed post exists, skipping", "slug", slug)
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return created, fmt.Errorf("lookup %s: %w", slug, err)
		}
		p, err := a.Create(ctx, in)
		if err != nil {
			return created, fmt.Errorf("create %s: %w", slug, err)
		}
		logger.Info("seed post created", "id", p.ID, "slug", p.Slug)
		created++
	}
	return created, nil
}
