package blog

import (
	"sort"
	"strings"
)

// SortNewestFirst orders posts by CreatedAt descending, breaking ties by
// ID descending so the order is total.
func SortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}

// Published returns the posts visible on public routes.
func Published(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Published {
			out = append(out, p)
		}
	}
	return out
}

// FilterByCategory keeps posts whose category equals label exactly.
// An empty label or AllLabel returns posts unchanged.
func FilterByCategory(posts []Post, label string) []Post {
	if label == "" || label == AllLabel {
		return posts
	}
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Category == label {
			out = append(out, p)
		}
	}
	return out
}

// PublicListing is the published subset of posts in a category.
func PublicListing(posts []Post, label string) []Post {
	return FilterByCategory(Published(posts), label)
}

// SelectFeatured picks the hero post from posts ordered newest first:
// the first published featured post, else the first published post.
func SelectFeatured(posts []Post) (Post, bool) {
	for _, p := range posts {
		if p.Featured && p.Published {
			return p, true
		}
	}
	for _, p := range posts {
		if p.Published {
			return p, true
		}
	}
	return Post{}, false
}

// FindBySlug returns the post with the given slug.
func FindBySlug(posts []Post, slug string) (Post, bool) {
	for _, p := range posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}

// Group is one category bucket of the admin overview.
type Group struct {
	Category string
	Posts    []Post
}

// GroupByCategory partitions posts by category label. Groups appear in
// first-seen order and keep the relative order of their posts.
func GroupByCategory(posts []Post) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, p := range posts {
		label := strings.TrimSpace(p.Category)
		if label == "" {
			label = Uncategorized
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Category: label})
		}
		groups[i].Posts = append(groups[i].Posts, p)
	}
	return groups
}

// Related returns up to n other published posts sharing current's category.
func Related(current Post, posts []Post, n int) []Post {
	var out []Post
	for _, p := range posts {
		if len(out) >= n {
			break
		}
		if p.ID == current.ID || !p.Published || current.Category == "" {
			continue
		}
		if p.Category == current.Category {
			out = append(out, p)
		}
	}
	return out
}
