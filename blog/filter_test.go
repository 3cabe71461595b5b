package blog

import (
	"testing"
	"time"
)

func postAt(id string, day int, category string, published, featured bool) Post {
	return Post{
		ID:        id,
		Title:     id,
		Slug:      id,
		Content:   "c",
		Category:  category,
		Published: published,
		Featured:  featured,
		CreatedAt: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

func ids(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func equalIDs(t *testing.T, name string, got []Post, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("%s = %v, want %v", name, g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("%s = %v, want %v", name, g, want)
		}
	}
}

func TestSortNewestFirst(t *testing.T) {
	posts := []Post{postAt("a", 1, "", true, false), postAt("c", 3, "", true, false), postAt("b", 2, "", true, false), postAt("d", 3, "", true, false)}
	SortNewestFirst(posts)
	equalIDs(t, "SortNewestFirst", posts, "d", "c", "b", "a")
}

func TestPublicListingNeverShowsDrafts(t *testing.T) {
	posts := []Post{
		postAt("p1", 3, "X", true, false),
		postAt("d1", 2, "X", false, false),
		postAt("p2", 1, "Y", true, false),
	}
	for _, label := range []string{"", AllLabel, "X", "Y", "Z"} {
		for _, p := range PublicListing(posts, label) {
			if !p.Published {
				t.Errorf("PublicListing(%q) returned draft %s", label, p.ID)
			}
		}
	}
	equalIDs(t, "PublicListing(X)", PublicListing(posts, "X"), "p1")
	equalIDs(t, "PublicListing(all)", PublicListing(posts, AllLabel), "p1", "p2")
}

func TestFilterByCategoryIsCaseSensitive(t *testing.T) {
	posts := []Post{postAt("a", 1, "Advent", true, false), postAt("b", 2, "advent", true, false)}
	equalIDs(t, "FilterByCategory", FilterByCategory(posts, "Advent"), "a")
}

func TestSelectFeatured(t *testing.T) {
	tests := []struct {
		name  string
		posts []Post
		want  string
		ok    bool
	}{
		{
			name:  "unpublished featured falls through",
			posts: []Post{postAt("first", 2, "", false, true), postAt("second", 1, "", true, false)},
			want:  "second",
			ok:    true,
		},
		{
			name:  "first featured wins",
			posts: []Post{postAt("plain", 3, "", true, false), postAt("f1", 2, "", true, true), postAt("f2", 1, "", true, true)},
			want:  "f1",
			ok:    true,
		},
		{
			name:  "only drafts",
			posts: []Post{postAt("draft", 1, "", false, true)},
			ok:    false,
		},
		{
			name: "empty",
			ok:   false,
		},
	}
	for _, tt := range tests {
		got, ok := SelectFeatured(tt.posts)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && got.ID != tt.want {
			t.Errorf("%s: SelectFeatured = %q, want %q", tt.name, got.ID, tt.want)
		}
	}
}

func TestGroupByCategory(t *testing.T) {
	posts := []Post{
		postAt("1", 5, "B", true, false),
		postAt("2", 4, "", true, false),
		postAt("3", 3, "A", false, false),
		postAt("4", 2, "B", true, false),
		postAt("5", 1, "  ", true, false),
	}
	groups := GroupByCategory(posts)
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}
	wantLabels := []string{"B", Uncategorized, "A"}
	for i, label := range wantLabels {
		if groups[i].Category != label {
			t.Errorf("groups[%d].Category = %q, want %q", i, groups[i].Category, label)
		}
	}
	equalIDs(t, "group B", groups[0].Posts, "1", "4")
	equalIDs(t, "group Uncategorized", groups[1].Posts, "2", "5")
}

func TestRelated(t *testing.T) {
	posts := []Post{
		postAt("cur", 5, "A", true, false),
		postAt("r1", 4, "A", true, false),
		postAt("draft", 3, "A", false, false),
		postAt("other", 2, "B", true, false),
		postAt("r2", 1, "A", true, false),
	}
	equalIDs(t, "Related", Related(posts[0], posts, 5), "r1", "r2")
	equalIDs(t, "Related limited", Related(posts[0], posts, 1), "r1")
}
