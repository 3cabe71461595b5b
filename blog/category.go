package blog

import "strings"

// AllLabel is the category sentinel that disables filtering.
const AllLabel = "Бүгд"

// AllSlug is the URL form of AllLabel.
const AllSlug = "all"

// Uncategorized is the group label for posts without a category.
const Uncategorized = "Uncategorized"

// Category is a display label and its URL key.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Predefined returns the canonical category list in display order.
func Predefined() []Category {
	return []Category{
		{Name: "Advent", Slug: "advent"},
		{Name: "Үхэл ба амилал", Slug: "ukhel-ba-amilal"},
		{Name: "Сайн мэдээ", Slug: "sain-medee"},
		{Name: "Сургаалт зүйрлэлүүд", Slug: "surgaalt-zuirleluud"},
		{Name: "Мөнх үгийн ойлголт", Slug: "munkh-ugiin-oilgolt"},
		{Name: "Тамын тухай", Slug: "tamyn-tukhai"},
	}
}

// AggregateCategories merges the predefined list with every distinct
// category label found in posts. Predefined entries come first and are
// never dropped; observed labels follow in first-seen order.
func AggregateCategories(predefined []Category, posts []Post) []Category {
	out := make([]Category, 0, len(predefined))
	seen := make(map[string]struct{}, len(predefined))
	for _, c := range predefined {
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, c)
	}
	for _, p := range posts {
		name := strings.TrimSpace(p.Category)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, Category{Name: name, Slug: UniqueSlug(Slugify(name), slugTaken(out))})
	}
	return out
}

func slugTaken(cats []Category) func(string) bool {
	return func(s string) bool {
		for _, c := range cats {
			if c.Slug == s {
				return true
			}
		}
		return false
	}
}

// FindCategory resolves a URL segment against cats by slug, then by name.
func FindCategory(cats []Category, key string) (Category, bool) {
	if key == AllSlug || key == AllLabel {
		return Category{Name: AllLabel, Slug: AllSlug}, true
	}
	for _, c := range cats {
		if c.Slug == key {
			return c, true
		}
	}
	for _, c := range cats {
		if c.Name == key {
			return c, true
		}
	}
	return Category{}, false
}

// CategorySlug returns the slug of the named category within cats,
// or Slugify(name) when it is not listed.
func CategorySlug(cats []Category, name string) string {
	for _, c := range cats {
		if c.Name == name {
			return c.Slug
		}
	}
	return Slugify(name)
}
