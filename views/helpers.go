package views

import (
	"net/url"
	"time"

	"github.com/eringen/udaxgui/blog"
)

// FullTitle is the document title: "<page> | <site>", or the site name alone.
func (p Page) FullTitle() string {
	if p.Title == "" {
		return p.Site.Name
	}
	return p.Title + " | " + p.Site.Name
}

// MetaDescription falls back to the site description.
func (p Page) MetaDescription() string {
	if p.Description != "" {
		return p.Description
	}
	return p.Site.Description
}

// CategoryURL is the public path of a category page.
func CategoryURL(c blog.Category) string {
	if c.Slug == blog.AllSlug || c.Name == blog.AllLabel {
		return "/articles/"
	}
	return categoryLink(c.Slug)
}

func categoryLink(slug string) string {
	if slug == "" {
		return "/articles/"
	}
	return "/category/" + url.PathEscape(slug) + "/"
}

// FilterURL links a category pill to base filtered by c.
func FilterURL(base string, c blog.Category) string {
	if c.Name == blog.AllLabel {
		return base
	}
	return base + "?category=" + url.QueryEscape(c.Name)
}

// PillClass returns CSS classes for a category pill, with active variant.
func PillClass(active bool) string {
	base := "pill"
	if active {
		base += " pill-active"
	}
	return base
}

// FormatDate renders t the way post cards show it.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006.01.02")
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func adminPostURL(id string) string {
	return "/admin/post/" + url.PathEscape(id) + "/"
}

func adminImageURL(filename string) string {
	return "/admin/images/" + url.PathEscape(filename) + "/"
}

// withAll prefixes cats with the "all" sentinel for filter bars.
func withAll(cats []blog.Category) []blog.Category {
	out := make([]blog.Category, 0, len(cats)+1)
	out = append(out, blog.Category{Name: blog.AllLabel, Slug: blog.AllSlug})
	return append(out, cats...)
}
