// Package views holds the default templ components for the public site
// and the admin panel. The .templ sources sit beside their generated
// _templ.go files; run `templ generate` after editing them.
package views

import (
	"github.com/eringen/udaxgui/blog"
	"github.com/eringen/udaxgui/media"
)

// Site holds site-wide settings. Every page carries it so nothing is
// hardcoded in templates.
type Site struct {
	Name        string
	URL         string
	Description string
}

// Page is the common head data of every page.
type Page struct {
	Site        Site
	Title       string
	Description string
}

// HomePage is the landing page: a hero post above the article list.
type HomePage struct {
	Page
	Featured    blog.Post
	HasFeatured bool
	Posts       []blog.Post
	Categories  []blog.Category
	Active      string // active category label, blog.AllLabel for none
}

// ListPage backs the article index and the per-category pages.
type ListPage struct {
	Page
	Heading    string
	Posts      []blog.Post
	Categories []blog.Category
	Active     string
}

// PostPage is a single article with its related posts.
type PostPage struct {
	Page
	Post         blog.Post
	CategorySlug string
	Related      []blog.Post
}

// AdminPage is the dashboard listing every post grouped by category.
type AdminPage struct {
	Page
	Groups         []blog.Group
	Categories     []blog.Category
	Active         string
	Message        string
	CSRF           string
	Total          int
	PublishedCount int
	FeaturedCount  int
}

// FormPage is the create/edit form.
type FormPage struct {
	Page
	Post       blog.Post
	IsNew      bool
	Categories []blog.Category
	Images     []media.Image
	Error      string
	CSRF       string
}

// ImagesPage lists uploads and offers the upload form.
type ImagesPage struct {
	Page
	Images  []media.Image
	Message string
	MaxSize string
	CSRF    string
}
