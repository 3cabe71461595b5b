// Package blog holds the post data model and the pure logic built on it:
// slugs, category aggregation, filtering, grouping and featured selection.
// Nothing here touches storage or HTTP.
package blog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PlaceholderImage is served when a post has no image of its own.
const PlaceholderImage = "/public/placeholder.svg"

// Post is a single blog article.
type Post struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Excerpt         string    `json:"excerpt"`
	Content         string    `json:"content"`
	Category        string    `json:"category"`
	Image           string    `json:"image"`
	MetaDescription string    `json:"metaDescription"`
	Published       bool      `json:"published"`
	Featured        bool      `json:"featured"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UnmarshalJSON decodes a post, treating a missing "published" key as true.
// Older exports only ever wrote the key for drafts.
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	aux := struct {
		*plain
		Published *bool `json:"published"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Published = aux.Published == nil || *aux.Published
	return nil
}

// ImageURL returns the post image or the placeholder.
func (p Post) ImageURL() string {
	if strings.TrimSpace(p.Image) == "" {
		return PlaceholderImage
	}
	return p.Image
}

// Description returns the meta description, falling back to the excerpt.
func (p Post) Description() string {
	if p.MetaDescription != "" {
		return p.MetaDescription
	}
	return p.Excerpt
}

// Link is the public path of the post.
func (p Post) Link() string {
	return "/post/" + p.Slug + "/"
}

// PostInput carries the fields accepted when creating a post.
// Nil toggles take their defaults (published, not featured).
type PostInput struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Excerpt         string `json:"excerpt"`
	Content         string `json:"content"`
	Category        string `json:"category"`
	Image           string `json:"image"`
	MetaDescription string `json:"metaDescription"`
	Published       *bool  `json:"published"`
	Featured        *bool  `json:"featured"`
}

// PostPatch is a partial update. Only non-nil fields are applied.
type PostPatch struct {
	Title           *string `json:"title"`
	Slug            *string `json:"slug"`
	Excerpt         *string `json:"excerpt"`
	Content         *string `json:"content"`
	Category        *string `json:"category"`
	Image           *string `json:"image"`
	MetaDescription *string `json:"metaDescription"`
	Published       *bool   `json:"published"`
	Featured        *bool   `json:"featured"`
}

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validate checks the required fields of a complete post.
func (p Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(p.Content) == "" {
		return &ValidationError{Field: "content", Message: "content is required"}
	}
	return nil
}

// NewPost builds a post from input. The caller supplies the id, the
// creation time, and a predicate reporting slugs already in use.
func NewPost(in PostInput, id string, now time.Time, taken func(string) bool) (Post, error) {
	p := Post{
		ID:              id,
		Title:           strings.TrimSpace(in.Title),
		Excerpt:         in.Excerpt,
		Content:         in.Content,
		Category:        strings.TrimSpace(in.Category),
		Image:           strings.TrimSpace(in.Image),
		MetaDescription: in.MetaDescription,
		Published:       true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if p.MetaDescription == "" {
		p.MetaDescription = p.Excerpt
	}
	if err := p.Validate(); err != nil {
		return Post{}, err
	}
	base := Slugify(in.Slug)
	if base == "" {
		base = Slugify(p.Title)
	}
	p.Slug = UniqueSlug(base, taken)
	return p, nil
}

// Apply merges the patch into p and refreshes UpdatedAt. A new title
// without an explicit slug re-derives the slug. taken must ignore p's
// own current slug.
func (p Post) Apply(patch PostPatch, now time.Time, taken func(string) bool) (Post, error) {
	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Category != nil {
		p.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Image != nil {
		p.Image = strings.TrimSpace(*patch.Image)
	}
	if patch.MetaDescription != nil {
		p.MetaDescription = *patch.MetaDescription
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if err := p.Validate(); err != nil {
		return Post{}, err
	}
	switch {
	case patch.Slug != nil && Slugify(*patch.Slug) != "":
		p.Slug = UniqueSlug(Slugify(*patch.Slug), taken)
	case patch.Title != nil:
		p.Slug = UniqueSlug(Slugify(p.Title), taken)
	}
	p.UpdatedAt = now
	return p, nil
}

// Bool returns a pointer to v, for building inputs and patches.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
