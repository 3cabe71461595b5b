package blog

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewPostDefaults(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p, err := NewPost(PostInput{
		Title:   "  Сайн мэдээ ",
		Excerpt: "short",
		Content: "# body",
	}, "id-1", now, nil)
	if err != nil {
		t.Fatalf("NewPost failed: %v", err)
	}
	if p.Title != "Сайн мэдээ" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Slug != "сайн-мэдээ" {
		t.Errorf("Slug = %q, want %q", p.Slug, "сайн-мэдээ")
	}
	if !p.Published || p.Featured {
		t.Errorf("Published/Featured = %v/%v, want true/false", p.Published, p.Featured)
	}
	if p.MetaDescription != "short" {
		t.Errorf("MetaDescription = %q, want excerpt", p.MetaDescription)
	}
	if !p.CreatedAt.Equal(now) || !p.UpdatedAt.Equal(now) {
		t.Errorf("timestamps = %v/%v", p.CreatedAt, p.UpdatedAt)
	}
	if p.ImageURL() != PlaceholderImage {
		t.Errorf("ImageURL = %q, want placeholder", p.ImageURL())
	}
}

func TestNewPostValidation(t *testing.T) {
	tests := []struct {
		in    PostInput
		field string
	}{
		{PostInput{Content: "c"}, "title"},
		{PostInput{Title: "   ", Content: "c"}, "title"},
		{PostInput{Title: "t"}, "content"},
	}
	for _, tt := range tests {
		_, err := NewPost(tt.in, "id", time.Now(), nil)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("NewPost(%+v) err = %v, want ErrValidation", tt.in, err)
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != tt.field {
			t.Errorf("NewPost(%+v) field = %v, want %q", tt.in, err, tt.field)
		}
	}
}

func TestNewPostDisambiguatesSlug(t *testing.T) {
	taken := func(s string) bool { return s == "hello" }
	p, err := NewPost(PostInput{Title: "Hello", Content: "c"}, "id", time.Now(), taken)
	if err != nil {
		t.Fatal(err)
	}
	if p.Slug != "hello-2" {
		t.Errorf("Slug = %q, want %q", p.Slug, "hello-2")
	}

	p, err = NewPost(PostInput{Title: "???", Content: "c"}, "id", time.Now(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Slug != "post" {
		t.Errorf("Slug = %q, want %q", p.Slug, "post")
	}
}

func TestApplyMergesOnlySuppliedFields(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orig, err := NewPost(PostInput{Title: "Original", Excerpt: "e", Content: "c", Category: "A"}, "id", created, nil)
	if err != nil {
		t.Fatal(err)
	}
	later := created.Add(time.Hour)

	got, err := orig.Apply(PostPatch{Featured: Bool(true)}, later, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Original" || got.Slug != "original" || got.Category != "A" || got.Excerpt != "e" {
		t.Errorf("unexpected change: %+v", got)
	}
	if !got.Featured || !got.Published {
		t.Errorf("Featured/Published = %v/%v", got.Featured, got.Published)
	}
	if !got.UpdatedAt.Equal(later) || !got.CreatedAt.Equal(created) {
		t.Errorf("timestamps = %v/%v", got.CreatedAt, got.UpdatedAt)
	}

	got, err = orig.Apply(PostPatch{Title: String("Renamed Post")}, later, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Slug != "renamed-post" {
		t.Errorf("Slug after rename = %q", got.Slug)
	}

	got, err = orig.Apply(PostPatch{Title: String("Renamed"), Slug: String("Custom Slug")}, later, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Slug != "custom-slug" {
		t.Errorf("explicit slug = %q", got.Slug)
	}

	if _, err := orig.Apply(PostPatch{Content: String("")}, later, nil); !errors.Is(err, ErrValidation) {
		t.Errorf("clearing content err = %v, want ErrValidation", err)
	}
}

func TestPostUnmarshalPublishedDefault(t *testing.T) {
	var p Post
	if err := json.Unmarshal([]byte(`{"id":"1","title":"t"}`), &p); err != nil {
		t.Fatal(err)
	}
	if !p.Published {
		t.Error("missing published key should decode as true")
	}
	if err := json.Unmarshal([]byte(`{"id":"2","title":"t","published":false}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.Published {
		t.Error("explicit published:false should decode as false")
	}
	if p.ID != "2" || p.Title != "t" {
		t.Errorf("other fields not decoded: %+v", p)
	}
}
