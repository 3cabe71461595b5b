package blog

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Hello   World!! ", "hello-world"},
		{"Сайн мэдээ", "сайн-мэдээ"},
		{"Паулын зарласан сайн мэдээ", "паулын-зарласан-сайн-мэдээ"},
		{"snake_case_title", "snake-case-title"},
		{"Go 1.24 released", "go-124-released"},
		{"--leading and trailing--", "leading-and-trailing"},
		{"a - b", "a-b"},
		{"Mixed Үхэл and Life", "mixed-үхэл-and-life"},
		{"!!!", ""},
		{"", ""},
		{"Тамын тухай?", "тамын-тухай"},
		{"Мянга ҂а", "мянга-҂а"},
		{"ти҃тло", "ти҃тло"},
	}
	for _, tt := range tests {
		got := Slugify(tt.input)
		if got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	titles := []string{"Шинэ бүтээлд энэ махбод хамаагүй", "Hello, World", "Амилалтын найдвар"}
	for _, title := range titles {
		first := Slugify(title)
		for i := 0; i < 3; i++ {
			if got := Slugify(title); got != first {
				t.Fatalf("Slugify(%q) changed between calls: %q vs %q", title, first, got)
			}
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	used := map[string]bool{"hello": true, "hello-2": true}
	taken := func(s string) bool { return used[s] }

	if got := UniqueSlug("hello", taken); got != "hello-3" {
		t.Errorf("UniqueSlug(hello) = %q, want %q", got, "hello-3")
	}
	if got := UniqueSlug("fresh", taken); got != "fresh" {
		t.Errorf("UniqueSlug(fresh) = %q, want %q", got, "fresh")
	}
	if got := UniqueSlug("", nil); got != "post" {
		t.Errorf("UniqueSlug(\"\") = %q, want %q", got, "post")
	}
}
