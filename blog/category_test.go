package blog

import "testing"

func categoryNames(cats []Category) []string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names
}

func TestAggregateCategories(t *testing.T) {
	predefined := []Category{{Name: "A", Slug: "a"}, {Name: "B", Slug: "b"}}
	posts := []Post{{Category: "B"}, {Category: "C"}, {Category: "C"}, {Category: ""}}

	got := categoryNames(AggregateCategories(predefined, posts))
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("AggregateCategories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AggregateCategories[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAggregateCategoriesEmptyCollection(t *testing.T) {
	predefined := Predefined()
	got := AggregateCategories(predefined, nil)
	if len(got) != len(predefined) {
		t.Fatalf("len = %d, want %d", len(got), len(predefined))
	}
	for i := range predefined {
		if got[i] != predefined[i] {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], predefined[i])
		}
	}
	got[0].Name = "mutated"
	if predefined[0].Name == "mutated" {
		t.Error("AggregateCategories must not alias the predefined slice")
	}
}

func TestAggregateCategoriesSlugForObservedLabel(t *testing.T) {
	got := AggregateCategories(Predefined(), []Post{{Category: "Шинэ ангилал"}})
	last := got[len(got)-1]
	if last.Name != "Шинэ ангилал" || last.Slug != "шинэ-ангилал" {
		t.Errorf("observed category = %+v", last)
	}
}

func TestFindCategory(t *testing.T) {
	cats := AggregateCategories(Predefined(), []Post{{Category: "Extra"}})

	if c, ok := FindCategory(cats, "sain-medee"); !ok || c.Name != "Сайн мэдээ" {
		t.Errorf("FindCategory(sain-medee) = %+v, %v", c, ok)
	}
	if c, ok := FindCategory(cats, "extra"); !ok || c.Name != "Extra" {
		t.Errorf("FindCategory(extra) = %+v, %v", c, ok)
	}
	if c, ok := FindCategory(cats, "Тамын тухай"); !ok || c.Slug != "tamyn-tukhai" {
		t.Errorf("FindCategory by name = %+v, %v", c, ok)
	}
	if c, ok := FindCategory(cats, AllSlug); !ok || c.Name != AllLabel {
		t.Errorf("FindCategory(all) = %+v, %v", c, ok)
	}
	if _, ok := FindCategory(cats, "missing"); ok {
		t.Error("FindCategory(missing) should not resolve")
	}
}
