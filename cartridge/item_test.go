package cartridge

import "testing"

func TestItemAccessors(t *testing.T) {
	it := Item{
		"identifier": "as-1",
		"title":      "Lab report",
		"type":       "assignment",
		"hidden":     true,
		"points":     10.0,
	}

	if got := it.Identifier(); got != "as-1" {
		t.Errorf("Identifier() = %q, want %q", got, "as-1")
	}
	if got := it.Title(); got != "Lab report" {
		t.Errorf("Title() = %q, want %q", got, "Lab report")
	}
	if got := it.Type(); got != TypeAssignment {
		t.Errorf("Type() = %q, want %q", got, TypeAssignment)
	}
	if !it.Bool("hidden") {
		t.Error("Bool(hidden) = false, want true")
	}
	if it.Bool("points") {
		t.Error("Bool on a non-bool value should read false")
	}
	if got := it.Text("points"); got != "" {
		t.Errorf("Text on a non-string value = %q, want empty", got)
	}
	if got := it.Text("missing"); got != "" {
		t.Errorf("Text on a missing key = %q, want empty", got)
	}
}

func TestItemMerge(t *testing.T) {
	it := Item{"identifier": "pg-1", "title": "Old", "body": "<p>x</p>"}
	got := it.Merge(Item{"title": "New", "href": "pages.xhtml#pg-1"})

	if got["title"] != "New" {
		t.Errorf("merge should overwrite matching keys, title = %v", got["title"])
	}
	if got["body"] != "<p>x</p>" {
		t.Errorf("merge should keep untouched keys, body = %v", got["body"])
	}
	if got["href"] != "pages.xhtml#pg-1" {
		t.Errorf("merge should add new keys, href = %v", got["href"])
	}

	got["extra"] = true
	if _, ok := it["extra"]; !ok {
		t.Error("Merge should return the receiver, not a copy")
	}
}

func TestItemMergeIntoPlaceholder(t *testing.T) {
	// Merging into a fresh placeholder must not corrupt anything else;
	// the patch simply lands in a record nothing references.
	placeholder := Item{}
	placeholder.Merge(Item{"title": "ignored"})
	if placeholder["title"] != "ignored" {
		t.Error("placeholder should accept the patch")
	}
}

func TestItemItems(t *testing.T) {
	// JSON decoding produces []any of map[string]any.
	fromJSON := Item{"items": []any{
		map[string]any{"identifier": "a"},
		map[string]any{"identifier": "b"},
		"not a record",
	}}
	got := fromJSON.Items("items")
	if len(got) != 2 {
		t.Fatalf("Items() returned %d records, want 2", len(got))
	}
	if got[0].Identifier() != "a" || got[1].Identifier() != "b" {
		t.Errorf("Items() = %v", got)
	}

	// Rewritten groups store []Item directly.
	rewritten := Item{"items": []Item{{"identifier": "c"}}}
	if got := rewritten.Items("items"); len(got) != 1 || got[0].Identifier() != "c" {
		t.Errorf("Items() on []Item = %v", got)
	}

	if got := (Item{}).Items("items"); got != nil {
		t.Errorf("Items() on a missing key = %v, want nil", got)
	}
}

func TestContentGroups(t *testing.T) {
	var nilContent *Content
	if got := nilContent.Group(ResourcePages); got != nil {
		t.Errorf("nil content Group() = %v, want nil", got)
	}

	c := &Content{Title: "Intro to Biology"}
	if got := c.Group(ResourcePages); got != nil {
		t.Errorf("empty content Group() = %v, want nil", got)
	}

	c.SetGroup(ResourcePages, []Item{{"identifier": "pg-1"}})
	if got := c.Group(ResourcePages); len(got) != 1 {
		t.Fatalf("Group() returned %d items, want 1", len(got))
	}
	if len(c.Modules()) != 0 {
		t.Error("Modules() should be empty for a course without modules")
	}
}

func TestLinkedResources(t *testing.T) {
	want := []Resource{ResourceAssignments, ResourceFiles, ResourceTopics, ResourceQuizzes, ResourcePages}
	got := LinkedResources()
	if len(got) != len(want) {
		t.Fatalf("LinkedResources() returned %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LinkedResources()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if r, ok := TypeQuiz.LinkedResource(); !ok || r != ResourceQuizzes {
		t.Errorf("TypeQuiz.LinkedResource() = %q, %v", r, ok)
	}
	if _, ok := TypeHeader.LinkedResource(); ok {
		t.Error("TypeHeader should not link to a resource")
	}
}

func TestResourceValid(t *testing.T) {
	for _, r := range Resources() {
		if !r.Valid() {
			t.Errorf("Resource %q should be valid", r)
		}
	}
	if Resource("grades").Valid() {
		t.Error("unknown resource key should not be valid")
	}
}
