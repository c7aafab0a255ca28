package book

import (
	"testing"

	"github.com/tsawler/coursebook/cartridge"
)

func TestTOCAccumulator(t *testing.T) {
	toc := &TOC{}
	tpl := NewTemplate(toc, "toc", ResourceDescriptor(cartridge.ResourceTOC), nil)

	if toc.Len() != 0 {
		t.Fatalf("new TOC has %d entries, want 0", toc.Len())
	}

	toc.Append(TOCEntry{Reference: "assignments", Title: "Assignments"})
	toc.Append(TOCEntry{Reference: "pages", Title: "Pages"})

	// The template sees entries appended after it was built.
	view, ok := tpl.Content.(*TOC)
	if !ok {
		t.Fatalf("template content is %T, want *TOC", tpl.Content)
	}
	if view.Len() != 2 {
		t.Fatalf("template TOC has %d entries, want 2", view.Len())
	}
	if view.Entries[0].Reference != "assignments" || view.Entries[1].Reference != "pages" {
		t.Errorf("entries out of append order: %+v", view.Entries)
	}
}

func TestViewTypes(t *testing.T) {
	tests := []struct {
		content Content
		want    ViewType
	}{
		{ItemList{}, ViewTypeItemList},
		{Module{}, ViewTypeModule},
		{&TOC{}, ViewTypeTOC},
	}
	for _, tt := range tests {
		if got := tt.content.ViewType(); got != tt.want {
			t.Errorf("%T.ViewType() = %v, want %v", tt.content, got, tt.want)
		}
	}
	if ViewTypeUnknown.String() != "Unknown" || ViewTypeModule.String() != "Module" {
		t.Error("unexpected ViewType string values")
	}
}

func TestModuleView(t *testing.T) {
	m := Module{
		"identifier": "m1",
		"title":      "Week 1",
		"items": []cartridge.Item{
			{"identifier": "as-1", "type": "assignment"},
		},
	}
	if m.Title() != "Week 1" {
		t.Errorf("Title() = %q", m.Title())
	}
	items := m.Items()
	if len(items) != 1 || items[0].Identifier() != "as-1" {
		t.Errorf("Items() = %v", items)
	}
}

func TestTemplateSetLookup(t *testing.T) {
	set := &TemplateSet{
		Title:         "Intro to Biology",
		TOC:           NewTemplate(&TOC{}, "toc", ResourceDescriptor(cartridge.ResourceTOC), nil),
		Syllabus:      NewTemplate(ItemList{}, "syllabus", ResourceDescriptor(cartridge.ResourceSyllabus), nil),
		Announcements: NewTemplate(ItemList{}, "announcements", ResourceDescriptor(cartridge.ResourceAnnouncements), nil),
	}
	set.AddGroup(NewTemplate(ItemList{}, "assignments", GroupDescriptor(true), nil))
	set.AddGroup(NewTemplate(ItemList{}, "pages", GroupDescriptor(true), nil))

	if got := set.Group("assignments"); got == nil || got.Reference != "assignments" {
		t.Errorf("Group(assignments) = %+v", got)
	}
	if got := set.Group("syllabus"); got != set.Syllabus {
		t.Error("Group(syllabus) should resolve to the syllabus document")
	}
	if got := set.Group("toc"); got != set.TOC {
		t.Error("Group(toc) should resolve to the TOC document")
	}
	if got := set.Group("nope"); got != nil {
		t.Errorf("Group(nope) = %+v, want nil", got)
	}

	docs := set.Documents()
	wantRefs := []string{"toc", "syllabus", "announcements", "assignments", "pages"}
	if len(docs) != len(wantRefs) {
		t.Fatalf("Documents() returned %d documents, want %d", len(docs), len(wantRefs))
	}
	for i, ref := range wantRefs {
		if docs[i].Reference != ref {
			t.Errorf("Documents()[%d] = %q, want %q", i, docs[i].Reference, ref)
		}
	}
}

func TestDescriptors(t *testing.T) {
	tests := []struct {
		resource cartridge.Resource
		want     Descriptor
	}{
		{cartridge.ResourceTOC, "toc_template"},
		{cartridge.ResourceSyllabus, "syllabus_template"},
		{cartridge.ResourceAnnouncements, "announcements_template"},
	}
	for _, tt := range tests {
		if got := ResourceDescriptor(tt.resource); got != tt.want {
			t.Errorf("ResourceDescriptor(%q) = %q, want %q", tt.resource, got, tt.want)
		}
	}

	if got := GroupDescriptor(true); got != DescriptorContentSorting {
		t.Errorf("GroupDescriptor(true) = %q", got)
	}
	if got := GroupDescriptor(false); got != DescriptorModuleSorting {
		t.Errorf("GroupDescriptor(false) = %q", got)
	}
}

func TestResourceDescriptorPanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ResourceDescriptor should panic on an unknown resource type")
		}
	}()
	ResourceDescriptor(cartridge.Resource("grades"))
}

func TestResourceTitle(t *testing.T) {
	if got := ResourceTitle(cartridge.ResourceTopics); got != "Discussion Topics" {
		t.Errorf("ResourceTitle(topics) = %q", got)
	}
	if got := ResourceTitle(cartridge.Resource("grades")); got != "grades" {
		t.Errorf("ResourceTitle on an unknown key = %q, want the key itself", got)
	}
}
