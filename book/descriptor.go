package book

import (
	"fmt"

	"github.com/tsawler/coursebook/cartridge"
)

// Descriptor names the layout a document renders with. Descriptors are
// resolved by the renderer against its template set; a document's
// descriptor is fixed at assembly time.
type Descriptor string

const (
	// DescriptorContentSorting is the shared layout for group
	// documents when content is grouped by type.
	DescriptorContentSorting Descriptor = "content_sorting_template"
	// DescriptorModuleSorting is the shared layout for group documents
	// when content is grouped by module.
	DescriptorModuleSorting Descriptor = "module_sorting_template"
)

// ResourceDescriptor derives the layout descriptor for a resource that
// renders with its own document: "<resource>_template". The resource
// key must be one of the known keys; anything else is an implementer
// error and panics.
func ResourceDescriptor(r cartridge.Resource) Descriptor {
	if !r.Valid() {
		panic(fmt.Sprintf("book: no template descriptor for resource type %q", r))
	}
	return Descriptor(string(r) + "_template")
}

// GroupDescriptor returns the shared layout for group documents under
// the given ordering: content sorting when grouped by type, module
// sorting when grouped by module.
func GroupDescriptor(byContent bool) Descriptor {
	if byContent {
		return DescriptorContentSorting
	}
	return DescriptorModuleSorting
}

// resourceTitles is the fixed table of reader-facing group headings.
var resourceTitles = map[cartridge.Resource]string{
	cartridge.ResourceTOC:           "Table of Contents",
	cartridge.ResourceSyllabus:      "Syllabus",
	cartridge.ResourceModules:       "Modules",
	cartridge.ResourceAssignments:   "Assignments",
	cartridge.ResourceAnnouncements: "Announcements",
	cartridge.ResourceTopics:        "Discussion Topics",
	cartridge.ResourceQuizzes:       "Quizzes",
	cartridge.ResourcePages:         "Pages",
	cartridge.ResourceFiles:         "Files",
}

// ResourceTitle returns the reader-facing heading for a resource
// group. Callers treat the value as opaque display text.
func ResourceTitle(r cartridge.Resource) string {
	if title, ok := resourceTitles[r]; ok {
		return title
	}
	return string(r)
}
