package cartridge

// Resource identifies one of the fixed content groups a course is made
// of. The set is closed: course manifests never introduce new keys.
type Resource string

const (
	// ResourceTOC is the derived table of contents. No manifest records
	// live under it; the key exists so downstream consumers can name
	// the generated view the same way they name real groups.
	ResourceTOC Resource = "toc"
	// ResourceSyllabus holds the course syllabus entries.
	ResourceSyllabus Resource = "syllabus"
	// ResourceModules holds the instructor-ordered module records.
	ResourceModules Resource = "modules"
	// ResourceAssignments holds assignment records.
	ResourceAssignments Resource = "assignments"
	// ResourceAnnouncements holds course announcement records.
	ResourceAnnouncements Resource = "announcements"
	// ResourceTopics holds discussion topic records.
	ResourceTopics Resource = "topics"
	// ResourceQuizzes holds quiz records.
	ResourceQuizzes Resource = "quizzes"
	// ResourcePages holds wiki page records.
	ResourcePages Resource = "pages"
	// ResourceFiles holds file attachment records.
	ResourceFiles Resource = "files"
)

// resources lists every key in declaration order.
var resources = []Resource{
	ResourceTOC,
	ResourceSyllabus,
	ResourceModules,
	ResourceAssignments,
	ResourceAnnouncements,
	ResourceTopics,
	ResourceQuizzes,
	ResourcePages,
	ResourceFiles,
}

// Resources returns all resource keys in their canonical order.
func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

// Valid reports whether r is one of the known resource keys.
func (r Resource) Valid() bool {
	for _, known := range resources {
		if r == known {
			return true
		}
	}
	return false
}

// String returns the manifest key for the resource.
func (r Resource) String() string {
	return string(r)
}

// ItemType tags a module item with the kind of content it links to.
// The tag appears under the "type" key of module item records.
type ItemType string

const (
	TypeAssignment ItemType = "assignment"
	TypeFile       ItemType = "file"
	TypeTopic      ItemType = "topic"
	TypeQuiz       ItemType = "quiz"
	TypePage       ItemType = "page"
	// TypeHeader marks an organizational sub-header inside a module.
	// Headers link to nothing.
	TypeHeader ItemType = "header"
)

// linkedResources maps each linkable item type to the resource group
// holding the full record it references.
var linkedResources = map[ItemType]Resource{
	TypeAssignment: ResourceAssignments,
	TypeFile:       ResourceFiles,
	TypeTopic:      ResourceTopics,
	TypeQuiz:       ResourceQuizzes,
	TypePage:       ResourcePages,
}

// LinkedResource returns the resource group a module item of type t
// references, and whether t links to anything at all.
func (t ItemType) LinkedResource() (Resource, bool) {
	r, ok := linkedResources[t]
	return r, ok
}

// LinkedResources returns the resource groups reachable from module
// items, in canonical order. These are the groups whose records carry
// renderable content.
func LinkedResources() []Resource {
	return []Resource{
		ResourceAssignments,
		ResourceFiles,
		ResourceTopics,
		ResourceQuizzes,
		ResourcePages,
	}
}
