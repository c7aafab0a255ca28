package book

import "github.com/tsawler/coursebook/cartridge"

// ViewType represents the kind of content view a template carries.
type ViewType int

const (
	ViewTypeUnknown ViewType = iota
	ViewTypeItemList
	ViewTypeModule
	ViewTypeTOC
)

func (vt ViewType) String() string {
	switch vt {
	case ViewTypeItemList:
		return "ItemList"
	case ViewTypeModule:
		return "Module"
	case ViewTypeTOC:
		return "TOC"
	default:
		return "Unknown"
	}
}

// Content is the interface for template content views.
type Content interface {
	ViewType() ViewType
}

// ItemList is a content view over every record of one resource group.
type ItemList []cartridge.Item

func (l ItemList) ViewType() ViewType { return ViewTypeItemList }

// Module is a content view over a single module record. The record's
// "items" list holds the module entries in instructor order, already
// merged with their linked content.
type Module cartridge.Item

func (m Module) ViewType() ViewType { return ViewTypeModule }

// Title returns the module's display title.
func (m Module) Title() string { return cartridge.Item(m).Title() }

// Items returns the module entries in instructor order.
func (m Module) Items() []cartridge.Item { return cartridge.Item(m).Items("items") }

// ItemSource resolves and patches individual course records while
// documents render. Lookups never fail on unknown identifiers; they
// yield an empty record the caller can treat like any other. The
// pipeline that assembled the templates implements this interface.
type ItemSource interface {
	// GetItem returns the record with the given identifier from the
	// resource group, or a fresh empty record when no such record
	// exists.
	GetItem(r cartridge.Resource, identifier string) (cartridge.Item, error)

	// UpdateItem merges patch into the record with the given
	// identifier and returns the merged record. Patching an unknown
	// identifier merges into a fresh record and is a deliberate no-op.
	UpdateItem(r cartridge.Resource, identifier string, patch cartridge.Item) (cartridge.Item, error)
}

// Template is one renderable document: a content view, the reference
// naming it within the export, the descriptor of the layout it renders
// with, and the source for item lookups during rendering.
type Template struct {
	Content    Content
	Reference  string
	Descriptor Descriptor
	Source     ItemSource
}

// NewTemplate pairs a content view with its reference, layout
// descriptor, and item source.
func NewTemplate(content Content, reference string, descriptor Descriptor, source ItemSource) *Template {
	return &Template{
		Content:    content,
		Reference:  reference,
		Descriptor: descriptor,
		Source:     source,
	}
}

// DisplayTitle returns the reader-facing heading of the document:
// the module's own title for module documents, the fixed resource
// heading for everything else. A module without a title falls back to
// its reference.
func (t *Template) DisplayTitle() string {
	switch c := t.Content.(type) {
	case Module:
		if title := c.Title(); title != "" {
			return title
		}
		return t.Reference
	case *TOC:
		return ResourceTitle(cartridge.ResourceTOC)
	default:
		return ResourceTitle(cartridge.Resource(t.Reference))
	}
}

// TemplateSet is the complete output of one assembly run.
type TemplateSet struct {
	// Title is the course title, "" when the course has none.
	Title string
	// Files holds the file attachment records passed through for
	// embedding, already filtered to what the export kind supports.
	Files []cartridge.Item
	// TOC, Syllabus and Announcements are always present. The TOC
	// lists only group documents; syllabus and announcements never
	// appear in it.
	TOC           *Template
	Syllabus      *Template
	Announcements *Template
	// Groups holds the group documents in assembly order: one per
	// linked content type, or one per module.
	Groups []*Template

	byRef map[string]*Template
}

// AddGroup appends a group document and indexes it by reference.
func (s *TemplateSet) AddGroup(t *Template) {
	if s.byRef == nil {
		s.byRef = make(map[string]*Template)
	}
	s.Groups = append(s.Groups, t)
	s.byRef[t.Reference] = t
}

// Group returns the document with the given reference. The fixed
// references "toc", "syllabus" and "announcements" resolve to their
// documents; anything else resolves against the group documents.
// Unknown references return nil.
func (s *TemplateSet) Group(reference string) *Template {
	switch reference {
	case string(cartridge.ResourceTOC):
		return s.TOC
	case string(cartridge.ResourceSyllabus):
		return s.Syllabus
	case string(cartridge.ResourceAnnouncements):
		return s.Announcements
	}
	return s.byRef[reference]
}

// Documents returns every renderable document in reading order: table
// of contents, syllabus, announcements, then the groups in assembly
// order.
func (s *TemplateSet) Documents() []*Template {
	out := make([]*Template, 0, len(s.Groups)+3)
	for _, t := range []*Template{s.TOC, s.Syllabus, s.Announcements} {
		if t != nil {
			out = append(out, t)
		}
	}
	return append(out, s.Groups...)
}
