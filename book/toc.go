package book

import "github.com/tsawler/coursebook/cartridge"

// TOCEntry is one table of contents row: the reference of the document
// it points at, the heading shown to the reader, and the records the
// document contains.
type TOCEntry struct {
	Reference string
	Title     string
	Items     []cartridge.Item
}

// TOC accumulates table of contents entries while group documents are
// assembled. The assembler creates it empty, hands the same pointer to
// the TOC template, and appends one entry per group it builds, so the
// template's view fills in as assembly proceeds.
type TOC struct {
	Entries []TOCEntry
}

func (t *TOC) ViewType() ViewType { return ViewTypeTOC }

// Append adds an entry. Entries stay in append order; that order is
// the reading order of the export.
func (t *TOC) Append(e TOCEntry) {
	t.Entries = append(t.Entries, e)
}

// Len returns the number of entries appended so far.
func (t *TOC) Len() int {
	return len(t.Entries)
}
