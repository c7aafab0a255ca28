package book

import "github.com/tsawler/coursebook/internal/sanitize"

// DocumentPath returns the conventional location of a document within
// an exported book: the sanitized reference plus the XHTML extension.
// Renderers and packagers both derive locations through this function,
// so a reference always maps to the same path on every side of an
// export. Distinct references are assumed to stay distinct after
// sanitization; identifiers come from course manifests, which keep
// them path-friendly in practice.
func DocumentPath(reference string) string {
	name := sanitize.Filename(reference, 64)
	if name == "" {
		name = "section"
	}
	return name + ".xhtml"
}

// ItemAnchor returns the fragment identifier a record anchors to
// inside the document that carries it.
func ItemAnchor(identifier string) string {
	return "item-" + sanitize.Filename(identifier, 64)
}
