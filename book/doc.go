// Package book defines the render-ready document models an export
// pipeline assembles from decoded course content.
//
// The central type is [Template]: one renderable document, pairing a
// content view with the reference naming it, the [Descriptor] of the
// layout it renders with, and the [ItemSource] that resolves and
// patches individual records during rendering.
//
// # Content views
//
// Template content implements the [Content] interface. The concrete
// views are:
//
//   - [ItemList] - every record of one resource group
//   - [Module] - one module record with its ordered item entries
//   - [TOC] - the accumulated table of contents
//
// # Assembly output
//
// [TemplateSet] is the complete output of one assembly run: the course
// title, the file attachments passed through for embedding, the table
// of contents, syllabus and announcements documents, and the ordered
// group documents. The TOC template shares its accumulator with the
// set, so entries appended while groups are assembled are visible
// through both.
package book
