// Package epub assembles rendered course documents into a single EPUB
// container.
//
// The writer takes the template set one assembly run produced, patches
// every record's export location back into the content graph so
// internal links resolve, renders each document, and writes the
// container in one pass: the mimetype entry first and uncompressed, as
// reading systems require, then the container descriptor, the package
// document, both navigation documents, the stylesheet, the rendered
// documents, and the embedded attachments.
package epub

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/coursebook/book"
	"github.com/tsawler/coursebook/cartridge"
	"github.com/tsawler/coursebook/internal/sanitize"
	"github.com/tsawler/coursebook/render"
)

// Container layout constants. Reading systems locate everything else
// through META-INF/container.xml, but the mimetype entry must be the
// first file in the archive and must be stored without compression.
const (
	mimetypeName    = "mimetype"
	mimetypeContent = "application/epub+zip"
	containerName   = "META-INF/container.xml"
	contentDir      = "OEBPS"
	opfName         = "content.opf"
	navName         = "nav.xhtml"
	ncxName         = "toc.ncx"
	stylesheetName  = "stylesheet.css"
	attachmentDir   = "files"
)

// ErrNoDocuments is returned by Write when the template set holds
// nothing renderable.
var ErrNoDocuments = errors.New("epub: template set has no documents")

// Options configures a Writer.
type Options struct {
	// Identifier is the publication identifier. Empty generates a
	// urn:uuid identifier at construction.
	Identifier string

	// Language is the publication language tag. Default: "en".
	Language string

	// Author is the dc:creator value. Empty omits the element.
	Author string

	// Modified is the dcterms:modified timestamp. The zero value means
	// construction time.
	Modified time.Time

	// Cover is an optional cover image in any decodable format. Large
	// covers are scaled down and re-encoded before embedding.
	Cover []byte

	// Renderer renders the documents. Nil constructs one whose
	// language matches Language.
	Renderer *render.Renderer
}

// DefaultOptions returns the default writer options.
func DefaultOptions() Options {
	return Options{Language: "en"}
}

// Writer writes one template set as an EPUB container.
type Writer struct {
	set      *book.TemplateSet
	opts     Options
	renderer *render.Renderer
}

// NewWriter returns a Writer for the template set with default
// options.
func NewWriter(set *book.TemplateSet) *Writer {
	return NewWriterWithOptions(set, DefaultOptions())
}

// NewWriterWithOptions returns a Writer for the template set. Zero
// option fields are resolved here, so repeated writes of the same
// Writer produce the same publication identity.
func NewWriterWithOptions(set *book.TemplateSet, opts Options) *Writer {
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.Identifier == "" {
		opts.Identifier = "urn:uuid:" + uuid.NewString()
	}
	if opts.Modified.IsZero() {
		opts.Modified = time.Now().UTC()
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewWithOptions(render.Options{Language: opts.Language})
	}

	return &Writer{set: set, opts: opts, renderer: renderer}
}

// docEntry is one rendered document headed for the container.
type docEntry struct {
	id    string
	path  string
	title string
	data  []byte
}

// attachment is one embedded file headed for the container.
type attachment struct {
	identifier string
	name       string // container path relative to the content dir
	mediaType  string
	path       string // location on disk
}

// Write renders the template set and writes the complete container to
// out. Export locations are patched into the content graph before any
// document renders, so internal links and file references resolve to
// their container paths.
func (w *Writer) Write(out io.Writer) error {
	if w.set == nil || len(w.set.Documents()) == 0 {
		return ErrNoDocuments
	}

	attachments := w.collectAttachments()
	if err := w.patchLocations(attachments); err != nil {
		return err
	}

	docs, err := w.renderDocuments()
	if err != nil {
		return err
	}

	var cover *coverImage
	if len(w.opts.Cover) > 0 {
		cover, err = processCover(w.opts.Cover)
		if err != nil {
			return fmt.Errorf("epub: cover: %w", err)
		}
	}

	return w.writeContainer(out, docs, attachments, cover)
}

// collectAttachments maps the set's file records onto container
// entries under the attachment directory. Name collisions after
// sanitization are disambiguated with the record identifier.
func (w *Writer) collectAttachments() []attachment {
	used := make(map[string]bool, len(w.set.Files))
	out := make([]attachment, 0, len(w.set.Files))

	for _, it := range w.set.Files {
		src := it.Text("path")
		if src == "" {
			continue
		}

		name := sanitize.Filename(filepath.Base(src), 100)
		if name == "" {
			name = sanitize.Filename(it.Identifier(), 100)
		}
		if used[name] {
			name = sanitize.Filename(it.Identifier(), 40) + "_" + name
		}
		used[name] = true

		mediaType := it.Text("media_type")
		if mediaType == "" {
			mediaType = "application/octet-stream"
		}

		out = append(out, attachment{
			identifier: it.Identifier(),
			name:       attachmentDir + "/" + name,
			mediaType:  mediaType,
			path:       src,
		})
	}
	return out
}

// patchLocations writes every record's container location back into
// the content graph. Group records point into the document that
// renders them; file records point at their embedded attachment.
func (w *Writer) patchLocations(attachments []attachment) error {
	source := w.source()
	if source == nil {
		return nil
	}

	for _, t := range w.set.Documents() {
		if err := patchDocument(source, t); err != nil {
			return err
		}
	}

	for _, a := range attachments {
		if a.identifier == "" {
			continue
		}
		patch := cartridge.Item{"href": a.name}
		if _, err := source.UpdateItem(cartridge.ResourceFiles, a.identifier, patch); err != nil {
			return fmt.Errorf("epub: patch attachment location: %w", err)
		}
	}
	return nil
}

// patchDocument points each record the document renders at its anchor
// within the document. Module documents patch the linked group
// records, not the merged module entries: render-time lookups resolve
// against the group records. File entries are skipped; their location
// is the attachment itself.
func patchDocument(source book.ItemSource, t *book.Template) error {
	docPath := book.DocumentPath(t.Reference)

	switch content := t.Content.(type) {
	case book.ItemList:
		resource := cartridge.Resource(t.Reference)
		if !resource.Valid() {
			return nil
		}
		for _, it := range content {
			if err := patchAnchor(source, resource, it.Identifier(), docPath); err != nil {
				return err
			}
		}

	case book.Module:
		for _, entry := range content.Items() {
			kind := entry.Type()
			if kind == cartridge.TypeHeader || kind == cartridge.TypeFile {
				continue
			}
			resource, ok := kind.LinkedResource()
			if !ok {
				continue
			}
			if err := patchAnchor(source, resource, entry.Identifier(), docPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func patchAnchor(source book.ItemSource, r cartridge.Resource, identifier, docPath string) error {
	if identifier == "" {
		return nil
	}
	patch := cartridge.Item{"href": docPath + "#" + book.ItemAnchor(identifier)}
	if _, err := source.UpdateItem(r, identifier, patch); err != nil {
		return fmt.Errorf("epub: patch %s location: %w", r, err)
	}
	return nil
}

// source returns the item source the documents were assembled with.
func (w *Writer) source() book.ItemSource {
	for _, t := range w.set.Documents() {
		if t.Source != nil {
			return t.Source
		}
	}
	return nil
}

// renderDocuments renders every document in reading order.
func (w *Writer) renderDocuments() ([]docEntry, error) {
	templates := w.set.Documents()
	docs := make([]docEntry, 0, len(templates))

	for _, t := range templates {
		data, err := w.renderer.Render(t)
		if err != nil {
			return nil, fmt.Errorf("epub: render %s: %w", t.Reference, err)
		}
		path := book.DocumentPath(t.Reference)
		docs = append(docs, docEntry{
			id:    "doc-" + sanitize.Filename(t.Reference, 64),
			path:  path,
			title: t.DisplayTitle(),
			data:  data,
		})
	}
	return docs, nil
}

// writeContainer assembles the archive. Entry order is load-bearing
// only for the mimetype; the rest follows container descriptor,
// package document, navigation, stylesheet, documents, attachments.
func (w *Writer) writeContainer(out io.Writer, docs []docEntry, attachments []attachment, cover *coverImage) error {
	zw := zip.NewWriter(out)

	mt, err := zw.CreateHeader(&zip.FileHeader{Name: mimetypeName, Method: zip.Store})
	if err != nil {
		return fmt.Errorf("epub: write mimetype: %w", err)
	}
	if _, err := mt.Write([]byte(mimetypeContent)); err != nil {
		return fmt.Errorf("epub: write mimetype: %w", err)
	}

	container, err := buildContainer()
	if err != nil {
		return err
	}
	if err := writeEntry(zw, containerName, container); err != nil {
		return err
	}

	opf, err := w.buildOPF(docs, attachments, cover)
	if err != nil {
		return err
	}
	if err := writeEntry(zw, contentDir+"/"+opfName, opf); err != nil {
		return err
	}

	nav, err := w.buildNav(docs)
	if err != nil {
		return err
	}
	if err := writeEntry(zw, contentDir+"/"+navName, nav); err != nil {
		return err
	}

	ncx, err := w.buildNCX(docs)
	if err != nil {
		return err
	}
	if err := writeEntry(zw, contentDir+"/"+ncxName, ncx); err != nil {
		return err
	}

	if err := writeEntry(zw, contentDir+"/"+stylesheetName, []byte(stylesheet)); err != nil {
		return err
	}

	if cover != nil {
		if err := writeEntry(zw, contentDir+"/"+cover.name, cover.data); err != nil {
			return err
		}
		page := coverPage(w.bookTitle(), cover.name)
		if err := writeEntry(zw, contentDir+"/"+coverPageName, page); err != nil {
			return err
		}
	}

	for _, d := range docs {
		if err := writeEntry(zw, contentDir+"/"+d.path, d.data); err != nil {
			return err
		}
	}

	for _, a := range attachments {
		if err := copyEntry(zw, contentDir+"/"+a.name, a.path); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("epub: close container: %w", err)
	}
	return nil
}

// bookTitle returns the publication title shown to readers.
func (w *Writer) bookTitle() string {
	if w.set.Title != "" {
		return w.set.Title
	}
	return "Untitled course"
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("epub: write %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("epub: write %s: %w", name, err)
	}
	return nil
}

// copyEntry streams a file on disk into the archive.
func copyEntry(zw *zip.Writer, name, src string) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("epub: write %s: %w", name, err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("epub: write %s: %w", name, err)
	}
	defer in.Close()

	if _, err := io.Copy(f, in); err != nil {
		return fmt.Errorf("epub: write %s: %w", name, err)
	}
	return nil
}
