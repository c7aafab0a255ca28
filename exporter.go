package coursebook

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tsawler/coursebook/book"
	"github.com/tsawler/coursebook/cartridge"
	"github.com/tsawler/coursebook/epub"
	"github.com/tsawler/coursebook/internal/sanitize"
)

// maxTitleRunes caps the sanitized course title inside a filename
// prefix. Longer titles are cut, never ellipsized.
const maxTitleRunes = 200

// timestampLayout is the export timestamp appended to filename
// prefixes.
const timestampLayout = "2006-Jan-02_15-04-05"

// Decoder supplies decoded course content to an Exporter. Decode is
// expected to be expensive; the Exporter calls it at most once and
// memoizes the result, success or failure. Teardown must be idempotent
// and safe to call in any state, including before Decode and after a
// Decode that failed.
type Decoder interface {
	Decode(kind cartridge.ExportKind) (*cartridge.Content, error)
	Teardown() error
}

// unsupportedLister is the optional decoder capability of reporting
// attachments it had to leave out.
type unsupportedLister interface {
	UnsupportedFiles() []cartridge.UnsupportedFile
}

// groupResources are the resource groups that become documents when
// content is grouped by type. Files never get a document of their own;
// they pass through for embedding.
var groupResources = []cartridge.Resource{
	cartridge.ResourceAssignments,
	cartridge.ResourceTopics,
	cartridge.ResourceQuizzes,
	cartridge.ResourcePages,
}

// Exporter assembles render-ready documents for one course export.
// Each configuration method returns a new Exporter instance, so a
// configured pipeline can be built by chaining. Content decoding,
// ordering selection, template assembly and metadata derivation all
// run once and memoize; an Exporter serves exactly one export and is
// not safe for concurrent use.
type Exporter struct {
	// Source
	filename string
	decoder  Decoder

	// Configuration
	options ExportOptions

	// Accumulated error (fail-fast)
	err error

	// Decoded content, memoized including failure
	decoded   bool
	content   *cartridge.Content
	decodeErr error

	// Ordering decision, fixed at first successful decode
	sortDecided   bool
	sortByContent bool

	// Assembly results (memoized)
	templates  *book.TemplateSet
	toc        *book.Template
	tocEntries *book.TOC
	itemIDs    []string
	prefix     string

	// Warnings accumulated during assembly
	warnings []Warning
}

// clone creates a shallow copy of the Exporter with a deep copy of
// options. Configuration methods return clones so earlier stages of a
// chain stay usable.
func (e *Exporter) clone() *Exporter {
	return &Exporter{
		filename:      e.filename,
		decoder:       e.decoder,
		options:       e.options.clone(),
		err:           e.err,
		decoded:       e.decoded,
		content:       e.content,
		decodeErr:     e.decodeErr,
		sortDecided:   e.sortDecided,
		sortByContent: e.sortByContent,
		templates:     e.templates,
		toc:           e.toc,
		tocEntries:    e.tocEntries,
		itemIDs:       e.itemIDs,
		prefix:        e.prefix,
		warnings:      append([]Warning(nil), e.warnings...),
	}
}

// Cleanup releases the decoder's working files. It is safe to call in
// any state: before content is decoded, after a failed decode, and
// repeatedly. Terminal operations call it themselves; callers driving
// the pipeline by hand should defer it.
func (e *Exporter) Cleanup() error {
	return e.decoder.Teardown()
}

// ============================================================================
// Configuration Methods (return new Exporter instance)
// ============================================================================

// ByContent forces grouping by content type even when the course
// defines modules. Without it, module grouping is used whenever at
// least one module exists.
//
// Example:
//
//	set, err := coursebook.Open("course.imscc").ByContent().Templates()
func (e *Exporter) ByContent() *Exporter {
	newExp := e.clone()
	newExp.options.byContent = true
	return newExp
}

// Kind sets the export kind the content is decoded for. The default
// is cartridge.KindEPUB. The kind must be set before the first
// content-dependent operation; it has no effect once content has
// decoded.
//
// Example:
//
//	set, err := coursebook.Open("course.imscc").Kind(cartridge.KindWeb).Templates()
func (e *Exporter) Kind(kind cartridge.ExportKind) *Exporter {
	newExp := e.clone()
	newExp.options.kind = kind
	return newExp
}

// Language sets the language tag of the exported book and its
// documents. The default is "en".
func (e *Exporter) Language(lang string) *Exporter {
	newExp := e.clone()
	newExp.options.language = lang
	return newExp
}

// Author sets the author recorded in the exported book's metadata.
func (e *Exporter) Author(author string) *Exporter {
	newExp := e.clone()
	newExp.options.author = author
	return newExp
}

// Identifier sets the publication identifier of the exported book.
// Without it every export generates a fresh urn:uuid identifier.
func (e *Exporter) Identifier(id string) *Exporter {
	newExp := e.clone()
	newExp.options.identifier = id
	return newExp
}

// Cover sets the book's cover image from raw image bytes. Oversized
// covers are scaled down during export.
//
// Example:
//
//	img, _ := os.ReadFile("cover.jpg")
//	path, warnings, err := coursebook.Open("course.imscc").Cover(img).WriteEPUB("out")
func (e *Exporter) Cover(img []byte) *Exporter {
	newExp := e.clone()
	newExp.options.cover = append([]byte(nil), img...)
	return newExp
}

// ============================================================================
// Content Access
// ============================================================================

// Content returns the decoded course, decoding on first use. The
// result is memoized whether decoding succeeded or failed: the decoder
// runs at most once per pipeline, and a decode failure is returned
// unmodified from then on.
func (e *Exporter) Content() (*cartridge.Content, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.decoded {
		return e.content, e.decodeErr
	}
	e.decoded = true
	e.content, e.decodeErr = e.decoder.Decode(e.options.kind)
	if e.decodeErr != nil {
		e.content = nil
		return nil, e.decodeErr
	}
	if !e.sortDecided {
		e.sortByContent = e.options.byContent || len(e.content.Modules()) == 0
		e.sortDecided = true
	}
	return e.content, nil
}

// SortByContent reports the grouping the export uses: true when
// documents are grouped by content type, false when grouped by module.
// The answer is decided once, when content first decodes: an explicit
// ByContent call forces type grouping, and a course without modules
// falls back to it. The decision is never re-evaluated.
func (e *Exporter) SortByContent() (bool, error) {
	if _, err := e.Content(); err != nil {
		return false, err
	}
	return e.sortByContent, nil
}

// UnsupportedFiles returns the attachments the decoder left out of the
// export, if the decoder tracks them. It never fails: decoders without
// the capability, and exports where everything embedded, both yield an
// empty result.
func (e *Exporter) UnsupportedFiles() []cartridge.UnsupportedFile {
	if l, ok := e.decoder.(unsupportedLister); ok {
		return l.UnsupportedFiles()
	}
	return nil
}

// Warnings returns the non-fatal findings recorded so far. Terminal
// operations also return them directly.
func (e *Exporter) Warnings() []Warning {
	return e.warnings
}

// ============================================================================
// Template Assembly
// ============================================================================

// TOC returns the table of contents document. The TOC starts empty and
// fills in while Templates assembles group documents; both views share
// one accumulator. TOC itself never triggers decoding and never fails.
func (e *Exporter) TOC() *book.Template {
	if e.toc == nil {
		e.tocEntries = &book.TOC{}
		e.toc = book.NewTemplate(e.tocEntries, string(cartridge.ResourceTOC),
			book.ResourceDescriptor(cartridge.ResourceTOC), e)
	}
	return e.toc
}

// Templates assembles and returns the complete document set for the
// export: course title, embeddable attachments, table of contents,
// syllabus, announcements, and one document per content group. The
// set is assembled once and memoized; repeated calls return the same
// instance.
//
// Hidden syllabus entries are removed from the course exactly once,
// before any group document is built. Syllabus and announcements are
// always part of the set but never appear in the table of contents.
//
// Example:
//
//	set, err := coursebook.Open("course.imscc").Templates()
//	if err != nil {
//	    return err
//	}
//	for _, entry := range set.TOC.Content.(*book.TOC).Entries {
//	    fmt.Println(entry.Title)
//	}
func (e *Exporter) Templates() (*book.TemplateSet, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.templates != nil {
		return e.templates, nil
	}

	content, err := e.Content()
	if err != nil {
		return nil, err
	}

	// Hidden syllabus entries drop out before any group assembly.
	removeHiddenSyllabusItems(content)

	set := &book.TemplateSet{
		Title:         content.Title,
		Files:         content.Group(cartridge.ResourceFiles),
		TOC:           e.TOC(),
		Syllabus:      e.resourceTemplate(content, cartridge.ResourceSyllabus),
		Announcements: e.resourceTemplate(content, cartridge.ResourceAnnouncements),
	}

	if e.sortByContent {
		for _, r := range groupResources {
			set.AddGroup(e.contentGroup(content, r))
		}
	} else {
		for _, mod := range content.Modules() {
			set.AddGroup(e.moduleGroup(content, mod))
		}
	}

	e.templates = set
	return set, nil
}

// resourceTemplate builds the standalone document for a resource that
// always renders with its own layout.
func (e *Exporter) resourceTemplate(content *cartridge.Content, r cartridge.Resource) *book.Template {
	return book.NewTemplate(book.ItemList(content.Group(r)), string(r),
		book.ResourceDescriptor(r), e)
}

// contentGroup builds one by-type group document and records it in the
// table of contents.
func (e *Exporter) contentGroup(content *cartridge.Content, r cartridge.Resource) *book.Template {
	items := content.Group(r)
	e.appendTOC(string(r), book.ResourceTitle(r), items)
	return book.NewTemplate(book.ItemList(items), string(r), book.GroupDescriptor(true), e)
}

// moduleGroup builds one by-module group document and records it in
// the table of contents. The module's entries are resolved against
// their linked groups first, so the document carries full content.
func (e *Exporter) moduleGroup(content *cartridge.Content, mod cartridge.Item) *book.Template {
	merged := e.mergeModuleItems(content, mod)
	e.appendTOC(mod.Identifier(), mod.Title(), merged)
	return book.NewTemplate(book.Module(mod), mod.Identifier(), book.GroupDescriptor(false), e)
}

// mergeModuleItems resolves each module entry against its linked
// resource group and merges the full record into the entry, in place.
// Header entries pass through untouched. Entries with an unknown type,
// and entries whose linked record is missing, are dropped with a
// warning. The module's item list is rewritten to the surviving
// entries.
func (e *Exporter) mergeModuleItems(content *cartridge.Content, mod cartridge.Item) []cartridge.Item {
	entries := mod.Items("items")
	kept := make([]cartridge.Item, 0, len(entries))
	for _, entry := range entries {
		t := entry.Type()
		if t == cartridge.TypeHeader {
			kept = append(kept, entry)
			continue
		}
		r, ok := t.LinkedResource()
		if !ok {
			e.warn(WarningUnknownItemType, fmt.Sprintf("module %q: item %q has unknown type %q",
				mod.Identifier(), entry.Identifier(), t))
			continue
		}
		linked := lookupItem(content, r, entry.Identifier())
		if linked == nil {
			e.warn(WarningMissingLinkedItem, fmt.Sprintf("module %q: no %s record %q",
				mod.Identifier(), r, entry.Identifier()))
			continue
		}
		kept = append(kept, entry.Merge(linked))
	}
	mod["items"] = kept
	return kept
}

// appendTOC adds one entry to the shared table of contents.
func (e *Exporter) appendTOC(reference, title string, items []cartridge.Item) {
	e.TOC()
	e.tocEntries.Append(book.TOCEntry{Reference: reference, Title: title, Items: items})
}

// removeHiddenSyllabusItems filters syllabus entries flagged hidden,
// reusing the group's backing array so aliased views observe the
// mutation.
func removeHiddenSyllabusItems(content *cartridge.Content) {
	items := content.Group(cartridge.ResourceSyllabus)
	kept := items[:0]
	for _, it := range items {
		if !it.Bool("hidden") {
			kept = append(kept, it)
		}
	}
	content.SetGroup(cartridge.ResourceSyllabus, kept)
}

// ============================================================================
// Item Resolution
// ============================================================================

// GetItem returns the record with the given identifier from a resource
// group. A miss is not an error: unknown identifiers, and resource
// groups the course does not have, yield a fresh empty record the
// caller may use like any other. Identifier lookups are linear;
// groups are small and identifiers unique within a group.
//
// Example:
//
//	item, err := exp.GetItem(cartridge.ResourceAssignments, "as-101")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(item.Title())
func (e *Exporter) GetItem(r cartridge.Resource, identifier string) (cartridge.Item, error) {
	content, err := e.Content()
	if err != nil {
		return nil, err
	}
	if it := lookupItem(content, r, identifier); it != nil {
		return it, nil
	}
	// A fresh record per miss: callers may merge into it, and that
	// merge must land nowhere shared.
	return cartridge.Item{}, nil
}

// UpdateItem merges patch into the record with the given identifier
// and returns the merged record. Matching keys are overwritten, new
// keys added. Patching an identifier that does not exist merges into a
// fresh record that nothing references; the course is unchanged.
//
// Example:
//
//	_, err := exp.UpdateItem(cartridge.ResourcePages, "pg-1",
//	    cartridge.Item{"href": "pages.xhtml#item-pg-1"})
func (e *Exporter) UpdateItem(r cartridge.Resource, identifier string, patch cartridge.Item) (cartridge.Item, error) {
	item, err := e.GetItem(r, identifier)
	if err != nil {
		return nil, err
	}
	return item.Merge(patch), nil
}

// GetSyllabusItem returns the syllabus entry with the given
// identifier, with the same miss semantics as GetItem.
func (e *Exporter) GetSyllabusItem(identifier string) (cartridge.Item, error) {
	return e.GetItem(cartridge.ResourceSyllabus, identifier)
}

// UpdateSyllabusItem merges patch into the syllabus entry with the
// given identifier and returns the merged entry.
func (e *Exporter) UpdateSyllabusItem(identifier string, patch cartridge.Item) (cartridge.Item, error) {
	return e.UpdateItem(cartridge.ResourceSyllabus, identifier, patch)
}

// ItemIDs returns the identifiers of every record across the linked
// resource groups, in group order then record order. Identifiers are
// unique within each group, so the flattened list needs no extra
// de-duplication. The list is computed once and memoized.
func (e *Exporter) ItemIDs() ([]string, error) {
	if e.itemIDs != nil {
		return e.itemIDs, nil
	}
	content, err := e.Content()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, r := range cartridge.LinkedResources() {
		for _, it := range content.Group(r) {
			ids = append(ids, it.Identifier())
		}
	}
	e.itemIDs = ids
	return ids, nil
}

// lookupItem scans a resource group for an identifier. nil means miss.
func lookupItem(content *cartridge.Content, r cartridge.Resource, identifier string) cartridge.Item {
	for _, it := range content.Group(r) {
		if it.Identifier() == identifier {
			return it
		}
	}
	return nil
}

// ============================================================================
// Export Metadata
// ============================================================================

// FilenamePrefix derives the filename stem for export artifacts: the
// sanitized course title, cut to 200 runes without an ellipsis,
// joined to the export timestamp. The prefix is derived once and
// memoized, so every artifact of one export shares it even across a
// clock tick. A course without a title yields just the separator and
// timestamp.
//
// Example:
//
//	prefix, err := exp.FilenamePrefix()
//	// "Intro_to_Biology-2026-Aug-25_14-03-07"
func (e *Exporter) FilenamePrefix() (string, error) {
	if e.prefix != "" {
		return e.prefix, nil
	}
	content, err := e.Content()
	if err != nil {
		return "", err
	}
	name := sanitize.Filename(content.Title, maxTitleRunes)
	e.prefix = name + "-" + time.Now().Format(timestampLayout)
	return e.prefix, nil
}

// ============================================================================
// Terminal Operations
// ============================================================================

// WriteEPUB assembles the course, renders every document, and writes
// the finished book to dir as "<FilenamePrefix>.epub". It returns the
// written path and the warnings accumulated across the whole export.
// This is a terminal operation: it releases the decoder's working
// files before returning, so the Exporter's extracted attachments are
// gone afterwards.
//
// Example:
//
//	path, warnings, err := coursebook.Open("biology-101.imscc").WriteEPUB("out")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if len(warnings) > 0 {
//	    log.Println(coursebook.FormatWarnings(warnings))
//	}
//	fmt.Println("wrote", path)
func (e *Exporter) WriteEPUB(dir string) (string, []Warning, error) {
	if e.err != nil {
		return "", nil, e.err
	}

	set, err := e.Templates()
	if err != nil {
		return "", e.warnings, err
	}
	prefix, err := e.FilenamePrefix()
	if err != nil {
		return "", e.warnings, err
	}
	defer e.Cleanup()

	for _, uf := range e.UnsupportedFiles() {
		e.warn(WarningUnsupportedFile, fmt.Sprintf("%s (%s) not embedded", uf.Name, uf.MediaType))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", e.warnings, fmt.Errorf("create output directory: %w", err)
	}
	outPath := filepath.Join(dir, prefix+".epub")

	f, err := os.Create(outPath)
	if err != nil {
		return "", e.warnings, fmt.Errorf("create %s: %w", outPath, err)
	}
	writer := epub.NewWriterWithOptions(set, epub.Options{
		Identifier: e.options.identifier,
		Language:   e.options.language,
		Author:     e.options.author,
		Cover:      e.options.cover,
	})
	if err := writer.Write(f); err != nil {
		f.Close()
		return "", e.warnings, err
	}
	if err := f.Close(); err != nil {
		return "", e.warnings, fmt.Errorf("close %s: %w", outPath, err)
	}
	return outPath, e.warnings, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

func (e *Exporter) warn(wt WarningType, msg string) {
	e.warnings = append(e.warnings, Warning{Type: wt, Message: msg})
}
