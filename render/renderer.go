// Package render turns assembled document models into XHTML documents.
//
// Each document renders with the layout its descriptor names; the
// layouts are embedded in the package, one file per descriptor. Record
// bodies arrive as untrusted course HTML and go through a fixed
// pipeline before they reach a layout: sanitization, internal link
// resolution, and syntax highlighting of fenced code blocks.
//
// Internal course links use the course scheme,
//
//	<a href="course://pages/pg-42">See the lab page</a>
//
// where the host is a resource key and the path an item identifier.
// The pipeline resolves them through the document's item source: a
// record that carries an export location rewrites the link to it, and
// a miss degrades the link to plain text rather than shipping a dead
// reference.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"

	"github.com/tsawler/coursebook/book"
	"github.com/tsawler/coursebook/cartridge"
)

//go:embed templates/*.xhtml
var layoutFS embed.FS

// xmlDeclaration is written ahead of every document. The layouts keep
// it out of the template text so the template engine never sees a
// processing instruction.
const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// languageClass matches the fenced-code language marker sanitization
// lets through on code elements.
var languageClass = regexp.MustCompile(`^language-[a-zA-Z0-9+-]+$`)

// Options configures rendering.
type Options struct {
	// Language is the document language tag. Default: "en".
	Language string

	// Stylesheet is the href of the shared stylesheet, relative to the
	// documents. Default: "stylesheet.css".
	Stylesheet string

	// HighlightStyle is the color scheme for highlighted code blocks.
	// Any chroma style name works; unknown names fall back to a plain
	// scheme. Default: "github".
	HighlightStyle string
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options {
	return Options{
		Language:       "en",
		Stylesheet:     "stylesheet.css",
		HighlightStyle: "github",
	}
}

// Renderer renders document models to XHTML. A Renderer is stateless
// apart from its configuration and may be reused across documents and
// exports.
type Renderer struct {
	tmpl   *template.Template
	policy *bluemonday.Policy
	opts   Options
}

// New returns a Renderer with default options.
func New() *Renderer {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions returns a Renderer with the given options. Zero
// option fields keep their defaults.
func NewWithOptions(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Language == "" {
		opts.Language = def.Language
	}
	if opts.Stylesheet == "" {
		opts.Stylesheet = def.Stylesheet
	}
	if opts.HighlightStyle == "" {
		opts.HighlightStyle = def.HighlightStyle
	}

	return &Renderer{
		tmpl:   template.Must(template.ParseFS(layoutFS, "templates/*.xhtml")),
		policy: contentPolicy(),
		opts:   opts,
	}
}

// contentPolicy builds the sanitization policy for course bodies:
// user-generated-content defaults, plus the course link scheme and the
// fenced-code language marker the highlighter keys on.
func contentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(languageClass).OnElements("code")
	p.AllowURLSchemes("course")
	p.RequireNoFollowOnLinks(false)
	return p
}

// Render produces the XHTML document for one template. The layout is
// selected by the template's descriptor; record bodies pass through
// the sanitize/resolve/highlight pipeline on the way in.
func (r *Renderer) Render(t *book.Template) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("render: nil template")
	}

	data := r.buildData(t)

	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)
	name := string(t.Descriptor) + ".xhtml"
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render: %s: %w", t.Descriptor, err)
	}
	return buf.Bytes(), nil
}

// documentData is the payload every layout receives.
type documentData struct {
	Title      string
	Lang       string
	Stylesheet string

	// Entries is set for the table of contents layout.
	Entries []tocRow

	// Items is set for every other layout.
	Items []itemView
}

// tocRow is one rendered table of contents entry.
type tocRow struct {
	Title string
	Href  string
	Count int
}

// itemView is one rendered record.
type itemView struct {
	Anchor string
	Title  string
	Posted string
	Href   string
	Header bool
	Body   template.HTML
}

// buildData maps a template's content view onto its layout payload.
func (r *Renderer) buildData(t *book.Template) documentData {
	data := documentData{
		Title:      t.DisplayTitle(),
		Lang:       r.opts.Language,
		Stylesheet: r.opts.Stylesheet,
	}

	switch content := t.Content.(type) {
	case *book.TOC:
		data.Entries = make([]tocRow, 0, content.Len())
		for _, e := range content.Entries {
			data.Entries = append(data.Entries, tocRow{
				Title: e.Title,
				Href:  book.DocumentPath(e.Reference),
				Count: len(e.Items),
			})
		}

	case book.ItemList:
		data.Items = make([]itemView, 0, len(content))
		for _, it := range content {
			data.Items = append(data.Items, itemView{
				Anchor: book.ItemAnchor(it.Identifier()),
				Title:  it.Title(),
				Posted: it.Text("posted_at"),
				Body:   r.body(it.Text("body"), t.Source),
			})
		}

	case book.Module:
		entries := content.Items()
		data.Items = make([]itemView, 0, len(entries))
		for _, entry := range entries {
			if entry.Type() == cartridge.TypeHeader {
				data.Items = append(data.Items, itemView{Header: true, Title: entry.Title()})
				continue
			}
			data.Items = append(data.Items, r.moduleEntry(entry, t.Source))
		}
	}

	return data
}

// moduleEntry renders one linked module entry. File entries re-resolve
// their record through the item source: the packager patches export
// locations into the content graph after the entry was merged, so the
// graph, not the merged copy, is authoritative for the href.
func (r *Renderer) moduleEntry(entry cartridge.Item, source book.ItemSource) itemView {
	v := itemView{
		Anchor: book.ItemAnchor(entry.Identifier()),
		Title:  entry.Title(),
		Posted: entry.Text("posted_at"),
		Body:   r.body(entry.Text("body"), source),
	}

	if entry.Type() == cartridge.TypeFile && source != nil {
		if rec, err := source.GetItem(cartridge.ResourceFiles, entry.Identifier()); err == nil {
			v.Href = rec.Text("href")
		}
	}
	return v
}
