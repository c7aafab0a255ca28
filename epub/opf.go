package epub

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/tsawler/coursebook/internal/sanitize"
)

// opfPackage is the package document. Dublin Core elements carry their
// namespace prefix in the field tags; the metadata element declares
// the prefix.
type opfPackage struct {
	XMLName          xml.Name    `xml:"package"`
	Xmlns            string      `xml:"xmlns,attr"`
	Version          string      `xml:"version,attr"`
	UniqueIdentifier string      `xml:"unique-identifier,attr"`
	Metadata         opfMetadata `xml:"metadata"`
	Manifest         opfManifest `xml:"manifest"`
	Spine            opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	XmlnsDC    string    `xml:"xmlns:dc,attr"`
	Identifier dcID      `xml:"dc:identifier"`
	Title      string    `xml:"dc:title"`
	Language   string    `xml:"dc:language"`
	Creator    string    `xml:"dc:creator,omitempty"`
	Meta       []opfMeta `xml:"meta"`
}

type dcID struct {
	ID      string `xml:"id,attr"`
	Content string `xml:",chardata"`
}

type opfMeta struct {
	Property string `xml:"property,attr,omitempty"`
	Name     string `xml:"name,attr,omitempty"`    // EPUB 2 style
	Content  string `xml:"content,attr,omitempty"` // EPUB 2 style
	Value    string `xml:",chardata"`              // EPUB 3 style
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// Fixed manifest identifiers for the container's own entries.
const (
	navID        = "nav"
	ncxID        = "ncx"
	stylesheetID = "css"
	coverImageID = "cover-image"
	coverPageID  = "cover"
)

// buildOPF serializes the package document: metadata, a manifest entry
// for every container resource, and the spine in reading order. The
// cover page, when present, opens the spine.
func (w *Writer) buildOPF(docs []docEntry, attachments []attachment, cover *coverImage) ([]byte, error) {
	pkg := opfPackage{
		Xmlns:            "http://www.idpf.org/2007/opf",
		Version:          "3.0",
		UniqueIdentifier: "pub-id",
		Metadata: opfMetadata{
			XmlnsDC:    "http://purl.org/dc/elements/1.1/",
			Identifier: dcID{ID: "pub-id", Content: w.opts.Identifier},
			Title:      w.bookTitle(),
			Language:   w.opts.Language,
			Creator:    w.opts.Author,
			Meta: []opfMeta{{
				Property: "dcterms:modified",
				Value:    w.opts.Modified.UTC().Format(time.RFC3339),
			}},
		},
		Spine: opfSpine{Toc: ncxID},
	}

	pkg.Manifest.Items = append(pkg.Manifest.Items,
		opfItem{ID: navID, Href: navName, MediaType: "application/xhtml+xml", Properties: "nav"},
		opfItem{ID: ncxID, Href: ncxName, MediaType: "application/x-dtbncx+xml"},
		opfItem{ID: stylesheetID, Href: stylesheetName, MediaType: "text/css"},
	)

	if cover != nil {
		pkg.Metadata.Meta = append(pkg.Metadata.Meta, opfMeta{Name: "cover", Content: coverImageID})
		pkg.Manifest.Items = append(pkg.Manifest.Items,
			opfItem{ID: coverImageID, Href: cover.name, MediaType: cover.mediaType, Properties: "cover-image"},
			opfItem{ID: coverPageID, Href: coverPageName, MediaType: "application/xhtml+xml"},
		)
		pkg.Spine.ItemRefs = append(pkg.Spine.ItemRefs, opfItemRef{IDRef: coverPageID})
	}

	for _, d := range docs {
		pkg.Manifest.Items = append(pkg.Manifest.Items,
			opfItem{ID: d.id, Href: d.path, MediaType: "application/xhtml+xml"})
		pkg.Spine.ItemRefs = append(pkg.Spine.ItemRefs, opfItemRef{IDRef: d.id})
	}

	for i, a := range attachments {
		pkg.Manifest.Items = append(pkg.Manifest.Items,
			opfItem{ID: attachmentID(i, a), Href: a.name, MediaType: a.mediaType})
	}

	return marshalXML(pkg, "")
}

// attachmentID derives a manifest identifier for an attachment. The
// positional fallback covers records without an identifier.
func attachmentID(i int, a attachment) string {
	if a.identifier != "" {
		return "file-" + sanitize.Filename(a.identifier, 64)
	}
	return fmt.Sprintf("file-%d", i+1)
}
