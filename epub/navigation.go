package epub

import (
	"encoding/xml"
)

const xhtmlDoctype = "<!DOCTYPE html>"

// navDocument is the EPUB 3 navigation document: an XHTML page whose
// nav element carries epub:type="toc".
type navDocument struct {
	XMLName   xml.Name `xml:"html"`
	Xmlns     string   `xml:"xmlns,attr"`
	XmlnsEpub string   `xml:"xmlns:epub,attr"`
	Lang      string   `xml:"lang,attr"`
	Head      navHead  `xml:"head"`
	Body      navBody  `xml:"body"`
}

type navHead struct {
	Title string `xml:"title"`
}

type navBody struct {
	Nav navElement `xml:"nav"`
}

type navElement struct {
	Type    string  `xml:"epub:type,attr"`
	Heading string  `xml:"h1"`
	List    navList `xml:"ol"`
}

type navList struct {
	Items []navItem `xml:"li"`
}

type navItem struct {
	Anchor navAnchor `xml:"a"`
}

type navAnchor struct {
	Href string `xml:"href,attr"`
	Text string `xml:",chardata"`
}

// buildNav serializes nav.xhtml with one entry per document in reading
// order.
func (w *Writer) buildNav(docs []docEntry) ([]byte, error) {
	doc := navDocument{
		Xmlns:     "http://www.w3.org/1999/xhtml",
		XmlnsEpub: "http://www.idpf.org/2007/ops",
		Lang:      w.opts.Language,
		Head:      navHead{Title: w.bookTitle()},
		Body: navBody{Nav: navElement{
			Type:    "toc",
			Heading: w.bookTitle(),
		}},
	}

	for _, d := range docs {
		doc.Body.Nav.List.Items = append(doc.Body.Nav.List.Items,
			navItem{Anchor: navAnchor{Href: d.path, Text: d.title}})
	}

	return marshalXML(doc, xhtmlDoctype)
}

// ncxDocument is the EPUB 2 NCX navigation document, kept for older
// reading systems.
type ncxDocument struct {
	XMLName xml.Name  `xml:"ncx"`
	Xmlns   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Head    ncxHead   `xml:"head"`
	Title   string    `xml:"docTitle>text"`
	NavMap  ncxNavMap `xml:"navMap"`
}

type ncxHead struct {
	Meta []ncxMeta `xml:"meta"`
}

type ncxMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type ncxNavMap struct {
	NavPoints []ncxNavPoint `xml:"navPoint"`
}

type ncxNavPoint struct {
	ID        string     `xml:"id,attr"`
	PlayOrder int        `xml:"playOrder,attr"`
	Label     string     `xml:"navLabel>text"`
	Content   ncxContent `xml:"content"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}

// buildNCX serializes toc.ncx with one navPoint per document in
// reading order.
func (w *Writer) buildNCX(docs []docEntry) ([]byte, error) {
	ncx := ncxDocument{
		Xmlns:   "http://www.daisy.org/z3986/2005/ncx/",
		Version: "2005-1",
		Head: ncxHead{Meta: []ncxMeta{
			{Name: "dtb:uid", Content: w.opts.Identifier},
			{Name: "dtb:depth", Content: "1"},
			{Name: "dtb:totalPageCount", Content: "0"},
			{Name: "dtb:maxPageNumber", Content: "0"},
		}},
		Title: w.bookTitle(),
	}

	for i, d := range docs {
		ncx.NavMap.NavPoints = append(ncx.NavMap.NavPoints, ncxNavPoint{
			ID:        d.id,
			PlayOrder: i + 1,
			Label:     d.title,
			Content:   ncxContent{Src: d.path},
		})
	}

	return marshalXML(ncx, "")
}
