package render

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"

	"github.com/tsawler/coursebook/book"
	"github.com/tsawler/coursebook/cartridge"
)

// courseScheme is the URL scheme course bodies use for internal links:
// course://<resource>/<identifier>.
const courseScheme = "course"

// body runs a record body through the content pipeline: sanitize the
// untrusted HTML, resolve internal course links against the item
// source, highlight fenced code blocks, and serialize back to XHTML.
// Bodies that fail to parse after sanitization ship sanitized but
// otherwise untouched.
func (r *Renderer) body(raw string, source book.ItemSource) template.HTML {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	clean := r.policy.Sanitize(raw)

	nodes, err := parseBody(clean)
	if err != nil {
		return template.HTML(clean)
	}

	// Fragment nodes arrive detached; the pipeline splices siblings in
	// and out, so they need a parent to edit under.
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	rewriteCourseLinks(root, source)
	r.highlightCode(root)

	var buf strings.Builder
	writeXHTML(&buf, root)
	return template.HTML(buf.String())
}

// parseBody parses an HTML fragment in body context.
func parseBody(s string) ([]*html.Node, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	return html.ParseFragment(strings.NewReader(s), ctx)
}

// rewriteCourseLinks walks the fragment and resolves course-scheme
// references through the item source. Links whose record carries an
// export location point there afterwards; links that resolve to a
// placeholder degrade to their text content, and images that do so are
// replaced by their alternate text.
func rewriteCourseLinks(n *html.Node, source book.ItemSource) {
	// Children are captured first: degrading a node edits the tree
	// under its parent.
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	for _, c := range children {
		rewriteCourseLinks(c, source)
	}

	if n.Type != html.ElementNode {
		return
	}

	switch n.Data {
	case "a":
		if target, ok := resolveCourseRef(attrValue(n, "href"), source); ok {
			if target == "" {
				unwrapNode(n)
				return
			}
			setAttr(n, "href", target)
		}
	case "img":
		if target, ok := resolveCourseRef(attrValue(n, "src"), source); ok {
			if target == "" {
				replaceWithText(n, attrValue(n, "alt"))
				return
			}
			setAttr(n, "src", target)
		}
	}
}

// resolveCourseRef resolves a course-scheme reference to its export
// location. The second return reports whether the reference used the
// course scheme at all; a true result with an empty location means the
// reference did not resolve.
func resolveCourseRef(ref string, source book.ItemSource) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != courseScheme {
		return "", false
	}

	resource := cartridge.Resource(u.Host)
	identifier := strings.TrimPrefix(u.Path, "/")
	if source == nil || !resource.Valid() || identifier == "" {
		return "", true
	}

	item, err := source.GetItem(resource, identifier)
	if err != nil {
		return "", true
	}
	target := item.Text("href")
	if target != "" && u.Fragment != "" && !strings.Contains(target, "#") {
		target += "#" + u.Fragment
	}
	return target, true
}

// highlightCode replaces fenced code blocks, pre > code elements with
// a language class, by their syntax-highlighted rendition. Blocks
// whose language neither matches a lexer nor analyses to one are left
// alone.
func (r *Renderer) highlightCode(n *html.Node) {
	var blocks []*html.Node
	findCodeBlocks(n, &blocks)

	for _, pre := range blocks {
		code := pre.FirstChild
		lang := strings.TrimPrefix(attrValue(code, "class"), "language-")
		source := textContent(code)

		highlighted, err := r.highlight(source, lang)
		if err != nil {
			continue
		}

		frag, err := parseBody(highlighted)
		if err != nil || len(frag) == 0 {
			continue
		}
		parent := pre.Parent
		for _, fn := range frag {
			parent.InsertBefore(fn, pre)
		}
		parent.RemoveChild(pre)
	}
}

// findCodeBlocks collects pre elements whose single child is a code
// element carrying a language class.
func findCodeBlocks(n *html.Node, out *[]*html.Node) {
	if n.Type == html.ElementNode && n.Data == "pre" {
		c := n.FirstChild
		if c != nil && c.NextSibling == nil && c.Type == html.ElementNode && c.Data == "code" &&
			strings.HasPrefix(attrValue(c, "class"), "language-") {
			*out = append(*out, n)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		findCodeBlocks(c, out)
	}
}

// highlight renders source through chroma with inline styles, so the
// result needs no stylesheet support from the reading system.
func (r *Renderer) highlight(source, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(r.opts.HighlightStyle)
	if style == nil {
		style = chromaStyles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(false))
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ============================================================================
// Node helpers
// ============================================================================

// voidElements are serialized self-closed; everything else gets an
// explicit end tag so the output stays well-formed XML.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// writeXHTML serializes a node tree as XHTML. The x/net serializer
// emits HTML syntax, which leaves void elements unclosed; book
// containers require well-formed XML, so the pipeline carries its own
// writer. Comments are dropped.
func writeXHTML(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
	case html.ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Data)
		for _, a := range n.Attr {
			b.WriteByte(' ')
			b.WriteString(a.Key)
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(a.Val))
			b.WriteByte('"')
		}
		if voidElements[n.Data] && n.FirstChild == nil {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeXHTML(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteByte('>')
	case html.CommentNode:
		// dropped
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeXHTML(b, c)
		}
	}
}

func attrValue(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// unwrapNode replaces a node with its children.
func unwrapNode(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	for _, c := range children {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// replaceWithText swaps a node for a plain text node, or removes it
// when the text is empty.
func replaceWithText(n *html.Node, text string) {
	parent := n.Parent
	if parent == nil {
		return
	}
	if text != "" {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text}, n)
	}
	parent.RemoveChild(n)
}

// textContent flattens a node's text.
func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
