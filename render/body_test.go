package render

import (
	"strings"
	"testing"

	"github.com/tsawler/coursebook/cartridge"
)

func bodySource(t *testing.T) *stubSource {
	t.Helper()
	return &stubSource{items: map[cartridge.Resource]map[string]cartridge.Item{
		cartridge.ResourcePages: {
			"pg-1": {"identifier": "pg-1", "href": "pages.xhtml#item-pg-1"},
			"pg-2": {"identifier": "pg-2", "href": "pages.xhtml"},
		},
		cartridge.ResourceFiles: {
			"fl-1": {"identifier": "fl-1", "href": "files/diagram.png"},
		},
	}}
}

func TestBodyEmpty(t *testing.T) {
	r := New()
	if got := r.body("", nil); got != "" {
		t.Errorf("empty body should render empty, got %q", got)
	}
	if got := r.body("  \n\t ", nil); got != "" {
		t.Errorf("whitespace body should render empty, got %q", got)
	}
}

func TestBodySanitizesScripts(t *testing.T) {
	out := string(New().body(`<p>ok</p><script>alert(1)</script>`, nil))
	if !strings.Contains(out, "<p>ok</p>") {
		t.Errorf("paragraph should survive sanitization: %q", out)
	}
	if strings.Contains(out, "<script") || strings.Contains(out, "alert(1)") {
		t.Errorf("script should not survive sanitization: %q", out)
	}
}

func TestBodyKeepsExternalLinks(t *testing.T) {
	out := string(New().body(`<a href="https://example.com/x">docs</a>`, bodySource(t)))
	if !strings.Contains(out, `href="https://example.com/x"`) {
		t.Errorf("external link should pass through unchanged: %q", out)
	}
}

func TestBodyRewritesCourseLinks(t *testing.T) {
	out := string(New().body(`<p><a href="course://pages/pg-1">See the lab page</a></p>`, bodySource(t)))
	if !strings.Contains(out, `<a href="pages.xhtml#item-pg-1">See the lab page</a>`) {
		t.Errorf("course link should resolve to its export location: %q", out)
	}
}

func TestBodyCourseLinkFragments(t *testing.T) {
	source := bodySource(t)

	// A reference fragment rides along when the export location has none.
	out := string(New().body(`<a href="course://pages/pg-2#setup">setup</a>`, source))
	if !strings.Contains(out, `href="pages.xhtml#setup"`) {
		t.Errorf("reference fragment should append to the export location: %q", out)
	}

	// It never stacks onto a location that already carries one.
	out = string(New().body(`<a href="course://pages/pg-1#setup">setup</a>`, source))
	if !strings.Contains(out, `href="pages.xhtml#item-pg-1"`) || strings.Contains(out, "#item-pg-1#") {
		t.Errorf("fragments should not stack: %q", out)
	}
}

func TestBodyDegradesUnresolvedLinks(t *testing.T) {
	out := string(New().body(`<p>Read <a href="course://pages/gone">the old page</a> first.</p>`, bodySource(t)))
	if strings.Contains(out, "<a") {
		t.Errorf("unresolved course link should degrade to text: %q", out)
	}
	if !strings.Contains(out, "Read the old page first.") {
		t.Errorf("link text should survive degradation: %q", out)
	}
}

func TestBodyRewritesCourseImages(t *testing.T) {
	source := bodySource(t)

	out := string(New().body(`<img src="course://files/fl-1" alt="diagram"/>`, source))
	if !strings.Contains(out, `src="files/diagram.png"`) {
		t.Errorf("course image should resolve to its export location: %q", out)
	}

	out = string(New().body(`<img src="course://files/gone" alt="a diagram"/>`, source))
	if strings.Contains(out, "<img") {
		t.Errorf("unresolved course image should not ship: %q", out)
	}
	if !strings.Contains(out, "a diagram") {
		t.Errorf("alternate text should replace an unresolved image: %q", out)
	}
}

func TestBodyHighlightsCode(t *testing.T) {
	raw := "<pre><code class=\"language-go\">package main</code></pre>"
	out := string(New().body(raw, nil))
	if !strings.Contains(out, "style=") {
		t.Errorf("highlighted block should carry inline styles: %q", out)
	}
	if !strings.Contains(out, "package") {
		t.Errorf("highlighted block should keep its source text: %q", out)
	}
	if strings.Contains(out, "language-go") {
		t.Errorf("language marker should be consumed by highlighting: %q", out)
	}
}

func TestBodyLeavesPlainCodeAlone(t *testing.T) {
	raw := "<pre><code>just output</code></pre>"
	out := string(New().body(raw, nil))
	if !strings.Contains(out, "<pre><code>just output</code></pre>") {
		t.Errorf("unfenced code should pass through untouched: %q", out)
	}
}

func TestBodySelfClosesVoidElements(t *testing.T) {
	out := string(New().body(`<p>line one<br>line two</p>`, nil))
	if !strings.Contains(out, "<br/>") {
		t.Errorf("void elements must self-close for XML: %q", out)
	}
}
