package treebuilder

import (
	"strings"
	"testing"

	"github.com/lukehoban/htmlcore/domtree"
	"github.com/lukehoban/htmlcore/stream"
	"github.com/lukehoban/htmlcore/token"
	"github.com/lukehoban/htmlcore/tokeniser"
)

// parseHTML drives the real tokeniser against a real Builder, returning
// the Builder itself (so tests can inspect b.stack/b.afe after the
// parse) alongside the resulting document.
func parseHTML(t *testing.T, input string) (*Builder, *domtree.Document) {
	t.Helper()
	s, err := stream.New(strings.NewReader(input))
	if err != nil {
		t.Fatalf("stream.New: %v", err)
	}
	handler := domtree.New()
	b := New(handler, nil)
	s.Subscribe(func(buf []byte) { b.SetSourceBuffer(buf) })

	tok := tokeniser.New(s, func(tt token.Token) error {
		return b.HandleToken(tt)
	})
	defer tok.Close()
	if err := tok.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	b.Close()
	return b, handler.Result()
}

func findAll(n *domtree.Node, typ token.ElementType) []*domtree.Node {
	var out []*domtree.Node
	if n.Type == domtree.ElementNode && n.ElemType == typ {
		out = append(out, n)
	}
	for _, c := range n.Children {
		out = append(out, findAll(c, typ)...)
	}
	return out
}

func TestInBodyImpliedParagraphClose(t *testing.T) {
	_, doc := parseHTML(t, "<p>one<p>two")
	ps := findAll(doc.Root, token.P)
	if len(ps) != 2 {
		t.Fatalf("expected 2 <p> elements (second implicitly closes the first), got %d", len(ps))
	}
	if ps[0].TextContent() != "one" || ps[1].TextContent() != "two" {
		t.Errorf("unexpected paragraph contents: %q, %q", ps[0].TextContent(), ps[1].TextContent())
	}
}

func TestInBodyHeadingAutoCloses(t *testing.T) {
	_, doc := parseHTML(t, "<h1>Title<h2>Subtitle")
	h1s := findAll(doc.Root, token.H1)
	h2s := findAll(doc.Root, token.H2)
	if len(h1s) != 1 || len(h2s) != 1 {
		t.Fatalf("expected one h1 and one h2, got %d/%d", len(h1s), len(h2s))
	}
	if len(h1s[0].Children) != 1 {
		t.Errorf("expected h1 to only contain its own text, h2 opening should have closed it")
	}
}

func TestAdoptionAgencyMisnestedFormatting(t *testing.T) {
	// <b><i>text</b>more</i> — classic adoption agency input: </b>
	// closes past the still-open <i>, which must be cloned so "more"
	// stays inside italics.
	_, doc := parseHTML(t, "<p><b><i>text</b>more</i></p>")
	ps := findAll(doc.Root, token.P)
	if len(ps) != 1 {
		t.Fatalf("expected one <p>, got %d", len(ps))
	}
	is := findAll(ps[0], token.I)
	if len(is) < 2 {
		t.Fatalf("expected adoption agency to clone <i> across the misnested </b>, got %d <i> elements", len(is))
	}
	if got := ps[0].TextContent(); got != "textmore" {
		t.Errorf("TextContent() = %q, want %q", got, "textmore")
	}
}

func TestActiveFormattingReconstructedAfterBlock(t *testing.T) {
	// <div><b>bold</div>after — </div> pops the still-open <b> along
	// with the <div>, so formatting must be reconstructed for "after".
	_, doc := parseHTML(t, "<div><b>bold</div>after")
	bs := findAll(doc.Root, token.B)
	if len(bs) < 2 {
		t.Fatalf("expected reconstruction to open a second <b> after </div>, got %d", len(bs))
	}
}

func TestTableFosterParentsStrayText(t *testing.T) {
	_, doc := parseHTML(t, "<table>stray<tr><td>cell</td></tr></table>")
	tables := findAll(doc.Root, token.Table)
	if len(tables) != 1 {
		t.Fatalf("expected one table, got %d", len(tables))
	}
	table := tables[0]
	// Foster-parented text must land as a sibling before the table,
	// not as a child of it.
	for _, c := range table.Children {
		if c.Type == domtree.TextNode && c.Data == "stray" {
			t.Error("expected stray text to be foster-parented out of the table, not left as its child")
		}
	}
	found := false
	for _, c := range table.Parent.Children {
		if c.Type == domtree.TextNode && c.Data == "stray" {
			found = true
		}
	}
	if !found {
		t.Error("expected foster-parented text as a sibling of the table")
	}
	tds := findAll(doc.Root, token.Td)
	if len(tds) != 1 || tds[0].TextContent() != "cell" {
		t.Errorf("expected one <td>cell</td>, got %+v", tds)
	}
}

func TestTableCaption(t *testing.T) {
	_, doc := parseHTML(t, "<table><caption>Title</caption><tr><td>x</td></tr></table>")
	captions := findAll(doc.Root, token.Caption)
	if len(captions) != 1 || captions[0].TextContent() != "Title" {
		t.Fatalf("expected one caption with text Title, got %+v", captions)
	}
}

func TestSelectOptionNesting(t *testing.T) {
	_, doc := parseHTML(t, "<select><option>A<option>B</select>")
	options := findAll(doc.Root, token.Option)
	if len(options) != 2 {
		t.Fatalf("expected 2 <option> elements (second implicitly closes the first), got %d", len(options))
	}
	if options[0].TextContent() != "A" || options[1].TextContent() != "B" {
		t.Errorf("unexpected option contents: %q, %q", options[0].TextContent(), options[1].TextContent())
	}
}

func TestAfterBodyTrailingCommentAttachesToHTML(t *testing.T) {
	_, doc := parseHTML(t, "<html><body>content</body><!--trailing--></html>")
	htmls := findAll(doc.Root, token.HTMLElem)
	if len(htmls) != 1 {
		t.Fatalf("expected one <html>, got %d", len(htmls))
	}
	found := false
	for _, c := range htmls[0].Children {
		if c.Type == domtree.CommentNode && c.Data == "trailing" {
			found = true
		}
	}
	if !found {
		t.Error("expected a trailing comment after </body> to attach under <html>")
	}
}

func TestForeignContentSVGBreaksOutOnHTMLElement(t *testing.T) {
	_, doc := parseHTML(t, "<svg><circle/><p>back in html</p></svg>")
	svgs := findAll(doc.Root, token.SVGElem)
	if len(svgs) != 1 {
		t.Fatalf("expected one <svg>, got %d", len(svgs))
	}
	if svgs[0].Namespace != token.SVG {
		t.Errorf("expected <svg> element to be in the SVG namespace, got %v", svgs[0].Namespace)
	}
	ps := findAll(doc.Root, token.P)
	if len(ps) != 1 {
		t.Fatalf("expected <p> to break out of foreign content, got %d <p> elements", len(ps))
	}
	if ps[0].Namespace != token.HTML {
		t.Errorf("expected breakout <p> to be back in the HTML namespace, got %v", ps[0].Namespace)
	}
}

func TestQuirksModeSetFromDoctype(t *testing.T) {
	b, _ := parseHTML(t, "<!DOCTYPE html><html><body>x</body></html>")
	if b.quirks {
		t.Error("expected a standard <!DOCTYPE html> to not trigger quirks mode")
	}
}

func TestQuirksModeForceQuirksDoctype(t *testing.T) {
	b, _ := parseHTML(t, `<!DOCTYPE html PUBLIC "HTML"><html><body>x</body></html>`)
	if !b.quirks {
		t.Error("expected a legacy HTML 2/3-style public identifier to trigger quirks mode")
	}
}

func TestMissingDoctypeTriggersQuirksOnlyViaForceFlag(t *testing.T) {
	b, _ := parseHTML(t, "<html><body>x</body></html>")
	if b.quirks {
		t.Error("a missing doctype alone should not set quirks in this builder (no doctype token is seen at all)")
	}
}

func TestVoidElementNotPushedOnStack(t *testing.T) {
	b, doc := parseHTML(t, "<p><br>after")
	if len(b.stack) != 0 {
		t.Errorf("expected the element stack to be empty after a complete parse, got %d entries", len(b.stack))
	}
	brs := findAll(doc.Root, token.Br)
	if len(brs) != 1 {
		t.Fatalf("expected one <br>, got %d", len(brs))
	}
}
