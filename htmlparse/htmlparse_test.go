package htmlparse

import (
	"strings"
	"testing"

	"github.com/lukehoban/htmlcore/domtree"
	"github.com/lukehoban/htmlcore/token"
)

func firstElement(n *domtree.Node, tag string) *domtree.Node {
	if n.Type == domtree.ElementNode && n.Data == tag {
		return n
	}
	for _, c := range n.Children {
		if found := firstElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func TestParseSimpleElement(t *testing.T) {
	doc, errs, err := Parse(strings.NewReader("<div>Hello</div>"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("expected no parse errors, got %v", errs)
	}

	div := firstElement(doc.Root, "div")
	if div == nil {
		t.Fatal("expected a div element in the tree")
	}
	if len(div.Children) != 1 || div.Children[0].Type != domtree.TextNode {
		t.Fatalf("expected div to have one text child, got %+v", div.Children)
	}
	if got := div.Children[0].Data; got != "Hello" {
		t.Errorf("text = %q, want %q", got, "Hello")
	}
}

func TestParseImpliesHTMLHeadBody(t *testing.T) {
	doc, _, err := Parse(strings.NewReader("<p>no html wrapper</p>"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	html := firstElement(doc.Root, "html")
	if html == nil {
		t.Fatal("expected an implied <html> element")
	}
	if firstElement(html, "head") == nil {
		t.Error("expected an implied <head> element")
	}
	if firstElement(html, "body") == nil {
		t.Error("expected an implied <body> element")
	}
}

func TestParseAttributes(t *testing.T) {
	doc, _, err := Parse(strings.NewReader(`<div id="main" class="a b"></div>`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	div := firstElement(doc.Root, "div")
	if div == nil {
		t.Fatal("expected a div element")
	}
	if got := div.GetAttribute("id"); got != "main" {
		t.Errorf("id = %q, want %q", got, "main")
	}
	if got := div.GetAttribute("class"); got != "a b" {
		t.Errorf("class = %q, want %q", got, "a b")
	}
}

func TestParseMisnestedFormattingReportsError(t *testing.T) {
	_, errs, err := Parse(strings.NewReader("<p>1<b>2<i>3</p>4</b>5</i>"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(errs) == 0 {
		t.Error("expected at least one recovered parse error for the misnested markup")
	}
}

func TestParseTableFosterParentsStrayText(t *testing.T) {
	doc, _, err := Parse(strings.NewReader("<table>stray<tr><td>cell</td></tr></table>"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	table := firstElement(doc.Root, "table")
	if table == nil {
		t.Fatal("expected a table element")
	}
	if table.Parent == nil {
		t.Fatal("table should have a parent")
	}
	foundBeforeTable := false
	for _, c := range table.Parent.Children {
		if c == table {
			break
		}
		if c.Type == domtree.TextNode && strings.Contains(c.Data, "stray") {
			foundBeforeTable = true
		}
	}
	if !foundBeforeTable {
		t.Error("expected foster-parented text to land immediately before the table")
	}

	td := firstElement(doc.Root, "td")
	if td == nil || len(td.Children) != 1 || td.Children[0].Data != "cell" {
		t.Errorf("expected <td>cell</td>, got %+v", td)
	}
}

func TestParseWithErrorHandler(t *testing.T) {
	var seen []ParseError
	_, errs, err := Parse(strings.NewReader("<p></div>"), WithErrorHandler(func(pe ParseError) {
		seen = append(seen, pe)
	}))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if errs != nil {
		t.Errorf("expected errs to be nil when a handler is installed, got %v", errs)
	}
	if len(seen) == 0 {
		t.Error("expected the error handler to observe at least one parse error")
	}
}

func TestParseFragmentInTableContext(t *testing.T) {
	// Fed raw "<tr><td>" content, a document parse would foster-parent
	// the row out of nowhere; a fragment parse with a table context
	// should accept it directly in "in row" mode.
	doc, _, err := Parse(strings.NewReader("<tr><td>cell</td></tr>"), WithFragmentContext(token.Table))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	td := firstElement(doc.Root, "td")
	if td == nil || len(td.Children) != 1 || td.Children[0].Data != "cell" {
		t.Errorf("expected <td>cell</td> directly under the implied table context, got %+v", td)
	}
}

func TestParseFragmentInSelectContext(t *testing.T) {
	doc, _, err := Parse(strings.NewReader("<option>A</option>"), WithFragmentContext(token.Select))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	opt := firstElement(doc.Root, "option")
	if opt == nil || opt.TextContent() != "A" {
		t.Errorf("expected <option>A</option> accepted directly in select-fragment context, got %+v", opt)
	}
}

func TestParseComment(t *testing.T) {
	doc, _, err := Parse(strings.NewReader("<!-- hi --><p></p>"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	var found *domtree.Node
	var walk func(*domtree.Node)
	walk = func(n *domtree.Node) {
		if n.Type == domtree.CommentNode {
			found = n
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(doc.Root)
	if found == nil {
		t.Fatal("expected a comment node")
	}
	if got := found.Data; got != " hi " {
		t.Errorf("comment text = %q, want %q", got, " hi ")
	}
}
