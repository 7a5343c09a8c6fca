package treebuilder

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/lukehoban/htmlcore/domtree"
	"github.com/lukehoban/htmlcore/stream"
	"github.com/lukehoban/htmlcore/token"
	"github.com/lukehoban/htmlcore/tokeniser"
)

// parseHTMLChunked drives the tokeniser/builder pair the same way
// parseHTML does, but feeds the input through a stream.Feeder a few
// bytes at a time instead of handing it over all at once, so every
// tag, entity and close-tag match has a real chance of straddling a
// stream.OOD boundary (spec §5 "Suspension points").
func parseHTMLChunked(t *testing.T, input string, chunk int) *domtree.Document {
	t.Helper()
	s := stream.NewFeeder()
	handler := domtree.New()
	b := New(handler, nil)
	s.Subscribe(func(buf []byte) { b.SetSourceBuffer(buf) })

	tok := tokeniser.New(s, func(tt token.Token) error {
		return b.HandleToken(tt)
	})
	defer tok.Close()

	in := []byte(input)
	for len(in) > 0 {
		n := chunk
		if n > len(in) {
			n = len(in)
		}
		s.Feed(in[:n])
		in = in[n:]
		if err := tok.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}
	s.CloseFeed()
	if err := tok.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	b.Close()
	return handler.Result()
}

// dumpNode renders n and its descendants as an indented outline -
// tag/text/comment/doctype nodes with sorted attributes - so two trees
// built from the same logical input can be compared line by line.
func dumpNode(sb *strings.Builder, n *domtree.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Type {
	case domtree.DocumentNode:
		fmt.Fprintf(sb, "%s#document\n", indent)
	case domtree.DoctypeNode:
		fmt.Fprintf(sb, "%s<!DOCTYPE %s>\n", indent, n.Data)
	case domtree.TextNode:
		fmt.Fprintf(sb, "%s#text(%q)\n", indent, n.Data)
	case domtree.CommentNode:
		fmt.Fprintf(sb, "%s#comment(%q)\n", indent, n.Data)
	case domtree.ElementNode:
		names := make([]string, 0, len(n.Attributes))
		for name := range n.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(sb, "%s<%s ns=%s", indent, n.Data, n.Namespace)
		for _, name := range names {
			fmt.Fprintf(sb, " %s=%q", name, n.Attributes[name])
		}
		sb.WriteString(">\n")
	}
	for _, c := range n.Children {
		dumpNode(sb, c, depth+1)
	}
}

func dumpDocument(doc *domtree.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "quirks=%v limited-quirks=%v\n", doc.Quirks, doc.LimitedQuirks)
	dumpNode(&sb, doc.Root, 0)
	return sb.String()
}

// TestTreeBuilderChunkedMatchesWhole checks that building the tree
// from input delivered in small chunks produces the same tree as
// building it from input delivered whole, regardless of where the
// chunk boundaries happen to fall inside tags, entities or close-tag
// matches.
func TestTreeBuilderChunkedMatchesWhole(t *testing.T) {
	inputs := []string{
		`<!DOCTYPE html><html><head><title>Hi &amp; bye</title></head>` +
			`<body><p id="a" class="b c">Hello, <b>World</b>!</p>` +
			`<!-- a comment --><table><tr><td>cell</td></tr></table>` +
			`</body></html>`,
		"<p>one<p>two<div>three",
		"<ul><li>a<li>b<li>c</ul>",
		"text before <b>bold <i>both</b> italic</i> after",
	}
	for _, in := range inputs {
		_, whole := parseHTML(t, in)
		want := dumpDocument(whole)
		for _, chunk := range []int{1, 4, 9} {
			got := dumpDocument(parseHTMLChunked(t, in, chunk))
			if want != got {
				t.Errorf("chunk size %d mismatch for %q:\n%v", chunk, in, diff.LineDiff(want, got))
			}
		}
	}
}

// TestTreeBuilderIdempotentOnSameInput checks that parsing the same
// input twice independently yields identical trees - the builder
// keeps no state across calls that would make one run influence the
// next.
func TestTreeBuilderIdempotentOnSameInput(t *testing.T) {
	in := `<html><body><form><input name="a"><select><option>x</option></select></form></body></html>`
	_, first := parseHTML(t, in)
	_, second := parseHTML(t, in)
	a, b := dumpDocument(first), dumpDocument(second)
	if a != b {
		t.Errorf("parsing the same input twice produced different trees:\n%v", diff.LineDiff(a, b))
	}
}
