// Command htmldump parses an HTML document from a file path,
// http(s):// URL, or data: URL and prints an indented dump of the
// resulting tree. It replaces the teacher's cmd/browser, which also
// laid out and rasterised the page; that's out of scope here (spec.md
// §1 non-goals).
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lukehoban/htmlcore/domtree"
	"github.com/lukehoban/htmlcore/htmlparse"
)

func main() {
	showErrors := flag.Bool("errors", false, "print recovered parse errors to stderr")
	baseURL := flag.String("base", "", "base URL for resolving a <base href> (defaults to the input path/URL)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: htmldump [-errors] [-base url] <file|http(s)-url|data-url>")
		os.Exit(2)
	}
	source := flag.Arg(0)

	loader := domtree.NewResourceLoader(*baseURL)
	data, err := loader.Load(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "htmldump: %v\n", err)
		os.Exit(1)
	}

	doc, errs, err := htmlparse.Parse(strings.NewReader(string(data)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "htmldump: %v\n", err)
		os.Exit(1)
	}

	if *showErrors {
		for _, pe := range errs {
			fmt.Fprintf(os.Stderr, "parse error: %s\n", pe.Error())
		}
	}

	resolved := source
	if *baseURL != "" {
		resolved = *baseURL
	}
	resolved = domtree.ResolveBase(doc.Root, resolved)
	_ = resolved // reserved for callers that go on to resolve resource URLs

	dumpNode(doc.Root, 0)
}

func dumpNode(n *domtree.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Type {
	case domtree.DocumentNode:
		fmt.Println("#document")
	case domtree.DoctypeNode:
		fmt.Printf("%s<!DOCTYPE %s>\n", indent, n.Data)
	case domtree.CommentNode:
		fmt.Printf("%s<!-- %s -->\n", indent, n.Data)
	case domtree.TextNode:
		fmt.Printf("%s%q\n", indent, n.Data)
	case domtree.ElementNode:
		fmt.Printf("%s<%s%s>\n", indent, n.Data, formatAttrs(n))
	}
	for _, c := range n.Children {
		dumpNode(c, depth+1)
	}
}

func formatAttrs(n *domtree.Node) string {
	if len(n.Attributes) == 0 {
		return ""
	}
	var sb strings.Builder
	for name, value := range n.Attributes {
		fmt.Fprintf(&sb, " %s=%q", name, value)
	}
	return sb.String()
}
