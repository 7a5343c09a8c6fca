package domtree

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/lukehoban/htmlcore/log"
)

// ResolveURL resolves a potentially relative URL against a base URL,
// used to honour a document's <base> element against the URL it was
// fetched from (HTML5 §2.5.1).
func ResolveURL(baseURL, relativeURL string) string {
	if strings.HasPrefix(relativeURL, "http://") || strings.HasPrefix(relativeURL, "https://") {
		return relativeURL
	}

	if strings.HasPrefix(baseURL, "http://") || strings.HasPrefix(baseURL, "https://") {
		base, err := url.Parse(baseURL)
		if err != nil {
			log.Warnf("domtree: failed to parse base URL %q: %v", baseURL, err)
			return relativeURL
		}
		rel, err := url.Parse(relativeURL)
		if err != nil {
			log.Warnf("domtree: failed to parse relative URL %q: %v", relativeURL, err)
			return relativeURL
		}
		return base.ResolveReference(rel).String()
	}

	return filepath.Join(baseURL, relativeURL)
}

// ResolveBase walks the tree looking for the first <base href> element
// and returns documentURL resolved against its href (HTML5 §2.5.1
// "document base URL"). It does not rewrite any attribute in the tree.
// documentURL is returned unchanged if no <base href> is present.
func ResolveBase(root *Node, documentURL string) string {
	base := findBaseHref(root)
	if base == "" {
		return documentURL
	}
	return ResolveURL(documentURL, base)
}

func findBaseHref(n *Node) string {
	if n == nil {
		return ""
	}
	if n.Type == ElementNode && n.Data == "base" {
		if href := n.GetAttribute("href"); href != "" {
			return href
		}
	}
	for _, c := range n.Children {
		if href := findBaseHref(c); href != "" {
			return href
		}
	}
	return ""
}
