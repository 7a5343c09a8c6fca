package domtree

import (
	"fmt"

	"github.com/lukehoban/htmlcore/token"
)

// Document is the output of a parse: the document root node plus the
// quirks-mode classification the tree builder settled on (spec §6.3.1
// "Quirks mode").
type Document struct {
	Root          *Node
	Quirks        bool
	LimitedQuirks bool
}

// Builder implements treebuilder.TreeHandler against a concrete *Node
// tree, generalizing the teacher's single-purpose dom.Node into the
// element/text/comment/doctype/document node kinds and explicit
// Ref/Unref lifecycle the tree construction algorithm requires (spec
// §3.7 "Reference counting").
type Builder struct {
	doc *Node
	res Document
}

// New creates a Builder with a fresh, empty document root.
func New() *Builder {
	return &Builder{doc: NewDocument()}
}

// Result returns the built document, valid once tree construction
// finishes.
func (d *Builder) Result() *Document {
	d.res.Root = d.doc
	return &d.res
}

func asNode(v interface{}) *Node {
	if v == nil {
		return nil
	}
	n, ok := v.(*Node)
	if !ok {
		panic(fmt.Sprintf("domtree: unexpected node value %T", v))
	}
	return n
}

// CreateElement creates an element node carrying the tag name and
// attributes already resolved by the tree builder (spec §3.1: spans
// are only meaningful against the tree builder's own source buffer, so
// TreeHandler implementations receive self-contained values instead).
func (d *Builder) CreateElement(ns token.Namespace, elementType token.ElementType, spec token.ElementSpec) (interface{}, error) {
	n := NewElement(ns, elementType, spec.Name)
	for _, a := range spec.Attributes {
		n.SetAttribute(a.Name, a.Value)
	}
	return n, nil
}

func (d *Builder) CreateComment(text []byte) (interface{}, error) {
	return NewComment(string(text)), nil
}

// CreateDoctype creates a doctype node from its resolved name and
// public/system identifiers.
func (d *Builder) CreateDoctype(spec token.DoctypeSpec) (interface{}, error) {
	return NewDoctype(spec.Name, spec.PublicID, spec.SystemID), nil
}

func (d *Builder) CreateText(text []byte) (interface{}, error) {
	return NewText(string(text)), nil
}

func (d *Builder) AppendChild(parent, child interface{}) error {
	asNode(parent).AppendChild(asNode(child))
	return nil
}

func (d *Builder) InsertBefore(parent, child, before interface{}) error {
	asNode(parent).InsertBefore(asNode(child), asNode(before))
	return nil
}

func (d *Builder) RemoveChild(parent, child interface{}) error {
	asNode(parent).RemoveChild(asNode(child))
	return nil
}

// MoveChildren reparents every child of from onto to, in document
// order (used by the adoption agency algorithm, spec §6.6).
func (d *Builder) MoveChildren(from, to interface{}) error {
	f, t := asNode(from), asNode(to)
	for len(f.Children) > 0 {
		t.AppendChild(f.Children[0])
	}
	return nil
}

func (d *Builder) AppendText(parent interface{}, text []byte) error {
	p := asNode(parent)
	if n := len(p.Children); n > 0 && p.Children[n-1].Type == TextNode {
		p.Children[n-1].Data += string(text)
		return nil
	}
	p.AppendChild(NewText(string(text)))
	return nil
}

func (d *Builder) SetQuirksMode(quirks, limitedQuirks bool) {
	d.res.Quirks = quirks
	d.res.LimitedQuirks = limitedQuirks
}

// Ref and Unref track the tree builder's reference count on nodes on
// the stack of open elements and the active formatting elements list
// (spec §3.7). The concrete tree already keeps nodes alive through
// Parent/Children once attached; this counter exists for callers that
// need to observe it (e.g. diagnosing a builder that drops a node
// while it is still referenced).
func (d *Builder) Ref(node interface{}) {
	if n := asNode(node); n != nil {
		n.refs++
	}
}

func (d *Builder) Unref(node interface{}) {
	if n := asNode(node); n != nil {
		n.refs--
	}
}

func (d *Builder) Document() interface{} {
	return d.doc
}
