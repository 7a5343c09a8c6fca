// Package domtree provides a concrete Document Object Model tree and
// implements treebuilder.TreeHandler against it, generalizing the
// teacher's single-purpose render tree into the node kinds, namespaces
// and refcounting the tree construction algorithm needs (spec §3.7,
// §8.1).
//
// Spec references:
// - DOM Level 2 Core: https://www.w3.org/TR/DOM-Level-2-Core/
package domtree

import (
	"strings"

	"github.com/lukehoban/htmlcore/token"
)

// NodeType represents the kind of a DOM node.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
	DoctypeNode
	DocumentNode
)

// Node is a node in the DOM tree built by a Builder.
type Node struct {
	Type       NodeType
	Data       string // tag name, text content, or comment text
	Namespace  token.Namespace
	ElemType   token.ElementType
	Attributes map[string]string
	Children   []*Node
	Parent     *Node

	PublicID string
	SystemID string

	refs int
}

// NewElement creates a new element node in namespace ns.
func NewElement(ns token.Namespace, elemType token.ElementType, tagName string) *Node {
	return &Node{
		Type:       ElementNode,
		Data:       tagName,
		Namespace:  ns,
		ElemType:   elemType,
		Attributes: make(map[string]string),
	}
}

// NewText creates a new text node with the given content.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Data: text}
}

// NewComment creates a new comment node.
func NewComment(text string) *Node {
	return &Node{Type: CommentNode, Data: text}
}

// NewDoctype creates a new doctype node.
func NewDoctype(name, publicID, systemID string) *Node {
	return &Node{Type: DoctypeNode, Data: name, PublicID: publicID, SystemID: systemID}
}

// NewDocument creates a new document root node.
func NewDocument() *Node {
	return &Node{Type: DocumentNode, Data: "#document"}
}

// AppendChild adds child as the last child of n, detaching it from any
// previous parent first.
func (n *Node) AppendChild(child *Node) {
	child.detach()
	child.Parent = n
	n.Children = append(n.Children, child)
}

// InsertBefore inserts child immediately before before among n's
// children, or appends it if before is nil or not found.
func (n *Node) InsertBefore(child, before *Node) {
	child.detach()
	child.Parent = n
	if before == nil {
		n.Children = append(n.Children, child)
		return
	}
	for i, c := range n.Children {
		if c == before {
			n.Children = append(n.Children[:i], append([]*Node{child}, n.Children[i:]...)...)
			return
		}
	}
	n.Children = append(n.Children, child)
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

func (n *Node) detach() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// GetAttribute returns the value of an attribute, or empty string if
// not found.
func (n *Node) GetAttribute(name string) string {
	if n.Attributes == nil {
		return ""
	}
	return n.Attributes[name]
}

// SetAttribute sets an attribute on this node, first write wins (spec
// §6.4 "Adjusted insertion location", duplicate-attribute handling
// happens earlier in the tokeniser).
func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	if _, exists := n.Attributes[name]; exists {
		return
	}
	n.Attributes[name] = value
}

// ID returns the element's id attribute.
func (n *Node) ID() string {
	return n.GetAttribute("id")
}

// Classes returns the element's class names.
func (n *Node) Classes() []string {
	class := n.GetAttribute("class")
	if class == "" {
		return nil
	}
	return strings.Fields(class)
}

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	if n.Type == TextNode {
		sb.WriteString(n.Data)
	}
	for _, c := range n.Children {
		c.collectText(sb)
	}
}
