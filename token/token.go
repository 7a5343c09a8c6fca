// Package token defines the shared data model passed between the
// tokeniser and the tree builder: spans into the input stream's
// buffer, attributes, tokens, element types and namespaces.
package token

// Span is a byte range into the input stream's buffer. Tokens never
// own a copy of their text; a span is only valid until the stream is
// next allowed to relocate its buffer.
type Span struct {
	Offset int
	Length int
}

// Attribute is a name/value pair lexically found on a start or end
// tag. Names are already lowercased by the tokeniser before the span
// is recorded.
type Attribute struct {
	Name  Span
	Value Span
}

// Kind identifies which variant of Token is populated.
type Kind int

const (
	Character Kind = iota
	StartTag
	EndTag
	Comment
	Doctype
	EOF
)

func (k Kind) String() string {
	switch k {
	case Character:
		return "Character"
	case StartTag:
		return "StartTag"
	case EndTag:
		return "EndTag"
	case Comment:
		return "Comment"
	case Doctype:
		return "Doctype"
	case EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token is a tagged variant over the six token kinds the tokeniser
// can emit. Only the fields relevant to Kind are populated.
type Token struct {
	Kind Kind

	// Character, Comment
	Text Span

	// StartTag, EndTag
	Name        Span
	SelfClosing bool
	Attributes  []Attribute

	// Doctype
	PublicID    Span
	HasPublicID bool
	SystemID    Span
	HasSystemID bool
	ForceQuirks bool
	Correct     bool
}

// ResolvedAttribute is an attribute with its name and value spans
// already resolved to strings, for TreeHandler implementations that
// have no access to the shared input buffer the tokeniser's spans
// index into.
type ResolvedAttribute struct {
	Name  string
	Value string
}

// ElementSpec is a start tag with every span resolved to a string,
// handed to TreeHandler.CreateElement in place of a raw Token (spec
// §3.1 "Spans are only valid inside the owning package").
type ElementSpec struct {
	Name        string
	Attributes  []ResolvedAttribute
	SelfClosing bool
}

// DoctypeSpec is a resolved DOCTYPE token, handed to
// TreeHandler.CreateDoctype.
type DoctypeSpec struct {
	Name        string
	PublicID    string
	HasPublicID bool
	SystemID    string
	HasSystemID bool
	ForceQuirks bool
}

// ContentModel governs how '<' and '&' are interpreted in the data
// state. It is set by the tree builder when entering elements with
// special content models.
type ContentModel int

const (
	PCDATA ContentModel = iota
	RCDATA
	CDATAModel
	PLAINTEXT
)

// Namespace is the namespace of an element on the open-elements
// stack.
type Namespace int

const (
	HTML Namespace = iota
	MathML
	SVG
)

func (n Namespace) String() string {
	switch n {
	case HTML:
		return "html"
	case MathML:
		return "mathml"
	case SVG:
		return "svg"
	default:
		return "unknown"
	}
}

// ElementType enumerates the recognised HTML/MathML/SVG element names
// the tree builder needs to branch on, plus Unknown for anything not
// given special treatment by the algorithm.
type ElementType int

const (
	Unknown ElementType = iota

	// Document-structure / scoping elements
	HTMLElem
	Head
	Body
	Frameset

	// Scoping elements used by the scope tests (spec §4.2 "Scope tests")
	Applet
	Caption
	Table
	Td
	Th
	Button
	Marquee
	Object

	// List-item / table-family elements
	Li
	Dd
	Dt
	Ol
	Ul
	Tr
	Tbody
	Thead
	Tfoot
	Col
	Colgroup
	Select
	Option
	Optgroup
	Form

	// "Special" elements (spec §4.2 IN_BODY) used for implied-end-tag
	// and foreign-content break-out handling.
	P
	Br
	Img
	Hr
	Pre
	Listing
	Plaintext
	Textarea
	Script
	Style
	Title
	Noscript
	Base
	BaseFont
	Bgsound
	Link
	Meta
	NoFrames
	Noembed
	Embed
	Iframe
	Param
	Area
	Source
	Track
	Wbr
	Xmp
	H1
	H2
	H3
	H4
	H5
	H6
	Dl
	Div
	Center
	Blockquote
	Menu
	Fieldset
	Address
	Article
	Aside
	Details
	Figcaption
	Figure
	Footer
	Header
	Hgroup
	Main
	Nav
	Section
	Summary
	Dir
	Input
	Template
	Dialog
	Frame
	Keygen

	// Active-formatting-list elements (adoption agency)
	A
	B
	Big
	Code
	Em
	Font
	I
	Nobr
	S
	Small
	Strike
	Strong
	Sub
	Sup
	U
	Tt
	Var
	Ruby
	Rb
	Rp
	Rt
	Rtc
	SpanElem

	// MathML text integration points
	Mi
	Mo
	Mn
	Ms
	Mtext
	AnnotationXML
	MGlyph
	MAlignMark

	// SVG integration points
	SVGElem
	SVGForeignObject
	SVGDesc
	SVGTitle
	SVGScript
)

// specialElements is the "special" category from HTML5 §12.2 used by
// generateImpliedEndTags and the adoption agency's scope tests.
var specialElements = map[ElementType]bool{
	Address: true, Applet: true, Area: true, Article: true, Aside: true,
	Base: true, BaseFont: true, Bgsound: true, Blockquote: true, Body: true,
	Br: true, Button: true, Caption: true, Center: true, Col: true,
	Colgroup: true, Dd: true, Details: true, Dir: true, Div: true, Dl: true,
	Dt: true, Embed: true, Fieldset: true, Figcaption: true, Figure: true,
	Footer: true, Form: true, Frameset: true, H1: true, H2: true, H3: true,
	H4: true, H5: true, H6: true, Head: true, Header: true, Hgroup: true,
	Hr: true, HTMLElem: true, Iframe: true, Img: true, Input: true, Li: true,
	Link: true, Listing: true, Main: true, Marquee: true, Menu: true,
	Meta: true, Nav: true, NoFrames: true, Noembed: true, Noscript: true, Object: true,
	Ol: true, Optgroup: true, Option: true, P: true, Param: true,
	Plaintext: true, Pre: true, Script: true, Section: true, Select: true,
	Source: true, Style: true, Summary: true, Table: true, Tbody: true,
	Td: true, Template: true, Textarea: true, Tfoot: true, Th: true,
	Thead: true, Title: true, Tr: true, Track: true, Ul: true, Wbr: true,
	Xmp: true,
}

// IsSpecial reports whether t is in the HTML5 "special" category.
func IsSpecial(t ElementType) bool {
	return specialElements[t]
}

// impliedEndTagElements names the elements whose end tags the implied
// end tag algorithm may omit (spec §4.2 "Closing elements that have
// implied end tags").
var impliedEndTagElements = map[ElementType]bool{
	Dd: true, Dt: true, Li: true, Option: true, Optgroup: true,
	P: true, Rb: true, Rp: true, Rt: true, Rtc: true,
}

// IsImpliedEndTag reports whether t's end tag may be implied.
func IsImpliedEndTag(t ElementType) bool {
	return impliedEndTagElements[t]
}

// scopingElements is the default set used by the "in scope" test.
var scopingElements = map[ElementType]bool{
	Applet: true, Caption: true, HTMLElem: true, Table: true, Td: true,
	Th: true, Button: true, Marquee: true, Object: true,
}

// IsScoping reports whether t is one of the default scope boundary
// elements (spec §4.2 "Scope tests").
func IsScoping(t ElementType) bool {
	return scopingElements[t]
}

// IsMathMLTextIntegrationPoint reports whether t is one of the MathML
// elements whose content is parsed as HTML per spec §4.2
// IN_FOREIGN_CONTENT.
func IsMathMLTextIntegrationPoint(t ElementType) bool {
	switch t {
	case Mi, Mo, Mn, Ms, Mtext:
		return true
	default:
		return false
	}
}
