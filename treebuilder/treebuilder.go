// Package treebuilder implements the HTML5 tree-construction algorithm:
// a dispatcher over the ~20 insertion modes that consumes tokens from
// the tokeniser and drives a TreeHandler (spec.md §6.2) to build a DOM.
package treebuilder

import (
	"fmt"

	"github.com/lukehoban/htmlcore/log"
	"github.com/lukehoban/htmlcore/token"
)

// mode names the ~20 insertion modes the dispatcher switches between.
type mode int

const (
	modeInitial mode = iota
	modeBeforeHTML
	modeBeforeHead
	modeInHead
	modeInHeadNoscript
	modeAfterHead
	modeInBody
	modeText
	modeInTable
	modeInTableText
	modeInCaption
	modeInColumnGroup
	modeInTableBody
	modeInRow
	modeInCell
	modeInSelect
	modeInSelectInTable
	modeAfterBody
	modeInFrameset
	modeAfterFrameset
	modeAfterAfterBody
	modeAfterAfterFrameset
	modeInForeignContent
)

// TreeHandler is the output-side contract a tree builder drives (spec
// §6.2): an abstract DOM it can create elements/text/comments in and
// query/mutate structurally, without depending on any concrete node
// representation.
type TreeHandler interface {
	CreateElement(ns token.Namespace, elementType token.ElementType, spec token.ElementSpec) (node interface{}, err error)
	CreateComment(text []byte) (node interface{}, err error)
	CreateDoctype(spec token.DoctypeSpec) (node interface{}, err error)
	CreateText(text []byte) (node interface{}, err error)
	AppendChild(parent, child interface{}) error
	InsertBefore(parent, child, before interface{}) error
	RemoveChild(parent, child interface{}) error
	MoveChildren(from, to interface{}) error
	AppendText(parent interface{}, text []byte) error
	SetQuirksMode(quirks, limitedQuirks bool)
	Ref(node interface{})
	Unref(node interface{})
	Document() interface{}
}

// ParseError is recorded by the tree builder for malformed markup it
// recovered from (spec §7 class 1: non-fatal errors).
type ParseError struct {
	Message string
}

// Option configures a Builder at construction time.
type Option func(*Builder)

// WithErrorHandler installs a parse-error callback.
func WithErrorHandler(fn func(ParseError)) Option {
	return func(b *Builder) { b.onError = fn }
}

// WithFragmentContext parses the input as an HTML fragment rather than
// a full document: tree construction starts as if contextType were
// already open, per the "HTML fragment parsing algorithm" (spec.md's
// fragment-parsing non-goal aside, this is needed by any caller
// implementing innerHTML-style parsing, e.g. <template> contents).
func WithFragmentContext(contextType token.ElementType) Option {
	return func(b *Builder) {
		b.fragment = true
		b.fragmentCtx = contextType
	}
}

// ContentModelSetter is implemented by whatever drives the tokeniser
// alongside this builder, letting the builder switch RCDATA/CDATA
// content models when it pushes script/style/title/textarea onto the
// stack (spec §6.3 "Content model switches").
type ContentModelSetter interface {
	SetContentModel(m token.ContentModel)
}

// Builder drives tree construction. It never recurses: HandleToken
// loops on a local "reprocess" flag exactly as the insertion-mode
// algorithms describe, instead of insertion modes calling each other.
type Builder struct {
	tree TreeHandler
	tok  ContentModelSetter

	mode       mode
	secondMode mode // saved mode for "process as in secondary" (foreign content)

	stack    []elementContext
	afe      []afeEntry // active formatting elements (spec §6.5)
	headNode interface{}
	formNode interface{}

	scriptingEnabled bool
	framesetOK       bool
	quirks           bool
	limitedQuirks    bool

	pendingTableChars []byte

	fragment        bool
	fragmentCtx     token.ElementType
	fragmentStarted bool
	srcBuf          []byte

	done bool

	onError func(ParseError)
}

type elementContext struct {
	ns   token.Namespace
	typ  token.ElementType
	node interface{}
}

type afeEntry struct {
	marker bool
	ns     token.Namespace
	typ    token.ElementType
	node   interface{}
	tag    token.Token
}

// New creates a Builder whose output goes to tree. tok, if non-nil, is
// notified of content-model switches as RCDATA/CDATA elements are
// entered (script/style/title/textarea), per spec §6.3.
func New(tree TreeHandler, tok ContentModelSetter, opts ...Option) *Builder {
	b := &Builder{
		tree:       tree,
		tok:        tok,
		mode:       modeInitial,
		framesetOK: true,
		onError: func(pe ParseError) {
			log.Warnf("html tree construction error: %s", pe.Message)
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) parseError(msg string) {
	if b.onError != nil {
		b.onError(ParseError{Message: msg})
	}
}

// HandleToken processes one token, looping internally while an
// insertion mode asks to reprocess the same token in a different mode
// (spec §6.3 "Reprocessing", design note "no recursive insertion-mode
// calls").
func (b *Builder) HandleToken(tok token.Token) error {
	if b.fragment && !b.fragmentStarted {
		if err := b.startFragment(); err != nil {
			return err
		}
	}
	for {
		reprocess, err := b.dispatch(tok)
		if err != nil {
			return err
		}
		if !reprocess {
			return nil
		}
	}
}

// Close finalises the document once the tokeniser has emitted EOF and
// HandleToken(token.Token{Kind: token.EOF}) has already run. It pops,
// and unrefs, every element still on the stack of open elements.
func (b *Builder) Close() {
	for len(b.stack) > 0 {
		b.pop()
	}
	b.done = true
}

func (b *Builder) dispatch(tok token.Token) (reprocess bool, err error) {
	if b.useForeignContentMode(tok) {
		return b.handleInForeignContent(tok)
	}

	switch b.mode {
	case modeInitial:
		return b.handleInitial(tok)
	case modeBeforeHTML:
		return b.handleBeforeHTML(tok)
	case modeBeforeHead:
		return b.handleBeforeHead(tok)
	case modeInHead:
		return b.handleInHead(tok)
	case modeInHeadNoscript:
		return b.handleInHeadNoscript(tok)
	case modeAfterHead:
		return b.handleAfterHead(tok)
	case modeInBody:
		return b.handleInBody(tok)
	case modeText:
		return b.handleText(tok)
	case modeInTable:
		return b.handleInTable(tok)
	case modeInTableText:
		return b.handleInTableText(tok)
	case modeInCaption:
		return b.handleInCaption(tok)
	case modeInColumnGroup:
		return b.handleInColumnGroup(tok)
	case modeInTableBody:
		return b.handleInTableBody(tok)
	case modeInRow:
		return b.handleInRow(tok)
	case modeInCell:
		return b.handleInCell(tok)
	case modeInSelect:
		return b.handleInSelect(tok)
	case modeInSelectInTable:
		return b.handleInSelectInTable(tok)
	case modeAfterBody:
		return b.handleAfterBody(tok)
	case modeInFrameset:
		return b.handleInFrameset(tok)
	case modeAfterFrameset:
		return b.handleAfterFrameset(tok)
	case modeAfterAfterBody:
		return b.handleAfterAfterBody(tok)
	case modeAfterAfterFrameset:
		return b.handleAfterAfterFrameset(tok)
	default:
		panic(fmt.Sprintf("unreachable treebuilder mode %d", b.mode))
	}
}

// currentNode is the innermost open element, or the zero ElementType
// if the stack is empty.
func (b *Builder) currentNode() elementContext {
	if len(b.stack) == 0 {
		return elementContext{}
	}
	return b.stack[len(b.stack)-1]
}

func (b *Builder) currentType() token.ElementType {
	return b.currentNode().typ
}

func (b *Builder) push(ns token.Namespace, typ token.ElementType, node interface{}) {
	b.tree.Ref(node)
	b.stack = append(b.stack, elementContext{ns: ns, typ: typ, node: node})
}

func (b *Builder) pop() elementContext {
	n := len(b.stack)
	top := b.stack[n-1]
	b.stack = b.stack[:n-1]
	b.tree.Unref(top.node)
	return top
}

func (b *Builder) popUntil(types ...token.ElementType) {
	for len(b.stack) > 0 {
		top := b.pop()
		for _, t := range types {
			if top.typ == t {
				return
			}
		}
	}
}

// generateImpliedEndTags pops elements whose end tags may be omitted
// (spec's "implied end tags" concept), stopping at exclude if it
// matches the current node.
func (b *Builder) generateImpliedEndTags(exclude token.ElementType) {
	for len(b.stack) > 0 {
		t := b.currentType()
		if t == exclude {
			return
		}
		if !token.IsImpliedEndTag(t) {
			return
		}
		b.pop()
	}
}

func (b *Builder) insertHTMLElement(tag token.Token) (interface{}, error) {
	typ := token.LookupHTML(string(b.resolveName(tag.Name)))
	node, err := b.tree.CreateElement(token.HTML, typ, b.resolveElement(tag))
	if err != nil {
		return nil, err
	}
	if err := b.tree.AppendChild(b.currentNode().node, node); err != nil {
		return nil, err
	}
	b.push(token.HTML, typ, node)
	b.maybeSwitchContentModel(typ)
	return node, nil
}

// insertImpliedHTMLElement inserts an HTML element of typ under the
// current node that has no corresponding start tag in the source —
// the implied <head>/<body>/<p>/<tbody>/<colgroup>/<tr> the tree
// construction algorithm synthesizes at various points (spec §6.3's
// "insert an HTML element for a synthetic start tag token"). name is
// supplied directly since there is no token span to resolve it from.
func (b *Builder) insertImpliedHTMLElement(typ token.ElementType, name string) (interface{}, error) {
	node, err := b.tree.CreateElement(token.HTML, typ, token.ElementSpec{Name: name})
	if err != nil {
		return nil, err
	}
	if err := b.tree.AppendChild(b.currentNode().node, node); err != nil {
		return nil, err
	}
	b.push(token.HTML, typ, node)
	b.maybeSwitchContentModel(typ)
	return node, nil
}

func (b *Builder) maybeSwitchContentModel(typ token.ElementType) {
	if b.tok == nil {
		return
	}
	switch typ {
	case token.Script, token.Style, token.Xmp, token.Iframe, token.Noembed, token.NoFrames:
		b.tok.SetContentModel(token.CDATAModel)
	case token.Title, token.Textarea:
		b.tok.SetContentModel(token.RCDATA)
	}
}

func (b *Builder) appendText(parent interface{}, text []byte) error {
	if len(text) == 0 {
		return nil
	}
	return b.tree.AppendText(parent, text)
}

// resolveName resolves a span against the source buffer bound for this
// parse (spec §3.1: every span is an offset into the shared stream
// buffer, never a copy).
func (b *Builder) resolveName(span token.Span) []byte {
	return b.srcBuf[span.Offset : span.Offset+span.Length]
}

// resolveElement converts a tag token's spans into a self-contained
// ElementSpec, since TreeHandler implementations generally don't share
// the tree builder's view of the input buffer (spec §3.1).
func (b *Builder) resolveElement(tag token.Token) token.ElementSpec {
	spec := token.ElementSpec{
		Name:        string(b.resolveName(tag.Name)),
		SelfClosing: tag.SelfClosing,
	}
	if len(tag.Attributes) > 0 {
		spec.Attributes = make([]token.ResolvedAttribute, len(tag.Attributes))
		for i, a := range tag.Attributes {
			spec.Attributes[i] = token.ResolvedAttribute{
				Name:  string(b.resolveName(a.Name)),
				Value: string(b.resolveSpan(a.Value)),
			}
		}
	}
	return spec
}

// resolveDoctype converts a DOCTYPE token's spans into a self-contained
// DoctypeSpec.
func (b *Builder) resolveDoctype(tok token.Token) token.DoctypeSpec {
	spec := token.DoctypeSpec{
		Name:        string(b.resolveName(tok.Name)),
		HasPublicID: tok.HasPublicID,
		HasSystemID: tok.HasSystemID,
		ForceQuirks: tok.ForceQuirks,
	}
	if tok.HasPublicID {
		spec.PublicID = string(b.resolveSpan(tok.PublicID))
	}
	if tok.HasSystemID {
		spec.SystemID = string(b.resolveSpan(tok.SystemID))
	}
	return spec
}

// SetSourceBuffer binds the byte buffer that every token's spans index
// into for the lifetime of one parse. htmlparse calls this once before
// feeding tokens, and again whenever the tokeniser's stream relocates
// its buffer (spec §6.4 relocation notifications).
func (b *Builder) SetSourceBuffer(buf []byte) {
	b.srcBuf = buf
}
