package treebuilder

import "github.com/lukehoban/htmlcore/token"

// scopeKind selects which of the four scope-test variants to run
// (spec §6.5 "Scope tests").
type scopeKind int

const (
	scopeDefault scopeKind = iota
	scopeListItem
	scopeButton
	scopeTable
)

var defaultScopeBoundary = map[token.ElementType]bool{
	token.Applet: true, token.Caption: true, token.HTMLElem: true, token.Table: true,
	token.Td: true, token.Th: true, token.Marquee: true, token.Object: true,
	token.Template: true,
}

// inScope implements the four scope-test variants by walking the
// element stack from the top, stopping at the first boundary element
// (spec §6.5).
func (b *Builder) inScope(target token.ElementType, kind scopeKind) bool {
	for i := len(b.stack) - 1; i >= 0; i-- {
		t := b.stack[i].typ
		if t == target {
			return true
		}

		if kind == scopeTable {
			if t == token.HTMLElem || t == token.Table || t == token.Template {
				return false
			}
			continue
		}

		if defaultScopeBoundary[t] {
			return false
		}
		switch kind {
		case scopeListItem:
			if t == token.Ol || t == token.Ul {
				return false
			}
		case scopeButton:
			if t == token.Button {
				return false
			}
		}
	}
	return false
}

func (b *Builder) inTableScope(target token.ElementType) bool {
	return b.inScope(target, scopeTable)
}

func (b *Builder) inListItemScope(target token.ElementType) bool {
	return b.inScope(target, scopeListItem)
}

func (b *Builder) inButtonScope(target token.ElementType) bool {
	return b.inScope(target, scopeButton)
}

// hasElementInScope reports whether any of the given types is in
// default scope.
func (b *Builder) hasElementInScope(types ...token.ElementType) bool {
	for _, t := range types {
		if b.inScope(t, scopeDefault) {
			return true
		}
	}
	return false
}

// stackContains reports whether typ is anywhere on the open-elements
// stack, regardless of scope boundaries.
func (b *Builder) stackContains(typ token.ElementType) bool {
	for _, e := range b.stack {
		if e.typ == typ {
			return true
		}
	}
	return false
}

func elementTypeOf(b *Builder, name token.Span, ns token.Namespace) token.ElementType {
	raw := b.resolveName(name)
	switch ns {
	case token.SVG:
		return token.LookupSVG(string(raw))
	default:
		return token.LookupHTML(string(raw))
	}
}
