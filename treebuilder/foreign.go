package treebuilder

import "github.com/lukehoban/htmlcore/token"

// useForeignContentMode reports whether the current token should be
// processed by the foreign-content algorithm instead of the ordinary
// insertion-mode dispatch (spec §6.7's condensed tree of conditions,
// mirroring the HTML5 "tree construction dispatcher" preamble).
func (b *Builder) useForeignContentMode(tok token.Token) bool {
	if len(b.stack) == 0 {
		return false
	}
	cur := b.currentNode()
	if cur.ns == token.HTML {
		return false
	}
	if tok.Kind == token.EOF {
		return true
	}
	if token.IsMathMLTextIntegrationPoint(cur.typ) {
		if tok.Kind == token.Character {
			return false
		}
		if tok.Kind == token.StartTag {
			typ := token.LookupHTML(string(b.resolveName(tok.Name)))
			if typ != token.MGlyph && typ != token.MAlignMark {
				return false
			}
		}
	}
	if cur.ns == token.MathML && cur.typ == token.AnnotationXML && tok.Kind == token.StartTag {
		if string(b.resolveName(tok.Name)) == "svg" {
			return false
		}
	}
	if isHTMLIntegrationPoint(cur) && (tok.Kind == token.StartTag || tok.Kind == token.Character) {
		return false
	}
	return true
}

func isHTMLIntegrationPoint(e elementContext) bool {
	if e.ns == token.SVG {
		switch e.typ {
		case token.SVGForeignObject, token.SVGDesc, token.SVGTitle:
			return true
		}
	}
	return false
}

// elementInScopeInNonHTMLNS mirrors
// element_in_scope_in_non_html_ns: is there an element in scope, other
// than the scoping elements / TABLE, whose namespace isn't HTML?
func (b *Builder) elementInScopeInNonHTMLNS() bool {
	for i := len(b.stack) - 1; i > 0; i-- {
		t := b.stack[i].typ
		if t == token.Table || defaultScopeBoundary[t] {
			break
		}
		if b.stack[i].ns != token.HTML {
			return true
		}
	}
	return false
}

// processAsInSecondary re-dispatches a token through the insertion
// mode active before foreign content was entered, switching back to
// foreign content afterward unless that mode's processing left scope
// (spec §6.7, grounded on in_foreign_content.c's
// process_as_in_secondary).
func (b *Builder) processAsInSecondary(tok token.Token) (bool, error) {
	saved := b.mode
	b.mode = b.secondMode
	if err := b.HandleToken(tok); err != nil {
		return false, err
	}
	if b.mode == b.secondMode {
		b.mode = modeInForeignContent
	}
	if b.mode == modeInForeignContent && !b.elementInScopeInNonHTMLNS() {
		b.mode = b.secondMode
	}
	_ = saved
	return false, nil
}

// foreignBreakOut pops elements until the top of the stack is back in
// the HTML namespace, then resumes the secondary mode (grounded on
// in_foreign_content.c's foreign_break_out).
func (b *Builder) foreignBreakOut() {
	b.parseError("foreign content break-out")
	for len(b.stack) > 0 && b.currentNode().ns != token.HTML {
		b.pop()
	}
	b.mode = b.secondMode
}

var foreignBreakoutTags = map[token.ElementType]bool{
	token.B: true, token.Big: true, token.Blockquote: true, token.Body: true,
	token.Br: true, token.Center: true, token.Code: true, token.Dd: true,
	token.Div: true, token.Dl: true, token.Dt: true, token.Em: true,
	token.Embed: true, token.Font: true, token.H1: true, token.H2: true,
	token.H3: true, token.H4: true, token.H5: true, token.H6: true,
	token.Head: true, token.Hr: true, token.I: true, token.Img: true,
	token.Li: true, token.Listing: true, token.Menu: true, token.Meta: true,
	token.Nobr: true, token.Ol: true, token.P: true, token.Pre: true,
	token.Ruby: true, token.S: true, token.Small: true, token.SpanElem: true,
	token.Strong: true, token.Strike: true, token.Sub: true, token.Sup: true,
	token.Table: true, token.Tt: true, token.U: true, token.Ul: true,
	token.Var: true,
}

// handleInForeignContent implements the foreign-content insertion
// mode, grounded directly on handle_in_foreign_content in
// in_foreign_content.c.
func (b *Builder) handleInForeignContent(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Character:
		return false, b.appendText(b.currentNode().node, b.resolveSpan(tok.Text))
	case token.Comment:
		node, err := b.tree.CreateComment(b.resolveSpan(tok.Text))
		if err != nil {
			return false, err
		}
		return false, b.tree.AppendChild(b.currentNode().node, node)
	case token.Doctype:
		b.parseError("doctype in foreign content")
		return false, nil
	case token.StartTag:
		curNS := b.currentNode().ns
		curType := b.currentType()
		typ := elementTypeOf(b, tok.Name, curNS)

		switch {
		case curNS == token.HTML,
			curNS == token.MathML && typ != token.MGlyph && typ != token.MAlignMark &&
				(curType == token.Mi || curType == token.Mo || curType == token.Mn ||
					curType == token.Ms || curType == token.Mtext):
			return b.processAsInSecondary(tok)
		case foreignBreakoutTags[token.LookupHTML(string(b.resolveName(tok.Name)))]:
			b.foreignBreakOut()
			return true, nil
		default:
			tag := tok
			node, err := b.tree.CreateElement(curNS, typ, b.resolveElement(tag))
			if err != nil {
				return false, err
			}
			if err := b.tree.AppendChild(b.currentNode().node, node); err != nil {
				return false, err
			}
			if !tag.SelfClosing {
				b.push(curNS, typ, node)
			}
			return false, nil
		}
	case token.EndTag:
		return b.processAsInSecondary(tok)
	case token.EOF:
		b.foreignBreakOut()
		return true, nil
	}
	return false, nil
}
