package treebuilder

import "github.com/lukehoban/htmlcore/token"

// handleInSelect implements the "in select" insertion mode (spec §6.6
// "in select").
func (b *Builder) handleInSelect(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Character:
		return false, b.appendText(b.currentNode().node, b.resolveSpan(tok.Text))
	case token.Comment:
		return false, b.appendCommentToCurrent(tok)
	case token.Doctype:
		b.parseError("doctype in select")
		return false, nil
	case token.EOF:
		return false, nil
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.HTMLElem:
			return b.handleInBody(tok)
		case token.Option:
			if b.currentType() == token.Option {
				b.pop()
			}
			_, err := b.insertHTMLElement(tok)
			return false, err
		case token.Optgroup:
			if b.currentType() == token.Option {
				b.pop()
			}
			if b.currentType() == token.Optgroup {
				b.pop()
			}
			_, err := b.insertHTMLElement(tok)
			return false, err
		case token.Select:
			b.parseError("nested select")
			if !b.inSelectScope(token.Select) {
				return false, nil
			}
			b.popUntil(token.Select)
			b.resetInsertionModeForStack()
			return false, nil
		case token.Input, token.Keygen, token.Textarea:
			b.parseError("unexpected start tag in select")
			if !b.inSelectScope(token.Select) {
				return false, nil
			}
			b.popUntil(token.Select)
			b.resetInsertionModeForStack()
			return true, nil
		case token.Script, token.Template:
			return b.handleInHead(tok)
		}
	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Optgroup:
			if b.currentType() == token.Option && len(b.stack) > 1 && b.stack[len(b.stack)-2].typ == token.Optgroup {
				b.pop()
			}
			if b.currentType() == token.Optgroup {
				b.pop()
				return false, nil
			}
			b.parseError("unmatched end tag optgroup")
			return false, nil
		case token.Option:
			if b.currentType() == token.Option {
				b.pop()
				return false, nil
			}
			b.parseError("unmatched end tag option")
			return false, nil
		case token.Select:
			if !b.inSelectScope(token.Select) {
				b.parseError("unmatched end tag select")
				return false, nil
			}
			b.popUntil(token.Select)
			b.resetInsertionModeForStack()
			return false, nil
		case token.Template:
			return b.handleInHead(tok)
		default:
			b.parseError("unexpected end tag in select")
			return false, nil
		}
	}
	b.parseError("unexpected token in select")
	return false, nil
}

func (b *Builder) inSelectScope(target token.ElementType) bool {
	for i := len(b.stack) - 1; i >= 0; i-- {
		t := b.stack[i].typ
		if t == target {
			return true
		}
		if t != token.Option && t != token.Optgroup {
			return false
		}
	}
	return false
}

// handleInSelectInTable implements the "in select in table" insertion
// mode (spec §6.6 "in select in table"): identical to "in select"
// except that table-family start/end tags force an exit back through
// the reset algorithm.
func (b *Builder) handleInSelectInTable(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Caption, token.Table, token.Tbody, token.Tfoot, token.Thead, token.Tr, token.Td, token.Th:
			b.parseError("table-family start tag in select in table")
			b.popUntil(token.Select)
			b.resetInsertionModeForStack()
			return true, nil
		}
	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Caption, token.Table, token.Tbody, token.Tfoot, token.Thead, token.Tr, token.Td, token.Th:
			typ := token.LookupHTML(string(b.resolveName(tok.Name)))
			if !b.inTableScope(typ) {
				b.parseError("unmatched table-family end tag in select in table")
				return false, nil
			}
			b.popUntil(token.Select)
			b.resetInsertionModeForStack()
			return true, nil
		}
	}
	return b.handleInSelect(tok)
}
