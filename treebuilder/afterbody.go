package treebuilder

import "github.com/lukehoban/htmlcore/token"

// handleAfterBody implements the "after body" insertion mode (spec
// §6.3.8).
func (b *Builder) handleAfterBody(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Character:
		ws, rest := splitLeadingWhitespace(b.resolveSpan(tok.Text))
		if len(ws) > 0 {
			if err := b.reconstructFormatting(); err != nil {
				return false, err
			}
			if err := b.appendText(b.currentNode().node, ws); err != nil {
				return false, err
			}
		}
		if len(rest) == 0 {
			return false, nil
		}
	case token.Comment:
		node, err := b.tree.CreateComment(b.resolveSpan(tok.Text))
		if err != nil {
			return false, err
		}
		return false, b.tree.AppendChild(b.stack[0].node, node)
	case token.Doctype:
		b.parseError("doctype after body")
		return false, nil
	case token.StartTag:
		if token.LookupHTML(string(b.resolveName(tok.Name))) == token.HTMLElem {
			return b.handleInBody(tok)
		}
	case token.EndTag:
		if token.LookupHTML(string(b.resolveName(tok.Name))) == token.HTMLElem {
			if b.fragment {
				b.parseError("end tag html in fragment after body")
				return false, nil
			}
			b.mode = modeAfterAfterBody
			return false, nil
		}
	case token.EOF:
		return false, nil
	}
	b.parseError("unexpected token after body")
	b.mode = modeInBody
	return true, nil
}

// handleInFrameset implements the "in frameset" insertion mode (spec
// §6.3.9).
func (b *Builder) handleInFrameset(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Character:
		if allWhitespace(b.resolveSpan(tok.Text)) {
			return false, b.appendText(b.currentNode().node, b.resolveSpan(tok.Text))
		}
		b.parseError("non-whitespace character in frameset")
		return false, nil
	case token.Comment:
		return false, b.appendCommentToCurrent(tok)
	case token.Doctype:
		b.parseError("doctype in frameset")
		return false, nil
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.HTMLElem:
			return b.handleInBody(tok)
		case token.Frameset:
			_, err := b.insertHTMLElement(tok)
			return false, err
		case token.Frame:
			_, err := b.insertHTMLElement(tok)
			if err != nil {
				return false, err
			}
			b.pop()
			return false, nil
		case token.NoFrames:
			return b.handleInHead(tok)
		default:
			b.parseError("unexpected start tag in frameset")
			return false, nil
		}
	case token.EndTag:
		if token.LookupHTML(string(b.resolveName(tok.Name))) == token.Frameset {
			if len(b.stack) == 1 {
				b.parseError("unexpected end tag frameset at root")
				return false, nil
			}
			b.pop()
			if !b.fragment && b.currentType() != token.Frameset {
				b.mode = modeAfterFrameset
			}
			return false, nil
		}
		b.parseError("unexpected end tag in frameset")
		return false, nil
	case token.EOF:
		if len(b.stack) != 1 {
			b.parseError("unexpected eof in frameset")
		}
		return false, nil
	}
	return false, nil
}

// handleAfterFrameset implements the "after frameset" insertion mode
// (spec §6.3.10).
func (b *Builder) handleAfterFrameset(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Character:
		if allWhitespace(b.resolveSpan(tok.Text)) {
			return false, b.appendText(b.currentNode().node, b.resolveSpan(tok.Text))
		}
		b.parseError("non-whitespace character after frameset")
		return false, nil
	case token.Comment:
		return false, b.appendCommentToCurrent(tok)
	case token.Doctype:
		b.parseError("doctype after frameset")
		return false, nil
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.HTMLElem:
			return b.handleInBody(tok)
		case token.NoFrames:
			return b.handleInHead(tok)
		default:
			b.parseError("unexpected start tag after frameset")
			return false, nil
		}
	case token.EndTag:
		if token.LookupHTML(string(b.resolveName(tok.Name))) == token.HTMLElem {
			b.mode = modeAfterAfterFrameset
			return false, nil
		}
		b.parseError("unexpected end tag after frameset")
		return false, nil
	case token.EOF:
		return false, nil
	}
	return false, nil
}

// handleAfterAfterBody implements the "after after body" insertion
// mode (spec §6.3.11).
func (b *Builder) handleAfterAfterBody(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Comment:
		node, err := b.tree.CreateComment(b.resolveSpan(tok.Text))
		if err != nil {
			return false, err
		}
		return false, b.tree.AppendChild(b.tree.Document(), node)
	case token.Doctype:
		return b.handleInBody(tok)
	case token.Character:
		ws, rest := splitLeadingWhitespace(b.resolveSpan(tok.Text))
		if len(ws) > 0 {
			if err := b.handleInBodyCharacterCompat(ws); err != nil {
				return false, err
			}
		}
		if len(rest) == 0 {
			return false, nil
		}
	case token.StartTag:
		if token.LookupHTML(string(b.resolveName(tok.Name))) == token.HTMLElem {
			return b.handleInBody(tok)
		}
	case token.EOF:
		return false, nil
	}
	b.parseError("unexpected token after after body")
	b.mode = modeInBody
	return true, nil
}

func (b *Builder) handleInBodyCharacterCompat(text []byte) error {
	if err := b.reconstructFormatting(); err != nil {
		return err
	}
	return b.appendText(b.currentNode().node, text)
}

// handleAfterAfterFrameset implements the "after after frameset"
// insertion mode (spec §6.3.12).
func (b *Builder) handleAfterAfterFrameset(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Comment:
		node, err := b.tree.CreateComment(b.resolveSpan(tok.Text))
		if err != nil {
			return false, err
		}
		return false, b.tree.AppendChild(b.tree.Document(), node)
	case token.Doctype:
		return b.handleInBody(tok)
	case token.Character:
		ws, rest := splitLeadingWhitespace(b.resolveSpan(tok.Text))
		if len(ws) > 0 {
			if err := b.handleInBodyCharacterCompat(ws); err != nil {
				return false, err
			}
		}
		if len(rest) == 0 {
			return false, nil
		}
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.HTMLElem:
			return b.handleInBody(tok)
		case token.NoFrames:
			return b.handleInHead(tok)
		}
	case token.EOF:
		return false, nil
	}
	return false, nil
}
