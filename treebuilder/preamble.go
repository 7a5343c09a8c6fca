package treebuilder

import "github.com/lukehoban/htmlcore/token"

// isWhitespace reports whether b is one of the five characters treated
// as insignificant whitespace by the tree construction algorithm
// (spec §6.1 "Whitespace").
func isWhitespace(b byte) bool {
	switch b {
	case '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func allWhitespace(text []byte) bool {
	for _, b := range text {
		if !isWhitespace(b) {
			return false
		}
	}
	return true
}

func splitLeadingWhitespace(text []byte) (ws, rest []byte) {
	i := 0
	for i < len(text) && isWhitespace(text[i]) {
		i++
	}
	return text[:i], text[i:]
}

// handleInitial implements the "initial" insertion mode: doctype
// sniffing and quirks-mode detection (spec §6.3.1).
func (b *Builder) handleInitial(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Character:
		ws, rest := splitLeadingWhitespace(b.resolveSpan(tok.Text))
		_ = ws
		if len(rest) == 0 {
			return false, nil
		}
		b.quirks = true
		b.mode = modeBeforeHTML
		return true, nil
	case token.Comment:
		node, err := b.tree.CreateComment(b.resolveSpan(tok.Text))
		if err != nil {
			return false, err
		}
		return false, b.tree.AppendChild(b.tree.Document(), node)
	case token.Doctype:
		node, err := b.tree.CreateDoctype(b.resolveDoctype(tok))
		if err != nil {
			return false, err
		}
		if err := b.tree.AppendChild(b.tree.Document(), node); err != nil {
			return false, err
		}
		quirks, limited := classifyDoctype(b, tok)
		b.quirks = quirks
		b.limitedQuirks = limited
		b.tree.SetQuirksMode(quirks, limited)
		b.mode = modeBeforeHTML
		return false, nil
	default:
		b.mode = modeBeforeHTML
		return true, nil
	}
}

// classifyDoctype decides quirks mode from a DOCTYPE token's name and
// identifiers, a close reading of the legacy compatibility rules
// rather than a literal transcription (spec §6.3.1 "Quirks mode").
func classifyDoctype(b *Builder, tok token.Token) (quirks, limited bool) {
	if tok.ForceQuirks {
		return true, false
	}
	if !tok.Correct {
		return true, false
	}
	if tok.HasPublicID {
		pub := string(b.resolveSpan(tok.PublicID))
		if pub == "-//W3O//DTD W3 HTML Strict 3.0//EN//" || pub == "-/W3C/DTD HTML 4.0 Transitional/EN" || pub == "HTML" {
			return true, false
		}
	}
	if tok.HasSystemID {
		sys := string(b.resolveSpan(tok.SystemID))
		if sys == "http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd" {
			return true, false
		}
	}
	return false, false
}

// handleBeforeHTML implements the "before html" insertion mode (spec
// §6.3.2).
func (b *Builder) handleBeforeHTML(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Doctype:
		b.parseError("doctype before html")
		return false, nil
	case token.Comment:
		node, err := b.tree.CreateComment(b.resolveSpan(tok.Text))
		if err != nil {
			return false, err
		}
		return false, b.tree.AppendChild(b.tree.Document(), node)
	case token.Character:
		ws, rest := splitLeadingWhitespace(b.resolveSpan(tok.Text))
		_ = ws
		if len(rest) == 0 {
			return false, nil
		}
	case token.StartTag:
		if token.LookupHTML(string(b.resolveName(tok.Name))) == token.HTMLElem {
			node, err := b.tree.CreateElement(token.HTML, token.HTMLElem, b.resolveElement(tok))
			if err != nil {
				return false, err
			}
			if err := b.tree.AppendChild(b.tree.Document(), node); err != nil {
				return false, err
			}
			b.push(token.HTML, token.HTMLElem, node)
			b.mode = modeBeforeHead
			return false, nil
		}
	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Head, token.Body, token.HTMLElem, token.Br:
		default:
			b.parseError("unexpected end tag before html")
			return false, nil
		}
	}
	if err := b.insertImpliedHTML(); err != nil {
		return false, err
	}
	b.mode = modeBeforeHead
	return true, nil
}

// startFragment seeds the builder for the "HTML fragment parsing
// algorithm" (spec.md's fragment aside): a root html element is pushed
// as if tree construction had already passed through "before html",
// and the insertion mode is set as if contextType were already open,
// grounded on the same context-driven mode switch
// resetInsertionModeForStack uses after a table pops closed.
func (b *Builder) startFragment() error {
	b.fragmentStarted = true
	node, err := b.tree.CreateElement(token.HTML, token.HTMLElem, token.ElementSpec{Name: "html"})
	if err != nil {
		return err
	}
	if err := b.tree.AppendChild(b.tree.Document(), node); err != nil {
		return err
	}
	b.push(token.HTML, token.HTMLElem, node)

	switch b.fragmentCtx {
	case token.Select:
		b.mode = modeInSelect
	case token.Td, token.Th:
		b.mode = modeInCell
	case token.Tr:
		b.mode = modeInRow
	case token.Tbody, token.Thead, token.Tfoot:
		b.mode = modeInTableBody
	case token.Caption:
		b.mode = modeInCaption
	case token.Colgroup:
		b.mode = modeInColumnGroup
	case token.Table:
		b.mode = modeInTable
	case token.Head:
		b.mode = modeInHead
	case token.Frameset:
		b.mode = modeInFrameset
	case token.HTMLElem:
		b.mode = modeBeforeHead
	default:
		b.mode = modeInBody
	}
	return nil
}

func (b *Builder) insertImpliedHTML() error {
	node, err := b.tree.CreateElement(token.HTML, token.HTMLElem, token.ElementSpec{Name: "html"})
	if err != nil {
		return err
	}
	if err := b.tree.AppendChild(b.tree.Document(), node); err != nil {
		return err
	}
	b.push(token.HTML, token.HTMLElem, node)
	return nil
}

// handleBeforeHead implements the "before head" insertion mode (spec
// §6.3.3).
func (b *Builder) handleBeforeHead(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Character:
		ws, rest := splitLeadingWhitespace(b.resolveSpan(tok.Text))
		_ = ws
		if len(rest) == 0 {
			return false, nil
		}
	case token.Comment:
		return false, b.appendCommentToCurrent(tok)
	case token.Doctype:
		b.parseError("doctype before head")
		return false, nil
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.HTMLElem:
			return b.handleInBody(tok)
		case token.Head:
			node, err := b.insertHTMLElement(tok)
			if err != nil {
				return false, err
			}
			b.headNode = node
			b.mode = modeInHead
			return false, nil
		}
	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Head, token.Body, token.HTMLElem, token.Br:
		default:
			b.parseError("unexpected end tag before head")
			return false, nil
		}
	}
	node, err := b.insertImpliedHTMLElement(token.Head, "head")
	if err != nil {
		return false, err
	}
	b.headNode = node
	b.mode = modeInHead
	return true, nil
}

func (b *Builder) appendCommentToCurrent(tok token.Token) error {
	node, err := b.tree.CreateComment(b.resolveSpan(tok.Text))
	if err != nil {
		return err
	}
	parent := b.tree.Document()
	if len(b.stack) > 0 {
		parent = b.currentNode().node
	}
	return b.tree.AppendChild(parent, node)
}

// handleInHead implements the "in head" insertion mode (spec §6.3.4).
func (b *Builder) handleInHead(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Character:
		ws, rest := splitLeadingWhitespace(b.resolveSpan(tok.Text))
		if len(ws) > 0 {
			if err := b.appendText(b.currentNode().node, ws); err != nil {
				return false, err
			}
		}
		if len(rest) == 0 {
			return false, nil
		}
	case token.Comment:
		return false, b.appendCommentToCurrent(tok)
	case token.Doctype:
		b.parseError("doctype in head")
		return false, nil
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.HTMLElem:
			return b.handleInBody(tok)
		case token.Base, token.BaseFont, token.Bgsound, token.Link:
			_, err := b.insertHTMLElement(tok)
			if err == nil {
				b.pop()
			}
			return false, err
		case token.Meta:
			_, err := b.insertHTMLElement(tok)
			if err == nil {
				b.pop()
			}
			return false, err
		case token.Title:
			_, err := b.insertHTMLElement(tok)
			return false, err
		case token.NoFrames, token.Style:
			_, err := b.insertHTMLElement(tok)
			return false, err
		case token.Noscript:
			if b.scriptingEnabled {
				_, err := b.insertHTMLElement(tok)
				return false, err
			}
			_, err := b.insertHTMLElement(tok)
			if err != nil {
				return false, err
			}
			b.mode = modeInHeadNoscript
			return false, nil
		case token.Script:
			_, err := b.insertHTMLElement(tok)
			return false, err
		case token.Template:
			_, err := b.insertHTMLElement(tok)
			if err != nil {
				return false, err
			}
			b.insertMarker()
			b.framesetOK = false
			b.mode = modeInTable // placeholder continuation mode for template content
			return false, nil
		case token.Head:
			b.parseError("nested head")
			return false, nil
		}
	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Head:
			b.pop()
			b.mode = modeAfterHead
			return false, nil
		case token.Body, token.HTMLElem, token.Br:
		case token.Template:
			if !b.stackContains(token.Template) {
				b.parseError("stray </template>")
				return false, nil
			}
			b.generateImpliedEndTags(token.Unknown)
			b.popUntil(token.Template)
			b.clearFormattingToMarker()
			return false, nil
		default:
			b.parseError("unexpected end tag in head")
			return false, nil
		}
	}
	b.pop()
	b.mode = modeAfterHead
	return true, nil
}

// handleInHeadNoscript implements the "in head noscript" insertion
// mode (spec §6.3.5), entered only when scripting is disabled and
// <noscript> is encountered inside <head>.
func (b *Builder) handleInHeadNoscript(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Doctype:
		b.parseError("doctype in head noscript")
		return false, nil
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.HTMLElem:
			return b.handleInBody(tok)
		case token.Base, token.BaseFont, token.Bgsound, token.Link, token.Meta,
			token.NoFrames, token.Style:
			return b.handleInHead(tok)
		case token.Head, token.Noscript:
			b.parseError("nested head/noscript")
			return false, nil
		}
	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Noscript:
			b.pop()
			b.mode = modeInHead
			return false, nil
		case token.Br:
		default:
			b.parseError("unexpected end tag in head noscript")
			return false, nil
		}
	case token.Character:
		if allWhitespace(b.resolveSpan(tok.Text)) {
			return b.handleInHead(tok)
		}
	case token.Comment:
		return b.handleInHead(tok)
	}
	b.parseError("unexpected token in head noscript")
	b.pop()
	b.mode = modeInHead
	return true, nil
}

// handleAfterHead implements the "after head" insertion mode (spec
// §6.3.6).
func (b *Builder) handleAfterHead(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Character:
		ws, rest := splitLeadingWhitespace(b.resolveSpan(tok.Text))
		if len(ws) > 0 {
			if err := b.appendText(b.currentNode().node, ws); err != nil {
				return false, err
			}
		}
		if len(rest) == 0 {
			return false, nil
		}
	case token.Comment:
		return false, b.appendCommentToCurrent(tok)
	case token.Doctype:
		b.parseError("doctype after head")
		return false, nil
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.HTMLElem:
			return b.handleInBody(tok)
		case token.Body:
			node, err := b.insertHTMLElement(tok)
			if err != nil {
				return false, err
			}
			b.framesetOK = false
			b.mode = modeInBody
			_ = node
			return false, nil
		case token.Frameset:
			_, err := b.insertHTMLElement(tok)
			if err != nil {
				return false, err
			}
			b.mode = modeInFrameset
			return false, nil
		case token.Base, token.BaseFont, token.Bgsound, token.Link, token.Meta,
			token.NoFrames, token.Script, token.Style, token.Template, token.Title:
			b.parseError("head element reopened after head")
			b.push(token.HTML, token.Head, b.headNode)
			reprocess, err := b.handleInHead(tok)
			b.removeFromStack(b.headNode)
			return reprocess, err
		case token.Head:
			b.parseError("nested head after head")
			return false, nil
		}
	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Template:
			return b.handleInHead(tok)
		case token.Body, token.HTMLElem, token.Br:
		default:
			b.parseError("unexpected end tag after head")
			return false, nil
		}
	}
	node, err := b.insertImpliedHTMLElement(token.Body, "body")
	if err != nil {
		return false, err
	}
	_ = node
	b.mode = modeInBody
	return true, nil
}

// removeFromStack pops node specifically, used after the "after head"
// mode temporarily reopens <head> to delegate a stray head-element
// token (spec §6.3.6, "act as described in the 'in head' insertion
// mode").
func (b *Builder) removeFromStack(node interface{}) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].node == node {
			b.tree.Unref(node)
			b.stack = append(b.stack[:i], b.stack[i+1:]...)
			return
		}
	}
}
