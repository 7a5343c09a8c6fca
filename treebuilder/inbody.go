package treebuilder

import "github.com/lukehoban/htmlcore/token"

var headingElement = map[token.ElementType]bool{
	token.H1: true, token.H2: true, token.H3: true,
	token.H4: true, token.H5: true, token.H6: true,
}

// closeAParagraph implements the "if the stack of open elements has a
// p element in button scope, close it" step that precedes most block
// insertions in the body (spec §6.5 "in body").
func (b *Builder) closeAParagraph() {
	if !b.inButtonScope(token.P) {
		return
	}
	b.generateImpliedEndTags(token.P)
	if b.currentType() != token.P {
		b.parseError("end tag implied, original tag was p")
	}
	b.popUntil(token.P)
}

// handleInBody implements the "in body" insertion mode, the largest
// and most frequently exercised mode (spec §6.5).
func (b *Builder) handleInBody(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Character:
		text := b.resolveSpan(tok.Text)
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		if !allWhitespace(text) {
			b.framesetOK = false
		}
		return false, b.appendText(b.currentNode().node, text)

	case token.Comment:
		return false, b.appendCommentToCurrent(tok)

	case token.Doctype:
		b.parseError("doctype in body")
		return false, nil

	case token.EOF:
		return false, nil

	case token.StartTag:
		return b.startTagInBody(tok)

	case token.EndTag:
		return b.endTagInBody(tok)
	}
	return false, nil
}

func (b *Builder) startTagInBody(tok token.Token) (bool, error) {
	typ := token.LookupHTML(string(b.resolveName(tok.Name)))

	switch typ {
	case token.HTMLElem:
		b.parseError("html start tag in body")
		return false, nil

	case token.Base, token.BaseFont, token.Bgsound, token.Link, token.Meta,
		token.NoFrames, token.Script, token.Style, token.Template, token.Title:
		return b.handleInHead(tok)

	case token.Body:
		b.parseError("body start tag in body")
		return false, nil

	case token.Frameset:
		b.parseError("frameset start tag in body")
		return false, nil

	case token.Address, token.Article, token.Aside, token.Blockquote,
		token.Center, token.Details, token.Dialog, token.Dir, token.Div,
		token.Dl, token.Fieldset, token.Figcaption, token.Figure, token.Footer,
		token.Header, token.Hgroup, token.Main, token.Menu, token.Nav,
		token.Ol, token.P, token.Section, token.Summary, token.Ul:
		b.closeAParagraph()
		_, err := b.insertHTMLElement(tok)
		return false, err

	case token.H1, token.H2, token.H3, token.H4, token.H5, token.H6:
		b.closeAParagraph()
		if headingElement[b.currentType()] {
			b.parseError("heading inside heading")
			b.pop()
		}
		_, err := b.insertHTMLElement(tok)
		return false, err

	case token.Pre, token.Listing:
		b.closeAParagraph()
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.framesetOK = false
		return false, nil

	case token.Form:
		if b.formNode != nil && !b.stackContains(token.Template) {
			b.parseError("nested form")
			return false, nil
		}
		b.closeAParagraph()
		node, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		if !b.stackContains(token.Template) {
			b.formNode = node
		}
		return false, nil

	case token.Li:
		b.framesetOK = false
		for i := len(b.stack) - 1; i >= 0; i-- {
			t := b.stack[i].typ
			if t == token.Li {
				b.generateImpliedEndTags(token.Li)
				if b.currentType() != token.Li {
					b.parseError("end tag implied, original tag was li")
				}
				b.popUntil(token.Li)
				break
			}
			if token.IsSpecial(t) && t != token.Address && t != token.Div && t != token.P {
				break
			}
		}
		b.closeAParagraph()
		_, err := b.insertHTMLElement(tok)
		return false, err

	case token.Dd, token.Dt:
		b.framesetOK = false
		for i := len(b.stack) - 1; i >= 0; i-- {
			t := b.stack[i].typ
			if t == token.Dd || t == token.Dt {
				b.generateImpliedEndTags(t)
				if b.currentType() != t {
					b.parseError("end tag implied for definition list item")
				}
				b.popUntil(t)
				break
			}
			if token.IsSpecial(t) && t != token.Address && t != token.Div && t != token.P {
				break
			}
		}
		b.closeAParagraph()
		_, err := b.insertHTMLElement(tok)
		return false, err

	case token.Plaintext:
		b.closeAParagraph()
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		if b.tok != nil {
			b.tok.SetContentModel(token.PLAINTEXT)
		}
		return false, nil

	case token.Button:
		if b.inButtonScope(token.Button) {
			b.parseError("nested button")
			b.generateImpliedEndTags(token.Unknown)
			b.popUntil(token.Button)
		}
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.framesetOK = false
		return false, nil

	case token.A:
		if idx := b.afeIndexOf(b.lastFormattingNode(token.A)); idx != -1 {
			b.parseError("nested anchor")
			if err := b.adoptionAgency(token.A); err != nil {
				return false, err
			}
			b.removeFromFormatting(b.lastFormattingNode(token.A))
		}
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		node, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.pushFormatting(token.HTML, token.A, node, tok)
		return false, nil

	case token.B, token.Big, token.Code, token.Em, token.Font, token.I,
		token.S, token.Small, token.Strike, token.Strong, token.Tt, token.U:
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		node, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.pushFormatting(token.HTML, typ, node, tok)
		return false, nil

	case token.Nobr:
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		if b.inScope(token.Nobr, scopeDefault) {
			b.parseError("nested nobr")
			if err := b.adoptionAgency(token.Nobr); err != nil {
				return false, err
			}
			if err := b.reconstructFormatting(); err != nil {
				return false, err
			}
		}
		node, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.pushFormatting(token.HTML, token.Nobr, node, tok)
		return false, nil

	case token.Applet, token.Marquee, token.Object:
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.insertMarker()
		b.framesetOK = false
		return false, nil

	case token.Table:
		if !b.quirks && b.inButtonScope(token.P) {
			b.closeAParagraph()
		}
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.framesetOK = false
		b.mode = modeInTable
		return false, nil

	case token.Br, token.Img, token.Embed, token.Area, token.Wbr:
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.pop()
		b.framesetOK = false
		return false, nil

	case token.Input:
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.pop()
		if !isHiddenInputType(b, tok) {
			b.framesetOK = false
		}
		return false, nil

	case token.Param, token.Source, token.Track:
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.pop()
		return false, nil

	case token.Hr:
		b.closeAParagraph()
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.pop()
		b.framesetOK = false
		return false, nil

	case token.Textarea:
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.framesetOK = false
		b.secondMode = b.mode
		b.mode = modeText
		return false, nil

	case token.Xmp:
		b.closeAParagraph()
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		b.framesetOK = false
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.secondMode = b.mode
		b.mode = modeText
		return false, nil

	case token.Iframe:
		b.framesetOK = false
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.secondMode = b.mode
		b.mode = modeText
		return false, nil

	case token.Noembed:
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.secondMode = b.mode
		b.mode = modeText
		return false, nil

	case token.Select:
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		_, err := b.insertHTMLElement(tok)
		if err != nil {
			return false, err
		}
		b.framesetOK = false
		switch b.mode {
		case modeInTable, modeInCaption, modeInTableBody, modeInRow, modeInCell:
			b.mode = modeInSelectInTable
		default:
			b.mode = modeInSelect
		}
		return false, nil

	case token.Optgroup, token.Option:
		if b.currentType() == token.Option {
			b.pop()
		}
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		_, err := b.insertHTMLElement(tok)
		return false, err

	case token.Rb, token.Rtc:
		if b.inScope(token.Ruby, scopeDefault) {
			b.generateImpliedEndTags(token.Unknown)
		}
		_, err := b.insertHTMLElement(tok)
		return false, err

	case token.Rp, token.Rt:
		if b.inScope(token.Ruby, scopeDefault) {
			b.generateImpliedEndTags(token.Rtc)
		}
		_, err := b.insertHTMLElement(tok)
		return false, err

	case token.Mi, token.Mo, token.Mn, token.Ms, token.Mtext, token.AnnotationXML:
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		node, err := b.tree.CreateElement(token.MathML, typ, b.resolveElement(tok))
		if err != nil {
			return false, err
		}
		if err := b.tree.AppendChild(b.currentNode().node, node); err != nil {
			return false, err
		}
		if !tok.SelfClosing {
			b.secondMode = b.mode
			b.push(token.MathML, typ, node)
		}
		return false, nil

	case token.SVGElem:
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		node, err := b.tree.CreateElement(token.SVG, token.SVGElem, b.resolveElement(tok))
		if err != nil {
			return false, err
		}
		if err := b.tree.AppendChild(b.currentNode().node, node); err != nil {
			return false, err
		}
		if !tok.SelfClosing {
			b.secondMode = b.mode
			b.push(token.SVG, token.SVGElem, node)
		}
		return false, nil

	case token.Caption, token.Col, token.Colgroup, token.Frame, token.Head,
		token.Tbody, token.Td, token.Tfoot, token.Th, token.Thead, token.Tr:
		b.parseError("unexpected table-family start tag in body")
		return false, nil

	default:
		if err := b.reconstructFormatting(); err != nil {
			return false, err
		}
		_, err := b.insertHTMLElement(tok)
		return false, err
	}
}

func (b *Builder) endTagInBody(tok token.Token) (bool, error) {
	typ := token.LookupHTML(string(b.resolveName(tok.Name)))

	switch typ {
	case token.Body:
		if !b.hasElementInScope(token.Body) {
			b.parseError("end tag body without body in scope")
			return false, nil
		}
		b.mode = modeAfterBody
		return false, nil

	case token.HTMLElem:
		if !b.hasElementInScope(token.Body) {
			b.parseError("end tag html without body in scope")
			return false, nil
		}
		b.mode = modeAfterBody
		return true, nil

	case token.Address, token.Article, token.Aside, token.Blockquote,
		token.Button, token.Center, token.Details, token.Dialog, token.Dir,
		token.Div, token.Dl, token.Fieldset, token.Figcaption, token.Figure,
		token.Footer, token.Header, token.Hgroup, token.Listing, token.Main,
		token.Menu, token.Nav, token.Ol, token.Pre, token.Section,
		token.Summary, token.Ul:
		if !b.inScope(typ, scopeDefault) {
			b.parseError("unmatched end tag")
			return false, nil
		}
		b.generateImpliedEndTags(token.Unknown)
		if b.currentType() != typ {
			b.parseError("end tag implied")
		}
		b.popUntil(typ)
		return false, nil

	case token.Form:
		if !b.stackContains(token.Template) {
			node := b.formNode
			b.formNode = nil
			if node == nil || !b.isOnStack(node) {
				b.parseError("unmatched end tag form")
				return false, nil
			}
			b.generateImpliedEndTags(token.Unknown)
			if b.currentNode().node != node {
				b.parseError("end tag implied for form")
			}
			b.removeFromStack(node)
			return false, nil
		}
		if !b.inScope(token.Form, scopeDefault) {
			b.parseError("unmatched end tag form")
			return false, nil
		}
		b.generateImpliedEndTags(token.Unknown)
		if b.currentType() != token.Form {
			b.parseError("end tag implied for form")
		}
		b.popUntil(token.Form)
		return false, nil

	case token.P:
		if !b.inButtonScope(token.P) {
			b.parseError("unmatched end tag p")
			node, err := b.insertImpliedHTMLElement(token.P, "p")
			if err != nil {
				return false, err
			}
			_ = node
		}
		b.closeAParagraph()
		return false, nil

	case token.Li:
		if !b.inListItemScope(token.Li) {
			b.parseError("unmatched end tag li")
			return false, nil
		}
		b.generateImpliedEndTags(token.Li)
		if b.currentType() != token.Li {
			b.parseError("end tag implied for li")
		}
		b.popUntil(token.Li)
		return false, nil

	case token.Dd, token.Dt:
		if !b.inScope(typ, scopeDefault) {
			b.parseError("unmatched end tag")
			return false, nil
		}
		b.generateImpliedEndTags(typ)
		if b.currentType() != typ {
			b.parseError("end tag implied")
		}
		b.popUntil(typ)
		return false, nil

	case token.H1, token.H2, token.H3, token.H4, token.H5, token.H6:
		if !b.hasElementInScope(token.H1, token.H2, token.H3, token.H4, token.H5, token.H6) {
			b.parseError("unmatched heading end tag")
			return false, nil
		}
		b.generateImpliedEndTags(token.Unknown)
		if b.currentType() != typ {
			b.parseError("end tag implied for heading")
		}
		b.popUntil(token.H1, token.H2, token.H3, token.H4, token.H5, token.H6)
		return false, nil

	case token.A, token.B, token.Big, token.Code, token.Em, token.Font,
		token.I, token.Nobr, token.S, token.Small, token.Strike,
		token.Strong, token.Tt, token.U:
		return false, b.adoptionAgency(typ)

	case token.Applet, token.Marquee, token.Object:
		if !b.inScope(typ, scopeDefault) {
			b.parseError("unmatched end tag")
			return false, nil
		}
		b.generateImpliedEndTags(token.Unknown)
		if b.currentType() != typ {
			b.parseError("end tag implied")
		}
		b.popUntil(typ)
		b.clearFormattingToMarker()
		return false, nil

	case token.Br:
		b.parseError("end tag br treated as start tag")
		return b.startTagInBody(token.Token{Kind: token.StartTag, Name: tok.Name})

	default:
		return false, b.endTagInBodyDefault(typ)
	}
}

func isHiddenInputType(b *Builder, tok token.Token) bool {
	for _, a := range tok.Attributes {
		if string(b.resolveName(a.Name)) == "type" {
			return string(b.resolveSpan(a.Value)) == "hidden"
		}
	}
	return false
}

func (b *Builder) lastFormattingNode(typ token.ElementType) interface{} {
	for i := len(b.afe) - 1; i >= 0; i-- {
		if b.afe[i].marker {
			return nil
		}
		if b.afe[i].typ == typ {
			return b.afe[i].node
		}
	}
	return nil
}

// handleText implements the "text" insertion mode entered for
// RCDATA/CDATA elements like <script>, <style>, <title>, <textarea>
// (spec §6.3.7).
func (b *Builder) handleText(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Character:
		return false, b.appendText(b.currentNode().node, b.resolveSpan(tok.Text))
	case token.EOF:
		b.parseError("eof in text mode")
		b.pop()
		b.mode = b.secondMode
		return true, nil
	case token.EndTag:
		b.pop()
		b.mode = b.secondMode
		return false, nil
	}
	return false, nil
}
