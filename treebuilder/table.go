package treebuilder

import "github.com/lukehoban/htmlcore/token"

// closeCaption implements the shared "close the cell/caption"
// cleanup used by the table-family modes when a structural token
// forces them back to "in table", grounded directly on
// handle_in_caption's post-switch cleanup block.
func (b *Builder) closeCaption() {
	b.generateImpliedEndTags(token.Unknown)
	for b.currentType() != token.Caption && len(b.stack) > 0 {
		b.pop()
	}
	if len(b.stack) > 0 {
		b.pop()
	}
	b.clearFormattingToMarker()
	b.mode = modeInTable
}

// handleInCaption implements the "in caption" insertion mode, grounded
// directly on handle_in_caption (spec §6.6 "in caption").
func (b *Builder) handleInCaption(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Caption, token.Col, token.Colgroup, token.Tbody, token.Td,
			token.Tfoot, token.Th, token.Thead, token.Tr:
			b.parseError("unexpected table-family start tag in caption")
			b.closeCaption()
			return true, nil
		default:
			return b.handleInBody(tok)
		}
	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Caption:
			if !b.inTableScope(token.Caption) {
				b.parseError("unmatched end tag caption")
				return false, nil
			}
			b.closeCaption()
			return false, nil
		case token.Table:
			if !b.inTableScope(token.Caption) {
				b.parseError("unmatched end tag table in caption")
				return false, nil
			}
			b.closeCaption()
			return true, nil
		case token.Body, token.Col, token.Colgroup, token.HTMLElem,
			token.Tbody, token.Td, token.Tfoot, token.Th, token.Thead, token.Tr:
			b.parseError("unexpected end tag in caption")
			return false, nil
		default:
			return b.handleInBody(tok)
		}
	default:
		return b.handleInBody(tok)
	}
}

// handleInTable implements the "in table" insertion mode (spec §6.6
// "in table"), with misplaced content foster-parented to precede the
// table rather than corrupting its structure.
func (b *Builder) handleInTable(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.Character:
		b.pendingTableChars = b.pendingTableChars[:0]
		b.secondMode = b.mode
		b.mode = modeInTableText
		return true, nil

	case token.Comment:
		return false, b.appendCommentToCurrent(tok)

	case token.Doctype:
		b.parseError("doctype in table")
		return false, nil

	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Caption:
			b.clearStackToTableContext()
			b.insertMarker()
			_, err := b.insertHTMLElement(tok)
			if err != nil {
				return false, err
			}
			b.mode = modeInCaption
			return false, nil
		case token.Colgroup:
			b.clearStackToTableContext()
			_, err := b.insertHTMLElement(tok)
			if err != nil {
				return false, err
			}
			b.mode = modeInColumnGroup
			return false, nil
		case token.Col:
			b.clearStackToTableContext()
			if _, err := b.insertImpliedHTMLElement(token.Colgroup, "colgroup"); err != nil {
				return false, err
			}
			b.mode = modeInColumnGroup
			return true, nil
		case token.Tbody, token.Tfoot, token.Thead:
			b.clearStackToTableContext()
			_, err := b.insertHTMLElement(tok)
			if err != nil {
				return false, err
			}
			b.mode = modeInTableBody
			return false, nil
		case token.Td, token.Th, token.Tr:
			b.clearStackToTableContext()
			if _, err := b.insertImpliedHTMLElement(token.Tbody, "tbody"); err != nil {
				return false, err
			}
			b.mode = modeInTableBody
			return true, nil
		case token.Table:
			b.parseError("nested table start tag")
			if !b.inTableScope(token.Table) {
				return false, nil
			}
			b.popUntil(token.Table)
			b.resetInsertionModeForStack()
			return true, nil
		case token.Style, token.Script, token.Template:
			return b.handleInHead(tok)
		case token.Input:
			if isHiddenInputType(b, tok) {
				_, err := b.insertHTMLElement(tok)
				if err != nil {
					return false, err
				}
				b.pop()
				return false, nil
			}
		case token.Form:
			if b.formNode == nil && !b.stackContains(token.Template) {
				b.parseError("form in table")
				node, err := b.insertHTMLElement(tok)
				if err != nil {
					return false, err
				}
				b.formNode = node
				b.pop()
			}
			return false, nil
		}

	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Table:
			if !b.inTableScope(token.Table) {
				b.parseError("unmatched end tag table")
				return false, nil
			}
			b.popUntil(token.Table)
			b.resetInsertionModeForStack()
			return false, nil
		case token.Body, token.Caption, token.Col, token.Colgroup,
			token.HTMLElem, token.Tbody, token.Td, token.Tfoot, token.Th,
			token.Thead, token.Tr:
			b.parseError("unexpected end tag in table")
			return false, nil
		case token.Template:
			return b.handleInHead(tok)
		}

	case token.EOF:
		return false, nil
	}

	b.parseError("foster-parented content in table")
	return b.fosterParent(tok)
}

// fosterParent implements the foster-parenting algorithm used when
// "in table" and its row/cell descendants see content that cannot
// legally live inside the table: the content is processed as if in
// body, but any node it would append to the table is instead inserted
// immediately before the table in its parent (spec §6.4 "Foster
// parenting").
func (b *Builder) fosterParent(tok token.Token) (bool, error) {
	tableIdx := -1
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].typ == token.Table {
			tableIdx = i
			break
		}
	}
	if tableIdx <= 0 {
		return b.handleInBody(tok)
	}

	fosterParentNode := b.stack[tableIdx-1].node
	tableNode := b.stack[tableIdx].node

	if tok.Kind == token.Character {
		text := b.resolveSpan(tok.Text)
		if !allWhitespace(text) {
			b.framesetOK = false
		}
		node, err := b.tree.CreateText(text)
		if err != nil {
			return false, err
		}
		return false, b.tree.InsertBefore(fosterParentNode, node, tableNode)
	}
	return b.handleInBody(tok)
}

func (b *Builder) clearStackToTableContext() {
	for len(b.stack) > 0 {
		t := b.currentType()
		if t == token.Table || t == token.Template || t == token.HTMLElem {
			return
		}
		b.pop()
	}
}

func (b *Builder) clearStackToTableBodyContext() {
	for len(b.stack) > 0 {
		switch b.currentType() {
		case token.Tbody, token.Tfoot, token.Thead, token.Template, token.HTMLElem:
			return
		}
		b.pop()
	}
}

func (b *Builder) clearStackToTableRowContext() {
	for len(b.stack) > 0 {
		switch b.currentType() {
		case token.Tr, token.Template, token.HTMLElem:
			return
		}
		b.pop()
	}
}

// resetInsertionModeForStack implements the "reset the insertion mode
// appropriately" algorithm run after popping back out of a table
// (spec §6.3 "The insertion mode reset algorithm").
func (b *Builder) resetInsertionModeForStack() {
	for i := len(b.stack) - 1; i >= 0; i-- {
		last := i == 0
		node := b.stack[i]
		switch node.typ {
		case token.Select:
			for j := i; j > 0; j-- {
				switch b.stack[j-1].typ {
				case token.Table:
					b.mode = modeInSelectInTable
					return
				}
			}
			b.mode = modeInSelect
			return
		case token.Td, token.Th:
			if !last {
				b.mode = modeInCell
				return
			}
		case token.Tr:
			b.mode = modeInRow
			return
		case token.Tbody, token.Thead, token.Tfoot:
			b.mode = modeInTableBody
			return
		case token.Caption:
			b.mode = modeInCaption
			return
		case token.Colgroup:
			b.mode = modeInColumnGroup
			return
		case token.Table:
			b.mode = modeInTable
			return
		case token.Head:
			if !last {
				b.mode = modeInHead
				return
			}
		case token.Body:
			b.mode = modeInBody
			return
		case token.Frameset:
			b.mode = modeInFrameset
			return
		case token.HTMLElem:
			if b.headNode == nil {
				b.mode = modeBeforeHead
			} else {
				b.mode = modeAfterHead
			}
			return
		}
		if last {
			b.mode = modeInBody
			return
		}
	}
	b.mode = modeInBody
}

// handleInTableText implements the "in table text" insertion mode: it
// buffers character tokens seen while "in table" so an all-whitespace
// run can be appended normally while a run containing non-whitespace
// is reprocessed through foster parenting (spec §6.6 "in table text").
func (b *Builder) handleInTableText(tok token.Token) (bool, error) {
	if tok.Kind == token.Character {
		b.pendingTableChars = append(b.pendingTableChars, b.resolveSpan(tok.Text)...)
		return false, nil
	}

	text := b.pendingTableChars
	b.pendingTableChars = nil
	b.mode = b.secondMode

	if allWhitespace(text) {
		if err := b.appendText(b.currentNode().node, text); err != nil {
			return false, err
		}
		return true, nil
	}

	b.parseError("foster-parented character data in table")
	b.framesetOK = false
	if err := b.appendViaFosterParent(text); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Builder) appendViaFosterParent(text []byte) error {
	tableIdx := -1
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].typ == token.Table {
			tableIdx = i
			break
		}
	}
	if tableIdx <= 0 {
		return b.appendText(b.currentNode().node, text)
	}
	node, err := b.tree.CreateText(text)
	if err != nil {
		return err
	}
	return b.tree.InsertBefore(b.stack[tableIdx-1].node, node, b.stack[tableIdx].node)
}

// handleInColumnGroup implements the "in column group" insertion mode
// (spec §6.6 "in column group").
func (b *Builder) handleInColumnGroup(tok token.Token) (bool, error) {
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
		b.parseError("doctype in column group")
		return false, nil
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.HTMLElem:
			return b.handleInBody(tok)
		case token.Col:
			_, err := b.insertHTMLElement(tok)
			if err != nil {
				return false, err
			}
			b.pop()
			return false, nil
		case token.Template:
			return b.handleInHead(tok)
		}
	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Colgroup:
			if b.currentType() != token.Colgroup {
				b.parseError("unmatched end tag colgroup")
				return false, nil
			}
			b.pop()
			b.mode = modeInTable
			return false, nil
		case token.Col:
			b.parseError("unmatched end tag col")
			return false, nil
		case token.Template:
			return b.handleInHead(tok)
		}
	case token.EOF:
		return b.handleInBody(tok)
	}
	if b.currentType() != token.Colgroup {
		b.parseError("unexpected token in column group")
		return false, nil
	}
	b.pop()
	b.mode = modeInTable
	return true, nil
}

// handleInTableBody implements the "in table body" insertion mode
// (spec §6.6 "in table body").
func (b *Builder) handleInTableBody(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Tr:
			b.clearStackToTableBodyContext()
			_, err := b.insertHTMLElement(tok)
			if err != nil {
				return false, err
			}
			b.mode = modeInRow
			return false, nil
		case token.Td, token.Th:
			b.parseError("cell start tag without row")
			b.clearStackToTableBodyContext()
			if _, err := b.insertImpliedHTMLElement(token.Tr, "tr"); err != nil {
				return false, err
			}
			b.mode = modeInRow
			return true, nil
		case token.Caption, token.Col, token.Colgroup, token.Tbody, token.Tfoot, token.Thead:
			if !b.inTableScope(token.Tbody) && !b.inTableScope(token.Thead) && !b.inTableScope(token.Tfoot) {
				b.parseError("unexpected table-section start tag")
				return false, nil
			}
			b.clearStackToTableBodyContext()
			b.pop()
			b.mode = modeInTable
			return true, nil
		}
	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Tbody, token.Tfoot, token.Thead:
			typ := token.LookupHTML(string(b.resolveName(tok.Name)))
			if !b.inTableScope(typ) {
				b.parseError("unmatched table-section end tag")
				return false, nil
			}
			b.clearStackToTableBodyContext()
			b.pop()
			b.mode = modeInTable
			return false, nil
		case token.Table:
			if !b.inTableScope(token.Tbody) && !b.inTableScope(token.Thead) && !b.inTableScope(token.Tfoot) {
				b.parseError("unexpected end tag table")
				return false, nil
			}
			b.clearStackToTableBodyContext()
			b.pop()
			b.mode = modeInTable
			return true, nil
		case token.Body, token.Caption, token.Col, token.Colgroup,
			token.HTMLElem, token.Td, token.Th, token.Tr:
			b.parseError("unexpected end tag in table body")
			return false, nil
		}
	}
	return b.handleInTable(tok)
}

// handleInRow implements the "in row" insertion mode (spec §6.6 "in
// row").
func (b *Builder) handleInRow(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Td, token.Th:
			b.clearStackToTableRowContext()
			_, err := b.insertHTMLElement(tok)
			if err != nil {
				return false, err
			}
			b.insertMarker()
			b.mode = modeInCell
			return false, nil
		case token.Caption, token.Col, token.Colgroup, token.Tbody, token.Tfoot, token.Thead, token.Tr:
			if !b.inTableScope(token.Tr) {
				b.parseError("unexpected row-family start tag")
				return false, nil
			}
			b.clearStackToTableRowContext()
			b.pop()
			b.mode = modeInTableBody
			return true, nil
		}
	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Tr:
			if !b.inTableScope(token.Tr) {
				b.parseError("unmatched end tag tr")
				return false, nil
			}
			b.clearStackToTableRowContext()
			b.pop()
			b.mode = modeInTableBody
			return false, nil
		case token.Table:
			if !b.inTableScope(token.Tr) {
				b.parseError("unexpected end tag table")
				return false, nil
			}
			b.clearStackToTableRowContext()
			b.pop()
			b.mode = modeInTableBody
			return true, nil
		case token.Tbody, token.Tfoot, token.Thead:
			typ := token.LookupHTML(string(b.resolveName(tok.Name)))
			if !b.inTableScope(typ) || !b.inTableScope(token.Tr) {
				b.parseError("unexpected table-section end tag")
				return false, nil
			}
			b.clearStackToTableRowContext()
			b.pop()
			b.mode = modeInTableBody
			return true, nil
		case token.Body, token.Caption, token.Col, token.Colgroup, token.HTMLElem, token.Td, token.Th:
			b.parseError("unexpected end tag in row")
			return false, nil
		}
	}
	return b.handleInTable(tok)
}

// handleInCell implements the "in cell" insertion mode (spec §6.6 "in
// cell").
func (b *Builder) handleInCell(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.StartTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Caption, token.Col, token.Colgroup, token.Tbody, token.Td,
			token.Tfoot, token.Th, token.Thead, token.Tr:
			if !b.inTableScope(token.Td) && !b.inTableScope(token.Th) {
				b.parseError("unexpected table-family start tag in cell")
				return false, nil
			}
			b.closeCell()
			return true, nil
		}
	case token.EndTag:
		switch token.LookupHTML(string(b.resolveName(tok.Name))) {
		case token.Td, token.Th:
			typ := token.LookupHTML(string(b.resolveName(tok.Name)))
			if !b.inTableScope(typ) {
				b.parseError("unmatched cell end tag")
				return false, nil
			}
			b.generateImpliedEndTags(token.Unknown)
			if b.currentType() != typ {
				b.parseError("end tag implied for cell")
			}
			b.popUntil(typ)
			b.clearFormattingToMarker()
			b.mode = modeInRow
			return false, nil
		case token.Body, token.Caption, token.Col, token.Colgroup, token.HTMLElem:
			b.parseError("unexpected end tag in cell")
			return false, nil
		case token.Table, token.Tbody, token.Tfoot, token.Thead, token.Tr:
			typ := token.LookupHTML(string(b.resolveName(tok.Name)))
			if !b.inTableScope(typ) {
				b.parseError("unexpected table-family end tag in cell")
				return false, nil
			}
			b.closeCell()
			return true, nil
		}
	}
	return b.handleInBody(tok)
}

func (b *Builder) closeCell() {
	cellType := token.Td
	if b.inTableScope(token.Th) && !b.inTableScope(token.Td) {
		cellType = token.Th
	}
	b.generateImpliedEndTags(token.Unknown)
	b.popUntil(cellType)
	b.clearFormattingToMarker()
	b.mode = modeInRow
}
