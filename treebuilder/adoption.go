package treebuilder

import "github.com/lukehoban/htmlcore/token"

// adoptionAgency implements the HTML5 adoption agency algorithm (spec
// §6.6), used by "in body" end-tag handling for formatting elements
// like </a>, </b>, </i> that may have been implicitly left open across
// a misnested boundary. This follows the commonly-implemented bounded
// form (outer loop capped at 8 iterations, as browsers do) rather than
// the full unbounded specification text.
func (b *Builder) adoptionAgency(subject token.ElementType) error {
	for outer := 0; outer < 8; outer++ {
		idx := -1
		for i := len(b.afe) - 1; i >= 0; i-- {
			if b.afe[i].marker {
				break
			}
			if b.afe[i].typ == subject {
				idx = i
				break
			}
		}
		if idx == -1 {
			return b.endTagInBodyDefault(subject)
		}

		formattingEntry := b.afe[idx]
		stackIdx := b.stackIndexOf(formattingEntry.node)
		if stackIdx == -1 {
			b.afe = append(b.afe[:idx], b.afe[idx+1:]...)
			return nil
		}
		if !b.inScope(subject, scopeDefault) {
			b.parseError("adoption agency: formatting element not in scope")
			return nil
		}
		if stackIdx != len(b.stack)-1 {
			b.parseError("adoption agency: formatting element not current node")
		}

		furthestBlock := -1
		for i := stackIdx + 1; i < len(b.stack); i++ {
			if token.IsSpecial(b.stack[i].typ) {
				furthestBlock = i
				break
			}
		}

		if furthestBlock == -1 {
			for len(b.stack) > stackIdx {
				b.pop()
			}
			b.removeFromFormatting(formattingEntry.node)
			return nil
		}

		commonAncestor := b.stack[stackIdx-1]
		bookmark := idx

		lastNode := b.stack[furthestBlock]
		node := lastNode
		nodeIdx := furthestBlock

		for innerLoop := 0; innerLoop < 3; innerLoop++ {
			nodeIdx--
			if nodeIdx <= stackIdx {
				break
			}
			node = b.stack[nodeIdx]
			afeIdx := b.afeIndexOf(node.node)
			if afeIdx == -1 {
				b.removeStackAt(nodeIdx)
				furthestBlock--
				continue
			}
			newNode, err := b.tree.CreateElement(b.afe[afeIdx].ns, b.afe[afeIdx].typ, b.resolveElement(b.afe[afeIdx].tag))
			if err != nil {
				return err
			}
			b.afe[afeIdx].node = newNode
			b.stack[nodeIdx].node = newNode
			if afeIdx < bookmark {
				bookmark--
			}
			if lastNode.node == b.stack[furthestBlock].node {
				bookmark = afeIdx + 1
			}
			if err := b.reparent(newNode, lastNode.node); err != nil {
				return err
			}
			lastNode = b.stack[nodeIdx]
			node = lastNode
		}

		if err := b.reparent(commonAncestor.node, lastNode.node); err != nil {
			return err
		}

		newFormatting, err := b.tree.CreateElement(formattingEntry.ns, formattingEntry.typ, b.resolveElement(formattingEntry.tag))
		if err != nil {
			return err
		}
		if err := b.moveAllChildren(b.stack[furthestBlock].node, newFormatting); err != nil {
			return err
		}
		if err := b.tree.AppendChild(b.stack[furthestBlock].node, newFormatting); err != nil {
			return err
		}

		b.afe = append(b.afe[:idx], b.afe[idx+1:]...)
		insertAt := bookmark
		if insertAt > len(b.afe) {
			insertAt = len(b.afe)
		}
		newEntry := afeEntry{ns: formattingEntry.ns, typ: formattingEntry.typ, node: newFormatting, tag: formattingEntry.tag}
		b.afe = append(b.afe[:insertAt], append([]afeEntry{newEntry}, b.afe[insertAt:]...)...)

		b.removeStackAt(stackIdx)
		insertStackAt := furthestBlock - 1
		if insertStackAt > len(b.stack) {
			insertStackAt = len(b.stack)
		}
		if insertStackAt < 0 {
			insertStackAt = 0
		}
		b.tree.Ref(newFormatting)
		b.stack = append(b.stack[:insertStackAt], append([]elementContext{{ns: formattingEntry.ns, typ: formattingEntry.typ, node: newFormatting}}, b.stack[insertStackAt:]...)...)
	}
	return nil
}

func (b *Builder) stackIndexOf(node interface{}) int {
	for i, e := range b.stack {
		if e.node == node {
			return i
		}
	}
	return -1
}

func (b *Builder) afeIndexOf(node interface{}) int {
	for i, e := range b.afe {
		if !e.marker && e.node == node {
			return i
		}
	}
	return -1
}

func (b *Builder) removeStackAt(i int) {
	if i < 0 || i >= len(b.stack) {
		return
	}
	b.tree.Unref(b.stack[i].node)
	b.stack = append(b.stack[:i], b.stack[i+1:]...)
}

// reparent moves child to be the last child of parent, removing it
// from wherever it currently lives first (used by adoption agency's
// node-relocation steps; the concrete TreeHandler is responsible for
// any existing-parent detachment).
func (b *Builder) reparent(parent, child interface{}) error {
	return b.tree.AppendChild(parent, child)
}

func (b *Builder) moveAllChildren(from, to interface{}) error {
	return b.tree.MoveChildren(from, to)
}

// endTagInBodyDefault is the "any other end tag" branch of "in body",
// used by adoption agency when the subject formatting element is not
// found on the active formatting list at all.
func (b *Builder) endTagInBodyDefault(typ token.ElementType) error {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].typ == typ {
			b.generateImpliedEndTags(typ)
			for len(b.stack) > i {
				b.pop()
			}
			return nil
		}
		if token.IsSpecial(b.stack[i].typ) {
			b.parseError("end tag for non-open element")
			return nil
		}
	}
	return nil
}
