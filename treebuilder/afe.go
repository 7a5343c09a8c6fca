package treebuilder

import "github.com/lukehoban/htmlcore/token"

// pushFormatting appends node to the active formatting elements list,
// applying the Noah's Ark clause: if three elements with the same tag
// name, namespace and attributes already appear since the last marker,
// the earliest is removed (spec §6.5 "Active formatting elements").
func (b *Builder) pushFormatting(ns token.Namespace, typ token.ElementType, node interface{}, tag token.Token) {
	matches := 0
	earliest := -1
	for i := len(b.afe) - 1; i >= 0; i-- {
		e := b.afe[i]
		if e.marker {
			break
		}
		if e.ns == ns && e.typ == typ && sameAttributes(b, e.tag, tag) {
			matches++
			earliest = i
		}
	}
	if matches >= 3 && earliest >= 0 {
		b.afe = append(b.afe[:earliest], b.afe[earliest+1:]...)
	}
	b.afe = append(b.afe, afeEntry{ns: ns, typ: typ, node: node, tag: tag})
}

func sameAttributes(b *Builder, a, c token.Token) bool {
	if len(a.Attributes) != len(c.Attributes) {
		return false
	}
	for _, aa := range a.Attributes {
		found := false
		for _, ca := range c.Attributes {
			if string(b.resolveName(aa.Name)) == string(b.resolveName(ca.Name)) &&
				string(b.resolveSpan(aa.Value)) == string(b.resolveSpan(ca.Value)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (b *Builder) resolveSpan(s token.Span) []byte {
	return b.srcBuf[s.Offset : s.Offset+s.Length]
}

// insertMarker pushes a scope marker, used when entering elements like
// <button>, <object>, <table> cells/captions, and <template>.
func (b *Builder) insertMarker() {
	b.afe = append(b.afe, afeEntry{marker: true})
}

// clearFormattingToMarker discards entries back to (and including) the
// most recent marker, used on </caption>, </table>, etc.
func (b *Builder) clearFormattingToMarker() {
	for len(b.afe) > 0 {
		last := b.afe[len(b.afe)-1]
		b.afe = b.afe[:len(b.afe)-1]
		if last.marker {
			return
		}
	}
}

// reconstructFormatting re-opens active formatting elements that have
// fallen off the stack of open elements since they were last active,
// per spec §6.5 "Reconstruct the active formatting elements", called
// before inserting ordinary content in the body.
func (b *Builder) reconstructFormatting() error {
	if len(b.afe) == 0 {
		return nil
	}
	last := &b.afe[len(b.afe)-1]
	if last.marker || b.isOnStack(last.node) {
		return nil
	}

	i := len(b.afe) - 1
	for i > 0 {
		i--
		e := b.afe[i]
		if e.marker || b.isOnStack(e.node) {
			i++
			break
		}
	}

	for ; i < len(b.afe); i++ {
		e := &b.afe[i]
		node, err := b.tree.CreateElement(e.ns, e.typ, b.resolveElement(e.tag))
		if err != nil {
			return err
		}
		if err := b.tree.AppendChild(b.currentNode().node, node); err != nil {
			return err
		}
		b.push(e.ns, e.typ, node)
		e.node = node
	}
	return nil
}

func (b *Builder) isOnStack(node interface{}) bool {
	for _, e := range b.stack {
		if e.node == node {
			return true
		}
	}
	return false
}

func (b *Builder) removeFromFormatting(node interface{}) {
	for i, e := range b.afe {
		if e.node == node {
			b.afe = append(b.afe[:i], b.afe[i+1:]...)
			return
		}
	}
}
