package tokeniser

import (
	"github.com/lukehoban/htmlcore/stream"
	"github.com/lukehoban/htmlcore/token"
)

// handleTagName implements the tag-name state.
func (t *Tokeniser) handleTagName() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	switch {
	case sentinel == stream.EOF || r == '<':
		return t.emitTag()
	case isSpace(r):
		t.s.Advance()
		t.state = stateBeforeAttributeName
		return true, nil
	case r == '>':
		t.s.Advance()
		return t.emitTag()
	case r == '/':
		t.s.Advance()
		t.state = stateBeforeAttributeName
		t.tagSelfClosingPending = true
		return true, nil
	case isUpper(r):
		t.s.Lowercase()
		_, n := t.s.CurPos()
		t.tagNameLen += n
		t.s.Advance()
		return true, nil
	default:
		_, n := t.s.CurPos()
		t.tagNameLen += n
		t.s.Advance()
		return true, nil
	}
}

// handleBeforeAttributeName implements before-attribute-name. A '/'
// seen here is HTML5's self-closing-start-tag lookahead, collapsed
// into this state (the 28-state budget in spec §4.1 has no separate
// state for it, matching original_source's "permitted slash" handling
// which also folds it in here).
func (t *Tokeniser) handleBeforeAttributeName() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	if t.tagSelfClosingPending {
		t.tagSelfClosingPending = false
		if r == '>' || sentinel == stream.EOF {
			t.tagSelfClosing = true
		}
	}
	switch {
	case sentinel == stream.EOF || r == '<':
		return t.emitTag()
	case isSpace(r):
		t.s.Advance()
		return true, nil
	case r == '>':
		t.s.Advance()
		return t.emitTag()
	case r == '/':
		t.s.Advance()
		t.tagSelfClosingPending = true
		return true, nil
	case isUpper(r):
		t.s.Lowercase()
		t.beginAttr()
		return true, nil
	default:
		t.beginAttr()
		return true, nil
	}
}

func (t *Tokeniser) beginAttr() {
	off, n := t.s.CurPos()
	t.tagAttrs = append(t.tagAttrs, token.Attribute{Name: token.Span{Offset: off, Length: n}})
	t.state = stateAttributeName
	t.s.Advance()
}

func (t *Tokeniser) curAttr() *token.Attribute {
	return &t.tagAttrs[len(t.tagAttrs)-1]
}

// handleAttributeName implements attribute-name.
func (t *Tokeniser) handleAttributeName() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	switch {
	case sentinel == stream.EOF || r == '<':
		return t.emitTag()
	case isSpace(r):
		t.s.Advance()
		t.state = stateAfterAttributeName
		return true, nil
	case r == '=':
		t.s.Advance()
		t.state = stateBeforeAttributeValue
		return true, nil
	case r == '>':
		t.s.Advance()
		return t.emitTag()
	case r == '/':
		t.s.Advance()
		t.state = stateBeforeAttributeName
		t.tagSelfClosingPending = true
		return true, nil
	case isUpper(r):
		t.s.Lowercase()
		_, n := t.s.CurPos()
		t.curAttr().Name.Length += n
		t.s.Advance()
		return true, nil
	default:
		_, n := t.s.CurPos()
		t.curAttr().Name.Length += n
		t.s.Advance()
		return true, nil
	}
}

// handleAfterAttributeName implements after-attribute-name.
func (t *Tokeniser) handleAfterAttributeName() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	switch {
	case sentinel == stream.EOF || r == '<':
		return t.emitTag()
	case isSpace(r):
		t.s.Advance()
		return true, nil
	case r == '=':
		t.s.Advance()
		t.state = stateBeforeAttributeValue
		return true, nil
	case r == '>':
		t.s.Advance()
		return t.emitTag()
	case r == '/':
		t.s.Advance()
		t.tagSelfClosingPending = true
		t.state = stateBeforeAttributeName
		return true, nil
	case isUpper(r):
		t.s.Lowercase()
		t.beginAttr()
		return true, nil
	default:
		t.beginAttr()
		return true, nil
	}
}

// handleBeforeAttributeValue implements before-attribute-value.
func (t *Tokeniser) handleBeforeAttributeValue() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	switch {
	case sentinel == stream.EOF || r == '<':
		return t.emitTag()
	case isSpace(r):
		t.s.Advance()
		return true, nil
	case r == '"':
		t.s.Advance()
		t.state = stateAttributeValueDQ
		return true, nil
	case r == '\'':
		t.s.Advance()
		t.state = stateAttributeValueSQ
		return true, nil
	case r == '&':
		t.state = stateAttributeValueUQ
		return true, nil
	case r == '>':
		t.s.Advance()
		return t.emitTag()
	default:
		off, n := t.s.CurPos()
		a := t.curAttr()
		a.Value = token.Span{Offset: off, Length: n}
		t.state = stateAttributeValueUQ
		t.s.Advance()
		return true, nil
	}
}

// handleAttributeValueQuoted implements attribute-value-(double|single)-quoted.
func (t *Tokeniser) handleAttributeValueQuoted(quote rune) (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	switch {
	case sentinel == stream.EOF:
		return t.emitTag()
	case r == quote:
		t.s.Advance()
		t.state = stateBeforeAttributeName
		return true, nil
	case r == '&':
		t.entAttrState = t.state
		t.state = stateEntityInAttributeValue
		return true, nil
	default:
		off, n := t.s.CurPos()
		a := t.curAttr()
		if a.Value.Length == 0 {
			a.Value.Offset = off
		}
		a.Value.Length += n
		t.s.Advance()
		return true, nil
	}
}

// handleAttributeValueUnquoted implements attribute-value-unquoted.
func (t *Tokeniser) handleAttributeValueUnquoted() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	switch {
	case sentinel == stream.EOF || r == '<':
		return t.emitTag()
	case isSpace(r):
		t.s.Advance()
		t.state = stateBeforeAttributeName
		return true, nil
	case r == '>':
		t.s.Advance()
		return t.emitTag()
	case r == '&':
		t.entAttrState = t.state
		t.state = stateEntityInAttributeValue
		return true, nil
	default:
		off, n := t.s.CurPos()
		a := t.curAttr()
		if a.Value.Length == 0 {
			a.Value.Offset = off
		}
		a.Value.Length += n
		t.s.Advance()
		return true, nil
	}
}

// emitTag finishes the current tag: deduplicates attributes keeping
// the first occurrence of each name (spec §3.2, §4.1 "Duplicate
// attribute elimination"), records the last start tag name for
// RCDATA/CDATA close-tag matching, and emits the token.
func (t *Tokeniser) emitTag() (bool, error) {
	attrs := dedupAttributes(t.s, t.tagAttrs)
	tok := token.Token{
		Kind:        t.tagKind,
		Name:        token.Span{Offset: t.tagNameStart, Length: t.tagNameLen},
		SelfClosing: t.tagSelfClosing,
		Attributes:  attrs,
	}
	if t.tagKind == token.StartTag && !t.tagSelfClosing {
		t.lastStartTag = append(t.lastStartTag[:0], t.s.Slice(t.tagNameStart, t.tagNameLen)...)
	}
	t.tagSelfClosing = false
	t.tagSelfClosingPending = false
	t.state = stateData
	return true, t.emit(tok)
}

// dedupAttributes keeps the first occurrence of each attribute name,
// comparing the already-lowercased name bytes byte-exact (spec §3.2).
func dedupAttributes(s *stream.Stream, attrs []token.Attribute) []token.Attribute {
	if len(attrs) < 2 {
		out := make([]token.Attribute, len(attrs))
		copy(out, attrs)
		return out
	}
	out := make([]token.Attribute, 0, len(attrs))
	for i, a := range attrs {
		dup := false
		for j := 0; j < i; j++ {
			if attrs[j].Name.Length == a.Name.Length &&
				s.CompareRangeCS(attrs[j].Name.Offset, a.Name.Offset, a.Name.Length) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, a)
		}
	}
	return out
}
