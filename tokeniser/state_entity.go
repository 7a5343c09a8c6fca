package tokeniser

import (
	"github.com/lukehoban/htmlcore/entity"
	"github.com/lukehoban/htmlcore/stream"
	"github.com/lukehoban/htmlcore/token"
)

// consumeEntitySetup records where a character-reference candidate
// begins (the '&' itself), the first time entity-data or
// entity-in-attribute-value is entered for a given '&'.
func (t *Tokeniser) consumeEntitySetup() {
	if t.entSetupDone {
		return
	}
	off, n := t.s.CurPos()
	t.entStart = off
	t.entLen = n
	t.entBase = 0
	t.entCodepoint = 0
	t.entHadData = false
	t.entSetupDone = true
	t.s.Advance()
}

// consumeEntity is shared setup for handleEntityData and
// handleEntityInAttributeValue: it decides, from the byte following
// '&', whether this is a numeric or named character reference.
func (t *Tokeniser) consumeEntity() (bool, error) {
	t.consumeEntitySetup()

	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}

	if sentinel != stream.EOF && r == '#' {
		_, n := t.s.CurPos()
		t.entLen += n
		t.s.Advance()
		t.state = stateNumberedEntity
		return true, nil
	}

	t.entCursor = entity.NewCursor()
	t.entBaseLen = t.entLen
	t.entPrevLen = t.entLen
	t.state = stateNamedEntity
	return true, nil
}

// handleEntityData implements entity-data: on first entry it defers
// to consumeEntity; once numbered/named entity consumption has
// rewound the stream and made any replacement, it is re-entered with
// entComplete set, and emits exactly one character token for whatever
// now sits at the cursor (the replacement character, or the bare '&'
// if nothing matched) before resuming DATA (spec §4.1 "Entity
// consumption").
func (t *Tokeniser) handleEntityData() (bool, error) {
	if !t.entComplete {
		t.entInAttr = false
		return t.consumeEntity()
	}

	_, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}

	off, n := t.s.CurPos()
	t.entComplete = false
	t.state = stateData
	t.s.Advance()
	return true, t.emit(token.Token{Kind: token.Character, Text: token.Span{Offset: off, Length: n}})
}

// handleEntityInAttributeValue implements entity-in-attribute-value:
// the same two-phase shape as handleEntityData, but folds the single
// replacement character into the current attribute's value span
// instead of emitting a standalone token, then resumes the
// attribute-value state the entity interrupted.
func (t *Tokeniser) handleEntityInAttributeValue() (bool, error) {
	if !t.entComplete {
		t.entInAttr = true
		return t.consumeEntity()
	}

	_, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}

	off, n := t.s.CurPos()
	a := t.curAttr()
	if a.Value.Length == 0 {
		a.Value.Offset = off
	}
	a.Value.Length += n

	t.entComplete = false
	t.state = t.entAttrState
	t.s.Advance()
	return true, nil
}

// entityWrapperState returns the state that should run the two-phase
// completion handshake once numbered/named entity matching finishes.
func (t *Tokeniser) entityWrapperState() state {
	if t.entInAttr {
		return stateEntityInAttributeValue
	}
	return stateEntityData
}

// handleNumberedEntity implements numbered-entity: decimal or
// hexadecimal digit accumulation, an optional trailing ';', rewind to
// the start of the whole "&#...;" span, and in-place replacement with
// the decoded codepoint (spec §4.1 "Numbered entity", §8.3 scenario 2
// cp1252 remap).
func (t *Tokeniser) handleNumberedEntity() (bool, error) {
	if t.entBase == 0 {
		r, sentinel := t.s.Peek()
		if sentinel == stream.OOD {
			return false, nil
		}
		if sentinel != stream.EOF && (r&^0x20) == 'X' {
			t.entBase = 16
			_, n := t.s.CurPos()
			t.entLen += n
			t.s.Advance()
		} else {
			t.entBase = 10
		}
	}

	for {
		r, sentinel := t.s.Peek()
		if sentinel == stream.OOD {
			return false, nil
		}
		if sentinel == stream.EOF {
			break
		}

		if t.entBase == 10 && isDigit(r) {
			t.entHadData = true
			t.entCodepoint = t.entCodepoint*10 + uint64(r-'0')
			_, n := t.s.CurPos()
			t.entLen += n
		} else if t.entBase == 16 && isHexDigit(r) {
			t.entHadData = true
			t.entCodepoint *= 16
			if isDigit(r) {
				t.entCodepoint += uint64(r - '0')
			} else {
				t.entCodepoint += uint64((r&^0x20)-'A') + 10
			}
			_, n := t.s.CurPos()
			t.entLen += n
		} else {
			break
		}
		t.s.Advance()
	}

	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	if sentinel != stream.EOF && r == ';' {
		_, n := t.s.CurPos()
		t.entLen += n
		t.s.Advance()
	}

	t.s.Rewind(t.entLen)

	if t.entHadData {
		decoded := entity.DecodeNumeric(uint32(t.entCodepoint))
		t.s.ReplaceRange(t.entStart, t.entLen, decoded)
	}

	t.entSetupDone = false
	t.entComplete = true
	t.state = t.entityWrapperState()
	return true, nil
}

// handleNamedEntity implements named-entity: a stepwise trie descent
// via entity.Cursor, HTML5's greedy-longest-match-without-semicolon
// rule, and in-place replacement of only the matched prefix -- bytes
// scanned past the longest match (e.g. "x" in "&ampx") are left in the
// stream for ordinary reprocessing (spec §4.1 "Named entity", §8.3
// scenario 3).
func (t *Tokeniser) handleNamedEntity() (bool, error) {
	for {
		r, sentinel := t.s.Peek()
		if sentinel == stream.OOD {
			return false, nil
		}
		if sentinel == stream.EOF || r > 0x7F {
			break
		}

		step := t.entCursor.Next(byte(r))
		if step == entity.StepDead {
			break
		}

		_, n := t.s.CurPos()
		t.entLen += n
		if t.entCursor.HasMatch() && t.entCursor.MatchLength() == t.entLen-t.entBaseLen {
			t.entPrevLen = t.entLen
		}
		t.s.Advance()
	}

	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}

	if t.entCursor.HasMatch() && sentinel != stream.EOF && r == ';' && t.entPrevLen == t.entLen {
		_, n := t.s.CurPos()
		t.entPrevLen += n
	}

	t.s.Rewind(t.entLen)

	if t.entCursor.HasMatch() {
		cps := t.entCursor.Codepoints()
		t.s.ReplaceRange(t.entStart, t.entPrevLen, cps[0])
		for _, extra := range cps[1:] {
			t.s.PushBack(extra)
		}
	}

	t.entSetupDone = false
	t.entComplete = true
	t.state = t.entityWrapperState()
	return true, nil
}
