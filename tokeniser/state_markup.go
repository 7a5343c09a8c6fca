package tokeniser

import (
	"github.com/lukehoban/htmlcore/stream"
	"github.com/lukehoban/htmlcore/token"
)

// handleBogusComment implements bogus-comment: everything up to the
// next '>' (or EOF) becomes comment text, with no further syntax
// recognised inside it.
func (t *Tokeniser) handleBogusComment() (bool, error) {
	for {
		r, sentinel := t.s.Peek()
		if sentinel == stream.OOD {
			return false, nil
		}
		if sentinel == stream.EOF {
			break
		}
		if r == '>' {
			t.s.Advance()
			break
		}
		off, n := t.s.CurPos()
		if t.commentLen == 0 {
			t.commentStart = off
		}
		t.commentLen += n
		t.s.Advance()
	}
	t.state = stateData
	return true, t.emit(token.Token{Kind: token.Comment, Text: token.Span{Offset: t.commentStart, Length: t.commentLen}})
}

// handleMarkupDeclarationOpen dispatches "<!" to a comment, a DOCTYPE,
// or a bogus comment depending on what follows.
func (t *Tokeniser) handleMarkupDeclarationOpen() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	t.discardPendingLT()
	switch {
	case r == '-':
		t.s.Advance()
		t.state = stateCommentStart
		return true, nil
	case (r&^0x20) == 'D':
		t.s.Uppercase()
		t.matchDoctypeCount = 1
		t.s.Advance()
		t.state = stateMatchDoctype
		return true, nil
	default:
		t.commentStart = 0
		t.commentLen = 0
		t.state = stateBogusComment
		return true, nil
	}
}

// handleCommentStart implements comment-start: a second '-' commits to
// a real comment, anything else is pushed back and treated as bogus.
func (t *Tokeniser) handleCommentStart() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	t.commentStart = 0
	t.commentLen = 0
	if r == '-' {
		t.s.Advance()
		t.state = stateComment
		return true, nil
	}
	t.s.PushBack('-')
	t.state = stateBogusComment
	return true, nil
}

// handleComment implements comment.
func (t *Tokeniser) handleComment() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	switch {
	case r == '-':
		t.s.Advance()
		t.state = stateCommentDash
		return true, nil
	case sentinel == stream.EOF:
		return t.emitComment()
	default:
		off, n := t.s.CurPos()
		if t.commentLen == 0 {
			t.commentStart = off
		}
		t.commentLen += n
		t.s.Advance()
		return true, nil
	}
}

// handleCommentDash implements comment-dash: a run of one or more '-'
// pending a possible "-->" close.
func (t *Tokeniser) handleCommentDash() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	switch {
	case r == '-':
		t.s.Advance()
		t.state = stateCommentEnd
		return true, nil
	case sentinel == stream.EOF:
		return t.emitComment()
	default:
		off, n := t.s.CurPos()
		if t.commentLen == 0 {
			t.commentStart = off
			t.commentLen = n
		} else {
			t.commentLen = off + n - t.commentStart
		}
		t.state = stateComment
		t.s.Advance()
		return true, nil
	}
}

// handleCommentEnd implements comment-end, the state reached after
// seeing "--": '>' closes the comment, a further '-' stays here and
// folds into the trailing dash run, anything else resumes comment
// with the "--" now counted as ordinary text.
func (t *Tokeniser) handleCommentEnd() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	switch {
	case r == '>':
		t.s.Advance()
		return t.emitComment()
	case r == '-':
		off, n := t.s.CurPos()
		if t.commentLen == 0 {
			t.commentStart = off
			t.commentLen = n
		} else {
			t.commentLen = off - t.commentStart
		}
		t.s.Advance()
		return true, nil
	case sentinel == stream.EOF:
		return t.emitComment()
	default:
		off, n := t.s.CurPos()
		if t.commentLen == 0 {
			t.commentStart = off
		}
		t.commentLen = off + n - t.commentStart
		t.state = stateComment
		t.s.Advance()
		return true, nil
	}
}

func (t *Tokeniser) emitComment() (bool, error) {
	t.state = stateData
	return true, t.emit(token.Token{Kind: token.Comment, Text: token.Span{Offset: t.commentStart, Length: t.commentLen}})
}

// doctypeLiteral is "OCTYPE", matched one uppercased byte at a time
// after the 'D' that sent us here (spec §4.1 "DOCTYPE matching").
var doctypeLiteral = []byte("OCTYPE")

// handleMatchDoctype implements match-doctype: the literal "DOCTYPE"
// is matched case-insensitively, uppercasing each byte in place as it
// goes; any mismatch pushes back everything matched so far (as the
// now-uppercased letters) and falls back to bogus-comment.
func (t *Tokeniser) handleMatchDoctype() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	idx := t.matchDoctypeCount - 1
	if idx < len(doctypeLiteral) && sentinel == 0 && (byte(r)&^0x20) == doctypeLiteral[idx] {
		t.s.Uppercase()
		t.matchDoctypeCount++
		t.s.Advance()
		if t.matchDoctypeCount-1 == len(doctypeLiteral) {
			t.state = stateDoctype
		}
		return true, nil
	}

	for i := t.matchDoctypeCount - 1; i >= 1; i-- {
		t.s.PushBack(rune(doctypeLiteral[i-1]))
	}
	t.s.PushBack('D')
	t.commentStart = 0
	t.commentLen = 0
	t.state = stateBogusComment
	return true, nil
}

// handleDoctype implements doctype: a single optional leading space
// before before-doctype-name.
func (t *Tokeniser) handleDoctype() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	if sentinel == 0 && isSpace(r) {
		t.s.Advance()
	}
	t.doc = token.Token{Kind: token.Doctype}
	t.state = stateBeforeDoctypeName
	return true, nil
}

// handleBeforeDoctypeName implements before-doctype-name.
func (t *Tokeniser) handleBeforeDoctypeName() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	switch {
	case sentinel == 0 && isSpace(r):
		t.s.Advance()
		return true, nil
	case sentinel == 0 && isLower(r):
		t.s.Uppercase()
		off, n := t.s.CurPos()
		t.doc.Name = token.Span{Offset: off, Length: n}
		t.state = stateDoctypeName
		t.s.Advance()
		return true, nil
	case sentinel == 0 && r == '>':
		t.doc.ForceQuirks = true
		t.s.Advance()
		return t.emitDoctype(false)
	case sentinel == stream.EOF:
		t.doc.ForceQuirks = true
		return t.emitDoctype(false)
	default:
		off, n := t.s.CurPos()
		t.doc.Name = token.Span{Offset: off, Length: n}
		t.state = stateDoctypeName
		t.s.Advance()
		return true, nil
	}
}

// handleDoctypeName implements doctype-name.
func (t *Tokeniser) handleDoctypeName() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	switch {
	case sentinel == 0 && isSpace(r):
		t.s.Advance()
		t.state = stateAfterDoctypeName
		return true, nil
	case sentinel == 0 && r == '>':
		t.s.Advance()
		return t.emitDoctype(true)
	case sentinel == 0 && isLower(r):
		t.s.Uppercase()
		_, n := t.s.CurPos()
		t.doc.Name.Length += n
		t.s.Advance()
		return true, nil
	case sentinel == stream.EOF:
		return t.emitDoctype(false)
	default:
		_, n := t.s.CurPos()
		t.doc.Name.Length += n
		t.s.Advance()
		return true, nil
	}
}

// handleAfterDoctypeName implements after-doctype-name.
func (t *Tokeniser) handleAfterDoctypeName() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	switch {
	case sentinel == 0 && isSpace(r):
		t.s.Advance()
		return true, nil
	case sentinel == 0 && r == '>':
		t.s.Advance()
		return t.emitDoctype(true)
	case sentinel == stream.EOF:
		return t.emitDoctype(false)
	default:
		t.doc.ForceQuirks = true
		t.s.Advance()
		t.state = stateBogusDoctype
		return true, nil
	}
}

// handleBogusDoctype implements bogus-doctype: consume to '>' or EOF,
// discarding everything, the name/public/system fields frozen as they
// stood on entry.
func (t *Tokeniser) handleBogusDoctype() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	if sentinel == stream.EOF {
		return t.emitDoctype(false)
	}
	t.s.Advance()
	if r == '>' {
		return t.emitDoctype(false)
	}
	return true, nil
}

// emitDoctype finalises Correct per spec §3.2/§8.3 scenario 6: true
// iff the name case-insensitively equals "html" (matched here against
// the already-uppercased span, so the comparison is against "HTML").
func (t *Tokeniser) emitDoctype(checkCorrect bool) (bool, error) {
	t.doc.Correct = false
	if checkCorrect && t.doc.Name.Length > 0 {
		t.doc.Correct = t.s.CompareRangeASCII(t.doc.Name.Offset, t.doc.Name.Length, "HTML")
	}
	t.state = stateData
	return true, t.emit(t.doc)
}
