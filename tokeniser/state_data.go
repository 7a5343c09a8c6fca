package tokeniser

import (
	"github.com/lukehoban/htmlcore/stream"
	"github.com/lukehoban/htmlcore/token"
)

// handleData implements the DATA state (spec §4.1 "Key rules").
func (t *Tokeniser) handleData() (bool, error) {
	r, sentinel := t.s.Peek()
	switch sentinel {
	case stream.OOD:
		return false, nil
	case stream.EOF:
		if err := t.flushChars(); err != nil {
			return false, err
		}
		if err := t.emit(token.Token{Kind: token.EOF}); err != nil {
			return false, err
		}
		t.done = true
		return true, nil
	}

	switch {
	case r == '&' && (t.contentModel == token.PCDATA || t.contentModel == token.RCDATA):
		// Don't consume '&'; entity-data decides what to do with it.
		if err := t.flushChars(); err != nil {
			return false, err
		}
		t.state = stateEntityData
		return true, nil
	case r == '<' && t.contentModel != token.PLAINTEXT:
		if err := t.flushChars(); err != nil {
			return false, err
		}
		off, n := t.s.CurPos()
		t.haveChars = true
		t.charStart = off
		t.charLen = n
		t.state = stateTagOpen
		t.s.Advance()
		return true, nil
	default:
		off, n := t.s.CurPos()
		t.startChars(off)
		t.growChars(n)
		t.s.Advance()
		return true, nil
	}
}

// discardPendingLT drops the buffered '<' now that tag-open has
// determined it really does start a tag, comment or doctype.
func (t *Tokeniser) discardPendingLT() {
	t.haveChars = false
}

// extendPendingAndFlush grows the buffered "<..." run by n more bytes
// (the bytes just consumed) and emits it as character data, used by
// the tag-open/close-tag-open fallback paths.
func (t *Tokeniser) extendPendingAndFlush(n int) error {
	t.charLen += n
	return t.flushChars()
}

// handleTagOpen implements the tag-open state. Grounded on
// original_source's hubbub_tokeniser_handle_tag_open: in RCDATA/CDATA
// content models only '/' is special (anything else falls back to a
// bare "<" and lets DATA reprocess the current character); in PCDATA
// the full repertoire of tag/comment/doctype openers applies.
func (t *Tokeniser) handleTagOpen() (bool, error) {
	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	if sentinel == stream.EOF {
		if err := t.flushChars(); err != nil {
			return false, err
		}
		t.state = stateData
		return true, nil
	}

	if t.contentModel == token.RCDATA || t.contentModel == token.CDATAModel {
		if r == '/' {
			_, n := t.s.CurPos()
			t.charLen += n
			t.s.Advance()
			t.state = stateCloseTagOpen
			return true, nil
		}
		if err := t.flushChars(); err != nil {
			return false, err
		}
		t.state = stateData
		return true, nil
	}

	switch {
	case r == '!':
		_, n := t.s.CurPos()
		t.charLen += n
		t.s.Advance()
		t.matchDoctypeCount = 1
		t.state = stateMarkupDeclarationOpen
		return true, nil
	case r == '/':
		_, n := t.s.CurPos()
		t.charLen += n
		t.s.Advance()
		t.state = stateCloseTagOpen
		return true, nil
	case isUpper(r):
		t.discardPendingLT()
		t.s.Lowercase()
		t.beginTag(token.StartTag)
		return true, nil
	case isLower(r):
		t.discardPendingLT()
		t.beginTag(token.StartTag)
		return true, nil
	case r == '>':
		t.parseError("empty tag name")
		_, n := t.s.CurPos()
		t.s.Advance()
		if err := t.extendPendingAndFlush(n); err != nil {
			return false, err
		}
		t.state = stateData
		return true, nil
	case r == '?':
		t.parseError("bogus comment (processing instruction syntax)")
		t.discardPendingLT()
		off, _ := t.s.CurPos()
		t.commentStart = off
		t.commentLen = 0
		t.state = stateBogusComment
		return true, nil
	default:
		if err := t.flushChars(); err != nil {
			return false, err
		}
		t.state = stateData
		return true, nil
	}
}

func (t *Tokeniser) beginTag(kind token.Kind) {
	off, n := t.s.CurPos()
	t.tagKind = kind
	t.tagNameStart = off
	t.tagNameLen = n
	t.tagSelfClosing = false
	t.tagAttrs = t.tagAttrs[:0]
	t.state = stateTagName
	t.s.Advance()
}

// handleCloseTagOpen implements the close-tag-open state. In
// RCDATA/CDATA content models this defers to close-tag-match, which
// compares against the last opened tag's name (spec §4.1 "Close-tag
// matching").
func (t *Tokeniser) handleCloseTagOpen() (bool, error) {
	if t.contentModel == token.RCDATA || t.contentModel == token.CDATAModel {
		t.closeMatchLen = 0
		t.state = stateCloseTagMatch
		return true, nil
	}

	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}
	if sentinel == stream.EOF {
		if err := t.flushChars(); err != nil {
			return false, err
		}
		t.state = stateData
		return true, nil
	}

	switch {
	case isUpper(r):
		t.discardPendingLT()
		t.s.Lowercase()
		t.beginTag(token.EndTag)
		return true, nil
	case isLower(r):
		t.discardPendingLT()
		t.beginTag(token.EndTag)
		return true, nil
	case r == '>':
		t.discardPendingLT()
		t.s.Advance()
		t.state = stateData
		return true, nil
	default:
		t.discardPendingLT()
		off, _ := t.s.CurPos()
		t.commentStart = off
		t.commentLen = 0
		t.state = stateBogusComment
		return true, nil
	}
}

// handleCloseTagMatch implements close-tag matching against the last
// start tag name while in RCDATA/CDATA, per spec §4.1 and
// original_source's hubbub_tokeniser_handle_close_tag_match: on any
// mismatch the stream is rewound to just past "</" and the candidate
// is emitted as character data; on a full match followed by a valid
// terminator, the content model resets to PCDATA and parsing resumes
// as a normal close tag.
func (t *Tokeniser) handleCloseTagMatch() (bool, error) {
	for t.closeMatchLen < len(t.lastStartTag) {
		_, sentinel := t.s.Peek()
		if sentinel == stream.OOD {
			return false, nil
		}
		if sentinel == stream.EOF {
			return t.closeTagMatchFail()
		}

		off, n := t.s.CurPos()
		if t.closeMatchLen == 0 {
			t.closeMatchStart = off
		}
		t.closeMatchLen += n
		t.s.Advance()

		matched := t.closeMatchLen == len(t.lastStartTag) &&
			bytesEqualFold(t.s.Slice(t.closeMatchStart, t.closeMatchLen), t.lastStartTag)

		if t.closeMatchLen > len(t.lastStartTag) || (t.closeMatchLen == len(t.lastStartTag) && !matched) {
			return t.closeTagMatchFail()
		}
		if matched {
			break
		}
	}

	r, sentinel := t.s.Peek()
	if sentinel == stream.OOD {
		return false, nil
	}

	t.s.Rewind(t.closeMatchLen)

	if !isCloseTagTerminator(r, sentinel) {
		// The cursor is already back at closeMatchStart (just rewound
		// above); closeTagMatchFail would rewind closeMatchLen a
		// second time and overshoot into already-consumed content.
		if err := t.flushChars(); err != nil {
			return false, err
		}
		t.state = stateData
		return true, nil
	}

	t.contentModel = token.PCDATA
	t.state = stateCloseTagOpen
	return true, nil
}

func (t *Tokeniser) closeTagMatchFail() (bool, error) {
	if t.closeMatchLen > 0 {
		t.s.Rewind(t.closeMatchLen)
	}
	if err := t.flushChars(); err != nil {
		return false, err
	}
	t.state = stateData
	return true, nil
}

func bytesEqualFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if asciiLowerByte(a[i]) != asciiLowerByte(b[i]) {
			return false
		}
	}
	return true
}

func asciiLowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
