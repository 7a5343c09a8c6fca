// Package tokeniser implements the HTML5 tokenisation algorithm: a
// byte-driven state machine that turns codepoints from a stream.Stream
// into token.Token values, following spec.md §4.1 ("Tokeniser").
//
// The machine never recurses and never blocks: a Peek that returns
// stream.OOD simply unwinds Run so the caller can feed more bytes and
// call Run again (spec §5 "Suspension points").
package tokeniser

import (
	"fmt"

	"github.com/lukehoban/htmlcore/entity"
	"github.com/lukehoban/htmlcore/log"
	"github.com/lukehoban/htmlcore/stream"
	"github.com/lukehoban/htmlcore/token"
)

// state names spec §4.1 enumerates, ~28 in total.
type state int

const (
	stateData state = iota
	stateEntityData
	stateTagOpen
	stateCloseTagOpen
	stateCloseTagMatch
	stateTagName
	stateBeforeAttributeName
	stateAttributeName
	stateAfterAttributeName
	stateBeforeAttributeValue
	stateAttributeValueDQ
	stateAttributeValueSQ
	stateAttributeValueUQ
	stateEntityInAttributeValue
	stateBogusComment
	stateMarkupDeclarationOpen
	stateCommentStart
	stateComment
	stateCommentDash
	stateCommentEnd
	stateMatchDoctype
	stateDoctype
	stateBeforeDoctypeName
	stateDoctypeName
	stateAfterDoctypeName
	stateBogusDoctype
	stateNumberedEntity
	stateNamedEntity
)

// ParseFatalError is returned by Run when a resource error (spec §7
// class 2) makes it unsafe to continue: the token handler returned an
// error, or an internal invariant was violated.
type ParseFatalError struct {
	Err error
}

func (e *ParseFatalError) Error() string { return fmt.Sprintf("tokeniser: fatal: %v", e.Err) }
func (e *ParseFatalError) Unwrap() error { return e.Err }

// ErrorHandler receives parse errors. Position is a byte offset into
// the stream's buffer at the time the error was detected.
type ErrorHandler func(position int, message string)

// TokenHandler receives each emitted token. Returning an error makes
// Run stop and return a *ParseFatalError (spec §4.1 "Public contract",
// §7 class 2).
type TokenHandler func(token.Token) error

// Option configures a Tokeniser at construction time.
type Option func(*Tokeniser)

// WithContentModel sets the initial content model (spec §3.3).
func WithContentModel(m token.ContentModel) Option {
	return func(t *Tokeniser) { t.contentModel = m }
}

// WithErrorHandler installs a parse-error callback; the default logs
// via the log package at Warn level.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(t *Tokeniser) { t.onError = fn }
}

// Tokeniser is the HTML5 tokenisation state machine.
type Tokeniser struct {
	s     *stream.Stream
	sub   stream.Subscription
	state state

	contentModel token.ContentModel

	onToken TokenHandler
	onError ErrorHandler

	done bool

	// pending character run (spec §3.1: offset/length, never copied)
	haveChars bool
	charStart int
	charLen   int

	// scratch tag being built
	tagKind               token.Kind // StartTag or EndTag
	tagNameStart          int
	tagNameLen            int
	tagSelfClosing        bool
	tagSelfClosingPending bool
	tagAttrs              []token.Attribute

	// scratch comment
	commentStart int
	commentLen   int

	// scratch doctype
	doc token.Token

	// last start tag name, lowercased, used by close-tag matching in
	// RCDATA/CDATA content models (spec §4.1 "Close-tag matching")
	lastStartTag []byte

	// close-tag-match scratch
	closeMatchStart int
	closeMatchLen   int

	// DOCTYPE literal matching (spec §4.1 "DOCTYPE matching")
	matchDoctypeCount int

	// re-entrant entity consumption (spec §4.1 "Entity consumption",
	// design note "stackful entity re-entry"). entInAttr/entAttrState
	// record whether consumption was entered from an attribute value
	// and, if so, which of the three attribute-value states to resume
	// once the replacement character has been folded in.
	// entStart/entLen track the span from '&' to the byte last
	// examined so it can be rewound and replaced in place; entComplete
	// marks that the replacement has been made and the wrapper state
	// still needs to emit/append exactly one (replacement) character
	// before handing off control.
	entCursor    *entity.Cursor
	entInAttr    bool
	entAttrState state
	entComplete  bool
	entSetupDone bool
	entStart     int
	entLen       int
	entBaseLen   int
	entPrevLen   int
	entBase      int
	entCodepoint uint64
	entHadData   bool
}

// New creates a Tokeniser reading from s. It subscribes to s's
// relocation notifications for the lifetime of the tokeniser.
func New(s *stream.Stream, onToken TokenHandler, opts ...Option) *Tokeniser {
	t := &Tokeniser{
		s:            s,
		state:        stateData,
		contentModel: token.PCDATA,
		onToken:      onToken,
		onError: func(pos int, msg string) {
			log.Warnf("html parse error at byte %d: %s", pos, msg)
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.sub = s.Subscribe(func([]byte) {})
	return t
}

// SetContentModel changes the content model at any time, as the tree
// builder does when it enters script/style/title/textarea/plaintext.
func (t *Tokeniser) SetContentModel(m token.ContentModel) {
	t.contentModel = m
}

// SetErrorHandler installs a parse-error callback.
func (t *Tokeniser) SetErrorHandler(fn ErrorHandler) {
	t.onError = fn
}

// Close deregisters the tokeniser's stream subscription. Safe to call
// more than once.
func (t *Tokeniser) Close() {
	t.sub.Unsubscribe()
}

func (t *Tokeniser) parseError(msg string) {
	off, _ := t.s.CurPos()
	if t.onError != nil {
		t.onError(off, msg)
	}
}

// Run drives the state machine until the stream reports EOF (in which
// case Run returns nil after emitting a final token.EOF) or OOD (Run
// returns nil having made no further progress; call Run again once
// more bytes are fed to the stream). A token-handler error or an
// internal invariant violation is returned wrapped in
// *ParseFatalError rather than crashing the process (spec §7, §9 "Open
// question").
func (t *Tokeniser) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseFatalError); ok {
				err = pe
				return
			}
			err = &ParseFatalError{Err: fmt.Errorf("internal invariant violation: %v", r)}
		}
	}()

	for !t.done {
		cont, serr := t.step()
		if serr != nil {
			return &ParseFatalError{Err: serr}
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// step executes the handler for the current state once. It returns
// cont=false to mean "paused, need more data" (stream.OOD was seen
// before any state was mutated).
func (t *Tokeniser) step() (cont bool, err error) {
	switch t.state {
	case stateData:
		return t.handleData()
	case stateEntityData:
		return t.handleEntityData()
	case stateTagOpen:
		return t.handleTagOpen()
	case stateCloseTagOpen:
		return t.handleCloseTagOpen()
	case stateCloseTagMatch:
		return t.handleCloseTagMatch()
	case stateTagName:
		return t.handleTagName()
	case stateBeforeAttributeName:
		return t.handleBeforeAttributeName()
	case stateAttributeName:
		return t.handleAttributeName()
	case stateAfterAttributeName:
		return t.handleAfterAttributeName()
	case stateBeforeAttributeValue:
		return t.handleBeforeAttributeValue()
	case stateAttributeValueDQ:
		return t.handleAttributeValueQuoted('"')
	case stateAttributeValueSQ:
		return t.handleAttributeValueQuoted('\'')
	case stateAttributeValueUQ:
		return t.handleAttributeValueUnquoted()
	case stateEntityInAttributeValue:
		return t.handleEntityInAttributeValue()
	case stateBogusComment:
		return t.handleBogusComment()
	case stateMarkupDeclarationOpen:
		return t.handleMarkupDeclarationOpen()
	case stateCommentStart:
		return t.handleCommentStart()
	case stateComment:
		return t.handleComment()
	case stateCommentDash:
		return t.handleCommentDash()
	case stateCommentEnd:
		return t.handleCommentEnd()
	case stateMatchDoctype:
		return t.handleMatchDoctype()
	case stateDoctype:
		return t.handleDoctype()
	case stateBeforeDoctypeName:
		return t.handleBeforeDoctypeName()
	case stateDoctypeName:
		return t.handleDoctypeName()
	case stateAfterDoctypeName:
		return t.handleAfterDoctypeName()
	case stateBogusDoctype:
		return t.handleBogusDoctype()
	case stateNumberedEntity:
		return t.handleNumberedEntity()
	case stateNamedEntity:
		return t.handleNamedEntity()
	default:
		panic(fmt.Sprintf("unreachable tokeniser state %d", t.state))
	}
}

// emit delivers a token to the handler, wrapping a handler error as a
// fatal condition (spec §4.2 "Failure semantics").
func (t *Tokeniser) emit(tok token.Token) error {
	if t.onToken == nil {
		return nil
	}
	if err := t.onToken(tok); err != nil {
		return err
	}
	return nil
}

func (t *Tokeniser) startChars(off int) {
	if !t.haveChars {
		t.haveChars = true
		t.charStart = off
		t.charLen = 0
	}
}

func (t *Tokeniser) growChars(n int) {
	t.charLen += n
}

// flushChars emits the pending character run, if any.
func (t *Tokeniser) flushChars() error {
	if !t.haveChars || t.charLen == 0 {
		t.haveChars = false
		return nil
	}
	tok := token.Token{Kind: token.Character, Text: token.Span{Offset: t.charStart, Length: t.charLen}}
	t.haveChars = false
	return t.emit(tok)
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', ' ':
		return true
	default:
		return false
	}
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// isCloseTagTerminator reports whether r may legally follow a matched
// close tag name (spec §4.1 "Close-tag matching").
func isCloseTagTerminator(r rune, sentinel stream.Sentinel) bool {
	if sentinel == stream.EOF {
		return true
	}
	switch r {
	case '\t', '\n', '\v', '\f', ' ', '>', '/', '<':
		return true
	default:
		return false
	}
}
