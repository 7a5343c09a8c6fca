// Package entity implements HTML5 character-reference decoding: the
// precomputed named-entity trie with the stepwise next(byte) contract
// spec.md §1 and §4.1 describe as an external collaborator, plus the
// numeric character-reference remapping table.
package entity

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Step is the result of feeding one more byte to a Cursor.
type Step int

const (
	// StepContinue means the byte extended a still-possibly-valid
	// prefix; keep feeding bytes.
	StepContinue Step = iota
	// StepMatch means the bytes fed so far (including this one) spell
	// a complete, valid entity name. The trie may still extend to a
	// longer match (e.g. "amp" then "ampersand" is not real, but
	// "not" then "notin" is), so callers keep calling Next until
	// StepDead and fall back to the longest StepMatch seen.
	StepMatch
	// StepDead means no further byte can extend the current prefix
	// into a valid entity name.
	StepDead
)

// Cursor walks the named-entity trie one byte at a time, tracking the
// longest valid match seen so far so the tokeniser can implement
// HTML5's greedy-longest-match-without-semicolon rule (spec §8.3
// scenario 3: "&ampx" -> "&x", because "amp" matches but "ampx" does
// not).
type Cursor struct {
	node *trieNode

	matchLen    int // byte length of the longest valid match so far
	matchRunes  []rune
	consumedLen int // total bytes fed so far
}

// NewCursor starts a fresh trie descent.
func NewCursor() *Cursor {
	return &Cursor{node: root}
}

// Next feeds one more byte of the candidate entity name (not
// including the leading '&').
func (c *Cursor) Next(b byte) Step {
	next, ok := c.node.children[b]
	if !ok {
		return StepDead
	}
	c.node = next
	c.consumedLen++
	if next.isMatch {
		c.matchLen = c.consumedLen
		c.matchRunes = next.runes
	}
	if len(next.children) == 0 {
		return StepMatch
	}
	if next.isMatch {
		return StepMatch
	}
	return StepContinue
}

// MatchLength returns the byte length, measured from the first byte
// fed to Next, of the longest valid entity name matched so far. Zero
// means nothing matched.
func (c *Cursor) MatchLength() int {
	return c.matchLen
}

// Codepoints returns the decoded replacement text for the longest
// match found so far.
func (c *Cursor) Codepoints() []rune {
	return c.matchRunes
}

// HasMatch reports whether any valid entity name has been matched so
// far in this descent.
func (c *Cursor) HasMatch() bool {
	return c.matchLen > 0
}

// EndsWithSemicolon reports whether the byte at offset MatchLength()-1
// relative to the start of the candidate is ';'. The tokeniser uses
// this, together with MatchLength, to decide whether to consume a
// trailing semicolon.
func (c *Cursor) EndsWithSemicolon() bool {
	return len(c.matchRunes) > 0 && c.node.isMatch && c.node.endsSemicolon
}

type trieNode struct {
	children      map[byte]*trieNode
	isMatch       bool
	runes         []rune
	endsSemicolon bool
}

func newNode() *trieNode {
	return &trieNode{children: map[byte]*trieNode{}}
}

var root = buildTrie()

func buildTrie() *trieNode {
	r := newNode()
	for name, runes := range namedReferences {
		n := r
		for i := 0; i < len(name); i++ {
			b := name[i]
			child, ok := n.children[b]
			if !ok {
				child = newNode()
				n.children[b] = child
			}
			n = child
		}
		n.isMatch = true
		n.runes = runes
		n.endsSemicolon = name[len(name)-1] == ';'
	}
	return r
}

// namedReferences is a representative subset of the WHATWG named
// character reference table: every entity spec.md §8.3 exercises,
// plus the common markup/typography/math/arrow/Greek references
// already present in the teacher's html.namedEntities map, carried
// over both with and without the trailing semicolon for the names
// HTML5 permits to omit it (spec §4.1's "Named entity" rule: a
// trailing ';' is consumed only when the longest match ended exactly
// at the semicolon position, which requires both spellings to be
// present in the trie so shorter legacy forms like "&amp" still
// resolve). This is not a claim of completeness against the full
// WHATWG table -- the retrieved pack contains no such table to ground
// a complete one on.
var namedReferences = map[string][]rune{
	"amp": {'&'}, "amp;": {'&'},
	"lt": {'<'}, "lt;": {'<'},
	"gt": {'>'}, "gt;": {'>'},
	"quot": {'"'}, "quot;": {'"'},
	"apos;": {'\''},
	"nbsp;": {' '},
	"copy": {'©'}, "copy;": {'©'},
	"reg": {'®'}, "reg;": {'®'},
	"trade;":  {'™'},
	"deg":     {'°'},
	"deg;":    {'°'},
	"plusmn":  {'±'},
	"plusmn;": {'±'},
	"cent":    {'¢'},
	"cent;":   {'¢'},
	"pound":   {'£'},
	"pound;":  {'£'},
	"euro;":   {'€'},
	"yen":     {'¥'},
	"yen;":    {'¥'},
	"sect":    {'§'},
	"sect;":   {'§'},
	"para":    {'¶'},
	"para;":   {'¶'},
	"middot":  {'·'},
	"middot;": {'·'},
	"bull;":   {'•'},
	"hellip;": {'…'},
	"prime;":  {'′'},
	"Prime;":  {'″'},
	"ndash;":  {'–'},
	"mdash;":  {'—'},
	"lsquo;":  {'‘'},
	"rsquo;":  {'’'},
	"ldquo;":  {'“'},
	"rdquo;":  {'”'},
	"sbquo;":  {'‚'},
	"bdquo;":  {'„'},
	"laquo":   {'«'},
	"laquo;":  {'«'},
	"raquo":   {'»'},
	"raquo;":  {'»'},
	"thinsp;": {' '},
	"ensp;":   {' '},
	"emsp;":   {' '},
	"times":   {'×'},
	"times;":  {'×'},
	"divide":  {'÷'},
	"divide;": {'÷'},
	"minus;":  {'−'},
	"lowast;": {'∗'},
	"le;":     {'≤'},
	"ge;":     {'≥'},
	"ne;":     {'≠'},
	"equiv":   {'≡'},
	"equiv;":  {'≡'},
	"asymp;":  {'≈'},
	"infin;":  {'∞'},
	"sum;":    {'∑'},
	"prod;":   {'∏'},
	"radic;":  {'√'},
	"part;":   {'∂'},
	"int;":    {'∫'},
	"larr;":   {'←'},
	"uarr;":   {'↑'},
	"rarr;":   {'→'},
	"darr;":   {'↓'},
	"harr;":   {'↔'},
	"lArr;":   {'⇐'},
	"uArr;":   {'⇑'},
	"rArr;":   {'⇒'},
	"dArr;":   {'⇓'},
	"hArr;":   {'⇔'},
	"alpha;":  {'α'},
	"beta;":   {'β'},
	"gamma;":  {'γ'},
	"delta;":  {'δ'},
	"epsilon;": {'ε'},
	"pi;":      {'π'},
	"sigma;":   {'σ'},
	"omega;":   {'ω'},
	"Alpha;":   {'Α'},
	"Beta;":    {'Β'},
	"Gamma;":   {'Γ'},
	"Delta;":   {'Δ'},
	"Pi;":      {'Π'},
	"Sigma;":   {'Σ'},
	"Omega;":   {'Ω'},
	"iexcl":    {'¡'},
	"iexcl;":   {'¡'},
	"iquest":   {'¿'},
	"iquest;":  {'¿'},
	"loz;":     {'◊'},
	"spades;":  {'♠'},
	"clubs;":   {'♣'},
	"hearts;":  {'♥'},
	"diams;":   {'♦'},
}

// windows1252Decoder decodes the single-byte Windows-1252 codepage,
// used by DecodeNumeric for the 0x80..0x9F compatibility remap HTML5
// requires for malformed numeric references. Grounded on
// original_source/src/tokeniser/tokeniser.c's cp1252Table; here the
// actual ecosystem table from golang.org/x/text/encoding/charmap
// backs the decode instead of a hand-rolled 32-entry array.
var windows1252Decoder = charmap.Windows1252.NewDecoder()

// DecodeNumeric maps a parsed numeric character reference's codepoint
// to the rune it actually represents per HTML5's numeric
// character-reference algorithm (spec §4.1 "Numbered entity"):
// codepoint 0 and codepoints beyond U+10FFFF become U+FFFD, UTF-16
// surrogates become U+FFFD, and 0x80..0x9F are remapped through the
// Windows-1252 compatibility table; everything else passes through
// unchanged.
func DecodeNumeric(codepoint uint32) rune {
	if codepoint == 0 || codepoint > 0x10FFFF {
		return '�'
	}
	if codepoint >= 0xD800 && codepoint <= 0xDFFF {
		return '�'
	}
	if codepoint >= 0x80 && codepoint <= 0x9F {
		out, err := windows1252Decoder.Bytes([]byte{byte(codepoint)})
		if err != nil || len(out) == 0 {
			return '�'
		}
		r, _ := utf8.DecodeRune(out)
		return r
	}
	return rune(codepoint)
}
