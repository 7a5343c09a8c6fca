package tokeniser

import (
	"strings"
	"testing"

	"github.com/lukehoban/htmlcore/stream"
	"github.com/lukehoban/htmlcore/token"
)

func tokenise(t *testing.T, input string, opts ...Option) ([]token.Token, []byte) {
	t.Helper()
	s, err := stream.New(strings.NewReader(input))
	if err != nil {
		t.Fatalf("stream.New: %v", err)
	}
	var toks []token.Token
	tok := New(s, func(tt token.Token) error {
		toks = append(toks, tt)
		return nil
	}, opts...)
	defer tok.Close()
	if err := tok.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return toks, s.Bytes()
}

func spanText(buf []byte, s token.Span) string {
	return string(buf[s.Offset : s.Offset+s.Length])
}

func TestTokeniseText(t *testing.T) {
	toks, buf := tokenise(t, "Hello, World!")
	if len(toks) < 1 || toks[0].Kind != token.Character {
		t.Fatalf("expected a Character token, got %+v", toks)
	}
	if got := spanText(buf, toks[0].Text); got != "Hello, World!" {
		t.Errorf("text = %q, want %q", got, "Hello, World!")
	}
}

func TestTokeniseSimpleStartTag(t *testing.T) {
	toks, buf := tokenise(t, "<div>")
	if len(toks) < 1 || toks[0].Kind != token.StartTag {
		t.Fatalf("expected a StartTag token, got %+v", toks)
	}
	if got := spanText(buf, toks[0].Name); got != "div" {
		t.Errorf("tag name = %q, want %q", got, "div")
	}
}

func TestTokeniseEndTag(t *testing.T) {
	toks, buf := tokenise(t, "</div>")
	if len(toks) < 1 || toks[0].Kind != token.EndTag {
		t.Fatalf("expected an EndTag token, got %+v", toks)
	}
	if got := spanText(buf, toks[0].Name); got != "div" {
		t.Errorf("tag name = %q, want %q", got, "div")
	}
}

func TestTokeniseAttributes(t *testing.T) {
	toks, buf := tokenise(t, `<div id="main" class='a b'>`)
	if len(toks) < 1 || toks[0].Kind != token.StartTag {
		t.Fatalf("expected a StartTag token, got %+v", toks)
	}
	attrs := toks[0].Attributes
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if got := spanText(buf, attrs[0].Name); got != "id" {
		t.Errorf("attrs[0].Name = %q, want %q", got, "id")
	}
	if got := spanText(buf, attrs[0].Value); got != "main" {
		t.Errorf("attrs[0].Value = %q, want %q", got, "main")
	}
	if got := spanText(buf, attrs[1].Value); got != "a b" {
		t.Errorf("attrs[1].Value = %q, want %q", got, "a b")
	}
}

func TestTokeniseSelfClosingTag(t *testing.T) {
	toks, _ := tokenise(t, "<br/>")
	if len(toks) < 1 || !toks[0].SelfClosing {
		t.Fatalf("expected a self-closing tag, got %+v", toks)
	}
}

func TestTokeniseComment(t *testing.T) {
	toks, buf := tokenise(t, "<!-- hello -->")
	if len(toks) < 1 || toks[0].Kind != token.Comment {
		t.Fatalf("expected a Comment token, got %+v", toks)
	}
	if got := spanText(buf, toks[0].Text); got != " hello " {
		t.Errorf("comment text = %q, want %q", got, " hello ")
	}
}

func TestTokeniseDoctype(t *testing.T) {
	toks, buf := tokenise(t, "<!DOCTYPE html>")
	if len(toks) < 1 || toks[0].Kind != token.Doctype {
		t.Fatalf("expected a Doctype token, got %+v", toks)
	}
	if got := spanText(buf, toks[0].Name); got != "HTML" {
		t.Errorf("doctype name = %q, want %q (uppercased in place)", got, "HTML")
	}
}

func TestTokeniseNamedEntity(t *testing.T) {
	toks, buf := tokenise(t, "&amp;")
	if len(toks) < 1 || toks[0].Kind != token.Character {
		t.Fatalf("expected a Character token, got %+v", toks)
	}
	if got := spanText(buf, toks[0].Text); got != "&" {
		t.Errorf("decoded entity = %q, want %q", got, "&")
	}
}

func TestTokeniseNumericEntity(t *testing.T) {
	toks, buf := tokenise(t, "&#65;")
	if len(toks) < 1 || toks[0].Kind != token.Character {
		t.Fatalf("expected a Character token, got %+v", toks)
	}
	if got := spanText(buf, toks[0].Text); got != "A" {
		t.Errorf("decoded entity = %q, want %q", got, "A")
	}
}

func TestTokeniseEndsWithEOF(t *testing.T) {
	toks, _ := tokenise(t, "<p>")
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("expected the final token to be EOF, got %+v", toks)
	}
}

func TestTokeniseRCDATAContentModel(t *testing.T) {
	toks, buf := tokenise(t, "<b>not a tag", WithContentModel(token.RCDATA))
	for _, tt := range toks {
		if tt.Kind == token.StartTag && spanText(buf, tt.Name) == "b" {
			t.Fatalf("did not expect '<b>' to tokenise as a start tag in RCDATA mode, got %+v", toks)
		}
	}
}

func TestTokeniseParseErrorHandlerInvoked(t *testing.T) {
	var messages []string
	_, _ = tokenise(t, "<>", WithErrorHandler(func(pos int, msg string) {
		messages = append(messages, msg)
	}))
	if len(messages) == 0 {
		t.Error("expected at least one recovered parse error for an empty tag name")
	}
}
