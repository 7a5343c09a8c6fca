// Package htmlparse is the thin facade that wires the input stream,
// the tokeniser, and the tree builder together against the reference
// domtree.Builder handler, generalizing the teacher's
// html.Parse(input string) *dom.Node to an io.Reader and real error
// propagation (spec.md §6, SPEC_FULL.md §9).
package htmlparse

import (
	"fmt"
	"io"

	"github.com/lukehoban/htmlcore/domtree"
	"github.com/lukehoban/htmlcore/stream"
	"github.com/lukehoban/htmlcore/token"
	"github.com/lukehoban/htmlcore/tokeniser"
	"github.com/lukehoban/htmlcore/treebuilder"
)

// ParseError records one non-fatal parse error along with the byte
// offset in the input it was detected at.
type ParseError struct {
	Offset  int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("html parse error at byte %d: %s", e.Offset, e.Message)
}

// Option configures a Parse call.
type Option func(*config)

type config struct {
	onError  func(ParseError)
	baseURL  string
	fragment token.ElementType
	hasFrag  bool
}

// WithErrorHandler installs a callback invoked for every recovered
// parse error instead of collecting them into the returned slice.
func WithErrorHandler(fn func(ParseError)) Option {
	return func(c *config) { c.onError = fn }
}

// WithBaseURL records the URL the document was fetched from. Parse
// does not read the recorded value and no accessor returns it; to
// resolve a <base href> (HTML5 §2.5.1), the caller passes the document
// URL to domtree.ResolveBase itself. Parse does not mutate attributes.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithFragmentContext parses the input as an HTML fragment whose
// context element is of the given type, rather than a full document
// (spec.md's fragment-parsing non-goal aside, this mirrors the
// teacher's single always-document mode by defaulting to document
// parsing when unset).
func WithFragmentContext(elementType token.ElementType) Option {
	return func(c *config) { c.fragment = elementType; c.hasFrag = true }
}

// Parse reads all of r, tokenises and tree-constructs it, and returns
// the resulting document plus any recovered parse errors.
func Parse(r io.Reader, opts ...Option) (*domtree.Document, []ParseError, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	var errs []ParseError
	record := func(pe ParseError) {
		if cfg.onError != nil {
			cfg.onError(pe)
			return
		}
		errs = append(errs, pe)
	}

	s, err := stream.New(r)
	if err != nil {
		return nil, nil, fmt.Errorf("htmlparse: reading input: %w", err)
	}

	handler := domtree.New()
	var tok *tokeniser.Tokeniser
	builderOpts := []treebuilder.Option{
		treebuilder.WithErrorHandler(func(pe treebuilder.ParseError) {
			record(ParseError{Message: pe.Message})
		}),
	}
	if cfg.hasFrag {
		builderOpts = append(builderOpts, treebuilder.WithFragmentContext(cfg.fragment))
	}
	builder := treebuilder.New(handler, contentModelSetter{&tok}, builderOpts...)

	s.Subscribe(func(buf []byte) { builder.SetSourceBuffer(buf) })

	var handlerErr error
	tok = tokeniser.New(s, func(t token.Token) error {
		if err := builder.HandleToken(t); err != nil {
			handlerErr = err
			return err
		}
		return nil
	}, tokeniser.WithErrorHandler(func(pos int, msg string) {
		record(ParseError{Offset: pos, Message: msg})
	}))
	defer tok.Close()

	if err := tok.Run(); err != nil {
		if handlerErr != nil {
			return nil, errs, fmt.Errorf("htmlparse: tree construction: %w", handlerErr)
		}
		return nil, errs, fmt.Errorf("htmlparse: tokenising: %w", err)
	}
	builder.Close()

	return handler.Result(), errs, nil
}

// contentModelSetter adapts a *tokeniser.Tokeniser, which doesn't
// exist yet at the time treebuilder.New is called, into a
// treebuilder.ContentModelSetter bound through a pointer indirection.
type contentModelSetter struct {
	tok **tokeniser.Tokeniser
}

func (c contentModelSetter) SetContentModel(m token.ContentModel) {
	(*c.tok).SetContentModel(m)
}
