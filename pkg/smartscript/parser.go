package smartscript

import "fmt"

// Option configures Parse.
type Option func(*options)

type options struct {
	lexer []LexerOption
}

// QuotedNumbers enables WithQuotedNumbers on the underlying lexer.
func QuotedNumbers() Option {
	return func(o *options) { o.lexer = append(o.lexer, WithQuotedNumbers()) }
}

// Parse parses a SmartScript document into a tree. FOR tags open a block
// that must be closed by a matching END tag; echo tags never nest. The first
// lexical or grammatical error aborts the parse and no tree is returned.
func Parse(src string, opts ...Option) (*DocumentNode, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	doc := &DocumentNode{}
	p := &parser{
		l:     NewLexer(src, o.lexer...),
		stack: []stackEntry{{block: doc}},
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return doc, nil
}

type stackEntry struct {
	block openBlock
	pos   Position // position of the FOR keyword; zero for the document
}

type parser struct {
	l     *Lexer
	stack []stackEntry
}

func (p *parser) top() openBlock { return p.stack[len(p.stack)-1].block }

// advance pulls the next token from the lexer, converting lex failures.
func (p *parser) advance() (Token, error) {
	tok, err := p.l.Next()
	if err != nil {
		pe := &ParseError{Kind: ParseLex, Msg: err.Error(), Err: err}
		if le, ok := err.(*LexError); ok {
			pe.Pos = le.Pos
			pe.Msg = le.Msg
		}
		return Token{}, pe
	}
	return tok, nil
}

func (p *parser) errorf(kind ParseErrorKind, pos Position, format string, args ...any) error {
	return &ParseError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parse() error {
	tok, err := p.advance()
	for err == nil && tok.Kind != TokenEOF {
		switch tok.Kind {
		case TokenText:
			p.top().appendChild(&TextNode{Text: tok.Str()})
			tok, err = p.advance()
		case TokenOpen:
			tok, err = p.parseTag(tok)
		case TokenDollar:
			tok, err = p.expectClose(tok)
		default:
			err = p.errorf(ParseUnexpectedToken, tok.Pos, "unexpected %s outside a tag", tok)
		}
	}
	if err != nil {
		return err
	}
	if len(p.stack) != 1 {
		open := p.stack[len(p.stack)-1]
		return p.errorf(ParseUnterminatedBlock, open.pos, "FOR block opened at %s is never closed with END", open.pos)
	}
	return nil
}

// parseTag handles everything from { up to and including the closing }.
// It returns the first token after the tag.
func (p *parser) parseTag(open Token) (Token, error) {
	tok, err := p.advance()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != TokenDollar {
		return Token{}, p.errorf(ParseMissingDollar, tok.Pos, "expected $ after {, got %s", tok)
	}
	kw, err := p.advance()
	if err != nil {
		return Token{}, err
	}
	if kw.Kind != TokenKeyword {
		return Token{}, p.errorf(ParseMissingKeyword, kw.Pos, "expected a tag keyword after {$, got %s", kw)
	}
	switch kw.Str() {
	case "FOR":
		return p.parseFor(kw)
	case "END":
		return p.parseEnd(kw)
	case "=":
		return p.parseEcho(kw)
	default:
		return Token{}, p.errorf(ParseUnknownKeyword, kw.Pos, "unknown tag keyword %q", kw.Str())
	}
}

// parseFor reads "var start end [step] $}" and pushes the new loop.
func (p *parser) parseFor(kw Token) (Token, error) {
	var els []Element
	tok, err := p.advance()
	for err == nil && tok.Kind != TokenDollar {
		if tok.Kind == TokenEOF {
			return Token{}, p.errorf(ParseUnterminatedTag, kw.Pos, "FOR tag is not closed")
		}
		el, ok := elementFromToken(tok)
		if !ok || !forExpression(el) {
			return Token{}, p.errorf(ParseBadForElement, tok.Pos, "%s is not allowed in a FOR tag", tok)
		}
		if len(els) == 0 {
			if _, isVar := el.(Variable); !isVar {
				return Token{}, p.errorf(ParseBadForElement, tok.Pos, "FOR must start with a variable, got %s", tok)
			}
		}
		els = append(els, el)
		tok, err = p.advance()
	}
	if err != nil {
		return Token{}, err
	}
	if len(els) != 3 && len(els) != 4 {
		return Token{}, p.errorf(ParseForArity, kw.Pos, "FOR takes a variable and 2 or 3 expressions, got %d elements", len(els))
	}

	n := &ForLoopNode{Variable: els[0].(Variable), Start: els[1], End: els[2]}
	if len(els) == 4 {
		n.Step = els[3]
	}
	next, err := p.expectClose(tok)
	if err != nil {
		return Token{}, err
	}
	p.top().appendChild(n)
	p.stack = append(p.stack, stackEntry{block: n, pos: kw.Pos})
	return next, nil
}

func (p *parser) parseEnd(kw Token) (Token, error) {
	tok, err := p.advance()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != TokenDollar {
		return Token{}, p.errorf(ParseMissingDollar, tok.Pos, "expected $ after END, got %s", tok)
	}
	next, err := p.expectClose(tok)
	if err != nil {
		return Token{}, err
	}
	if len(p.stack) == 1 {
		return Token{}, p.errorf(ParseStrayEnd, kw.Pos, "END without a matching FOR")
	}
	p.stack = p.stack[:len(p.stack)-1]
	return next, nil
}

func (p *parser) parseEcho(kw Token) (Token, error) {
	n := &EchoNode{}
	tok, err := p.advance()
	for err == nil && tok.Kind != TokenDollar {
		if tok.Kind == TokenEOF {
			return Token{}, p.errorf(ParseUnterminatedTag, kw.Pos, "echo tag is not closed")
		}
		el, ok := elementFromToken(tok)
		if !ok {
			return Token{}, p.errorf(ParseBadEchoElement, tok.Pos, "%s is not allowed in an echo tag", tok)
		}
		n.Elements = append(n.Elements, el)
		tok, err = p.advance()
	}
	if err != nil {
		return Token{}, err
	}
	next, err := p.expectClose(tok)
	if err != nil {
		return Token{}, err
	}
	p.top().appendChild(n)
	return next, nil
}

// expectClose consumes the } that must follow the closing $ and returns
// the token after it.
func (p *parser) expectClose(dollar Token) (Token, error) {
	tok, err := p.advance()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != TokenClose {
		return Token{}, p.errorf(ParseMissingClose, tok.Pos, "expected } after $ at %s, got %s", dollar.Pos, tok)
	}
	return p.advance()
}
