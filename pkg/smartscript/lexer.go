package smartscript

// The lexer scans a SmartScript document and yields one token per call to
// Next. Outside tags it produces text (with \{ and \\ resolved); inside
// {$ ... $} it produces the tag keyword followed by the elements of a FOR or
// echo tag. Which rules apply is decided by the lexer's Mode, which the
// lexer switches itself as it recognizes {, $, the keywords and }.

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mode is the scanning state of a Lexer.
type Mode int

const (
	ModeText Mode = iota // literal text outside tags
	ModeTag              // inside {, before the keyword or after the closing $
	ModeFor              // elements of a FOR tag
	ModeEcho             // elements of an echo tag
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "TEXT"
	case ModeTag:
		return "TAG"
	case ModeFor:
		return "FOR"
	case ModeEcho:
		return "ECHO"
	default:
		return "UNKNOWN"
	}
}

const operatorChars = "+-*/^"

// LexerOption configures a Lexer.
type LexerOption func(*Lexer)

// WithQuotedNumbers makes FOR tags read a quoted signed number such as
// "-1" as a NUMBER instead of a TAG_STRING. Older documents rely on it.
func WithQuotedNumbers() LexerOption {
	return func(l *Lexer) { l.quotedNumbers = true }
}

// Lexer is not safe for concurrent use.
type Lexer struct {
	src  string
	i    int
	n    int
	mode Mode
	tok  Token

	// keywordNext is set after the $ that follows an opening {.
	keywordNext bool
	eof         bool

	quotedNumbers bool

	// line bookkeeping for position(); offsets are requested in increasing order
	line      int
	lineStart int
	lineOff   int
}

// NewLexer returns a lexer positioned at the start of src in ModeText.
func NewLexer(src string, opts ...LexerOption) *Lexer {
	l := &Lexer{src: src, n: len(src), mode: ModeText, line: 1}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Current returns the last token produced by Next.
func (l *Lexer) Current() Token { return l.tok }

// Mode returns the current scanning mode.
func (l *Lexer) Mode() Mode { return l.mode }

// SetMode forces the scanning mode.
func (l *Lexer) SetMode(m Mode) {
	l.mode = m
	l.keywordNext = false
}

// Next returns the next token. After TokenEOF has been returned once every
// further call fails with LexPastEOF.
func (l *Lexer) Next() (Token, error) {
	if l.eof {
		return Token{}, l.errorf(LexPastEOF, l.i, "the end of input was already reached")
	}
	var (
		tok Token
		err error
	)
	switch l.mode {
	case ModeText:
		tok, err = l.nextText()
	case ModeTag:
		tok, err = l.nextTag()
	default:
		tok, err = l.nextInside()
	}
	if err != nil {
		return Token{}, err
	}
	if tok.Kind == TokenEOF {
		l.eof = true
	}
	l.tok = tok
	return tok, nil
}

// Tokenize drains the lexer and returns every token up to and including EOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

func (l *Lexer) token(kind TokenKind, val any, start int) Token {
	return Token{Kind: kind, Value: val, Pos: l.position(start)}
}

func (l *Lexer) errorf(kind LexErrorKind, off int, format string, args ...any) error {
	return &LexError{Kind: kind, Pos: l.position(off), Msg: fmt.Sprintf(format, args...)}
}

func (l *Lexer) position(off int) Position {
	if off < l.lineOff {
		l.line, l.lineStart, l.lineOff = 1, 0, 0
	}
	for j := l.lineOff; j < off && j < l.n; j++ {
		if l.src[j] == '\n' {
			l.line++
			l.lineStart = j + 1
		}
	}
	l.lineOff = off
	return Position{
		Offset: off,
		Line:   l.line,
		Col:    utf8.RuneCountInString(l.src[l.lineStart:min(off, l.n)]) + 1,
	}
}

func (l *Lexer) peekRune() rune {
	r, _ := utf8.DecodeRuneInString(l.src[l.i:])
	return r
}

func (l *Lexer) skipSpace() {
	for l.i < l.n && isSpace(l.src[l.i]) {
		l.i++
	}
}

// nextText emits a TEXT token up to the next unescaped { or an OPEN token
// when the { comes first.
func (l *Lexer) nextText() (Token, error) {
	if l.i >= l.n {
		return l.token(TokenEOF, nil, l.i), nil
	}
	start := l.i
	if l.src[l.i] == '{' {
		l.i++
		l.mode = ModeTag
		l.keywordNext = false
		return l.token(TokenOpen, "{", start), nil
	}

	var b strings.Builder
	for l.i < l.n {
		c := l.src[l.i]
		if c == '{' {
			break
		}
		if c == '\\' {
			if l.i+1 >= l.n {
				return Token{}, l.errorf(LexTrailingEscape, l.i, "escape character \\ can not be the last character")
			}
			next := l.src[l.i+1]
			if next != '{' && next != '\\' {
				return Token{}, l.errorf(LexDanglingEscape, l.i, "\\ must be followed by { or \\, got %q", l.src[l.i+1:l.i+2])
			}
			b.WriteByte(next)
			l.i += 2
			continue
		}
		b.WriteByte(c)
		l.i++
	}
	return l.token(TokenText, b.String(), start), nil
}

// nextTag scans between { and the keyword, and between the closing $ and }.
func (l *Lexer) nextTag() (Token, error) {
	l.skipSpace()
	if l.i >= l.n {
		return l.token(TokenEOF, nil, l.i), nil
	}
	start := l.i
	if l.keywordNext {
		l.keywordNext = false
		if l.src[l.i] == '=' {
			l.i++
			l.mode = ModeEcho
			return l.token(TokenKeyword, "=", start), nil
		}
		if unicode.IsLetter(l.peekRune()) {
			word := l.scanWord()
			if word == "FOR" {
				l.mode = ModeFor
			}
			return l.token(TokenKeyword, word, start), nil
		}
	}
	switch l.src[l.i] {
	case '$':
		l.i++
		l.keywordNext = l.tok.Kind == TokenOpen
		return l.token(TokenDollar, "$", start), nil
	case '}':
		l.i++
		l.mode = ModeText
		return l.token(TokenClose, "}", start), nil
	}
	return l.scanElement(start, true)
}

// nextInside scans the elements of a FOR or echo tag.
func (l *Lexer) nextInside() (Token, error) {
	l.skipSpace()
	if l.i >= l.n {
		return l.token(TokenEOF, nil, l.i), nil
	}
	start := l.i
	switch l.src[l.i] {
	case '$':
		l.i++
		l.mode = ModeTag
		l.keywordNext = false
		return l.token(TokenDollar, "$", start), nil
	case '}':
		l.i++
		l.mode = ModeText
		return l.token(TokenClose, "}", start), nil
	}
	return l.scanElement(start, l.mode != ModeFor)
}

// scanElement scans a single tag element. Functions and operators are only
// recognized when echo is set.
func (l *Lexer) scanElement(start int, echo bool) (Token, error) {
	c := l.src[l.i]
	r := l.peekRune()
	switch {
	case unicode.IsLetter(r):
		return l.scanIdent(TokenID, start)
	case isDigit(c):
		return l.scanNumber(start)
	case (c == '+' || c == '-') && l.i+1 < l.n && isDigit(l.src[l.i+1]):
		return l.scanNumber(start)
	case c == '"':
		if !echo && l.quotedNumbers && l.quotedNumberAhead() {
			return l.scanQuotedNumber(start)
		}
		return l.scanString(start)
	case echo && c == '@':
		l.i++
		return l.scanIdent(TokenFunction, start)
	case echo && strings.IndexByte(operatorChars, c) >= 0:
		l.i++
		return l.token(TokenSymbol, string(c), start), nil
	}
	return Token{}, l.errorf(LexUnexpectedChar, start, "unexpected character %q inside %s tag", r, l.mode)
}

func (l *Lexer) scanWord() string {
	start := l.i
	for l.i < l.n {
		r, size := utf8.DecodeRuneInString(l.src[l.i:])
		if !isIdentRune(r) {
			break
		}
		l.i += size
	}
	return l.src[start:l.i]
}

// scanIdent reads up to whitespace or $ and validates the result as a name.
func (l *Lexer) scanIdent(kind TokenKind, start int) (Token, error) {
	nameStart := l.i
	for l.i < l.n && !isSpace(l.src[l.i]) && l.src[l.i] != '$' {
		l.i++
	}
	name := l.src[nameStart:l.i]
	if !validIdent(name) {
		return Token{}, l.errorf(LexInvalidIdentifier, start,
			"invalid name %q: must start with a letter and contain only letters, digits and underscores", name)
	}
	return l.token(kind, name, start), nil
}

func (l *Lexer) scanNumber(start int) (Token, error) {
	neg := false
	if c := l.src[l.i]; c == '+' || c == '-' {
		neg = c == '-'
		l.i++
	}
	digits := l.i
	for l.i < l.n && isDigit(l.src[l.i]) {
		l.i++
	}
	isFloat := false
	if l.i+1 < l.n && l.src[l.i] == '.' && isDigit(l.src[l.i+1]) {
		isFloat = true
		l.i++
		for l.i < l.n && isDigit(l.src[l.i]) {
			l.i++
		}
	}
	lit := l.src[digits:l.i]
	if neg {
		lit = "-" + lit
	}
	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return Token{}, l.errorf(LexInvalidNumber, start, "invalid double %q", lit)
		}
		return l.token(TokenNumber, f, start), nil
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return Token{}, l.errorf(LexInvalidNumber, start, "invalid integer %q", lit)
	}
	return l.token(TokenNumber, n, start), nil
}

func (l *Lexer) scanString(start int) (Token, error) {
	l.i++ // opening quote
	var b strings.Builder
	for {
		if l.i >= l.n {
			return Token{}, l.errorf(LexUnterminatedString, start, "string is not closed")
		}
		c := l.src[l.i]
		switch c {
		case '"':
			l.i++
			return l.token(TokenTagString, b.String(), start), nil
		case '$':
			return Token{}, l.errorf(LexDollarInString, l.i, "$ inside an open string; the quotes must be closed")
		case '\\':
			if l.i+1 >= l.n {
				return Token{}, l.errorf(LexUnterminatedString, start, "string is not closed")
			}
			next := l.src[l.i+1]
			if next != '"' && next != '\\' {
				return Token{}, l.errorf(LexInvalidStringEscape, l.i, "invalid escape \\%c inside string", next)
			}
			b.WriteByte(next)
			l.i += 2
		default:
			b.WriteByte(c)
			l.i++
		}
	}
}

func (l *Lexer) quotedNumberAhead() bool {
	j := l.i + 1
	if j < l.n && (l.src[j] == '+' || l.src[j] == '-') {
		j++
	}
	return j < l.n && isDigit(l.src[j])
}

func (l *Lexer) scanQuotedNumber(start int) (Token, error) {
	l.i++ // opening quote
	tok, err := l.scanNumber(start)
	if err != nil {
		return Token{}, err
	}
	if l.i >= l.n || l.src[l.i] != '"' {
		return Token{}, l.errorf(LexUnterminatedString, start, "quoted number is not closed")
	}
	l.i++
	return tok, nil
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
