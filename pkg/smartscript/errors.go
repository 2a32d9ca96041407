package smartscript

import (
	"errors"
	"fmt"
	"strings"
)

// LexErrorKind classifies malformed input at the character level.
type LexErrorKind int

const (
	LexUnexpectedChar LexErrorKind = iota
	LexDanglingEscape
	LexTrailingEscape
	LexInvalidIdentifier
	LexInvalidNumber
	LexUnterminatedString
	LexInvalidStringEscape
	LexDollarInString
	LexPastEOF
)

func (k LexErrorKind) String() string {
	switch k {
	case LexUnexpectedChar:
		return "unexpected character"
	case LexDanglingEscape:
		return "dangling escape"
	case LexTrailingEscape:
		return "trailing escape"
	case LexInvalidIdentifier:
		return "invalid identifier"
	case LexInvalidNumber:
		return "invalid number"
	case LexUnterminatedString:
		return "unterminated string"
	case LexInvalidStringEscape:
		return "invalid string escape"
	case LexDollarInString:
		return "dollar inside string"
	case LexPastEOF:
		return "no tokens past EOF"
	default:
		return "lex error"
	}
}

// LexError is returned by Lexer.Next. It is always fatal for the current parse.
type LexError struct {
	Kind LexErrorKind
	Pos  Position
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %s: %s", e.Pos, e.Msg)
}

// ParseErrorKind classifies a malformed token sequence.
type ParseErrorKind int

const (
	ParseLex ParseErrorKind = iota
	ParseMissingDollar
	ParseMissingClose
	ParseMissingKeyword
	ParseUnknownKeyword
	ParseBadForElement
	ParseForArity
	ParseBadEchoElement
	ParseUnexpectedToken
	ParseUnterminatedTag
	ParseStrayEnd
	ParseUnterminatedBlock
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParseLex:
		return "lex error"
	case ParseMissingDollar:
		return "missing dollar"
	case ParseMissingClose:
		return "missing close"
	case ParseMissingKeyword:
		return "missing keyword"
	case ParseUnknownKeyword:
		return "unknown keyword"
	case ParseBadForElement:
		return "bad FOR element"
	case ParseForArity:
		return "bad FOR arity"
	case ParseBadEchoElement:
		return "bad echo element"
	case ParseUnexpectedToken:
		return "unexpected token"
	case ParseUnterminatedTag:
		return "unterminated tag"
	case ParseStrayEnd:
		return "stray END"
	case ParseUnterminatedBlock:
		return "unterminated block"
	default:
		return "parse error"
	}
}

// ParseError is returned by Parse. When Kind is ParseLex, Err holds the
// underlying *LexError.
type ParseError struct {
	Kind ParseErrorKind
	Pos  Position
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WrapErrorWithSource returns an error whose message is a caret snippet of
// src pointing at the failure. Errors other than *LexError and *ParseError
// are returned unchanged. name is optional.
func WrapErrorWithSource(err error, name, src string) error {
	var le *LexError
	if errors.As(err, &le) {
		return errors.New(snippet(src, "LEXICAL ERROR", name, le.Pos, le.Msg))
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return errors.New(snippet(src, "PARSE ERROR", name, pe.Pos, pe.Msg))
	}
	return err
}

// snippet shows at most one line of context on each side of pos.
func snippet(src, header, name string, pos Position, msg string) string {
	lines := strings.Split(src, "\n")
	line, col := pos.Line, pos.Col
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
