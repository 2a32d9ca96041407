package smartscript

import "fmt"

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	TokenEOF       TokenKind = iota
	TokenText                // literal text outside tags, escapes resolved
	TokenNumber              // int64 or float64
	TokenKeyword             // FOR, END or =
	TokenID                  // variable name inside a tag
	TokenOpen                // {
	TokenClose               // }
	TokenDollar              // $
	TokenFunction            // @name, value holds the name only
	TokenSymbol              // + - * / ^
	TokenTagString           // "quoted", escapes resolved
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenText:
		return "TEXT"
	case TokenNumber:
		return "NUMBER"
	case TokenKeyword:
		return "KEYWORD"
	case TokenID:
		return "ID"
	case TokenOpen:
		return "OPEN"
	case TokenClose:
		return "CLOSE"
	case TokenDollar:
		return "DOLLAR"
	case TokenFunction:
		return "FUNCTION"
	case TokenSymbol:
		return "SYMBOL"
	case TokenTagString:
		return "TAG_STRING"
	default:
		return "UNKNOWN"
	}
}

// Position locates a token in the source. Offset is a 0-based byte offset,
// Line and Col are 1-based (Col counts runes).
type Position struct {
	Offset int
	Line   int
	Col    int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Token is a single lexical unit. Value is a string for text-like kinds,
// int64 or float64 for TokenNumber and nil for TokenEOF.
type Token struct {
	Kind  TokenKind
	Value any
	Pos   Position
}

// Str returns the string value of the token, or "" if it holds none.
func (t Token) Str() string {
	s, _ := t.Value.(string)
	return s
}

func (t Token) String() string {
	switch v := t.Value.(type) {
	case nil:
		return t.Kind.String()
	case string:
		return fmt.Sprintf("%s(%q)", t.Kind, v)
	default:
		return fmt.Sprintf("%s(%v)", t.Kind, v)
	}
}
