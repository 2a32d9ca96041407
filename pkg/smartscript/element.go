package smartscript

import (
	"fmt"
	"strconv"
	"strings"
)

// Element is a single typed atom inside a tag. The set of implementations
// is closed: ConstantInteger, ConstantDouble, StringLiteral, Variable,
// Function and Operator.
type Element interface {
	// Render returns the element in document syntax.
	Render() string
	String() string
	element()
}

// ConstantInteger is an integer literal such as 42 or -1.
type ConstantInteger struct {
	Value int64
}

func (ConstantInteger) element() {}

func (e ConstantInteger) Render() string { return strconv.FormatInt(e.Value, 10) }
func (e ConstantInteger) String() string { return fmt.Sprintf("Integer(%d)", e.Value) }

// ConstantDouble is a literal with a fractional part such as 3.5.
type ConstantDouble struct {
	Value float64
}

func (ConstantDouble) element() {}

// Render always keeps a fractional part so the literal lexes back as a double.
func (e ConstantDouble) Render() string {
	s := strconv.FormatFloat(e.Value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (e ConstantDouble) String() string { return fmt.Sprintf("Double(%s)", e.Render()) }

// StringLiteral is a quoted string; Value holds the unescaped text.
type StringLiteral struct {
	Value string
}

func (StringLiteral) element() {}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (e StringLiteral) Render() string { return `"` + stringEscaper.Replace(e.Value) + `"` }
func (e StringLiteral) String() string { return fmt.Sprintf("String(%q)", e.Value) }

// Variable references a name such as the loop variable i.
type Variable struct {
	Name string
}

func (Variable) element() {}

func (e Variable) Render() string { return e.Name }
func (e Variable) String() string { return fmt.Sprintf("Variable(%s)", e.Name) }

// Function references a function by name; it is written @name.
type Function struct {
	Name string
}

func (Function) element() {}

func (e Function) Render() string { return "@" + e.Name }
func (e Function) String() string { return fmt.Sprintf("Function(%s)", e.Name) }

// Operator is one of + - * / ^.
type Operator struct {
	Symbol string
}

func (Operator) element() {}

func (e Operator) Render() string { return e.Symbol }
func (e Operator) String() string { return fmt.Sprintf("Operator(%s)", e.Symbol) }

// elementFromToken converts an element token. ok is false for token kinds
// that never denote an element.
func elementFromToken(t Token) (Element, bool) {
	switch t.Kind {
	case TokenNumber:
		switch v := t.Value.(type) {
		case int64:
			return ConstantInteger{Value: v}, true
		case float64:
			return ConstantDouble{Value: v}, true
		}
		return nil, false
	case TokenID:
		return Variable{Name: t.Str()}, true
	case TokenFunction:
		return Function{Name: t.Str()}, true
	case TokenTagString:
		return StringLiteral{Value: t.Str()}, true
	case TokenSymbol:
		return Operator{Symbol: t.Str()}, true
	default:
		return nil, false
	}
}

// forExpression reports whether e may appear as a FOR start, end or step.
func forExpression(e Element) bool {
	switch e.(type) {
	case Variable, ConstantInteger, ConstantDouble, StringLiteral:
		return true
	case Function, Operator:
		return false
	default:
		return false
	}
}
