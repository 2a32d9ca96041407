package smartscript

import (
	"bytes"
	"fmt"
	"strings"
)

type Visitor interface {
	Visit(n Node) error
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(n Node) error

func (f VisitorFunc) Visit(n Node) error { return f(n) }

// Walk visits n and then its children depth-first, in document order.
func Walk(v Visitor, n Node) error {
	if err := v.Visit(n); err != nil {
		return err
	}
	for _, c := range Children(n) {
		if err := Walk(v, c); err != nil {
			return err
		}
	}
	return nil
}

// Pretty returns a line-oriented string representation of the tree.
func Pretty(n Node) string {
	var buf bytes.Buffer
	ppNode(&buf, 0, n)
	return buf.String()
}

func ppNode(buf *bytes.Buffer, indent int, n Node) {
	buf.WriteString(strings.Repeat(" ", indent))
	switch t := n.(type) {
	case *DocumentNode:
		buf.WriteString("Document\n")
	case *TextNode:
		fmt.Fprintf(buf, "Text(%q)\n", t.Text)
	case *EchoNode:
		fmt.Fprintf(buf, "Echo(%s)\n", joinElements(t.Elements))
	case *ForLoopNode:
		fmt.Fprintf(buf, "For(%s)\n", joinElements(t.Elements()))
	}
	for _, c := range Children(n) {
		ppNode(buf, indent+2, c)
	}
}

func joinElements(els []Element) string {
	parts := make([]string, len(els))
	for i, el := range els {
		parts[i] = el.String()
	}
	return strings.Join(parts, ", ")
}

// Equal reports whether a and b have the same node kinds, element values
// and child order.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *DocumentNode:
		y, ok := b.(*DocumentNode)
		return ok && equalNodes(x.Children, y.Children)
	case *TextNode:
		y, ok := b.(*TextNode)
		return ok && x.Text == y.Text
	case *EchoNode:
		y, ok := b.(*EchoNode)
		return ok && equalElements(x.Elements, y.Elements)
	case *ForLoopNode:
		y, ok := b.(*ForLoopNode)
		return ok && equalElements(x.Elements(), y.Elements()) && equalNodes(x.Children, y.Children)
	}
	return false
}

func equalNodes(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Element variants are comparable value types.
func equalElements(a, b []Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
