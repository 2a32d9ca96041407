// Package export converts a parsed document into plain data for YAML and
// JSON consumers.
package export

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/neurodesk/smartscript/pkg/common"
	"github.com/neurodesk/smartscript/pkg/smartscript"
)

type Node struct {
	Kind     string    `yaml:"kind" json:"kind"`
	Text     string    `yaml:"text,omitempty" json:"text,omitempty"`
	Elements []Element `yaml:"elements,omitempty" json:"elements,omitempty"`
	Children []Node    `yaml:"children,omitempty" json:"children,omitempty"`
}

// Element keeps the typed value: int64, float64 or string.
type Element struct {
	Kind  string `yaml:"kind" json:"kind"`
	Value any    `yaml:"value" json:"value"`
}

// FromNode converts n and its subtree.
func FromNode(n smartscript.Node) Node {
	var out Node
	switch t := n.(type) {
	case *smartscript.DocumentNode:
		out.Kind = "document"
	case *smartscript.TextNode:
		out.Kind = "text"
		out.Text = t.Text
	case *smartscript.EchoNode:
		out.Kind = "echo"
		out.Elements = fromElements(t.Elements)
	case *smartscript.ForLoopNode:
		out.Kind = "for"
		out.Elements = fromElements(t.Elements())
	}
	for _, c := range smartscript.Children(n) {
		out.Children = append(out.Children, FromNode(c))
	}
	return out
}

func fromElements(els []smartscript.Element) []Element {
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = FromElement(el)
	}
	return out
}

func FromElement(el smartscript.Element) Element {
	switch e := el.(type) {
	case smartscript.ConstantInteger:
		return Element{Kind: "integer", Value: e.Value}
	case smartscript.ConstantDouble:
		return Element{Kind: "double", Value: e.Value}
	case smartscript.StringLiteral:
		return Element{Kind: "string", Value: e.Value}
	case smartscript.Variable:
		return Element{Kind: "variable", Value: e.Name}
	case smartscript.Function:
		return Element{Kind: "function", Value: e.Name}
	case smartscript.Operator:
		return Element{Kind: "operator", Value: e.Symbol}
	}
	return Element{Kind: "unknown", Value: el.Render()}
}

// Marshal encodes the tree in the given format. FormatPretty returns
// smartscript.Pretty output.
func Marshal(n smartscript.Node, format common.Format) ([]byte, error) {
	switch format {
	case common.FormatPretty:
		return []byte(smartscript.Pretty(n)), nil
	case common.FormatYAML:
		return yaml.Marshal(FromNode(n))
	case common.FormatJSON:
		b, err := json.MarshalIndent(FromNode(n), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
