package starlark

import (
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/neurodesk/smartscript/pkg/smartscript"
)

// ConvertElement converts a tag element to a struct with kind, value and
// source fields.
func ConvertElement(el smartscript.Element) starlark.Value {
	if el == nil {
		return starlark.None
	}
	var kind string
	var value starlark.Value
	switch e := el.(type) {
	case smartscript.ConstantInteger:
		kind, value = "integer", starlark.MakeInt64(e.Value)
	case smartscript.ConstantDouble:
		kind, value = "double", starlark.Float(e.Value)
	case smartscript.StringLiteral:
		kind, value = "string", starlark.String(e.Value)
	case smartscript.Variable:
		kind, value = "variable", starlark.String(e.Name)
	case smartscript.Function:
		kind, value = "function", starlark.String(e.Name)
	case smartscript.Operator:
		kind, value = "operator", starlark.String(e.Symbol)
	default:
		kind, value = "unknown", starlark.String(el.Render())
	}
	return starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{
		"kind":   starlark.String(kind),
		"value":  value,
		"source": starlark.String(el.Render()),
	})
}

func convertElements(els []smartscript.Element) *starlark.List {
	items := make([]starlark.Value, len(els))
	for i, el := range els {
		items[i] = ConvertElement(el)
	}
	return starlark.NewList(items)
}

// ConvertNode converts n and its subtree to nested structs. Every node has
// kind, children and source fields; text nodes add text, echo nodes add
// elements, and loops add variable, start, end, step and elements.
func ConvertNode(n smartscript.Node) starlark.Value {
	children := smartscript.Children(n)
	items := make([]starlark.Value, len(children))
	for i, c := range children {
		items[i] = ConvertNode(c)
	}
	fields := starlark.StringDict{
		"children": starlark.NewList(items),
		"source":   starlark.String(smartscript.Serialize(n)),
	}
	switch t := n.(type) {
	case *smartscript.DocumentNode:
		fields["kind"] = starlark.String("document")
	case *smartscript.TextNode:
		fields["kind"] = starlark.String("text")
		fields["text"] = starlark.String(t.Text)
	case *smartscript.EchoNode:
		fields["kind"] = starlark.String("echo")
		fields["elements"] = convertElements(t.Elements)
	case *smartscript.ForLoopNode:
		fields["kind"] = starlark.String("for")
		fields["variable"] = ConvertElement(t.Variable)
		fields["start"] = ConvertElement(t.Start)
		fields["end"] = ConvertElement(t.End)
		fields["step"] = ConvertElement(t.Step)
		fields["elements"] = convertElements(t.Elements())
	}
	return starlarkstruct.FromStringDict(starlarkstruct.Default, fields)
}

// Flatten returns the converted nodes of the tree in pre-order.
func Flatten(n smartscript.Node) *starlark.List {
	var items []starlark.Value
	_ = smartscript.Walk(smartscript.VisitorFunc(func(n smartscript.Node) error {
		items = append(items, ConvertNode(n))
		return nil
	}), n)
	return starlark.NewList(items)
}

// ConvertFromStarlark converts a Starlark value to plain Go data.
func ConvertFromStarlark(val starlark.Value) any {
	switch v := val.(type) {
	case nil, starlark.NoneType:
		return nil
	case starlark.String:
		return string(v)
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i
		}
		return v.String()
	case starlark.Float:
		return float64(v)
	case starlark.Bool:
		return bool(v)
	case *starlark.List:
		items := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			items[i] = ConvertFromStarlark(v.Index(i))
		}
		return items
	case starlark.Tuple:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = ConvertFromStarlark(item)
		}
		return items
	case *starlark.Dict:
		dict := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			key := item[0].String()
			if s, ok := item[0].(starlark.String); ok {
				key = string(s)
			}
			dict[key] = ConvertFromStarlark(item[1])
		}
		return dict
	default:
		return val.String()
	}
}
