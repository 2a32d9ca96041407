package smartscript

import "strings"

var textEscaper = strings.NewReplacer(`\`, `\\`, `{`, `\{`)

// Serialize renders n back into document syntax. Parsing the result yields
// a tree equal to n; whitespace inside tags is normalized and every FOR is
// closed by a synthetic {$END$}.
func Serialize(n Node) string {
	var b strings.Builder
	serialize(&b, n)
	return b.String()
}

func serialize(b *strings.Builder, n Node) {
	switch t := n.(type) {
	case *DocumentNode:
		for _, c := range t.Children {
			serialize(b, c)
		}
	case *TextNode:
		b.WriteString(textEscaper.Replace(t.Text))
	case *EchoNode:
		b.WriteString("{$= ")
		writeElements(b, t.Elements)
		b.WriteString(" $}")
	case *ForLoopNode:
		b.WriteString("{$FOR ")
		writeElements(b, t.Elements())
		b.WriteString(" $}")
		for _, c := range t.Children {
			serialize(b, c)
		}
		b.WriteString("{$END$}")
	}
}

func writeElements(b *strings.Builder, els []Element) {
	for i, el := range els {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(el.Render())
	}
}
