package smartscript

// Node is any node in a parsed document.
type Node interface {
	node()
}

// DocumentNode is the root node produced by Parse.
type DocumentNode struct {
	Children []Node
}

func (*DocumentNode) node() {}

// TextNode is literal text between tags, with escapes already resolved.
type TextNode struct {
	Text string
}

func (*TextNode) node() {}

// ForLoopNode is a {$FOR var start end [step]$} ... {$END$} block.
// Step is nil when the tag has no step expression.
type ForLoopNode struct {
	Variable Variable
	Start    Element
	End      Element
	Step     Element
	Children []Node
}

func (*ForLoopNode) node() {}

// Elements returns the tag elements in source order.
func (n *ForLoopNode) Elements() []Element {
	els := []Element{n.Variable, n.Start, n.End}
	if n.Step != nil {
		els = append(els, n.Step)
	}
	return els
}

// EchoNode is a {$= ... $} tag.
type EchoNode struct {
	Elements []Element
}

func (*EchoNode) node() {}

// openBlock is a node that can be on the parser's open-block stack.
type openBlock interface {
	Node
	appendChild(Node)
}

func (n *DocumentNode) appendChild(c Node) { n.Children = append(n.Children, c) }
func (n *ForLoopNode) appendChild(c Node)  { n.Children = append(n.Children, c) }

// Children returns the child nodes of n, or nil for leaf nodes.
func Children(n Node) []Node {
	switch t := n.(type) {
	case *DocumentNode:
		return t.Children
	case *ForLoopNode:
		return t.Children
	case *TextNode, *EchoNode:
		return nil
	}
	return nil
}
