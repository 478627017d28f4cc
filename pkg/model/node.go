package model

import (
	"reflect"
	"strconv"
	"strings"
)

// Node is an immutable document node.
type Node struct {
	typ     *NodeType
	attrs   map[string]any
	content []*Node
	marks   []*Mark
	text    string
}

func (n *Node) Type() *NodeType       { return n.typ }
func (n *Node) Attrs() map[string]any { return n.attrs }
func (n *Node) Attr(name string) any  { return n.attrs[name] }
func (n *Node) Marks() []*Mark        { return n.marks }
func (n *Node) Text() string          { return n.text }
func (n *Node) IsText() bool          { return n.typ.IsText() }
func (n *Node) IsBlock() bool         { return n.typ.IsBlock() }
func (n *Node) IsInline() bool        { return n.typ.IsInline() }
func (n *Node) ChildCount() int       { return len(n.content) }

// Content returns the children. Callers must not modify the slice.
func (n *Node) Content() []*Node { return n.content }

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.content) {
		return nil
	}
	return n.content[i]
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.Child(0) }

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node { return n.Child(len(n.content) - 1) }

// TextContent concatenates the text of every descendant.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.text
	}
	var b strings.Builder
	n.Descendants(func(child *Node) bool {
		if child.IsText() {
			b.WriteString(child.text)
		}
		return true
	})
	return b.String()
}

// Descendants walks the subtree below n depth-first. Returning false from fn
// skips the children of that node.
func (n *Node) Descendants(fn func(*Node) bool) {
	for _, child := range n.content {
		if fn(child) {
			child.Descendants(fn)
		}
	}
}

// WithText returns a text node sharing n's marks with different text.
func (n *Node) WithText(text string) *Node {
	return &Node{typ: n.typ, text: text, marks: n.marks}
}

// Mark returns a copy of n carrying marks.
func (n *Node) Mark(marks []*Mark) *Node {
	cp := *n
	cp.marks = normalizeMarks(marks)
	return &cp
}

// Equal compares type, attributes, marks, text, and children.
func (n *Node) Equal(other *Node) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil {
		return false
	}
	if n.typ.name != other.typ.name || n.text != other.text {
		return false
	}
	if !reflect.DeepEqual(n.attrs, other.attrs) || !SameSet(n.marks, other.marks) {
		return false
	}
	if len(n.content) != len(other.content) {
		return false
	}
	for i := range n.content {
		if !n.content[i].Equal(other.content[i]) {
			return false
		}
	}
	return true
}

// String renders a compact debug form such as doc(heading("Title")).
func (n *Node) String() string {
	var b strings.Builder
	n.writeDebug(&b)
	return b.String()
}

func (n *Node) writeDebug(b *strings.Builder) {
	if n.IsText() {
		for _, m := range n.marks {
			b.WriteString(m.typ.name)
			b.WriteByte('(')
		}
		b.WriteString(strconv.Quote(n.text))
		for range n.marks {
			b.WriteByte(')')
		}
		return
	}
	b.WriteString(n.typ.name)
	if len(n.content) == 0 {
		return
	}
	b.WriteByte('(')
	for i, child := range n.content {
		if i > 0 {
			b.WriteString(", ")
		}
		child.writeDebug(b)
	}
	b.WriteByte(')')
}
