package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-editor/pkg/model"
)

// Serializer converts a document into markdown text.
type Serializer func(doc *model.Node) (string, error)

// NewSerializer binds a schema and writer table. The returned Serializer is
// safe for concurrent use.
func NewSerializer(schema *model.Schema, spec SerializerSpec) Serializer {
	nodes := make(map[string]NodeSerializer, len(spec.Nodes))
	for name, fn := range spec.Nodes {
		nodes[name] = fn
	}
	marks := make(map[string]MarkSerializer, len(spec.Marks))
	for name, m := range spec.Marks {
		marks[name] = m
	}
	return func(doc *model.Node) (string, error) {
		if doc == nil {
			return "", wrapSerializeError(fmt.Errorf("%w: nil document", ErrParseFailed), nil)
		}
		if doc.Type().Schema() != schema {
			return "", wrapSerializeError(fmt.Errorf("%w: document built against a different schema", ErrNoSerializerRule), nil)
		}
		state := &SerializerState{nodes: nodes, marks: marks}
		state.RenderContent(doc)
		if state.err != nil {
			return "", state.err
		}
		out := state.out.String()
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		return out, nil
	}
}

// SerializerState accumulates markdown output. Node writers call its
// methods; the first failure sticks and later calls become no-ops.
type SerializerState struct {
	nodes       map[string]NodeSerializer
	marks       map[string]MarkSerializer
	out         strings.Builder
	delim       string
	closed      *model.Node
	inTightList bool
	err         error
}

// Err returns the first recorded failure.
func (s *SerializerState) Err() error { return s.err }

// Fail records err unless a failure is already recorded.
func (s *SerializerState) Fail(err error) {
	if s.err == nil && err != nil {
		s.err = wrapSerializeError(err, nil)
	}
}

// Output returns what has been written so far.
func (s *SerializerState) Output() string { return s.out.String() }

// InTightList reports whether the current list renders without blank lines.
func (s *SerializerState) InTightList() bool { return s.inTightList }

func (s *SerializerState) atBlank() bool {
	out := s.out.String()
	return out == "" || strings.HasSuffix(out, "\n")
}

func (s *SerializerState) flushClose(size int) {
	if s.closed == nil {
		return
	}
	if !s.atBlank() {
		s.out.WriteString("\n")
	}
	if size > 1 {
		prefix := strings.TrimRight(s.delim, " \t")
		for i := 1; i < size; i++ {
			s.out.WriteString(prefix)
			s.out.WriteString("\n")
		}
	}
	s.closed = nil
}

// Write emits content, first closing any pending block and writing the
// current line prefix at the start of a line.
func (s *SerializerState) Write(content string) {
	if s.err != nil {
		return
	}
	s.flushClose(2)
	if s.delim != "" && s.atBlank() {
		s.out.WriteString(s.delim)
	}
	s.out.WriteString(content)
}

// Text emits text line by line, escaping markdown syntax when escape is set.
func (s *SerializerState) Text(text string, escape bool) {
	if s.err != nil {
		return
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		startOfLine := s.atBlank() || s.closed != nil
		s.Write("")
		if escape {
			line = s.Escape(line, startOfLine)
		}
		s.out.WriteString(line)
		if i != len(lines)-1 {
			s.out.WriteString("\n")
		}
	}
}

// EnsureNewLine starts a new line unless already at one.
func (s *SerializerState) EnsureNewLine() {
	if s.err != nil {
		return
	}
	if !s.atBlank() {
		s.out.WriteString("\n")
	}
}

// CloseBlock marks n as finished so the next write separates from it.
func (s *SerializerState) CloseBlock(n *model.Node) {
	s.closed = n
}

// WrapBlock renders fn with delim prefixed to every line. firstDelim, when
// not empty, replaces delim on the first line.
func (s *SerializerState) WrapBlock(delim, firstDelim string, n *model.Node, fn func()) {
	if s.err != nil {
		return
	}
	old := s.delim
	if firstDelim != "" {
		s.Write(firstDelim)
	} else {
		s.Write(delim)
	}
	s.delim += delim
	fn()
	s.delim = old
	s.CloseBlock(n)
}

// Render dispatches n to its writer.
func (s *SerializerState) Render(n, parent *model.Node, index int) {
	if s.err != nil {
		return
	}
	fn, ok := s.nodes[n.Type().Name()]
	if !ok {
		s.err = wrapSerializeError(
			fmt.Errorf("%w: node %s", ErrNoSerializerRule, n.Type().Name()),
			map[string]any{"node": n.Type().Name()},
		)
		return
	}
	fn(s, n, parent, index)
}

// RenderContent renders each block child of parent.
func (s *SerializerState) RenderContent(parent *model.Node) {
	for i, child := range parent.Content() {
		s.Render(child, parent, i)
	}
}

// RenderInline renders the inline children of parent, opening and closing
// mark delimiters as the active mark set changes.
func (s *SerializerState) RenderInline(parent *model.Node) {
	var active []*model.Mark
	trailing := ""

	progress := func(node *model.Node, index int) {
		if s.err != nil {
			return
		}
		var marks []*model.Mark
		if node != nil {
			marks = node.Marks()
		}

		keep := 0
		for keep < len(active) && keep < len(marks) && active[keep].Eq(marks[keep]) {
			keep++
		}
		for i := len(active) - 1; i >= keep; i-- {
			s.out.WriteString(s.markString(active[i], false, parent, index))
		}
		active = active[:keep]
		if trailing != "" {
			s.Write(trailing)
			trailing = ""
		}
		if node == nil {
			return
		}

		text := ""
		if node.IsText() {
			text = node.Text()
			if len(marks) > 0 {
				lead := leadingSpace(text)
				if lead != "" && keep < len(marks) {
					s.Write(lead)
					text = text[len(lead):]
				}
				trailing = trailingSpace(text)
				text = text[:len(text)-len(trailing)]
			}
		}

		for _, m := range marks[keep:] {
			s.Write(s.markString(m, true, parent, index))
			active = append(active, m)
		}

		if node.IsText() {
			if text != "" {
				s.Text(text, !s.codeActive(active))
			}
			return
		}
		s.Render(node, parent, index)
	}

	for i, child := range parent.Content() {
		progress(child, i)
	}
	progress(nil, parent.ChildCount())
}

// RenderList renders the items of a list, prefixing continuation lines with
// delim and each item's first line with firstDelim(i).
func (s *SerializerState) RenderList(n *model.Node, delim string, firstDelim func(int) string) {
	if s.err != nil {
		return
	}
	if s.closed != nil && s.closed.Type() == n.Type() {
		s.flushClose(3)
	} else if s.inTightList {
		s.flushClose(1)
	}

	tight := !isSpread(n)
	prevTight := s.inTightList
	s.inTightList = tight
	for i, child := range n.Content() {
		if i > 0 && tight {
			s.flushClose(1)
		}
		s.WrapBlock(delim, firstDelim(i), n, func() {
			s.Render(child, n, i)
		})
	}
	s.inTightList = prevTight
}

// Repeat returns str repeated n times.
func (s *SerializerState) Repeat(str string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(str, n)
}

var (
	escapeInline    = regexp.MustCompile("[`*\\\\~\\[\\]_]")
	escapeLineStart = regexp.MustCompile(`^[:#\-*+>]`)
	escapeOrdered   = regexp.MustCompile(`^(\s*\d+)\.`)
)

// Escape backslash-escapes markdown syntax in str. startOfLine also escapes
// characters that would open a block construct.
func (s *SerializerState) Escape(str string, startOfLine bool) string {
	str = escapeInline.ReplaceAllString(str, `\$0`)
	if startOfLine {
		str = escapeLineStart.ReplaceAllString(str, `\$0`)
		str = escapeOrdered.ReplaceAllString(str, `$1\.`)
	}
	return str
}

// Quote wraps a link or image title in double quotes, escaping inner quotes.
func (s *SerializerState) Quote(str string) string {
	return `"` + strings.ReplaceAll(str, `"`, `\"`) + `"`
}

func (s *SerializerState) markString(m *model.Mark, open bool, parent *model.Node, index int) string {
	spec, ok := s.marks[m.Type().Name()]
	if !ok {
		s.Fail(fmt.Errorf("%w: mark %s", ErrNoSerializerRule, m.Type().Name()))
		return ""
	}
	fn := spec.Close
	if open {
		fn = spec.Open
	}
	if fn == nil {
		return ""
	}
	return fn(s, m, parent, index)
}

func (s *SerializerState) codeActive(active []*model.Mark) bool {
	for _, m := range active {
		if spec, ok := s.marks[m.Type().Name()]; ok && spec.Code {
			return true
		}
	}
	return false
}

func isSpread(n *model.Node) bool {
	spread, _ := n.Attr("spread").(bool)
	return spread
}

func leadingSpace(text string) string {
	trimmed := strings.TrimLeft(text, " \t")
	return text[:len(text)-len(trimmed)]
}

func trailingSpace(text string) string {
	trimmed := strings.TrimRight(text, " \t")
	return text[len(trimmed):]
}
