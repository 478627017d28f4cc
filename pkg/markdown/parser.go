package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-editor/pkg/interfaces"
	"github.com/goliatone/go-editor/pkg/model"
)

// Parser converts markdown text into a document.
type Parser func(markdown string) (*model.Node, error)

// NewParser binds a schema, an ordered rule list, and a goldmark processor.
// The returned Parser is safe for concurrent use.
func NewParser(schema *model.Schema, spec ParserSpec, processor interfaces.MarkdownProcessor) Parser {
	rules := append(ParserSpec(nil), spec...)
	return func(markdown string) (*model.Node, error) {
		if strings.TrimSpace(markdown) == "" {
			return nil, wrapParseError(ErrEmptyInput, markdownEmptyInputCode, nil)
		}
		source := []byte(markdown)
		root := processor.Process(source)

		state := newParserState(schema, rules, source)
		if err := state.Run(root); err != nil {
			return nil, err
		}
		doc := state.result
		if doc == nil {
			return nil, wrapParseError(fmt.Errorf("%w: no document produced", ErrParseFailed), markdownParseCode, nil)
		}
		if doc.Type() != schema.TopNodeType() {
			return nil, wrapParseError(
				fmt.Errorf("%w: root is %s, want %s", ErrParseFailed, doc.Type().Name(), schema.TopNodeType().Name()),
				markdownParseCode, nil)
		}
		return doc, nil
	}
}

type parserFrame struct {
	typ     *model.NodeType
	attrs   map[string]any
	content []*model.Node
	marks   []*model.Mark
}

// ParserState is the stack machine rules drive while walking the AST.
type ParserState struct {
	schema  *model.Schema
	rules   ParserSpec
	source  []byte
	stack   []*parserFrame
	ignored map[ast.Node]struct{}
	trim    bool
	result  *model.Node
}

func newParserState(schema *model.Schema, rules ParserSpec, source []byte) *ParserState {
	return &ParserState{
		schema:  schema,
		rules:   rules,
		source:  source,
		ignored: map[ast.Node]struct{}{},
	}
}

// Schema returns the schema documents are built against.
func (s *ParserState) Schema() *model.Schema { return s.schema }

// Source returns the raw markdown bytes.
func (s *ParserState) Source() []byte { return s.source }

// Run dispatches n to the first matching rule.
func (s *ParserState) Run(n ast.Node) error {
	for _, entry := range s.rules {
		switch {
		case entry.Node != nil && entry.Node.Match != nil && entry.Node.Match(n):
			t := s.schema.Node(entry.ID)
			if t == nil {
				return wrapParseError(fmt.Errorf("%w: node type %q missing from schema", ErrParseFailed, entry.ID), markdownParseCode, nil)
			}
			return entry.Node.Run(s, n, t)
		case entry.Mark != nil && entry.Mark.Match != nil && entry.Mark.Match(n):
			t := s.schema.Mark(entry.ID)
			if t == nil {
				return wrapParseError(fmt.Errorf("%w: mark type %q missing from schema", ErrParseFailed, entry.ID), markdownParseCode, nil)
			}
			return entry.Mark.Run(s, n, t)
		}
	}
	return wrapParseError(
		fmt.Errorf("%w: %s", ErrNoParserRule, n.Kind().String()),
		markdownNoRuleCode,
		map[string]any{"kind": n.Kind().String()},
	)
}

// Next runs every child of parent that has not been ignored.
func (s *ParserState) Next(parent ast.Node) error {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if _, skip := s.ignored[child]; skip {
			continue
		}
		if err := s.Run(child); err != nil {
			return err
		}
	}
	return nil
}

// Ignore marks n as consumed so Next skips it.
func (s *ParserState) Ignore(n ast.Node) {
	s.ignored[n] = struct{}{}
}

// TrimNextText strips leading whitespace from the next text added.
func (s *ParserState) TrimNextText() {
	s.trim = true
}

// OpenNode pushes a new node of type t onto the stack.
func (s *ParserState) OpenNode(t *model.NodeType, attrs map[string]any) *ParserState {
	s.stack = append(s.stack, &parserFrame{typ: t, attrs: attrs})
	return s
}

// CloseNode pops the top node, builds it, and appends it to its parent.
func (s *ParserState) CloseNode() (*model.Node, error) {
	if len(s.stack) == 0 {
		return nil, wrapParseError(fmt.Errorf("%w: close with empty stack", ErrParseFailed), markdownParseCode, nil)
	}
	frame := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]

	node, err := frame.typ.Create(frame.attrs, frame.content, nil)
	if err != nil {
		return nil, wrapParseError(err, markdownParseCode, map[string]any{"node": frame.typ.Name()})
	}
	if top := s.top(); top != nil {
		top.content = append(top.content, node)
	} else {
		s.result = node
	}
	return node, nil
}

// AddNode builds a leaf or prebuilt node and appends it to the top frame,
// carrying the active marks.
func (s *ParserState) AddNode(t *model.NodeType, attrs map[string]any, content []*model.Node) (*model.Node, error) {
	top := s.top()
	var marks []*model.Mark
	if top != nil && t.IsInline() {
		marks = top.marks
	}
	node, err := t.Create(attrs, content, marks)
	if err != nil {
		return nil, wrapParseError(err, markdownParseCode, map[string]any{"node": t.Name()})
	}
	if top == nil {
		s.result = node
		return node, nil
	}
	top.content = append(top.content, node)
	return node, nil
}

// AddText appends text with the active marks, merging into a preceding
// text node that carries the same marks.
func (s *ParserState) AddText(text string) error {
	if s.trim {
		text = strings.TrimLeft(text, " \t")
		s.trim = false
	}
	if text == "" {
		return nil
	}
	top := s.top()
	if top == nil {
		return wrapParseError(fmt.Errorf("%w: text outside any node", ErrParseFailed), markdownParseCode, nil)
	}
	if n := len(top.content); n > 0 {
		last := top.content[n-1]
		if last.IsText() && model.SameSet(last.Marks(), top.marks) {
			top.content[n-1] = last.WithText(last.Text() + text)
			return nil
		}
	}
	node, err := s.schema.Text(text, top.marks)
	if err != nil {
		return wrapParseError(err, markdownParseCode, nil)
	}
	top.content = append(top.content, node)
	return nil
}

// OpenMark activates m for subsequent text in the top frame.
func (s *ParserState) OpenMark(m *model.Mark) *ParserState {
	if top := s.top(); top != nil {
		top.marks = m.AddToSet(top.marks)
	}
	return s
}

// CloseMark deactivates marks of type t in the top frame.
func (s *ParserState) CloseMark(t *model.MarkType) *ParserState {
	top := s.top()
	if top == nil {
		return s
	}
	kept := top.marks[:0:0]
	for _, m := range top.marks {
		if m.Type() != t {
			kept = append(kept, m)
		}
	}
	top.marks = kept
	return s
}

// Depth reports how many nodes are open.
func (s *ParserState) Depth() int { return len(s.stack) }

// TextOf returns the plain text beneath n.
func (s *ParserState) TextOf(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(s.inlineValue(v))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// Lines joins the raw source lines of a block node.
func (s *ParserState) Lines(n ast.Node) string {
	lines := n.Lines()
	if lines == nil {
		return ""
	}
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(s.source))
	}
	return b.String()
}

// InlineText returns the display text of an inline text node with escapes
// and entities resolved. Raw text, such as code span content, is returned
// untouched.
func (s *ParserState) InlineText(n *ast.Text) string {
	return string(s.inlineValue(n))
}

func (s *ParserState) inlineValue(n *ast.Text) []byte {
	value := n.Segment.Value(s.source)
	if n.IsRaw() || isInCode(n) {
		return value
	}
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}

func isInCode(n ast.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == ast.KindCodeSpan {
			return true
		}
	}
	return false
}

func (s *ParserState) top() *parserFrame {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}
