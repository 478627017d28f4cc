package model

import (
	"fmt"
	"strings"
)

// ContentKind restricts which children a node type accepts.
type ContentKind uint8

const (
	// ContentNone marks leaf nodes.
	ContentNone ContentKind = iota
	// ContentText accepts unmarked text only, as in code blocks.
	ContentText
	// ContentInline accepts inline nodes.
	ContentInline
	// ContentBlock accepts block nodes.
	ContentBlock
)

// Group places a node type among block or inline content.
type Group uint8

const (
	GroupBlock Group = iota
	GroupInline
)

// NodeSpec describes a node type.
type NodeSpec struct {
	Content ContentKind
	Group   Group
	// Atom nodes have no editable content of their own (images, rules).
	Atom        bool
	Attrs       map[string]AttrSpec
	AttrsSchema map[string]any
}

// MarkSpec describes a mark type.
type MarkSpec struct {
	Attrs       map[string]AttrSpec
	AttrsSchema map[string]any
}

// NamedNode pairs a node type name with its spec.
type NamedNode struct {
	Name string
	Spec NodeSpec
}

// NamedMark pairs a mark type name with its spec.
type NamedMark struct {
	Name string
	Spec MarkSpec
}

// SchemaSpec lists node and mark types in priority order.
type SchemaSpec struct {
	TopNode string
	Nodes   []NamedNode
	Marks   []NamedMark
}

const (
	defaultTopNode = "doc"
	textNodeName   = "text"
)

// Schema is a compiled set of node and mark types.
type Schema struct {
	topNode   string
	nodes     map[string]*NodeType
	marks     map[string]*MarkType
	nodeOrder []string
	markOrder []string
}

// NewSchema compiles spec. The top node (default "doc") and "text" must be
// present.
func NewSchema(spec SchemaSpec) (*Schema, error) {
	top := strings.TrimSpace(spec.TopNode)
	if top == "" {
		top = defaultTopNode
	}
	s := &Schema{
		topNode: top,
		nodes:   make(map[string]*NodeType, len(spec.Nodes)),
		marks:   make(map[string]*MarkType, len(spec.Marks)),
	}

	for _, named := range spec.Nodes {
		name := strings.TrimSpace(named.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: node type without name", ErrSchemaInvalid)
		}
		if _, dup := s.nodes[name]; dup {
			return nil, fmt.Errorf("%w: duplicate node type %q", ErrSchemaInvalid, name)
		}
		nodeSpec := named.Spec
		if name == textNodeName {
			nodeSpec.Group = GroupInline
			nodeSpec.Content = ContentNone
		}
		rules, err := compileAttrRules(name, nodeSpec.Attrs, nodeSpec.AttrsSchema)
		if err != nil {
			return nil, err
		}
		s.nodes[name] = &NodeType{name: name, spec: nodeSpec, schema: s, attrs: rules}
		s.nodeOrder = append(s.nodeOrder, name)
	}

	for rank, named := range spec.Marks {
		name := strings.TrimSpace(named.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: mark type without name", ErrSchemaInvalid)
		}
		if _, dup := s.marks[name]; dup {
			return nil, fmt.Errorf("%w: duplicate mark type %q", ErrSchemaInvalid, name)
		}
		rules, err := compileAttrRules(name, named.Spec.Attrs, named.Spec.AttrsSchema)
		if err != nil {
			return nil, err
		}
		s.marks[name] = &MarkType{name: name, spec: named.Spec, rank: rank, schema: s, attrs: rules}
		s.markOrder = append(s.markOrder, name)
	}

	if _, ok := s.nodes[top]; !ok {
		return nil, fmt.Errorf("%w: missing top node type %q", ErrSchemaInvalid, top)
	}
	if _, ok := s.nodes[textNodeName]; !ok {
		return nil, fmt.Errorf("%w: missing %q node type", ErrSchemaInvalid, textNodeName)
	}
	return s, nil
}

// TopNodeType returns the document root type.
func (s *Schema) TopNodeType() *NodeType { return s.nodes[s.topNode] }

// Node returns the named node type, or nil.
func (s *Schema) Node(name string) *NodeType { return s.nodes[name] }

// Mark returns the named mark type, or nil.
func (s *Schema) Mark(name string) *MarkType { return s.marks[name] }

// NodeNames lists node type names in spec order.
func (s *Schema) NodeNames() []string { return append([]string(nil), s.nodeOrder...) }

// MarkNames lists mark type names in rank order.
func (s *Schema) MarkNames() []string { return append([]string(nil), s.markOrder...) }

// Text creates a text node. Empty text is rejected.
func (s *Schema) Text(text string, marks []*Mark) (*Node, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty text node", ErrContentInvalid)
	}
	return &Node{typ: s.nodes[textNodeName], text: text, marks: normalizeMarks(marks)}, nil
}

// NodeType is a compiled node spec.
type NodeType struct {
	name   string
	spec   NodeSpec
	schema *Schema
	attrs  attrRules
}

func (t *NodeType) Name() string      { return t.name }
func (t *NodeType) Spec() NodeSpec    { return t.spec }
func (t *NodeType) Schema() *Schema   { return t.schema }
func (t *NodeType) IsText() bool      { return t.name == textNodeName }
func (t *NodeType) IsBlock() bool     { return t.spec.Group == GroupBlock }
func (t *NodeType) IsInline() bool    { return t.spec.Group == GroupInline }
func (t *NodeType) IsAtom() bool      { return t.spec.Atom || t.spec.Content == ContentNone }
func (t *NodeType) IsTextblock() bool { return t.spec.Content == ContentInline || t.spec.Content == ContentText }

// Create builds a node, filling attribute defaults and checking children.
func (t *NodeType) Create(attrs map[string]any, content []*Node, marks []*Mark) (*Node, error) {
	if t.IsText() {
		return nil, fmt.Errorf("%w: use Schema.Text to create text nodes", ErrContentInvalid)
	}
	computed, err := t.attrs.compute(t.name, attrs)
	if err != nil {
		return nil, err
	}
	if err := t.checkContent(content); err != nil {
		return nil, err
	}
	return &Node{
		typ:     t,
		attrs:   computed,
		content: append([]*Node(nil), content...),
		marks:   normalizeMarks(marks),
	}, nil
}

func (t *NodeType) checkContent(content []*Node) error {
	for _, child := range content {
		if child == nil {
			return fmt.Errorf("%w: nil child in %s", ErrContentInvalid, t.name)
		}
		ok := false
		switch t.spec.Content {
		case ContentNone:
			ok = false
		case ContentText:
			ok = child.IsText() && len(child.marks) == 0
		case ContentInline:
			ok = child.typ.IsInline()
		case ContentBlock:
			ok = child.typ.IsBlock()
		}
		if !ok {
			return fmt.Errorf("%w: %s cannot contain %s", ErrContentInvalid, t.name, child.typ.name)
		}
	}
	return nil
}

// MarkType is a compiled mark spec.
type MarkType struct {
	name   string
	spec   MarkSpec
	rank   int
	schema *Schema
	attrs  attrRules
}

func (t *MarkType) Name() string    { return t.name }
func (t *MarkType) Spec() MarkSpec  { return t.spec }
func (t *MarkType) Schema() *Schema { return t.schema }

// Create builds a mark with defaults applied.
func (t *MarkType) Create(attrs map[string]any) (*Mark, error) {
	computed, err := t.attrs.compute(t.name, attrs)
	if err != nil {
		return nil, err
	}
	return &Mark{typ: t, attrs: computed}, nil
}
