package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema(SchemaSpec{
		Nodes: []NamedNode{
			{Name: "doc", Spec: NodeSpec{Content: ContentBlock}},
			{Name: "paragraph", Spec: NodeSpec{Content: ContentInline}},
			{Name: "heading", Spec: NodeSpec{
				Content: ContentInline,
				Attrs:   map[string]AttrSpec{"level": {Default: 1}, "id": {Default: ""}},
				AttrsSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"level": map[string]any{"type": "integer", "minimum": 1, "maximum": 6},
					},
				},
			}},
			{Name: "code_block", Spec: NodeSpec{Content: ContentText, Attrs: map[string]AttrSpec{"language": {Default: ""}}}},
			{Name: "image", Spec: NodeSpec{Group: GroupInline, Atom: true, Attrs: map[string]AttrSpec{"src": {Required: true}}}},
			{Name: "text"},
		},
		Marks: []NamedMark{
			{Name: "link", Spec: MarkSpec{Attrs: map[string]AttrSpec{"href": {Required: true}, "title": {}}}},
			{Name: "em"},
			{Name: "strong"},
		},
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}

func TestNewSchemaRequiresTopAndTextNodes(t *testing.T) {
	_, err := NewSchema(SchemaSpec{Nodes: []NamedNode{{Name: "text"}}})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid for missing doc, got %v", err)
	}
	_, err = NewSchema(SchemaSpec{Nodes: []NamedNode{{Name: "doc"}}})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid for missing text, got %v", err)
	}
	_, err = NewSchema(SchemaSpec{Nodes: []NamedNode{{Name: "doc"}, {Name: "doc"}, {Name: "text"}}})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid for duplicates, got %v", err)
	}
}

func TestCreateFillsDefaultsAndValidatesAttrs(t *testing.T) {
	s := testSchema(t)

	h, err := s.Node("heading").Create(map[string]any{"level": 2, "extra": true}, nil, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h.Attr("level") != 2 || h.Attr("id") != "" {
		t.Fatalf("unexpected attrs: %v", h.Attrs())
	}
	if _, ok := h.Attrs()["extra"]; ok {
		t.Fatalf("undeclared attribute should be dropped: %v", h.Attrs())
	}

	if _, err := s.Node("heading").Create(map[string]any{"level": 9}, nil, nil); !errors.Is(err, ErrAttrsInvalid) {
		t.Fatalf("expected ErrAttrsInvalid for level 9, got %v", err)
	}
	if _, err := s.Node("image").Create(nil, nil, nil); !errors.Is(err, ErrAttrsInvalid) {
		t.Fatalf("expected ErrAttrsInvalid for missing src, got %v", err)
	}
}

func TestCreateChecksContentKinds(t *testing.T) {
	s := testSchema(t)
	text, _ := s.Text("hello", nil)
	para, err := s.Node("paragraph").Create(nil, []*Node{text}, nil)
	if err != nil {
		t.Fatalf("paragraph: %v", err)
	}

	if _, err := s.Node("doc").Create(nil, []*Node{text}, nil); !errors.Is(err, ErrContentInvalid) {
		t.Fatalf("doc must reject inline text, got %v", err)
	}
	if _, err := s.Node("paragraph").Create(nil, []*Node{para}, nil); !errors.Is(err, ErrContentInvalid) {
		t.Fatalf("paragraph must reject blocks, got %v", err)
	}

	em, _ := s.Mark("em").Create(nil)
	marked, _ := s.Text("x", []*Mark{em})
	if _, err := s.Node("code_block").Create(nil, []*Node{marked}, nil); !errors.Is(err, ErrContentInvalid) {
		t.Fatalf("code block must reject marked text, got %v", err)
	}
	if _, err := s.Text("", nil); !errors.Is(err, ErrContentInvalid) {
		t.Fatalf("expected empty text to be rejected, got %v", err)
	}
}

func TestMarkSetsStayInRankOrder(t *testing.T) {
	s := testSchema(t)
	strong, _ := s.Mark("strong").Create(nil)
	em, _ := s.Mark("em").Create(nil)
	link, _ := s.Mark("link").Create(map[string]any{"href": "https://example.com"})

	set := strong.AddToSet(nil)
	set = em.AddToSet(set)
	set = link.AddToSet(set)
	if len(set) != 3 || set[0] != link || set[1] != em || set[2] != strong {
		t.Fatalf("unexpected order: %v", set)
	}

	other, _ := s.Mark("link").Create(map[string]any{"href": "https://other.example"})
	set = other.AddToSet(set)
	if len(set) != 3 || !set[0].Eq(other) {
		t.Fatalf("expected link replaced, got %v", set)
	}
	set = em.RemoveFromSet(set)
	if em.IsInSet(set) || len(set) != 2 {
		t.Fatalf("expected em removed, got %v", set)
	}
}

func TestJSONRoundTripPreservesStructure(t *testing.T) {
	s := testSchema(t)
	strong, _ := s.Mark("strong").Create(nil)
	plain, _ := s.Text("Hello ", nil)
	bold, _ := s.Text("world", []*Mark{strong})
	heading, _ := s.Node("heading").Create(map[string]any{"level": 2, "id": "hello-world"}, []*Node{plain, bold}, nil)
	doc, _ := s.Node("doc").Create(nil, []*Node{heading}, nil)

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	decoded, err := s.NodeFromJSON(data)
	if err != nil {
		t.Fatalf("NodeFromJSON: %v", err)
	}
	if !decoded.Equal(doc) {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", decoded, doc)
	}
	if doc.TextContent() != "Hello world" {
		t.Fatalf("unexpected text content %q", doc.TextContent())
	}
	if got := doc.String(); got != `doc(heading("Hello ", strong("world")))` {
		t.Fatalf("unexpected debug form %s", got)
	}

	if _, err := s.NodeFromJSON([]byte(`{"type":"table"}`)); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}
