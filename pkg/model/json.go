package model

import (
	"encoding/json"
	"fmt"
	"math"
)

type jsonMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

type jsonNode struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*jsonNode    `json:"content,omitempty"`
	Marks   []jsonMark     `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// MarshalJSON encodes the node in the {"type","attrs","content","marks","text"} form.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	out := &jsonNode{Type: n.typ.name, Attrs: n.attrs, Text: n.text}
	for _, m := range n.marks {
		out.Marks = append(out.Marks, jsonMark{Type: m.typ.name, Attrs: m.attrs})
	}
	for _, child := range n.content {
		out.Content = append(out.Content, child.toJSON())
	}
	return out
}

// NodeFromJSON decodes a node previously encoded with MarshalJSON.
func (s *Schema) NodeFromJSON(data []byte) (*Node, error) {
	var raw jsonNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("model: decode node: %w", err)
	}
	return s.fromJSON(&raw)
}

func (s *Schema) fromJSON(raw *jsonNode) (*Node, error) {
	marks := make([]*Mark, 0, len(raw.Marks))
	for _, jm := range raw.Marks {
		typ := s.Mark(jm.Type)
		if typ == nil {
			return nil, fmt.Errorf("%w: mark %q", ErrUnknownType, jm.Type)
		}
		m, err := typ.Create(normalizeNumbers(jm.Attrs))
		if err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}

	if raw.Type == textNodeName {
		return s.Text(raw.Text, marks)
	}

	typ := s.Node(raw.Type)
	if typ == nil {
		return nil, fmt.Errorf("%w: node %q", ErrUnknownType, raw.Type)
	}
	content := make([]*Node, 0, len(raw.Content))
	for _, child := range raw.Content {
		node, err := s.fromJSON(child)
		if err != nil {
			return nil, err
		}
		content = append(content, node)
	}
	return typ.Create(normalizeNumbers(raw.Attrs), content, marks)
}

// normalizeNumbers turns whole float64 values back into ints so decoded
// attributes compare equal to parser-built ones.
func normalizeNumbers(attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return attrs
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			out[k] = int(f)
			continue
		}
		out[k] = v
	}
	return out
}
