package model

import (
	"reflect"
	"sort"
)

// Mark is an annotation on inline content.
type Mark struct {
	typ   *MarkType
	attrs map[string]any
}

func (m *Mark) Type() *MarkType       { return m.typ }
func (m *Mark) Attrs() map[string]any { return m.attrs }
func (m *Mark) Attr(name string) any  { return m.attrs[name] }
func (m *Mark) String() string        { return m.typ.name }

// Eq reports whether both marks have the same type and attributes.
func (m *Mark) Eq(other *Mark) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil {
		return false
	}
	return m.typ == other.typ && reflect.DeepEqual(m.attrs, other.attrs)
}

// AddToSet returns set with m added in rank order, replacing a mark of the
// same type.
func (m *Mark) AddToSet(set []*Mark) []*Mark {
	out := make([]*Mark, 0, len(set)+1)
	for _, existing := range set {
		if existing.typ != m.typ {
			out = append(out, existing)
		}
	}
	out = append(out, m)
	return normalizeMarks(out)
}

// RemoveFromSet returns set without marks equal to m.
func (m *Mark) RemoveFromSet(set []*Mark) []*Mark {
	out := make([]*Mark, 0, len(set))
	for _, existing := range set {
		if !existing.Eq(m) {
			out = append(out, existing)
		}
	}
	return out
}

// IsInSet reports whether set contains a mark equal to m.
func (m *Mark) IsInSet(set []*Mark) bool {
	for _, existing := range set {
		if existing.Eq(m) {
			return true
		}
	}
	return false
}

// SameSet reports whether a and b hold equal marks in the same order.
func SameSet(a, b []*Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

func normalizeMarks(marks []*Mark) []*Mark {
	if len(marks) == 0 {
		return nil
	}
	out := make([]*Mark, 0, len(marks))
	for _, m := range marks {
		if m != nil {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].typ.rank < out[j].typ.rank })
	return out
}
