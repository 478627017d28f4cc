// Package capability merges node and mark contributions from independent
// plugins into one schema, parser, and serializer description.
package capability

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-editor/pkg/markdown"
	"github.com/goliatone/go-editor/pkg/model"
)

// Kind tags a contribution as a node type or a mark type.
type Kind int

const (
	KindNode Kind = iota + 1
	KindMark
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindMark:
		return "mark"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrDuplicateID is returned when two contributions share an id.
var ErrDuplicateID = errors.New("capability: duplicate id")

// ErrInvalidContribution is returned for contributions without an id or with
// an unknown kind.
var ErrInvalidContribution = errors.New("capability: invalid contribution")

const capabilityConfigInvalidCode = "CAPABILITY_CONFIG_INVALID"

// Contribution is one schema item with its markdown rules. Exactly the
// fields matching Kind are used.
type Contribution struct {
	ID       string
	Kind     Kind
	Priority int

	NodeSpec       model.NodeSpec
	NodeParser     *markdown.NodeParser
	NodeSerializer markdown.NodeSerializer

	MarkSpec       model.MarkSpec
	MarkParser     *markdown.MarkParser
	MarkSerializer markdown.MarkSerializer
}

// Node builds a node contribution.
func Node(id string, spec model.NodeSpec, parser *markdown.NodeParser, serializer markdown.NodeSerializer) Contribution {
	return Contribution{ID: id, Kind: KindNode, NodeSpec: spec, NodeParser: parser, NodeSerializer: serializer}
}

// Mark builds a mark contribution.
func Mark(id string, spec model.MarkSpec, parser *markdown.MarkParser, serializer markdown.MarkSerializer) Contribution {
	return Contribution{ID: id, Kind: KindMark, MarkSpec: spec, MarkParser: parser, MarkSerializer: serializer}
}

// WithPriority returns a copy of c with the given priority. Higher priority
// parser rules are tried first.
func (c Contribution) WithPriority(priority int) Contribution {
	c.Priority = priority
	return c
}

// Set is an aggregated, ordered view of contributions.
type Set struct {
	order []Contribution
	byID  map[string]int
}

// Aggregate merges contributions ordered by priority, highest first, then by
// input order. A duplicate id rejects the whole input.
func Aggregate(contribs []Contribution) (*Set, error) {
	byID := make(map[string]int, len(contribs))
	for i, c := range contribs {
		id := c.ID
		if strings.TrimSpace(id) == "" {
			return nil, wrapConfigError(fmt.Errorf("%w: contribution %d has no id", ErrInvalidContribution, i), c)
		}
		if strings.TrimSpace(id) != id {
			return nil, wrapConfigError(fmt.Errorf("%w: id %q has surrounding whitespace", ErrInvalidContribution, id), c)
		}
		if c.Kind != KindNode && c.Kind != KindMark {
			return nil, wrapConfigError(fmt.Errorf("%w: %q has %s", ErrInvalidContribution, id, c.Kind), c)
		}
		if _, dup := byID[id]; dup {
			return nil, wrapConfigError(fmt.Errorf("%w: %q", ErrDuplicateID, id), c)
		}
		byID[id] = i
	}

	order := make([]Contribution, len(contribs))
	copy(order, contribs)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Priority > order[j].Priority
	})

	set := &Set{order: order, byID: make(map[string]int, len(order))}
	for i, c := range order {
		set.byID[c.ID] = i
	}
	return set, nil
}

// Get returns the contribution with id.
func (s *Set) Get(id string) (Contribution, bool) {
	if s == nil {
		return Contribution{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Contribution{}, false
	}
	return s.order[i], true
}

// Len reports the number of contributions.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IDs lists contribution ids in aggregation order.
func (s *Set) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, len(s.order))
	for i, c := range s.order {
		ids[i] = c.ID
	}
	return ids
}

// Contributions returns a copy of the ordered contributions.
func (s *Set) Contributions() []Contribution {
	if s == nil {
		return nil
	}
	return append([]Contribution(nil), s.order...)
}

// NodeSpecs lists node specs in aggregation order.
func (s *Set) NodeSpecs() []model.NamedNode {
	var out []model.NamedNode
	s.each(func(c Contribution) {
		switch c.Kind {
		case KindNode:
			out = append(out, model.NamedNode{Name: c.ID, Spec: c.NodeSpec})
		case KindMark:
		}
	})
	return out
}

// MarkSpecs lists mark specs in aggregation order, which becomes mark rank.
func (s *Set) MarkSpecs() []model.NamedMark {
	var out []model.NamedMark
	s.each(func(c Contribution) {
		switch c.Kind {
		case KindNode:
		case KindMark:
			out = append(out, model.NamedMark{Name: c.ID, Spec: c.MarkSpec})
		}
	})
	return out
}

// SchemaSpec assembles a schema spec rooted at topNode.
func (s *Set) SchemaSpec(topNode string) model.SchemaSpec {
	return model.SchemaSpec{TopNode: topNode, Nodes: s.NodeSpecs(), Marks: s.MarkSpecs()}
}

// ParserSpec lists parser rules in aggregation order. Contributions without
// a parser rule are skipped.
func (s *Set) ParserSpec() markdown.ParserSpec {
	var out markdown.ParserSpec
	s.each(func(c Contribution) {
		switch c.Kind {
		case KindNode:
			if c.NodeParser != nil {
				out = append(out, markdown.ParserEntry{ID: c.ID, Node: c.NodeParser})
			}
		case KindMark:
			if c.MarkParser != nil {
				out = append(out, markdown.ParserEntry{ID: c.ID, Mark: c.MarkParser})
			}
		}
	})
	return out
}

// SerializerSpec collects serializer rules by type name.
func (s *Set) SerializerSpec() markdown.SerializerSpec {
	spec := markdown.SerializerSpec{
		Nodes: map[string]markdown.NodeSerializer{},
		Marks: map[string]markdown.MarkSerializer{},
	}
	s.each(func(c Contribution) {
		switch c.Kind {
		case KindNode:
			if c.NodeSerializer != nil {
				spec.Nodes[c.ID] = c.NodeSerializer
			}
		case KindMark:
			if c.MarkSerializer.Open != nil || c.MarkSerializer.Close != nil {
				spec.Marks[c.ID] = c.MarkSerializer
			}
		}
	})
	return spec
}

func (s *Set) each(fn func(Contribution)) {
	if s == nil {
		return
	}
	for _, c := range s.order {
		fn(c)
	}
}

func wrapConfigError(err error, c Contribution) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "capability configuration invalid").
		WithTextCode(capabilityConfigInvalidCode).
		WithMetadata(map[string]any{
			"id":   c.ID,
			"kind": c.Kind.String(),
		})
}
