package markdown

import (
	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-editor/pkg/model"
)

// NodeParser turns matching AST nodes into document nodes of type t.
type NodeParser struct {
	Match func(n ast.Node) bool
	Run   func(s *ParserState, n ast.Node, t *model.NodeType) error
}

// MarkParser turns matching AST nodes into marks of type t on their content.
type MarkParser struct {
	Match func(n ast.Node) bool
	Run   func(s *ParserState, n ast.Node, t *model.MarkType) error
}

// ParserEntry binds a schema type name to exactly one of Node or Mark.
type ParserEntry struct {
	ID   string
	Node *NodeParser
	Mark *MarkParser
}

// ParserSpec is the ordered rule list. The first matching entry wins.
type ParserSpec []ParserEntry

// NodeSerializer writes n, a child of parent at index, to s. Failures are
// recorded on s and surface from Serialize.
type NodeSerializer func(s *SerializerState, n, parent *model.Node, index int)

// MarkDelimiter returns the string written when a mark opens or closes.
// parent is the inline container; index is the child being opened, or the
// child after the last marked one when closing.
type MarkDelimiter func(s *SerializerState, m *model.Mark, parent *model.Node, index int) string

// MarkSerializer produces the delimiters around marked inline content.
// Code marks disable escaping of the text they wrap.
type MarkSerializer struct {
	Open  MarkDelimiter
	Close MarkDelimiter
	Code  bool
}

// SerializerSpec maps schema type names to writers.
type SerializerSpec struct {
	Nodes map[string]NodeSerializer
	Marks map[string]MarkSerializer
}

// MatchKind returns a matcher for AST nodes of the given kind.
func MatchKind(kinds ...ast.NodeKind) func(ast.Node) bool {
	return func(n ast.Node) bool {
		for _, kind := range kinds {
			if n.Kind() == kind {
				return true
			}
		}
		return false
	}
}

// Delimiters is a MarkSerializer using the same fixed strings every time.
func Delimiters(open, close string) MarkSerializer {
	return MarkSerializer{
		Open:  func(*SerializerState, *model.Mark, *model.Node, int) string { return open },
		Close: func(*SerializerState, *model.Mark, *model.Node, int) string { return close },
	}
}
