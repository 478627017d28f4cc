package commonmark

import (
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-editor/pkg/capability"
	"github.com/goliatone/go-editor/pkg/markdown"
	"github.com/goliatone/go-editor/pkg/model"
)

// Mark ranks follow contribution priority: em, strong, link, code_inline.
const (
	emPriority = 4 - iota
	strongPriority
	linkPriority
	codePriority
)

// Wrap parses n by activating a mark of type t around n's children.
func Wrap(attrs func(s *markdown.ParserState, n ast.Node) map[string]any) func(*markdown.ParserState, ast.Node, *model.MarkType) error {
	return func(s *markdown.ParserState, n ast.Node, t *model.MarkType) error {
		var values map[string]any
		if attrs != nil {
			values = attrs(s, n)
		}
		mark, err := t.Create(values)
		if err != nil {
			return err
		}
		s.OpenMark(mark)
		if err := s.Next(n); err != nil {
			return err
		}
		s.CloseMark(t)
		return nil
	}
}

func matchEmphasis(level int) func(ast.Node) bool {
	return func(n ast.Node) bool {
		em, ok := n.(*ast.Emphasis)
		return ok && em.Level == level
	}
}

func emMark() capability.Contribution {
	return capability.Mark("em",
		model.MarkSpec{},
		&markdown.MarkParser{Match: matchEmphasis(1), Run: Wrap(nil)},
		markdown.Delimiters("*", "*"),
	).WithPriority(emPriority)
}

func strongMark() capability.Contribution {
	return capability.Mark("strong",
		model.MarkSpec{},
		&markdown.MarkParser{Match: matchEmphasis(2), Run: Wrap(nil)},
		markdown.Delimiters("**", "**"),
	).WithPriority(strongPriority)
}

func codeInlineMark() capability.Contribution {
	return capability.Mark("code_inline",
		model.MarkSpec{},
		&markdown.MarkParser{Match: markdown.MatchKind(ast.KindCodeSpan), Run: Wrap(nil)},
		markdown.MarkSerializer{
			Open: func(_ *markdown.SerializerState, m *model.Mark, parent *model.Node, index int) string {
				return codeFence(markedRun(parent, m, index, 1), false)
			},
			Close: func(_ *markdown.SerializerState, m *model.Mark, parent *model.Node, index int) string {
				return codeFence(markedRun(parent, m, index-1, -1), true)
			},
			Code: true,
		},
	).WithPriority(codePriority)
}

// markedRun collects the text of the siblings carrying m, walking from
// index in direction step.
func markedRun(parent *model.Node, m *model.Mark, index, step int) string {
	var parts []string
	for child := parent.Child(index); child != nil && m.IsInSet(child.Marks()); child = parent.Child(index) {
		if child.IsText() {
			if step < 0 {
				parts = append([]string{child.Text()}, parts...)
			} else {
				parts = append(parts, child.Text())
			}
		}
		index += step
	}
	return strings.Join(parts, "")
}

// codeFence is a backtick run one longer than the longest run inside text,
// padded with a space on the inner side when text contains backticks.
func codeFence(text string, closing bool) string {
	longest, run := 0, 0
	for _, r := range text {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	fence := strings.Repeat("`", longest+1)
	switch {
	case longest == 0:
		return fence
	case closing:
		return " " + fence
	default:
		return fence + " "
	}
}
