package gfm

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/goliatone/go-editor/pkg/capability"
	"github.com/goliatone/go-editor/pkg/markdown"
	"github.com/goliatone/go-editor/pkg/model"
	"github.com/goliatone/go-editor/preset/commonmark"
)

func strikeThroughMark() capability.Contribution {
	return capability.Mark("strike_through",
		model.MarkSpec{},
		&markdown.MarkParser{Match: markdown.MatchKind(east.KindStrikethrough), Run: commonmark.Wrap(nil)},
		markdown.Delimiters("~~", "~~"),
	)
}

func checkBox(n ast.Node) *east.TaskCheckBox {
	if n.Kind() != ast.KindListItem {
		return nil
	}
	block := n.FirstChild()
	if block == nil {
		return nil
	}
	box, _ := block.FirstChild().(*east.TaskCheckBox)
	return box
}

func taskListItemNode() capability.Contribution {
	return capability.Node("task_list_item",
		model.NodeSpec{
			Content: model.ContentBlock,
			Group:   model.GroupBlock,
			Attrs:   map[string]model.AttrSpec{"checked": {Default: false}},
		},
		&markdown.NodeParser{
			Match: func(n ast.Node) bool { return checkBox(n) != nil },
			Run: func(s *markdown.ParserState, n ast.Node, t *model.NodeType) error {
				box := checkBox(n)
				s.Ignore(box)
				s.TrimNextText()
				s.OpenNode(t, map[string]any{"checked": box.IsChecked})
				if err := s.Next(n); err != nil {
					return err
				}
				_, err := s.CloseNode()
				return err
			},
		},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			if checked, _ := n.Attr("checked").(bool); checked {
				s.Write("[x] ")
			} else {
				s.Write("[ ] ")
			}
			s.RenderContent(n)
		},
	)
}

var alignmentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"alignment": map[string]any{"enum": []any{"none", "left", "center", "right"}},
	},
}

func tableNode() capability.Contribution {
	return capability.Node("table",
		model.NodeSpec{Content: model.ContentBlock, Group: model.GroupBlock},
		&markdown.NodeParser{Match: markdown.MatchKind(east.KindTable), Run: commonmark.Container(nil)},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			for i, row := range n.Content() {
				s.Render(row, n, i)
			}
			s.CloseBlock(n)
		},
	)
}

func tableRowNode(id string, header bool) capability.Contribution {
	kind := east.KindTableRow
	if header {
		kind = east.KindTableHeader
	}
	return capability.Node(id,
		model.NodeSpec{Content: model.ContentBlock, Group: model.GroupBlock},
		&markdown.NodeParser{Match: markdown.MatchKind(kind), Run: commonmark.Container(nil)},
		func(s *markdown.SerializerState, n, _ *model.Node, index int) {
			if index > 0 {
				s.EnsureNewLine()
			}
			s.Write("|")
			for _, cell := range n.Content() {
				s.Write(" ")
				s.RenderInline(cell)
				s.Write(" |")
			}
			if !header {
				return
			}
			s.Write("\n")
			s.Write("|")
			for _, cell := range n.Content() {
				alignment, _ := cell.Attr("alignment").(string)
				s.Write(" " + delimiterCell(alignment) + " |")
			}
		},
	)
}

func tableCellNode(id string, header bool) capability.Contribution {
	return capability.Node(id,
		model.NodeSpec{
			Content:     model.ContentInline,
			Group:       model.GroupBlock,
			Attrs:       map[string]model.AttrSpec{"alignment": {Default: "none"}},
			AttrsSchema: alignmentSchema,
		},
		&markdown.NodeParser{
			Match: func(n ast.Node) bool {
				if n.Kind() != east.KindTableCell {
					return false
				}
				parent := n.Parent()
				inHeader := parent != nil && parent.Kind() == east.KindTableHeader
				return inHeader == header
			},
			Run: commonmark.Container(func(_ *markdown.ParserState, n ast.Node) map[string]any {
				return map[string]any{"alignment": strings.ToLower(n.(*east.TableCell).Alignment.String())}
			}),
		},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			s.RenderInline(n)
		},
	)
}

func delimiterCell(alignment string) string {
	switch alignment {
	case "left":
		return ":--"
	case "center":
		return ":-:"
	case "right":
		return "--:"
	default:
		return "---"
	}
}
