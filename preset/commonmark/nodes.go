package commonmark

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-editor/pkg/capability"
	"github.com/goliatone/go-editor/pkg/markdown"
	"github.com/goliatone/go-editor/pkg/model"
)

// Container parses n into a node of type t whose children come from the
// AST children of n.
func Container(attrs func(s *markdown.ParserState, n ast.Node) map[string]any) func(*markdown.ParserState, ast.Node, *model.NodeType) error {
	return func(s *markdown.ParserState, n ast.Node, t *model.NodeType) error {
		var values map[string]any
		if attrs != nil {
			values = attrs(s, n)
		}
		s.OpenNode(t, values)
		if err := s.Next(n); err != nil {
			return err
		}
		_, err := s.CloseNode()
		return err
	}
}

func docNode() capability.Contribution {
	return capability.Node("doc",
		model.NodeSpec{Content: model.ContentBlock},
		&markdown.NodeParser{Match: markdown.MatchKind(ast.KindDocument), Run: Container(nil)},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			s.RenderContent(n)
		},
	)
}

func paragraphNode() capability.Contribution {
	return capability.Node("paragraph",
		model.NodeSpec{Content: model.ContentInline, Group: model.GroupBlock},
		&markdown.NodeParser{
			Match: markdown.MatchKind(ast.KindParagraph, ast.KindTextBlock),
			Run: func(s *markdown.ParserState, n ast.Node, t *model.NodeType) error {
				// goldmark leaves an empty paragraph behind where it lifted
				// link reference definitions out.
				if n.Kind() == ast.KindParagraph && n.Lines().Len() == 0 && !n.HasChildren() {
					return nil
				}
				return Container(nil)(s, n, t)
			},
		},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			s.RenderInline(n)
			s.CloseBlock(n)
		},
	)
}

var headingAttrsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"level": map[string]any{"type": "integer", "minimum": 1, "maximum": 6},
		"id":    map[string]any{"type": "string"},
	},
}

func headingNode() capability.Contribution {
	return capability.Node("heading",
		model.NodeSpec{
			Content: model.ContentInline,
			Group:   model.GroupBlock,
			Attrs: map[string]model.AttrSpec{
				"level": {Default: 1},
				"id":    {Default: ""},
			},
			AttrsSchema: headingAttrsSchema,
		},
		&markdown.NodeParser{
			Match: markdown.MatchKind(ast.KindHeading),
			Run: Container(func(s *markdown.ParserState, n ast.Node) map[string]any {
				return map[string]any{
					"level": n.(*ast.Heading).Level,
					"id":    headingID(s.TextOf(n)),
				}
			}),
		},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			level, _ := n.Attr("level").(int)
			s.Write(s.Repeat("#", level) + " ")
			s.RenderInline(n)
			s.CloseBlock(n)
		},
	)
}

func headingID(text string) string {
	id, err := slug.Normalize(text)
	if err != nil {
		return ""
	}
	return id
}

func blockquoteNode() capability.Contribution {
	return capability.Node("blockquote",
		model.NodeSpec{Content: model.ContentBlock, Group: model.GroupBlock},
		&markdown.NodeParser{Match: markdown.MatchKind(ast.KindBlockquote), Run: Container(nil)},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			s.WrapBlock("> ", "", n, func() { s.RenderContent(n) })
		},
	)
}

func codeBlockNode() capability.Contribution {
	return capability.Node("code_block",
		model.NodeSpec{
			Content: model.ContentText,
			Group:   model.GroupBlock,
			Attrs:   map[string]model.AttrSpec{"language": {Default: ""}},
		},
		&markdown.NodeParser{
			Match: markdown.MatchKind(ast.KindFencedCodeBlock, ast.KindCodeBlock),
			Run: func(s *markdown.ParserState, n ast.Node, t *model.NodeType) error {
				language := ""
				if fenced, ok := n.(*ast.FencedCodeBlock); ok {
					language = string(fenced.Language(s.Source()))
				}
				s.OpenNode(t, map[string]any{"language": language})
				if err := s.AddText(strings.TrimSuffix(s.Lines(n), "\n")); err != nil {
					return err
				}
				_, err := s.CloseNode()
				return err
			},
		},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			language, _ := n.Attr("language").(string)
			fence := "```"
			for strings.Contains(n.TextContent(), fence) {
				fence += "`"
			}
			s.Write(fence + language + "\n")
			s.Text(n.TextContent(), false)
			s.EnsureNewLine()
			s.Write(fence)
			s.CloseBlock(n)
		},
	)
}

func hrNode() capability.Contribution {
	return capability.Node("hr",
		model.NodeSpec{Content: model.ContentNone, Group: model.GroupBlock},
		&markdown.NodeParser{
			Match: markdown.MatchKind(ast.KindThematicBreak),
			Run: func(s *markdown.ParserState, _ ast.Node, t *model.NodeType) error {
				_, err := s.AddNode(t, nil, nil)
				return err
			},
		},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			s.Write("---")
			s.CloseBlock(n)
		},
	)
}

func imageNode() capability.Contribution {
	return capability.Node("image",
		model.NodeSpec{
			Content: model.ContentNone,
			Group:   model.GroupInline,
			Atom:    true,
			Attrs: map[string]model.AttrSpec{
				"src":   {Required: true},
				"alt":   {Default: ""},
				"title": {Default: ""},
			},
		},
		&markdown.NodeParser{
			Match: markdown.MatchKind(ast.KindImage),
			Run: func(s *markdown.ParserState, n ast.Node, t *model.NodeType) error {
				image := n.(*ast.Image)
				_, err := s.AddNode(t, map[string]any{
					"src":   string(image.Destination),
					"alt":   s.TextOf(n),
					"title": string(image.Title),
				}, nil)
				return err
			},
		},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			src, _ := n.Attr("src").(string)
			alt, _ := n.Attr("alt").(string)
			title, _ := n.Attr("title").(string)
			out := "![" + s.Escape(alt, false) + "](" + src
			if title != "" {
				out += " " + s.Quote(title)
			}
			s.Write(out + ")")
		},
	)
}

// hardbreak has no AST node of its own; the text rule emits it for text
// ending in a hard line break.
func hardbreakNode() capability.Contribution {
	return capability.Node("hardbreak",
		model.NodeSpec{Content: model.ContentNone, Group: model.GroupInline},
		nil,
		func(s *markdown.SerializerState, n, parent *model.Node, index int) {
			for i := index + 1; i < parent.ChildCount(); i++ {
				if parent.Child(i).Type() != n.Type() {
					s.Write("\\\n")
					return
				}
			}
		},
	)
}

func listAttrs(ordered bool) func(*markdown.ParserState, ast.Node) map[string]any {
	return func(_ *markdown.ParserState, n ast.Node) map[string]any {
		list := n.(*ast.List)
		attrs := map[string]any{"spread": !list.IsTight}
		if ordered {
			attrs["order"] = list.Start
		}
		return attrs
	}
}

func matchList(ordered bool) func(ast.Node) bool {
	return func(n ast.Node) bool {
		list, ok := n.(*ast.List)
		return ok && list.IsOrdered() == ordered
	}
}

func bulletListNode() capability.Contribution {
	return capability.Node("bullet_list",
		model.NodeSpec{
			Content: model.ContentBlock,
			Group:   model.GroupBlock,
			Attrs:   map[string]model.AttrSpec{"spread": {Default: false}},
		},
		&markdown.NodeParser{Match: matchList(false), Run: Container(listAttrs(false))},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			s.RenderList(n, "  ", func(int) string { return "* " })
		},
	)
}

func orderedListNode() capability.Contribution {
	return capability.Node("ordered_list",
		model.NodeSpec{
			Content: model.ContentBlock,
			Group:   model.GroupBlock,
			Attrs: map[string]model.AttrSpec{
				"order":  {Default: 1},
				"spread": {Default: false},
			},
		},
		&markdown.NodeParser{Match: matchList(true), Run: Container(listAttrs(true))},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			start, _ := n.Attr("order").(int)
			if start < 0 {
				start = 1
			}
			width := len(strconv.Itoa(start + n.ChildCount() - 1))
			space := s.Repeat(" ", width+2)
			s.RenderList(n, space, func(i int) string {
				number := strconv.Itoa(start + i)
				return s.Repeat(" ", width-len(number)) + number + ". "
			})
		},
	)
}

func listItemNode() capability.Contribution {
	return capability.Node("list_item",
		model.NodeSpec{Content: model.ContentBlock, Group: model.GroupBlock},
		&markdown.NodeParser{Match: markdown.MatchKind(ast.KindListItem), Run: Container(nil)},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			s.RenderContent(n)
		},
	)
}

func htmlNode() capability.Contribution {
	return capability.Node("html",
		model.NodeSpec{
			Content: model.ContentNone,
			Group:   model.GroupInline,
			Atom:    true,
			Attrs:   map[string]model.AttrSpec{"value": {Default: ""}},
		},
		&markdown.NodeParser{
			Match: markdown.MatchKind(ast.KindHTMLBlock, ast.KindRawHTML),
			Run: func(s *markdown.ParserState, n ast.Node, t *model.NodeType) error {
				if raw, ok := n.(*ast.RawHTML); ok {
					_, err := s.AddNode(t, map[string]any{"value": segmentsText(s, raw)}, nil)
					return err
				}
				value := s.Lines(n)
				if block, ok := n.(*ast.HTMLBlock); ok && block.HasClosure() {
					value += string(block.ClosureLine.Value(s.Source()))
				}
				attrs := map[string]any{"value": strings.TrimRight(value, "\n")}
				paragraph := s.Schema().Node("paragraph")
				if paragraph == nil {
					_, err := s.AddNode(t, attrs, nil)
					return err
				}
				s.OpenNode(paragraph, nil)
				if _, err := s.AddNode(t, attrs, nil); err != nil {
					return err
				}
				_, err := s.CloseNode()
				return err
			},
		},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			value, _ := n.Attr("value").(string)
			s.Text(value, false)
		},
	)
}

func segmentsText(s *markdown.ParserState, raw *ast.RawHTML) string {
	var b strings.Builder
	for i := 0; i < raw.Segments.Len(); i++ {
		segment := raw.Segments.At(i)
		b.Write(segment.Value(s.Source()))
	}
	return b.String()
}

func textNode() capability.Contribution {
	return capability.Node("text",
		model.NodeSpec{},
		&markdown.NodeParser{
			Match: markdown.MatchKind(ast.KindText, ast.KindString),
			Run: func(s *markdown.ParserState, n ast.Node, _ *model.NodeType) error {
				switch v := n.(type) {
				case *ast.String:
					return s.AddText(string(v.Value))
				case *ast.Text:
					value := s.InlineText(v)
					if v.SoftLineBreak() && !v.HardLineBreak() {
						value += "\n"
					}
					if err := s.AddText(value); err != nil {
						return err
					}
					if v.HardLineBreak() {
						if hardbreak := s.Schema().Node("hardbreak"); hardbreak != nil {
							_, err := s.AddNode(hardbreak, nil, nil)
							return err
						}
						return s.AddText("\n")
					}
				}
				return nil
			},
		},
		func(s *markdown.SerializerState, n, _ *model.Node, _ int) {
			s.Text(n.Text(), true)
		},
	)
}
