package commonmark_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-editor/core"
	"github.com/goliatone/go-editor/internal/loader"
	"github.com/goliatone/go-editor/pkg/markdown"
	"github.com/goliatone/go-editor/pkg/model"
	"github.com/goliatone/go-editor/pkg/slot"
	"github.com/goliatone/go-editor/pkg/timing"
	"github.com/goliatone/go-editor/preset/commonmark"
)

const (
	headingFixture = "# Heading1\n\n## Heading2\n"
	quoteFixture   = "> Blockquote.\n> First line.\n>\n> Next line.\n"
	bulletFixture  = `
* list item 1
  * sub list item 1
  * sub list item 2
* list item 2

  list content for item 2
* list item 3
`
	orderedFixture = `
1. list item 1
    1. sub list item 1
    2. sub list item 2
2. list item 2

    list content for item 2
3. list item 3
`
)

type session struct {
	parse     markdown.Parser
	serialize markdown.Serializer
	schema    *model.Schema
}

func bootstrap(t *testing.T) session {
	t.Helper()
	container := slot.NewContainer()
	gates := timing.NewGates(nil)
	plugins := append(core.Plugins(), commonmark.Plugins()...)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loader.New(container, gates, nil, plugins...).Run(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return session{
		parse:     slot.Get(container, core.ParserSlot),
		serialize: slot.Get(container, core.SerializerSlot),
		schema:    slot.Get(container, core.SchemaSlot),
	}
}

func TestSchemaHasEveryContribution(t *testing.T) {
	s := bootstrap(t)
	for _, c := range commonmark.Nodes() {
		if s.schema.Node(c.ID) == nil {
			t.Fatalf("missing node type %q", c.ID)
		}
	}
	marks := s.schema.MarkNames()
	want := []string{"em", "strong", "link", "code_inline"}
	if len(marks) != len(want) {
		t.Fatalf("unexpected marks %v", marks)
	}
	for i := range want {
		if marks[i] != want[i] {
			t.Fatalf("mark rank %d: got %q want %q", i, marks[i], want[i])
		}
	}
}

func TestHeadingFixture(t *testing.T) {
	s := bootstrap(t)
	doc, err := s.parse(headingFixture)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.ChildCount() != 2 {
		t.Fatalf("expected two children, got %s", doc)
	}
	for i, level := range []int{1, 2} {
		child := doc.Child(i)
		if child.Type().Name() != "heading" {
			t.Fatalf("child %d is %s", i, child.Type().Name())
		}
		if got := child.Attr("level"); got != level {
			t.Fatalf("child %d level %v, want %d", i, got, level)
		}
	}
	if id := doc.Child(0).Attr("id"); id != "heading1" {
		t.Fatalf("expected slug id heading1, got %v", id)
	}
}

func TestBulletListKeepsLooseContent(t *testing.T) {
	s := bootstrap(t)
	doc, err := s.parse(bulletFixture)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	list := doc.FirstChild()
	if list.Type().Name() != "bullet_list" || list.ChildCount() != 3 {
		t.Fatalf("unexpected list %s", doc)
	}
	if spread := list.Attr("spread"); spread != true {
		t.Fatalf("expected loose list, got spread=%v", spread)
	}

	first := list.Child(0)
	if first.ChildCount() != 2 || first.Child(0).Type().Name() != "paragraph" || first.Child(1).Type().Name() != "bullet_list" {
		t.Fatalf("first item should hold a paragraph and a nested list: %s", first)
	}
	if first.Child(1).ChildCount() != 2 {
		t.Fatalf("nested list should have two items: %s", first.Child(1))
	}

	second := list.Child(1)
	if second.ChildCount() != 2 {
		t.Fatalf("second item should hold two paragraphs: %s", second)
	}
	if second.Child(1).TextContent() != "list content for item 2" {
		t.Fatalf("unexpected loose content %q", second.Child(1).TextContent())
	}
}

func TestOrderedListAttrs(t *testing.T) {
	s := bootstrap(t)
	doc, err := s.parse("3. three\n4. four\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	list := doc.FirstChild()
	if list.Type().Name() != "ordered_list" || list.Attr("order") != 3 || list.Attr("spread") != false {
		t.Fatalf("unexpected ordered list %s %v", list, list.Attrs())
	}
	out, err := s.serialize(doc)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if out != "3. three\n4. four\n" {
		t.Fatalf("unexpected markdown %q", out)
	}
}

func TestRoundTripExact(t *testing.T) {
	s := bootstrap(t)
	cases := map[string]string{
		"paragraph": "The lunatic is on the grass\n",
		"heading":   headingFixture,
		"quote":     quoteFixture,
		"marks":     "Some **bold** and *em* with `code` and [a link](https://example.com \"Title\").\n",
		"code":      "```go\nfmt.Println(\"hi\")\n```\n",
		"hr":        "above\n\n---\n\nbelow\n",
		"image":     "![alt text](/img.png \"Pic\")\n",
		"hardbreak": "line one\\\nline two\n",
		"escapes":   "not \\*emphasis\\* here\n",
		"code with backtick": "with `` a`b `` inside\n",
		"lone backtick":      "x `` ` `` y\n",
		"backtick run":       "run ``` a``b ``` end\n",
	}
	for name, source := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := s.parse(source)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			out, err := s.serialize(doc)
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}
			if out != source {
				t.Fatalf("round trip mismatch\n got: %q\nwant: %q\n doc: %s", out, source, doc)
			}
		})
	}
}

func TestListsReparseToEqualDocuments(t *testing.T) {
	s := bootstrap(t)
	for name, source := range map[string]string{
		"bullet":     bulletFixture,
		"ordered":    orderedFixture,
		"reference":  "[x]: http://a\n\n[y][x]\n",
		"code spans": "`` `a ``, ```` b```c ```` and `plain`\n",
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := s.parse(source)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			out, err := s.serialize(doc)
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}
			again, err := s.parse(out)
			if err != nil {
				t.Fatalf("reparse: %v", err)
			}
			if !doc.Equal(again) {
				t.Fatalf("documents differ\nfirst:  %s\nsecond: %s\nmarkdown: %q", doc, again, out)
			}
		})
	}
}

func TestReferenceDefinitionLeavesNoEmptyParagraph(t *testing.T) {
	s := bootstrap(t)
	doc, err := s.parse("[x]: http://a\n\n[y][x]\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.ChildCount() != 1 || doc.FirstChild().ChildCount() == 0 {
		t.Fatalf("expected one non-empty paragraph, got %s", doc)
	}
	out, err := s.serialize(doc)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if out != "[y](http://a)\n" {
		t.Fatalf("unexpected markdown %q", out)
	}
}

func TestCodeSpanWithBackticks(t *testing.T) {
	s := bootstrap(t)
	doc, err := s.parse("`` a`b ``\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	code := doc.FirstChild().FirstChild()
	if code == nil || code.Text() != "a`b" || len(code.Marks()) != 1 || code.Marks()[0].Type().Name() != "code_inline" {
		t.Fatalf("expected code_inline(\"a`b\"), got %s", doc)
	}
}

func TestInlineStructure(t *testing.T) {
	s := bootstrap(t)
	doc, err := s.parse("a **b** `c` <span>d</span>\nline one\\\nline two")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	para := doc.FirstChild()
	names := []string{}
	for _, child := range para.Content() {
		names = append(names, child.Type().Name())
	}
	var hasCode, hasHTML, hasBreak bool
	for _, child := range para.Content() {
		switch {
		case child.Type().Name() == "html":
			hasHTML = true
		case child.Type().Name() == "hardbreak":
			hasBreak = true
		case child.IsText() && len(child.Marks()) == 1 && child.Marks()[0].Type().Name() == "code_inline":
			hasCode = child.Text() == "c"
		}
	}
	if !hasCode || !hasHTML || !hasBreak {
		t.Fatalf("unexpected inline content %v in %s", names, doc)
	}
}

func TestAutoLinkBecomesLinkMark(t *testing.T) {
	s := bootstrap(t)
	doc, err := s.parse("<https://example.com>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	text := doc.FirstChild().FirstChild()
	if !text.IsText() || len(text.Marks()) != 1 {
		t.Fatalf("expected a linked text node, got %s", doc)
	}
	if href := text.Marks()[0].Attr("href"); href != "https://example.com" {
		t.Fatalf("unexpected href %v", href)
	}
}
