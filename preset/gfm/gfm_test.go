package gfm_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-editor/core"
	"github.com/goliatone/go-editor/internal/loader"
	"github.com/goliatone/go-editor/pkg/markdown"
	"github.com/goliatone/go-editor/pkg/model"
	"github.com/goliatone/go-editor/pkg/plugin"
	"github.com/goliatone/go-editor/pkg/slot"
	"github.com/goliatone/go-editor/pkg/timing"
	"github.com/goliatone/go-editor/preset/commonmark"
	"github.com/goliatone/go-editor/preset/gfm"
)

func bootstrap(t *testing.T) (markdown.Parser, markdown.Serializer) {
	t.Helper()
	container := slot.NewContainer()
	plugins := []plugin.Plugin{}
	plugins = append(plugins, core.Plugins()...)
	plugins = append(plugins, commonmark.Plugins()...)
	plugins = append(plugins, gfm.Plugins()...)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loader.New(container, timing.NewGates(nil), nil, plugins...).Run(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return slot.Get(container, core.ParserSlot), slot.Get(container, core.SerializerSlot)
}

func TestStrikethrough(t *testing.T) {
	parse, serialize := bootstrap(t)

	doc, err := parse("keep ~~drop~~ keep\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	struck := doc.FirstChild().Child(1)
	if len(struck.Marks()) != 1 || struck.Marks()[0].Type().Name() != "strike_through" {
		t.Fatalf("expected strike_through mark, got %s", doc)
	}

	out, err := serialize(doc)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if out != "keep ~~drop~~ keep\n" {
		t.Fatalf("unexpected markdown %q", out)
	}
}

func TestTaskListItems(t *testing.T) {
	parse, serialize := bootstrap(t)

	source := "* [x] done\n* [ ] todo\n* plain\n"
	doc, err := parse(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	list := doc.FirstChild()
	if list.ChildCount() != 3 {
		t.Fatalf("unexpected list %s", doc)
	}
	done, todo, plain := list.Child(0), list.Child(1), list.Child(2)
	if done.Type().Name() != "task_list_item" || done.Attr("checked") != true {
		t.Fatalf("expected checked task item, got %s %v", done, done.Attrs())
	}
	if todo.Type().Name() != "task_list_item" || todo.Attr("checked") != false {
		t.Fatalf("expected unchecked task item, got %s %v", todo, todo.Attrs())
	}
	if plain.Type().Name() != "list_item" {
		t.Fatalf("expected plain list item, got %s", plain)
	}
	if done.TextContent() != "done" {
		t.Fatalf("checkbox text leaked into content: %q", done.TextContent())
	}

	out, err := serialize(doc)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if out != source {
		t.Fatalf("round trip mismatch\n got: %q\nwant: %q", out, source)
	}
}

func TestTables(t *testing.T) {
	parse, serialize := bootstrap(t)

	source := "| a | b |\n| --- | :-: |\n| 1 | 2 |\n"
	doc, err := parse(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	table := doc.FirstChild()
	if table.Type().Name() != "table" || table.ChildCount() != 2 {
		t.Fatalf("unexpected table %s", doc)
	}
	header := table.Child(0)
	if header.Type().Name() != "table_header_row" || header.Child(1).Attr("alignment") != "center" {
		t.Fatalf("unexpected header %s %v", header, header.Child(1).Attrs())
	}
	if table.Child(1).Child(0).Type().Name() != "table_cell" {
		t.Fatalf("expected body cells, got %s", table.Child(1))
	}

	out, err := serialize(doc)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if out != source {
		t.Fatalf("round trip mismatch\n got: %q\nwant: %q", out, source)
	}
}

func TestLinkifyProducesLinks(t *testing.T) {
	parse, _ := bootstrap(t)

	doc, err := parse("visit https://example.com today")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var linked bool
	doc.Descendants(func(n *model.Node) bool {
		for _, m := range n.Marks() {
			if m.Type().Name() == "link" {
				linked = true
			}
		}
		return true
	})
	if !linked {
		t.Fatalf("expected linkified text, got %s", doc)
	}
}
