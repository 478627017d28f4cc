package editor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	editor "github.com/goliatone/go-editor"
	"github.com/goliatone/go-editor/core"
	"github.com/goliatone/go-editor/pkg/model"
	"github.com/goliatone/go-editor/pkg/plugin"
	"github.com/goliatone/go-editor/pkg/slot"
	"github.com/goliatone/go-editor/pkg/timing"
)

func newEditor(t *testing.T, cfg editor.Config, opts ...editor.Option) *editor.Editor {
	t.Helper()
	e, err := editor.New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestEditorParsesHeadings(t *testing.T) {
	ctx := testContext(t)
	e := newEditor(t, editor.DefaultConfig())
	if err := e.Create(ctx); err != nil {
		t.Fatalf("Create: %v", err)
	}

	doc, err := e.Parse(ctx, "# Heading1\n\n## Heading2\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.ChildCount() != 2 {
		t.Fatalf("expected two headings, got %s", doc)
	}
	for i, level := range []int{1, 2} {
		if doc.Child(i).Type().Name() != "heading" || doc.Child(i).Attr("level") != level {
			t.Fatalf("child %d: %s %v", i, doc.Child(i), doc.Child(i).Attrs())
		}
	}

	reached := e.Reached()
	if len(reached) != len(timing.Stages()) {
		t.Fatalf("expected every stage reached, got %v", reached)
	}
}

func TestEditorDocumentFromDefaultValue(t *testing.T) {
	ctx := testContext(t)
	e := newEditor(t, editor.DefaultConfig(), editor.WithDefaultValue("---\ntitle: Hello\n---\n# Body\n\ntext\n"))
	if err := e.Create(ctx); err != nil {
		t.Fatalf("Create: %v", err)
	}

	doc, err := e.Document(ctx)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if doc.ChildCount() != 2 || doc.FirstChild().Type().Name() != "heading" {
		t.Fatalf("unexpected document %s", doc)
	}
	meta, err := e.FrontMatter(ctx)
	if err != nil {
		t.Fatalf("FrontMatter: %v", err)
	}
	if meta["title"] != "Hello" {
		t.Fatalf("unexpected front matter %#v", meta)
	}
}

func TestEditorEmptyDefaultValueGivesEmptyDocument(t *testing.T) {
	ctx := testContext(t)
	e := newEditor(t, editor.DefaultConfig())
	if err := e.Create(ctx); err != nil {
		t.Fatalf("Create: %v", err)
	}
	doc, err := e.Document(ctx)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if doc.Type().Name() != "doc" || doc.ChildCount() != 0 {
		t.Fatalf("expected empty doc, got %s", doc)
	}
}

func TestEditorConfigCallbacks(t *testing.T) {
	ctx := testContext(t)
	e := newEditor(t, editor.DefaultConfig())
	if err := e.Config(func(c *slot.Container) error {
		slot.Set(c, core.DefaultValueSlot, "# From config")
		return nil
	}); err != nil {
		t.Fatalf("Config: %v", err)
	}
	if err := e.Create(ctx); err != nil {
		t.Fatalf("Create: %v", err)
	}

	doc, err := e.Document(ctx)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if doc.TextContent() != "From config" {
		t.Fatalf("unexpected document %s", doc)
	}
}

func TestEditorCreateOnce(t *testing.T) {
	ctx := testContext(t)
	e := newEditor(t, editor.DefaultConfig())
	if err := e.Create(ctx); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := e.Create(ctx); !errors.Is(err, editor.ErrAlreadyCreated) {
		t.Fatalf("expected ErrAlreadyCreated, got %v", err)
	}
	if err := e.Use(plugin.Plugin{}); !errors.Is(err, editor.ErrAlreadyCreated) {
		t.Fatalf("expected ErrAlreadyCreated from Use, got %v", err)
	}
	if err := e.Config(nil); !errors.Is(err, editor.ErrAlreadyCreated) {
		t.Fatalf("expected ErrAlreadyCreated from Config, got %v", err)
	}
}

func TestEditorParseWaitsForParserReady(t *testing.T) {
	ctx := testContext(t)
	release := make(chan struct{})
	hold := plugin.Func("hold-parser", timing.SchemaReady, timing.ParserReady,
		func(ctx context.Context, _ *plugin.Ctx) (slot.Patch, error) {
			select {
			case <-release:
				return nil, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		})
	e := newEditor(t, editor.DefaultConfig(), editor.WithPlugins(hold))

	created := make(chan error, 1)
	go func() { created <- e.Create(ctx) }()

	parsed := make(chan *model.Node, 1)
	go func() {
		doc, err := e.Parse(ctx, "plain")
		if err != nil {
			t.Errorf("Parse: %v", err)
		}
		parsed <- doc
	}()

	select {
	case <-parsed:
		t.Fatalf("Parse returned before ParserReady")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case doc := <-parsed:
		if doc == nil || doc.TextContent() != "plain" {
			t.Fatalf("unexpected document %v", doc)
		}
	case <-ctx.Done():
		t.Fatalf("Parse never returned")
	}
	if err := <-created; err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestEditorWaitersRespectContext(t *testing.T) {
	e := newEditor(t, editor.DefaultConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := e.Parse(ctx, "never"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded before Create, got %v", err)
	}
}

func TestEditorFailedBootstrapReleasesWaiters(t *testing.T) {
	ctx := testContext(t)
	boom := errors.New("boom")
	failing := plugin.Func("failing", timing.ConfigReady, timing.InitReady,
		func(context.Context, *plugin.Ctx) (slot.Patch, error) { return nil, boom })
	e := newEditor(t, editor.DefaultConfig(), editor.WithPlugins(failing))

	waited := make(chan error, 1)
	go func() {
		_, err := e.Parse(ctx, "text")
		waited <- err
	}()

	if err := e.Create(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected boom from Create, got %v", err)
	}
	if err := <-waited; !errors.Is(err, editor.ErrBootstrapFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected ErrBootstrapFailed wrapping boom, got %v", err)
	}
	if _, err := e.Document(ctx); !errors.Is(err, editor.ErrBootstrapFailed) {
		t.Fatalf("expected ErrBootstrapFailed from Document, got %v", err)
	}
}

func TestEditorBootstrapTimeout(t *testing.T) {
	cfg := editor.DefaultConfig()
	cfg.Bootstrap.Timeout = 30 * time.Millisecond
	stuck := plugin.Func("stuck", timing.EditorReady, timing.StageNone,
		func(ctx context.Context, _ *plugin.Ctx) (slot.Patch, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
	e := newEditor(t, cfg, editor.WithPlugins(stuck))

	err := e.Create(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestEditorSerializeRoundTrip(t *testing.T) {
	ctx := testContext(t)
	cfg := editor.DefaultConfig()
	cfg.Markdown.Presets = []string{editor.PresetGFM}
	e := newEditor(t, cfg)
	if err := e.Create(ctx); err != nil {
		t.Fatalf("Create: %v", err)
	}

	source := "> Blockquote.\n> First line.\n>\n> Next line.\n\n* [x] done\n* ~~gone~~\n"
	doc, err := e.Parse(ctx, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := e.Serialize(ctx, doc)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if out != source {
		t.Fatalf("round trip mismatch\n got: %q\nwant: %q", out, source)
	}
	if _, err := e.Serialize(ctx, nil); !errors.Is(err, editor.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestEditorSessionsAreIsolated(t *testing.T) {
	ctx := testContext(t)
	first := newEditor(t, editor.DefaultConfig(), editor.WithDefaultValue("first"))
	second := newEditor(t, editor.DefaultConfig(), editor.WithDefaultValue("second"), editor.WithSessionID("fixed"))

	for _, e := range []*editor.Editor{first, second} {
		if err := e.Create(ctx); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if first.SessionID() == second.SessionID() || second.SessionID() != "fixed" {
		t.Fatalf("unexpected session ids %q %q", first.SessionID(), second.SessionID())
	}
	a, _ := first.Document(ctx)
	b, _ := second.Document(ctx)
	if a.TextContent() != "first" || b.TextContent() != "second" {
		t.Fatalf("sessions leaked state: %q %q", a.TextContent(), b.TextContent())
	}
	if slot.Get(first.Slots(), core.SchemaSlot) == slot.Get(second.Slots(), core.SchemaSlot) {
		t.Fatalf("sessions share a schema instance")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := editor.DefaultConfig()
	cfg.Markdown.Presets = []string{"rst"}
	if _, err := editor.New(cfg); !errors.Is(err, editor.ErrMarkdownPresetUnknown) {
		t.Fatalf("expected ErrMarkdownPresetUnknown, got %v", err)
	}
}
