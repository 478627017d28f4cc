package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-editor/pkg/capability"
	"github.com/goliatone/go-editor/pkg/interfaces"
	"github.com/goliatone/go-editor/pkg/markdown"
	"github.com/goliatone/go-editor/pkg/model"
	"github.com/goliatone/go-editor/pkg/plugin"
	"github.com/goliatone/go-editor/pkg/slot"
	"github.com/goliatone/go-editor/pkg/timing"
)

const (
	ConfigID      = "config"
	InitID        = "init"
	SchemaID      = "schema"
	ParserID      = "parser"
	SerializerID  = "serializer"
	EditorStateID = "editorState"
)

// TopNode names the document root every preset must contribute.
const TopNode = "doc"

// ConfigFunc adjusts session slots before ConfigReady.
type ConfigFunc func(c *slot.Container) error

// Plugins returns the built-in stage producers. callbacks run in order
// inside the config plugin.
func Plugins(callbacks ...ConfigFunc) []plugin.Plugin {
	return []plugin.Plugin{
		Config(callbacks...),
		Init(),
		Schema(),
		Parser(),
		Serializer(),
		EditorState(),
	}
}

// Config runs user callbacks and produces ConfigReady.
func Config(callbacks ...ConfigFunc) plugin.Plugin {
	fns := append([]ConfigFunc(nil), callbacks...)
	return plugin.Func(ConfigID, timing.StageNone, timing.ConfigReady,
		func(ctx context.Context, c *plugin.Ctx) (slot.Patch, error) {
			for i, fn := range fns {
				if fn == nil {
					continue
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				if err := fn(c.Slots()); err != nil {
					return nil, fmt.Errorf("%w: callback %d: %w", ErrConfigCallback, i, err)
				}
			}
			c.Logger().Debug("core.config.applied", "callbacks", len(fns))
			return nil, nil
		})
}

// Init resolves configured extension names and seeds the default value from
// config. Produces InitReady alongside the preset contributors.
func Init() plugin.Plugin {
	return plugin.Func(InitID, timing.ConfigReady, timing.InitReady,
		func(_ context.Context, c *plugin.Ctx) (slot.Patch, error) {
			cfg := slot.Get(c.Slots(), ConfigSlot)

			resolved := 0
			for _, name := range cfg.Markdown.Extensions {
				ext, ok := markdown.LookupExtension(name)
				if !ok {
					c.Logger().Warn("core.init.extension_unknown", "extension", name)
					continue
				}
				AddExtensions(c.Slots(), ext)
				resolved++
			}

			var patch slot.Patch
			if slot.Get(c.Slots(), DefaultValueSlot) == "" && cfg.Bootstrap.DefaultValue != "" {
				patch = append(patch, slot.Assign(DefaultValueSlot, cfg.Bootstrap.DefaultValue))
			}
			c.Logger().Debug("core.init.extensions", "resolved", resolved)
			return patch, nil
		})
}

// Schema aggregates node and mark contributions into a compiled schema.
func Schema() plugin.Plugin {
	return plugin.Func(SchemaID, timing.InitReady, timing.SchemaReady,
		func(_ context.Context, c *plugin.Ctx) (slot.Patch, error) {
			contribs := append(
				append([]capability.Contribution(nil), slot.Get(c.Slots(), NodesSlot)...),
				slot.Get(c.Slots(), MarksSlot)...,
			)
			sortContributions(contribs)

			set, err := capability.Aggregate(contribs)
			if err != nil {
				return nil, err
			}
			schema, err := model.NewSchema(set.SchemaSpec(TopNode))
			if err != nil {
				return nil, wrapSchemaError(err)
			}
			c.Logger().Debug("core.schema.built",
				"nodes", len(schema.NodeNames()),
				"marks", len(schema.MarkNames()),
			)
			return slot.Patch{
				slot.Assign(CapabilitiesSlot, set),
				slot.Assign(SchemaSlot, schema),
			}, nil
		})
}

// Parser builds the goldmark processor and markdown parser.
func Parser() plugin.Plugin {
	return plugin.Func(ParserID, timing.SchemaReady, timing.ParserReady,
		func(ctx context.Context, c *plugin.Ctx) (slot.Patch, error) {
			if err := c.Wait(ctx, timing.InitReady); err != nil {
				return nil, err
			}
			schema := slot.Get(c.Slots(), SchemaSlot)
			set := slot.Get(c.Slots(), CapabilitiesSlot)
			if schema == nil || set == nil {
				return nil, ErrMissingSchema
			}
			cfg := slot.Get(c.Slots(), ConfigSlot)
			opts := cfg.Markdown.ProcessorOptions()
			opts.Extensions = nil

			processor := markdown.NewProcessor(opts, slot.Get(c.Slots(), ExtensionsSlot)...)
			parser := markdown.NewParser(schema, set.ParserSpec(), processor)
			c.Logger().Debug("core.parser.ready", "extensions", len(slot.Get(c.Slots(), ExtensionsSlot)))
			return slot.Patch{
				slot.Assign(ProcessorSlot, interfaces.MarkdownProcessor(processor)),
				slot.Assign(ParserSlot, parser),
			}, nil
		})
}

// Serializer builds the markdown serializer.
func Serializer() plugin.Plugin {
	return plugin.Func(SerializerID, timing.SchemaReady, timing.SerializerReady,
		func(_ context.Context, c *plugin.Ctx) (slot.Patch, error) {
			schema := slot.Get(c.Slots(), SchemaSlot)
			set := slot.Get(c.Slots(), CapabilitiesSlot)
			if schema == nil || set == nil {
				return nil, ErrMissingSchema
			}
			return slot.Patch{
				slot.Assign(SerializerSlot, markdown.NewSerializer(schema, set.SerializerSpec())),
			}, nil
		})
}

// EditorState parses the default value into the initial document. It loads
// after SerializerReady and waits for ParserReady itself.
func EditorState() plugin.Plugin {
	return plugin.Func(EditorStateID, timing.SerializerReady, timing.EditorReady,
		func(ctx context.Context, c *plugin.Ctx) (slot.Patch, error) {
			if err := c.Wait(ctx, timing.ParserReady); err != nil {
				return nil, err
			}
			parse := slot.Get(c.Slots(), ParserSlot)
			if parse == nil {
				return nil, ErrMissingParser
			}
			schema := slot.Get(c.Slots(), SchemaSlot)
			cfg := slot.Get(c.Slots(), ConfigSlot)

			source := slot.Get(c.Slots(), DefaultValueSlot)
			var meta map[string]any
			if cfg.Markdown.FrontMatter && source != "" {
				var body []byte
				var err error
				meta, body, err = markdown.StripFrontMatter([]byte(source))
				if err != nil {
					return nil, err
				}
				source = string(body)
			}

			doc, err := initialDocument(schema, parse, source)
			if err != nil {
				return nil, err
			}
			c.Logger().Debug("core.editor_state.ready", "children", doc.ChildCount())
			return slot.Patch{
				slot.Assign(DocumentSlot, doc),
				slot.Assign(FrontMatterSlot, meta),
			}, nil
		})
}

// sortContributions gives same-stage contributors a stable order regardless
// of which goroutine appended first.
func sortContributions(contribs []capability.Contribution) {
	sort.SliceStable(contribs, func(i, j int) bool {
		return strings.TrimSpace(contribs[i].ID) < strings.TrimSpace(contribs[j].ID)
	})
}

// initialDocument parses source, or returns an empty document for blank input.
func initialDocument(schema *model.Schema, parse markdown.Parser, source string) (*model.Node, error) {
	if strings.TrimSpace(source) == "" {
		return schema.TopNodeType().Create(nil, nil, nil)
	}
	return parse(source)
}
