// Package gfm adds GitHub Flavored Markdown on top of the commonmark preset:
// strikethrough, task list items, tables, and the goldmark GFM extenders.
package gfm

import (
	"context"

	"github.com/yuin/goldmark/extension"

	"github.com/goliatone/go-editor/core"
	"github.com/goliatone/go-editor/pkg/capability"
	"github.com/goliatone/go-editor/pkg/plugin"
	"github.com/goliatone/go-editor/pkg/slot"
	"github.com/goliatone/go-editor/pkg/timing"
	"github.com/goliatone/go-editor/preset/commonmark"
)

const Namespace = "gfm"

// ExtensionsID is the plugin that registers the goldmark GFM extenders.
const ExtensionsID = Namespace + ".extensions"

// taskListPriority puts the task item rule ahead of list_item.
const taskListPriority = 10

func Nodes() []capability.Contribution {
	return []capability.Contribution{
		taskListItemNode().WithPriority(taskListPriority),
		tableNode(),
		tableRowNode("table_header_row", true),
		tableRowNode("table_row", false),
		tableCellNode("table_header", true),
		tableCellNode("table_cell", false),
	}
}

func Marks() []capability.Contribution {
	return []capability.Contribution{
		strikeThroughMark(),
	}
}

// Plugins returns the GFM contributors. Load them together with
// commonmark.Plugins.
func Plugins() []plugin.Plugin {
	plugins := []plugin.Plugin{Extensions()}
	for _, c := range Nodes() {
		plugins = append(plugins, commonmark.NodePlugin(Namespace, c))
	}
	for _, c := range Marks() {
		plugins = append(plugins, commonmark.MarkPlugin(Namespace, c))
	}
	return plugins
}

// Extensions registers extension.GFM for the parser plugin.
func Extensions() plugin.Plugin {
	return plugin.Func(ExtensionsID, timing.ConfigReady, timing.InitReady,
		func(_ context.Context, c *plugin.Ctx) (slot.Patch, error) {
			core.AddExtensions(c.Slots(), extension.GFM)
			return nil, nil
		})
}
