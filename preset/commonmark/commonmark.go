// Package commonmark contributes the CommonMark node and mark types. Each
// item is its own plugin so hosts can replace any one of them.
package commonmark

import (
	"context"

	"github.com/goliatone/go-editor/core"
	"github.com/goliatone/go-editor/pkg/capability"
	"github.com/goliatone/go-editor/pkg/plugin"
	"github.com/goliatone/go-editor/pkg/slot"
	"github.com/goliatone/go-editor/pkg/timing"
)

// Namespace prefixes the plugin ids of this preset.
const Namespace = "commonmark"

// Nodes lists the node contributions in declaration order.
func Nodes() []capability.Contribution {
	return []capability.Contribution{
		docNode(),
		paragraphNode(),
		headingNode(),
		blockquoteNode(),
		codeBlockNode(),
		hrNode(),
		imageNode(),
		hardbreakNode(),
		bulletListNode(),
		orderedListNode(),
		listItemNode(),
		htmlNode(),
		textNode(),
	}
}

// Marks lists the mark contributions in declaration order.
func Marks() []capability.Contribution {
	return []capability.Contribution{
		emMark(),
		strongMark(),
		codeInlineMark(),
		linkMark(),
	}
}

// Plugins returns one contributor plugin per node and mark.
func Plugins() []plugin.Plugin {
	var plugins []plugin.Plugin
	for _, c := range Nodes() {
		plugins = append(plugins, NodePlugin(Namespace, c))
	}
	for _, c := range Marks() {
		plugins = append(plugins, MarkPlugin(Namespace, c))
	}
	return plugins
}

// NodePlugin wraps a node contribution as a plugin that loads after
// ConfigReady and helps produce InitReady.
func NodePlugin(namespace string, c capability.Contribution) plugin.Plugin {
	contribution := c
	return plugin.Func(namespace+".node."+c.ID, timing.ConfigReady, timing.InitReady,
		func(_ context.Context, pc *plugin.Ctx) (slot.Patch, error) {
			core.ContributeNodes(pc.Slots(), contribution)
			return nil, nil
		})
}

// MarkPlugin wraps a mark contribution as a plugin that loads after
// ConfigReady and helps produce InitReady.
func MarkPlugin(namespace string, c capability.Contribution) plugin.Plugin {
	contribution := c
	return plugin.Func(namespace+".mark."+c.ID, timing.ConfigReady, timing.InitReady,
		func(_ context.Context, pc *plugin.Ctx) (slot.Patch, error) {
			core.ContributeMarks(pc.Slots(), contribution)
			return nil, nil
		})
}
