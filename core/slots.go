// Package core holds the built-in bootstrap plugins and the slots they
// publish. Presets contribute schema items into NodesSlot and MarksSlot
// before InitReady; the built-ins turn them into a schema, a parser, a
// serializer, and finally the initial document.
package core

import (
	"github.com/yuin/goldmark"

	"github.com/goliatone/go-editor/internal/runtimeconfig"
	"github.com/goliatone/go-editor/pkg/capability"
	"github.com/goliatone/go-editor/pkg/interfaces"
	"github.com/goliatone/go-editor/pkg/markdown"
	"github.com/goliatone/go-editor/pkg/model"
	"github.com/goliatone/go-editor/pkg/slot"
)

var (
	// ConfigSlot holds the session's runtime configuration.
	ConfigSlot = slot.New("config", runtimeconfig.DefaultConfig)
	// DefaultValueSlot holds the markdown the initial document is parsed from.
	DefaultValueSlot = slot.Value("defaultValue", "")
	// ExtensionsSlot collects goldmark extenders. Written before InitReady.
	ExtensionsSlot = slot.New[[]goldmark.Extender]("extensions", nil)
	// NodesSlot collects node contributions. Written before InitReady.
	NodesSlot = slot.New[[]capability.Contribution]("nodes", nil)
	// MarksSlot collects mark contributions. Written before InitReady.
	MarksSlot = slot.New[[]capability.Contribution]("marks", nil)

	// CapabilitiesSlot holds the aggregated contributions. Set at SchemaReady.
	CapabilitiesSlot = slot.New[*capability.Set]("capabilities", nil)
	// SchemaSlot holds the compiled schema. Set at SchemaReady.
	SchemaSlot = slot.New[*model.Schema]("schema", nil)
	// ProcessorSlot holds the goldmark processor. Set at ParserReady.
	ProcessorSlot = slot.New[interfaces.MarkdownProcessor]("processor", nil)
	// ParserSlot holds the markdown parser. Set at ParserReady.
	ParserSlot = slot.New[markdown.Parser]("parser", nil)
	// SerializerSlot holds the markdown serializer. Set at SerializerReady.
	SerializerSlot = slot.New[markdown.Serializer]("serializer", nil)
	// DocumentSlot holds the initial document. Set at EditorReady.
	DocumentSlot = slot.New[*model.Node]("document", nil)
	// FrontMatterSlot holds metadata stripped from the default value.
	FrontMatterSlot = slot.New[map[string]any]("frontMatter", nil)
)

// ContributeNodes appends node contributions. Safe for concurrent callers.
func ContributeNodes(c *slot.Container, contribs ...capability.Contribution) {
	slot.Update(c, NodesSlot, func(existing []capability.Contribution) []capability.Contribution {
		return append(append([]capability.Contribution(nil), existing...), contribs...)
	})
}

// ContributeMarks appends mark contributions. Safe for concurrent callers.
func ContributeMarks(c *slot.Container, contribs ...capability.Contribution) {
	slot.Update(c, MarksSlot, func(existing []capability.Contribution) []capability.Contribution {
		return append(append([]capability.Contribution(nil), existing...), contribs...)
	})
}

// AddExtensions appends goldmark extenders. Safe for concurrent callers.
func AddExtensions(c *slot.Container, exts ...goldmark.Extender) {
	slot.Update(c, ExtensionsSlot, func(existing []goldmark.Extender) []goldmark.Extender {
		return append(append([]goldmark.Extender(nil), existing...), exts...)
	})
}
