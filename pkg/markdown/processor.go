package markdown

import (
	"reflect"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-editor/pkg/interfaces"
)

// Processor is a goldmark engine configured for AST production. It holds no
// per-call state and can be shared.
type Processor struct {
	engine     goldmark.Markdown
	extensions []string
}

var _ interfaces.MarkdownProcessor = (*Processor)(nil)

// NewProcessor builds a goldmark engine from named extensions plus any extra
// extenders contributed by plugins. Unknown names are ignored.
func NewProcessor(opts interfaces.ProcessorOptions, extra ...goldmark.Extender) *Processor {
	names := normalizeExtensionNames(opts.Extensions)
	if opts.Typographer {
		names = appendUnique(names, "typographer")
	}

	var extenders []goldmark.Extender
	for _, name := range names {
		if ext, ok := extensionRegistry[name]; ok {
			extenders = appendExtender(extenders, ext)
		}
	}
	for _, ext := range extra {
		if ext != nil {
			extenders = appendExtender(extenders, ext)
		}
	}

	options := []goldmark.Option{}
	if len(extenders) > 0 {
		options = append(options, goldmark.WithExtensions(extenders...))
	}

	return &Processor{
		engine:     goldmark.New(options...),
		extensions: names,
	}
}

// Process parses source into a goldmark document node.
func (p *Processor) Process(source []byte) ast.Node {
	return p.engine.Parser().Parse(text.NewReader(source))
}

// Engine exposes the underlying goldmark instance.
func (p *Processor) Engine() goldmark.Markdown { return p.engine }

// Extensions lists the resolved extension names.
func (p *Processor) Extensions() []string { return append([]string(nil), p.extensions...) }

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// LookupExtension resolves a registry name to its goldmark extender.
func LookupExtension(name string) (goldmark.Extender, bool) {
	ext, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ext, ok
}

// KnownExtension reports whether name is in the registry.
func KnownExtension(name string) bool {
	_, ok := LookupExtension(name)
	return ok
}

// ExtensionNames lists every registry name in sorted order.
func ExtensionNames() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeExtensionNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		out = appendUnique(out, key)
	}
	return out
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// appendExtender skips extenders already present. Only comparable values
// can be detected as duplicates.
func appendExtender(list []goldmark.Extender, ext goldmark.Extender) []goldmark.Extender {
	if reflect.TypeOf(ext).Comparable() {
		for _, existing := range list {
			if reflect.TypeOf(existing) == reflect.TypeOf(ext) && existing == ext {
				return list
			}
		}
	}
	return append(list, ext)
}
