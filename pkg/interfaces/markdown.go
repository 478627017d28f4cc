package interfaces

import (
	"github.com/yuin/goldmark/ast"
)

// MarkdownProcessor turns markdown source into a goldmark AST. Parser plugins
// consume it through the processor slot so hosts can swap the engine.
type MarkdownProcessor interface {
	Process(source []byte) ast.Node
}

// ProcessorOptions selects the goldmark extensions and source handling used
// when the processor is built.
type ProcessorOptions struct {
	Extensions  []string `yaml:"extensions" json:"extensions"`
	FrontMatter bool     `yaml:"front_matter" json:"front_matter"`
	Typographer bool     `yaml:"typographer" json:"typographer"`
}
