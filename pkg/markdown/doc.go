// Package markdown converts between markdown text and model documents.
//
// Parsing runs goldmark to build an AST, then walks it with a ParserState
// driven by per-node and per-mark rules. Serializing walks a document with a
// SerializerState driven by per-type writers. Rules are contributed by
// presets and merged by the capability package; this package only supplies
// the machinery.
package markdown
