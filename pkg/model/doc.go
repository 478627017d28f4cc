// Package model holds the document structure produced by markdown parsers
// and consumed by serializers: a schema of node and mark types, immutable
// nodes, and mark sets. It covers only what parsing and serialization need;
// editing transactions and selection live outside this module.
package model
