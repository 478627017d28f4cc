// Package slot implements the typed context container shared by editor
// plugins. A Slot is a process-unique handle carrying a default factory; a
// Container holds the values for one editor session. Values are created
// lazily from the factory on first read.
//
// The container does not order writers. Plugins sequence their reads and
// writes through timing gates, and same-stage contributors to one slot use
// Update so their read-modify-write cycles do not interleave.
package slot
