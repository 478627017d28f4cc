package slot

// Entry is a single pending slot assignment.
type Entry interface {
	Key
	apply(c *Container)
}

type assignment[T any] struct {
	*Slot[T]
	value T
}

func (a assignment[T]) apply(c *Container) {
	store(c, a.Slot, a.value)
}

// Assign builds an entry that sets s to v when applied.
func Assign[T any](s *Slot[T], v T) Entry {
	return assignment[T]{Slot: s, value: v}
}

// Patch is an ordered list of assignments produced by a plugin.
type Patch []Entry

// Apply writes every entry to c in order under one lock acquisition.
func (p Patch) Apply(c *Container) {
	if len(p) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range p {
		if entry != nil {
			entry.apply(c)
		}
	}
}

// Keys returns the slot names the patch touches, in order.
func (p Patch) Keys() []string {
	out := make([]string, 0, len(p))
	for _, entry := range p {
		if entry != nil {
			out = append(out, entry.Name())
		}
	}
	return out
}
