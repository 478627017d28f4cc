package slot

import (
	"fmt"
	"sync"
	"sync/atomic"
)

var nextID atomic.Uint64

// Key is the untyped view of a slot, used where heterogenous slots are
// collected (patches, introspection).
type Key interface {
	ID() uint64
	Name() string
}

// Slot identifies a typed value in a Container.
type Slot[T any] struct {
	id      uint64
	name    string
	factory func() T
}

// New registers a slot whose default value is produced by factory. A nil
// factory yields the zero value of T.
func New[T any](name string, factory func() T) *Slot[T] {
	if factory == nil {
		factory = func() T {
			var zero T
			return zero
		}
	}
	return &Slot[T]{
		id:      nextID.Add(1),
		name:    name,
		factory: factory,
	}
}

// Value registers a slot whose default is v. Reference types are shared
// between containers; use New with a factory when each session needs its
// own copy.
func Value[T any](name string, v T) *Slot[T] {
	return New(name, func() T { return v })
}

// ID returns the process-unique slot identifier.
func (s *Slot[T]) ID() uint64 { return s.id }

// Name returns the debug name given at creation.
func (s *Slot[T]) Name() string { return s.name }

func (s *Slot[T]) String() string {
	return fmt.Sprintf("slot(%s#%d)", s.name, s.id)
}

// Default builds a fresh default value.
func (s *Slot[T]) Default() T { return s.factory() }

// Container stores slot values for a single session.
type Container struct {
	mu     sync.Mutex
	values map[uint64]any
	names  map[uint64]string
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{
		values: map[uint64]any{},
		names:  map[uint64]string{},
	}
}

// Get returns the value stored for s, storing the slot default first when the
// slot was never set.
func Get[T any](c *Container, s *Slot[T]) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return load(c, s)
}

// Set overwrites the value stored for s.
func Set[T any](c *Container, s *Slot[T], v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	store(c, s, v)
}

// Update replaces the value of s with fn(current) while holding the container
// lock. fn must not call back into the container.
func Update[T any](c *Container, s *Slot[T], fn func(T) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := fn(load(c, s))
	store(c, s, next)
	return next
}

// Has reports whether the slot holds a value, set or defaulted.
func Has(c *Container, k Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[k.ID()]
	return ok
}

// Names lists the debug names of every slot stored in the container.
func (c *Container) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, name)
	}
	return out
}

// Len returns how many slots hold a value.
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

func load[T any](c *Container, s *Slot[T]) T {
	if raw, ok := c.values[s.id]; ok {
		return raw.(T)
	}
	v := s.factory()
	store(c, s, v)
	return v
}

func store[T any](c *Container, s *Slot[T], v T) {
	c.values[s.id] = v
	c.names[s.id] = s.name
}
