// Package di is a small dependency container: a flat registry of typed keys
// mapped to factories, with singleton and transient scopes.
package di

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultMaxDepth is the nesting ceiling for one top-level Resolve. Hitting it
// almost always means two factories resolve each other.
const DefaultMaxDepth = 200

type Scope int

const (
	Singleton Scope = iota
	Transient
)

func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// Key identifies a service of type T. Two keys with the same name refer to
// the same registration, so names must be unique within a container.
type Key[T any] struct {
	name string
}

func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

func (k Key[T]) Name() string { return k.name }

func (k Key[T]) String() string { return k.name }

type registration struct {
	scope   Scope
	factory func(*Container) any
}

// Container holds registrations and cached singletons. Resolution must happen
// from a single goroutine, see Resolve. The registry maps are guarded so that
// Has and Keys may be called from anywhere.
type Container struct {
	mu        sync.Mutex
	regs      map[string]registration
	instances map[string]any

	maxDepth int
	depth    int
	path     []string
}

type Option func(*Container)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(c *Container) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

func New(opts ...Option) *Container {
	c := &Container{
		regs:      make(map[string]registration),
		instances: make(map[string]any),
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register binds key to factory. Registering the same key again replaces the
// earlier registration and drops its cached singleton.
func Register[T any](c *Container, key Key[T], scope Scope, factory func(*Container) T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[key.name] = registration{
		scope:   scope,
		factory: func(c *Container) any { return factory(c) },
	}
	delete(c.instances, key.name)
}

// Resolve returns the instance for key, building it through its factory when
// needed. A missing registration, a type mismatch, or a nesting depth above
// the ceiling panics with a *ResolutionError: these are wiring defects, not
// runtime conditions.
//
// Resolve is not safe for concurrent use. Factories may call it recursively,
// but only one goroutine may resolve on a container at a time; the depth
// counter and path are unguarded.
func Resolve[T any](c *Container, key Key[T]) T {
	v := c.resolve(key.name)
	t, ok := v.(T)
	if !ok {
		panic(&ResolutionError{
			Key:    key.name,
			Reason: fmt.Sprintf("registered value has type %T", v),
		})
	}
	return t
}

func (c *Container) resolve(name string) any {
	c.depth++
	c.path = append(c.path, name)
	defer c.pop()
	if c.depth > c.maxDepth {
		panic(&ResolutionError{
			Key:    name,
			Reason: fmt.Sprintf("resolve depth exceeded %d, possible circular dependency", c.maxDepth),
			Path:   c.trail(),
		})
	}

	c.mu.Lock()
	reg, ok := c.regs[name]
	if !ok {
		c.mu.Unlock()
		panic(&ResolutionError{Key: name, Reason: "no registration", Path: c.trail()})
	}
	if reg.scope == Singleton {
		if inst, ok := c.instances[name]; ok {
			c.mu.Unlock()
			return inst
		}
	}
	c.mu.Unlock()

	inst := reg.factory(c)

	if reg.scope == Singleton {
		c.mu.Lock()
		c.instances[name] = inst
		c.mu.Unlock()
	}
	return inst
}

func (c *Container) pop() {
	c.depth--
	c.path = c.path[:len(c.path)-1]
}

// trail returns a short rendering of the current resolution path; deep cycles
// are elided in the middle.
func (c *Container) trail() string {
	p := c.path
	if len(p) > 8 {
		head := strings.Join(p[:4], " -> ")
		tail := strings.Join(p[len(p)-4:], " -> ")
		return head + " -> ... -> " + tail
	}
	return strings.Join(p, " -> ")
}

// Has reports whether name has a registration.
func (c *Container) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.regs[name]
	return ok
}

// Keys returns every registered key name, sorted.
func (c *Container) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.regs))
	for name := range c.regs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Depth reports the current nesting depth; zero outside of a Resolve call.
func (c *Container) Depth() int { return c.depth }

// ResolutionError describes a wiring defect found during Resolve.
type ResolutionError struct {
	Key    string
	Reason string
	Path   string
}

func (e *ResolutionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("di: resolve %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("di: resolve %q: %s (path: %s)", e.Key, e.Reason, e.Path)
}
