package vdom

import (
	"reflect"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// handleSeq hands out process-unique wrapper handles.
var handleSeq atomic.Uint64

// Cached wraps a Renderer and memoizes its output.
//
// While the wrapper is warm, Render hands back the retained output without
// calling the inner renderer. The output lives in an arena owned by the
// wrapper, which is replaced wholesale on every recompute.
//
// Cached is not safe for concurrent use; the driver serializes access.
type Cached[T Renderer] struct {
	inner      T
	handle     uint64
	shape      uint64
	generation uint64
	valid      bool
	arena      *Arena
	output     *Node
}

// CachedOption configures a Cached wrapper.
type CachedOption func(*cachedOptions)

type cachedOptions struct {
	templateKey string
}

// WithTemplateKey distinguishes template shapes of the same renderable type.
func WithTemplateKey(key string) CachedOption {
	return func(o *cachedOptions) {
		o.templateKey = key
	}
}

// NewCached creates a cold wrapper around inner.
func NewCached[T Renderer](inner T, opts ...CachedOption) *Cached[T] {
	var o cachedOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Cached[T]{
		inner:  inner,
		handle: handleSeq.Add(1),
		shape:  shapeOf(reflect.TypeFor[T](), o.templateKey),
	}
}

// shapeOf derives the template signature of a renderable type.
func shapeOf(t reflect.Type, key string) uint64 {
	name := t.String()
	if t.PkgPath() != "" {
		name = t.PkgPath() + "." + t.Name()
	}
	h := xxhash.New()
	_, _ = h.WriteString(name)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(key)
	return h.Sum64()
}

// Render implements Renderer.
func (c *Cached[T]) Render(a *Arena) *Node {
	warm := c.valid
	if !warm {
		c.arena = NewArena()
		out := c.inner.Render(c.arena)
		if out == nil {
			out = c.arena.Text("")
		}
		c.output = out
		c.generation++
		c.valid = true
	}

	n := a.Node()
	n.Kind = KindCached
	n.Key = c.output.Resolve().Key
	n.cache = &cacheRef{
		handle:     c.handle,
		generation: c.generation,
		warm:       warm,
		shape:      c.shape,
		output:     c.output,
	}
	return n
}

// Invalidate marks the wrapper cold. The next Render recomputes.
func (c *Cached[T]) Invalidate() {
	c.valid = false
}

// Valid reports whether the wrapper holds a reusable output.
func (c *Cached[T]) Valid() bool {
	return c.valid
}

// Inner returns the wrapped renderable.
func (c *Cached[T]) Inner() T {
	return c.inner
}

// Handle returns the wrapper's identity.
func (c *Cached[T]) Handle() uint64 {
	return c.handle
}

// Invalidator is implemented by every Cached wrapper.
type Invalidator interface {
	Invalidate()
}

// Invalidate marks r cold if it is a cache wrapper and reports whether it was.
func Invalidate(r Renderer) bool {
	inv, ok := r.(Invalidator)
	if ok {
		inv.Invalidate()
	}
	return ok
}
