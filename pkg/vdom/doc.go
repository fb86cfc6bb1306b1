// Package vdom provides the virtual tree, the cache wrapper and the diff engine
// for memodom.
//
// A render pass produces a tree of Node values allocated in an Arena. The
// Differ compares that tree against the physical tree left by the previous
// pass and emits a ChangeList: an ordered sequence of primitive operations
// that a surface adapter applies one by one.
//
// # Core Types
//
// Node is a tagged variant: text, element (tag, ordered attributes,
// listeners, children, optional key) or a cached reference produced by a
// Cached wrapper. Renderer is anything that can produce a Node given an Arena.
//
// # Element API
//
// Elements are created with variadic builders on an Arena:
//
//	a.Element("div", Class("card"), Key("row-1"),
//	    a.Text("Title"),
//	    OnClick(handler),
//	)
//
// # Caching
//
// Cached wraps a Renderer and remembers its last output. While warm, Render
// returns the retained output without calling the inner renderer, and the
// Differ skips the whole subtree when the physical tree holds the same
// output. Invalidate marks the wrapper cold.
//
// # Templates
//
// The first time a cached subtree of a given shape is materialized, the
// Differ records it as a template on the surface. Later cold creations of
// the same shape are emitted as a single clone followed by a fix-up diff.
package vdom
