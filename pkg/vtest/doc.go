// Package vtest provides testing helpers for memodom trees and drivers.
//
// # Mirroring Assertions
//
// After applying a change list to a surface.Memory, assert that the live
// nodes mirror the virtual tree, IDs included:
//
//	mem := surface.NewMemory()
//	tree := vtest.Mount(t, d, mem, root)
//	vtest.ExpectMirrors(t, mem, tree)
//
// # Renderables
//
// Counter and Static are small renderables for exercising cache wrappers:
//
//	c := vdom.NewCached(&vtest.Counter{})
//	// first render shows "1", then "1" until invalidated
//
// # Markup Assertions
//
// Assert on rendered markup:
//
//	vtest.ExpectHTML(t, mem, `<p>1</p>`)
//	vtest.ExpectContains(t, mem, "Welcome")
package vtest
