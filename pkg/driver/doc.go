// Package driver runs render cycles for one mounted root.
//
// A Vdom owns the root renderable, the physical tree it produced, and the
// executor that carries change lists to a UI surface. Every cycle renders the
// root into a fresh pass arena, diffs it against the physical tree, and hands
// the changes to the executor:
//
//	mem := surface.NewMemory()
//	d, err := driver.New(ctx, surface.NewExecutor(mem), root,
//	    driver.WithLogger(logger),
//	)
//	...
//	err = d.WithComponent(ctx, func(r vdom.Renderer) error {
//	    vdom.Invalidate(r)
//	    return nil
//	})
//	err = d.Render(ctx)
//
// # Serialization
//
// Render, SetComponent, WithComponent, Dispatch and Close take exclusive
// access to the driver. Callers arriving while a cycle is in flight wait
// their turn; waiting honours the caller's context but a cycle, once
// started, always runs to completion.
//
// # Failure
//
// An executor error leaves the surface out of step with the physical tree.
// The driver is poisoned: the failing call returns the executor's error and
// every later call returns ErrPoisoned.
package driver
