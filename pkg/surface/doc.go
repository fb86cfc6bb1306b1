// Package surface defines the contract between the diff engine and the
// thing that actually displays nodes.
//
// A Surface executes primitive operations addressed by vdom.ID. Apply runs
// a vdom.ChangeList against a Surface in order, stopping at the first
// failure. Memory is an in-process Surface that keeps a real node tree; it
// backs tests, the CLI demo and the websocket mirror.
package surface
