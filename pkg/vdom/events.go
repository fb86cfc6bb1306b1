package vdom

// On creates a listener for the named event ("click", "input", ...).
func On(event string, fn Listener) ListenerEntry {
	return ListenerEntry{Event: event, Listener: fn}
}

// OnClick handles click events.
func OnClick(fn Listener) ListenerEntry { return On("click", fn) }

// OnInput handles input events.
func OnInput(fn Listener) ListenerEntry { return On("input", fn) }

// OnChange handles change events.
func OnChange(fn Listener) ListenerEntry { return On("change", fn) }

// OnSubmit handles submit events.
func OnSubmit(fn Listener) ListenerEntry { return On("submit", fn) }

// OnKeyDown handles keydown events.
func OnKeyDown(fn Listener) ListenerEntry { return On("keydown", fn) }
