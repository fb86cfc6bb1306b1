package vdom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindText    Kind = iota // Plain text node
	KindElement             // <div>, <button>, etc.
	KindCached              // Reference to a Cached wrapper's retained output
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindCached:
		return "Cached"
	default:
		return "Unknown"
	}
}

// ID identifies a node on the surface. Zero is the container the root
// node is mounted into.
type ID uint32

// ContainerID is the surface container every root is inserted into.
const ContainerID ID = 0

// Node is the virtual tree node. Nodes are never modified once a render
// pass has produced them, so a cached output can be shared freely.
type Node struct {
	Kind      Kind            // Node type
	Tag       string          // Element tag name (e.g., "div")
	Text      string          // For KindText
	Attrs     []Attr          // Ordered attributes
	Listeners []ListenerEntry // Event listeners, one per event name
	Children  []*Node         // Child nodes
	Key       string          // Reconciliation key

	cache *cacheRef // For KindCached
}

// cacheRef is what a Cached wrapper hands to the tree on every render.
type cacheRef struct {
	handle     uint64
	generation uint64
	warm       bool
	shape      uint64
	output     *Node
}

// Attr is a single attribute.
type Attr struct {
	Key   string
	Value string
}

// ListenerEntry binds an event name to its listener.
type ListenerEntry struct {
	Event    string
	Listener Listener
}

// Event is delivered to a Listener.
type Event struct {
	Name   string            // "click", "input", ...
	Target ID                // Surface node the event fired on
	Data   map[string]string // Event payload (value, key, ...)
}

// Listener handles an event dispatched to a node.
type Listener func(Event)

// Renderer is anything that can produce a Node tree in an Arena.
//
// Render must be deterministic for a fixed internal state. Renderers own
// their state and may mutate it on every call.
type Renderer interface {
	Render(a *Arena) *Node
}

// RenderFunc adapts a plain function to Renderer.
type RenderFunc func(a *Arena) *Node

// Render implements Renderer.
func (f RenderFunc) Render(a *Arena) *Node {
	return f(a)
}

// Resolve returns the node that materializes on the surface: the retained
// output for a cached reference, the node itself otherwise.
func (n *Node) Resolve() *Node {
	for n != nil && n.Kind == KindCached {
		n = n.cache.output
	}
	return n
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Listener returns the listener registered for event.
func (n *Node) Listener(event string) Listener {
	if n == nil {
		return nil
	}
	for _, l := range n.Listeners {
		if l.Event == event {
			return l.Listener
		}
	}
	return nil
}

// CacheHandle returns the wrapper handle of a cached reference, or 0.
func (n *Node) CacheHandle() uint64 {
	if n == nil || n.Kind != KindCached {
		return 0
	}
	return n.cache.handle
}

// TextContent concatenates all text in the tree, in document order.
func (n *Node) TextContent() string {
	var buf []byte
	var walk func(*Node)
	walk = func(n *Node) {
		n = n.Resolve()
		if n == nil {
			return
		}
		if n.Kind == KindText {
			buf = append(buf, n.Text...)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return string(buf)
}
