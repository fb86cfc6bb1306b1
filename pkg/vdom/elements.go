package vdom

import "fmt"

// KeyAttr is a reconciliation key passed to Element.
type KeyAttr string

// Key sets the reconciliation key of an element.
func Key(k string) KeyAttr { return KeyAttr(k) }

// Text allocates a text node.
func (a *Arena) Text(s string) *Node {
	n := a.Node()
	n.Kind = KindText
	n.Text = a.String(s)
	return n
}

// Textf allocates a text node with formatted content.
func (a *Arena) Textf(format string, args ...any) *Node {
	return a.Text(fmt.Sprintf(format, args...))
}

// Element allocates an element node with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, ListenerEntry, Key(...), *Node,
// []*Node, string (text child) or Renderer (rendered into a).
func (a *Arena) Element(tag string, args ...any) *Node {
	n := a.Node()
	n.Kind = KindElement
	n.Tag = a.String(tag)

	count := 0
	for _, arg := range args {
		switch v := arg.(type) {
		case *Node, string, Renderer:
			count++
		case []*Node:
			count += len(v)
		}
	}
	n.Children = a.Children(count)

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional arguments)
			continue
		case Attr:
			n.setAttr(v)
		case []Attr:
			for _, attr := range v {
				n.setAttr(attr)
			}
		case ListenerEntry:
			n.setListener(v)
		case KeyAttr:
			n.Key = string(v)
		case *Node:
			if v != nil {
				n.Children = append(n.Children, v)
			}
		case []*Node:
			for _, child := range v {
				if child != nil {
					n.Children = append(n.Children, child)
				}
			}
		case string:
			n.Children = append(n.Children, a.Text(v))
		case Renderer:
			if child := v.Render(a); child != nil {
				n.Children = append(n.Children, child)
			}
		default:
			panic(fmt.Sprintf("vdom: unsupported element argument %T", arg))
		}
	}
	return n
}

// setAttr replaces an existing attribute in place or appends a new one.
func (n *Node) setAttr(attr Attr) {
	if attr.Key == "" {
		return
	}
	for i := range n.Attrs {
		if n.Attrs[i].Key == attr.Key {
			n.Attrs[i].Value = attr.Value
			return
		}
	}
	n.Attrs = append(n.Attrs, attr)
}

func (n *Node) setListener(l ListenerEntry) {
	if l.Event == "" || l.Listener == nil {
		return
	}
	for i := range n.Listeners {
		if n.Listeners[i].Event == l.Event {
			n.Listeners[i].Listener = l.Listener
			return
		}
	}
	n.Listeners = append(n.Listeners, l)
}

// Div creates a <div> element.
func (a *Arena) Div(args ...any) *Node { return a.Element("div", args...) }

// Span creates a <span> element.
func (a *Arena) Span(args ...any) *Node { return a.Element("span", args...) }

// P creates a <p> element.
func (a *Arena) P(args ...any) *Node { return a.Element("p", args...) }

// Ul creates a <ul> element.
func (a *Arena) Ul(args ...any) *Node { return a.Element("ul", args...) }

// Li creates a <li> element.
func (a *Arena) Li(args ...any) *Node { return a.Element("li", args...) }

// Button creates a <button> element.
func (a *Arena) Button(args ...any) *Node { return a.Element("button", args...) }
