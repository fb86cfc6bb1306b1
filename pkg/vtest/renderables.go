package vtest

import "github.com/vango-dev/memodom/pkg/vdom"

// Counter renders how many times it has been rendered, as a paragraph.
type Counter struct {
	Renders int
}

// Render implements vdom.Renderer.
func (c *Counter) Render(a *vdom.Arena) *vdom.Node {
	c.Renders++
	return a.P(a.Textf("%d", c.Renders))
}

// Static renders a fixed card. Renders counts calls to Render.
type Static struct {
	Title   string
	Items   []string
	Renders int
}

// Render implements vdom.Renderer.
func (s *Static) Render(a *vdom.Arena) *vdom.Node {
	s.Renders++
	items := a.Children(len(s.Items))
	for _, it := range s.Items {
		items = append(items, a.Li(a.Text(it)))
	}
	return a.Div(vdom.Class("card"),
		a.Element("h2", a.Text(s.Title)),
		a.Ul(items),
	)
}

// Fragment is a renderer that returns whatever Build produces.
type Fragment struct {
	Build func(a *vdom.Arena) *vdom.Node
}

// Render implements vdom.Renderer.
func (f *Fragment) Render(a *vdom.Arena) *vdom.Node {
	return f.Build(a)
}
