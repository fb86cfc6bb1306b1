package main

import (
	"slices"
	"strconv"

	"github.com/vango-dev/memodom/pkg/vdom"
)

// board is the application both demo and serve run: a title, an add
// button and a list of cached rows that toggle when clicked.
type board struct {
	title  string
	clicks int
	nextID int
	rows   []*vdom.Cached[*row]
}

// row is one list entry. Its output is cached until it toggles.
type row struct {
	id     int
	label  string
	done   bool
	toggle vdom.Listener
}

func (r *row) Render(a *vdom.Arena) *vdom.Node {
	class := "row"
	if r.done {
		class = "row done"
	}
	return a.Li(vdom.Key(strconv.Itoa(r.id)), vdom.Class(class), vdom.OnClick(r.toggle),
		a.Span(a.Text(r.label)),
	)
}

func newBoard(title string, labels ...string) *board {
	b := &board{title: title}
	for _, l := range labels {
		b.add(l)
	}
	return b
}

func (b *board) Render(a *vdom.Arena) *vdom.Node {
	items := a.Children(len(b.rows))
	for _, r := range b.rows {
		items = append(items, r.Render(a))
	}
	return a.Div(vdom.Class("board"),
		a.Element("h1", a.Text(b.title)),
		a.Button(vdom.IDAttr("add"), vdom.OnClick(b.onAdd), a.Textf("add (%d)", b.clicks)),
		a.Ul(items),
	)
}

func (b *board) onAdd(vdom.Event) {
	b.clicks++
	b.add("item " + strconv.Itoa(b.nextID+1))
}

func (b *board) add(label string) {
	b.nextID++
	r := &row{id: b.nextID, label: label}
	w := vdom.NewCached(r)
	r.toggle = func(vdom.Event) {
		r.done = !r.done
		w.Invalidate()
	}
	b.rows = append(b.rows, w)
}

// toggle flips the row with the given id.
func (b *board) toggle(id int) bool {
	for _, w := range b.rows {
		if r := w.Inner(); r.id == id {
			r.toggle(vdom.Event{Name: "click"})
			return true
		}
	}
	return false
}

func (b *board) remove(id int) bool {
	i := slices.IndexFunc(b.rows, func(w *vdom.Cached[*row]) bool { return w.Inner().id == id })
	if i < 0 {
		return false
	}
	b.rows = slices.Delete(b.rows, i, i+1)
	return true
}

func (b *board) reverse() {
	slices.Reverse(b.rows)
}

// findByAttr returns the surface ID of the first node whose attribute key
// equals value.
func findByAttr(t vdom.Tree, key, value string) (vdom.ID, bool) {
	var (
		found vdom.ID
		ok    bool
	)
	t.Walk(func(n *vdom.Node, id vdom.ID) {
		if ok {
			return
		}
		if v, has := n.Attr(key); has && v == value {
			found, ok = id, true
		}
	})
	return found, ok
}
