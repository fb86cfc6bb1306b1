package vdom_test

import (
	"testing"

	"github.com/vango-dev/memodom/pkg/vdom"
	"github.com/vango-dev/memodom/pkg/vtest"
)

func TestFirstCreationRecordsTemplate(t *testing.T) {
	h := newHarness(t)
	cl := h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(vdom.NewCached(&vtest.Static{Title: "a", Items: []string{"1", "2"}}))
	})

	if got := cl.Count(vdom.OpSaveTemplate); got != 1 {
		t.Errorf("SaveTemplate = %d, want 1", got)
	}
	if got := cl.Count(vdom.OpCloneNode); got != 0 {
		t.Errorf("CloneNode = %d, want 0", got)
	}
	if h.d.Templates() != 1 {
		t.Errorf("Templates() = %d, want 1", h.d.Templates())
	}
}

func TestRecreatingShapeClonesOnce(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(vdom.NewCached(&vtest.Static{Title: "a", Items: []string{"1", "2"}}))
	})

	fresh := vdom.NewCached(&vtest.Static{Title: "b", Items: []string{"3", "4"}})
	h.mem.ResetCounts()
	cl := h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(a.P("sibling"), fresh)
	})

	// The fresh subtree is one clone; only the new sibling is built by hand.
	if got := h.mem.Count(vdom.OpCloneNode); got != 1 {
		t.Errorf("CloneNode = %d, want 1", got)
	}
	if got := cl.Count(vdom.OpCreateElement); got != 1 {
		t.Errorf("CreateElement = %d, want 1 (the sibling)", got)
	}
	if got := cl.Count(vdom.OpSaveTemplate); got != 0 {
		t.Errorf("SaveTemplate = %d, want 0", got)
	}
	vtest.ExpectHTML(t, h.mem,
		`<div><p>sibling</p><div class="card"><h2>b</h2><ul><li>3</li><li>4</li></ul></div></div>`)
}

func TestCloneFixesUpDifferentShapes(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(vdom.NewCached(&vtest.Static{Title: "a", Items: []string{"1", "2", "3"}}))
	})

	cl := h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(a.P("x"), vdom.NewCached(&vtest.Static{Title: "a", Items: []string{"9"}}))
	})
	if cl.Count(vdom.OpCloneNode) != 1 {
		t.Errorf("CloneNode = %d, want 1", cl.Count(vdom.OpCloneNode))
	}
	vtest.ExpectHTML(t, h.mem, `<div><p>x</p><div class="card"><h2>a</h2><ul><li>9</li></ul></div></div>`)
}

// button renders a clickable element; listeners never travel with templates.
type button struct {
	label   string
	clicked *int
}

func (b *button) Render(a *vdom.Arena) *vdom.Node {
	return a.Button(vdom.OnClick(func(vdom.Event) { *b.clicked++ }), a.Text(b.label))
}

func TestClonedSubtreeGetsListeners(t *testing.T) {
	clicks := 0
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(vdom.NewCached(&button{"one", &clicks}))
	})
	cl := h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(
			vdom.NewCached(&button{"one", &clicks}),
			vdom.NewCached(&button{"two", &clicks}),
		)
	})
	if got := cl.Count(vdom.OpCloneNode); got != 1 {
		t.Errorf("CloneNode = %d, want 1", got)
	}

	h.tree.Walk(func(n *vdom.Node, id vdom.ID) {
		if n.Tag == "button" && !h.mem.HasListener(id, "click") {
			t.Errorf("button %d has no click listener on the surface", id)
		}
	})
}

// toggle renders a different root tag depending on its state.
type toggle struct {
	open bool
}

func (tg *toggle) Render(a *vdom.Arena) *vdom.Node {
	if tg.open {
		return a.Div(a.Text("open"))
	}
	return a.Span(a.Text("closed"))
}

func TestIncompatibleTemplateIsNotCloned(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(vdom.NewCached(&toggle{open: true}))
	})
	cl := h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(a.P("x"), vdom.NewCached(&toggle{open: false}))
	})
	if got := cl.Count(vdom.OpCloneNode); got != 0 {
		t.Errorf("CloneNode = %d, want 0", got)
	}
	if got := cl.Count(vdom.OpSaveTemplate); got != 0 {
		t.Errorf("SaveTemplate = %d, want 0", got)
	}
	vtest.ExpectHTML(t, h.mem, "<div><p>x</p><span>closed</span></div>")
}

func TestTemplateKeysSeparateShapes(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(vdom.NewCached(&toggle{open: true}, vdom.WithTemplateKey("open")))
	})
	cl := h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(
			a.P("x"),
			vdom.NewCached(&toggle{open: false}, vdom.WithTemplateKey("closed")),
			vdom.NewCached(&toggle{open: true}, vdom.WithTemplateKey("open")),
		)
	})
	if got := cl.Count(vdom.OpCloneNode); got != 1 {
		t.Errorf("CloneNode = %d, want 1", got)
	}
	if got := cl.Count(vdom.OpSaveTemplate); got != 1 {
		t.Errorf("SaveTemplate = %d, want 1", got)
	}
	if h.d.Templates() != 2 {
		t.Errorf("Templates() = %d, want 2", h.d.Templates())
	}
}

// panel nests a cached counter inside its own cached output.
type panel struct {
	counter *vdom.Cached[*vtest.Counter]
}

func (p *panel) Render(a *vdom.Arena) *vdom.Node {
	return a.Div(vdom.Class("panel"), p.counter)
}

func TestNestedCachedClone(t *testing.T) {
	newPanel := func() *vdom.Cached[*panel] {
		return vdom.NewCached(&panel{counter: vdom.NewCached(&vtest.Counter{})})
	}

	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node { return a.Div(newPanel()) })

	// The first panel diffs against the mounted one; the second is cloned
	// and its nested counter is matched through the flattened template.
	cl := h.step(func(a *vdom.Arena) *vdom.Node { return a.Div(newPanel(), newPanel()) })
	if got := cl.Count(vdom.OpCloneNode); got != 1 {
		t.Errorf("CloneNode = %d, want 1", got)
	}
	if got := cl.Count(vdom.OpRemoveChild); got != 0 {
		t.Errorf("RemoveChild = %d, want 0", got)
	}
	if got := cl.Count(vdom.OpCreateElement) + cl.Count(vdom.OpCreateText); got != 0 {
		t.Errorf("created %d nodes by hand, want 0", got)
	}
	vtest.ExpectHTML(t, h.mem,
		`<div><div class="panel"><p>1</p></div><div class="panel"><p>1</p></div></div>`)
}
