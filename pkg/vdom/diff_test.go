package vdom_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/memodom/pkg/surface"
	"github.com/vango-dev/memodom/pkg/vdom"
	"github.com/vango-dev/memodom/pkg/vtest"
)

func noop(vdom.Event) {}

// harness mounts successive trees on a Memory surface.
type harness struct {
	t    *testing.T
	d    *vdom.Differ
	mem  *surface.Memory
	tree vdom.Tree
}

func newHarness(t *testing.T) *harness {
	return &harness{t: t, d: vdom.NewDiffer(), mem: surface.NewMemory()}
}

// step renders build into a fresh arena, diffs, applies and checks the
// surface mirrors the new tree.
func (h *harness) step(build func(a *vdom.Arena) *vdom.Node) vdom.ChangeList {
	h.t.Helper()
	var cl vdom.ChangeList
	h.tree, cl = vtest.Step(h.t, h.d, h.mem, h.tree, build(vdom.NewArena()))
	return cl
}

func TestIdenticalTextEmitsNothing(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node { return a.Text("same") })

	if cl := h.step(func(a *vdom.Arena) *vdom.Node { return a.Text("same") }); len(cl) != 0 {
		t.Errorf("changes = %v, want none", cl)
	}
}

func TestTextChange(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node { return a.P(a.Text("a")) })
	cl := h.step(func(a *vdom.Arena) *vdom.Node { return a.P(a.Text("b")) })

	if len(cl) != 1 || cl[0].Op != vdom.OpSetText || cl[0].Value != "b" {
		t.Errorf("changes = %+v, want one SetText", cl)
	}
	vtest.ExpectHTML(t, h.mem, "<p>b</p>")
}

func TestAttributeDiff(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(vdom.Class("a"), vdom.IDAttr("x"), vdom.Data("k", "1"))
	})
	cl := h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(vdom.Class("b"), vdom.Data("k", "1"), vdom.Role("list"))
	})

	st := cl.Stats()
	if st[vdom.OpSetAttribute] != 2 || st[vdom.OpRemoveAttribute] != 1 || len(cl) != 3 {
		t.Errorf("changes = %+v, want 2 sets and 1 remove", cl)
	}
	vtest.ExpectContains(t, h.mem, `class="b"`)
	vtest.ExpectNotContains(t, h.mem, `id="x"`)
}

func TestListenerDiff(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Button(vdom.OnClick(noop), vdom.OnInput(noop))
	})

	// Swapping the function behind an event is invisible to the surface.
	other := func(vdom.Event) {}
	if cl := h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Button(vdom.OnClick(other), vdom.OnInput(noop))
	}); len(cl) != 0 {
		t.Errorf("changes = %+v, want none", cl)
	}

	cl := h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Button(vdom.OnClick(other), vdom.OnKeyDown(noop))
	})
	if cl.Count(vdom.OpAddListener) != 1 || cl.Count(vdom.OpRemoveListener) != 1 {
		t.Errorf("changes = %+v, want one add and one remove", cl)
	}
	id := h.tree.ID()
	if h.mem.HasListener(id, "input") || !h.mem.HasListener(id, "keydown") {
		t.Errorf("surface listeners not updated")
	}
}

func TestKindAndTagChangeReplace(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node { return a.Div(a.Span("x"), a.Text("y")) })
	cl := h.step(func(a *vdom.Arena) *vdom.Node { return a.Div(a.P("x"), a.Span("y")) })

	if got := cl.Count(vdom.OpRemoveChild); got != 2 {
		t.Errorf("RemoveChild = %d, want 2", got)
	}
	vtest.ExpectHTML(t, h.mem, "<div><p>x</p><span>y</span></div>")
}

func TestRootReplace(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node { return a.Div("x") })
	h.step(func(a *vdom.Arena) *vdom.Node { return a.Text("plain") })
	vtest.ExpectHTML(t, h.mem, "plain")
	if h.mem.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.mem.Len())
	}
}

func TestUnkeyedChildren(t *testing.T) {
	list := func(items ...string) func(a *vdom.Arena) *vdom.Node {
		return func(a *vdom.Arena) *vdom.Node {
			children := a.Children(len(items))
			for _, it := range items {
				children = append(children, a.Li(it))
			}
			return a.Ul(children)
		}
	}

	h := newHarness(t)
	h.step(list("a", "b"))

	cl := h.step(list("a", "b", "c", "d"))
	if cl.Count(vdom.OpCreateElement) != 2 || cl.Count(vdom.OpRemoveChild) != 0 {
		t.Errorf("grow: %+v", cl.Stats())
	}

	cl = h.step(list("x"))
	if cl.Count(vdom.OpRemoveChild) != 3 || cl.Count(vdom.OpSetText) != 1 {
		t.Errorf("shrink: %+v", cl.Stats())
	}
	vtest.ExpectHTML(t, h.mem, "<ul><li>x</li></ul>")

	h.step(list())
	vtest.ExpectHTML(t, h.mem, "<ul></ul>")
}

func keyed(keys ...string) func(a *vdom.Arena) *vdom.Node {
	return func(a *vdom.Arena) *vdom.Node {
		children := a.Children(len(keys))
		for _, k := range keys {
			children = append(children, a.Li(vdom.Key(k), a.Text(k)))
		}
		return a.Ul(children)
	}
}

func TestKeyedChildren(t *testing.T) {
	tests := []struct {
		name    string
		from    []string
		to      []string
		moves   int
		creates int
		removes int
	}{
		{"unchanged", []string{"a", "b", "c"}, []string{"a", "b", "c"}, 0, 0, 0},
		{"rotate right", []string{"a", "b", "c", "d"}, []string{"d", "a", "b", "c"}, 1, 0, 0},
		{"rotate left", []string{"a", "b", "c", "d"}, []string{"b", "c", "d", "a"}, 1, 0, 0},
		{"swap ends", []string{"a", "b", "c", "d"}, []string{"d", "b", "c", "a"}, 2, 0, 0},
		{"reverse", []string{"a", "b", "c"}, []string{"c", "b", "a"}, 2, 0, 0},
		{"append", []string{"a", "b"}, []string{"a", "b", "c"}, 0, 1, 0},
		{"prepend", []string{"a", "b"}, []string{"z", "a", "b"}, 0, 1, 0},
		{"remove middle", []string{"a", "b", "c"}, []string{"a", "c"}, 0, 0, 1},
		{"mixed", []string{"a", "b", "c", "d", "e"}, []string{"e", "x", "c", "a"}, 2, 1, 2},
		{"replace all", []string{"a", "b"}, []string{"c", "d"}, 0, 2, 2},
		{"to empty", []string{"a", "b"}, nil, 0, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.step(keyed(tt.from...))
			cl := h.step(keyed(tt.to...))

			if got := cl.Count(vdom.OpCreateElement); got != tt.creates {
				t.Errorf("CreateElement = %d, want %d", got, tt.creates)
			}
			// A created li costs two inserts: its text, then itself.
			if got := cl.Count(vdom.OpInsertChild) - 2*tt.creates; got != tt.moves {
				t.Errorf("moves = %d, want %d", got, tt.moves)
			}
			if got := cl.Count(vdom.OpRemoveChild); got != tt.removes {
				t.Errorf("RemoveChild = %d, want %d", got, tt.removes)
			}
			want := "<ul>"
			for _, k := range tt.to {
				want += "<li>" + k + "</li>"
			}
			vtest.ExpectHTML(t, h.mem, want+"</ul>")
		})
	}
}

func TestKeyedPreservesNodes(t *testing.T) {
	h := newHarness(t)
	h.step(keyed("a", "b", "c"))
	before := map[string]vdom.ID{}
	h.tree.Walk(func(n *vdom.Node, id vdom.ID) {
		if n.Key != "" {
			before[n.Key] = id
		}
	})

	h.step(keyed("c", "a", "b"))
	h.tree.Walk(func(n *vdom.Node, id vdom.ID) {
		if n.Key != "" && before[n.Key] != id {
			t.Errorf("key %q moved from node %d to %d", n.Key, before[n.Key], id)
		}
	})
}

func TestKeyedPermutations(t *testing.T) {
	perms := [][]string{
		{"a", "b", "c", "d", "e", "f"},
		{"f", "e", "d", "c", "b", "a"},
		{"b", "a", "d", "c", "f", "e"},
		{"c", "f", "a", "e", "b", "d"},
		{"a", "c", "e", "b", "d", "f"},
		{"e", "f", "a", "b", "c", "d"},
	}
	h := newHarness(t)
	h.step(keyed(perms[0]...))
	for _, p := range perms[1:] {
		cl := h.step(keyed(p...))
		if n := cl.Count(vdom.OpCreateElement) + cl.Count(vdom.OpRemoveChild); n != 0 {
			t.Errorf("%v: %d creates/removes for a permutation", p, n)
		}
		if got, want := h.mem.TextContent(), strings.Join(p, ""); got != want {
			t.Errorf("TextContent() = %q, want %q", got, want)
		}
	}
}

func TestKeyedTagChangeIsNotMatched(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(a.P(vdom.Key("k"), "x"), a.Span(vdom.Key("j"), "y"))
	})
	h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(a.Span(vdom.Key("j"), "y"), a.Span(vdom.Key("k"), "x"))
	})
	vtest.ExpectHTML(t, h.mem, "<div><span>y</span><span>x</span></div>")
}

func TestDuplicateAndMissingKeys(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Ul(a.Li(vdom.Key("a"), "1"), a.Li("2"), a.Li(vdom.Key("a"), "3"))
	})
	h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Ul(a.Li(vdom.Key("a"), "3"), a.Li(vdom.Key("a"), "1"), a.Li("2"))
	})
	vtest.ExpectHTML(t, h.mem, "<ul><li>3</li><li>1</li><li>2</li></ul>")
}

func TestIdempotence(t *testing.T) {
	build := func(a *vdom.Arena) *vdom.Node {
		return a.Div(vdom.Class("card"), vdom.OnClick(noop),
			a.Ul(a.Li(vdom.Key("a"), "a"), a.Li(vdom.Key("b"), "b")),
			a.P("text"),
		)
	}
	h := newHarness(t)
	h.step(build)
	if cl := h.step(build); len(cl) != 0 {
		t.Errorf("re-render changes = %+v, want none", cl)
	}

	// Diffing the physical tree against its own virtual tree.
	tree, cl, _ := h.d.Diff(h.tree, h.tree.Root)
	if len(cl) != 0 {
		t.Errorf("self diff changes = %+v, want none", cl)
	}
	if _, cl, _ = h.d.Diff(tree, tree.Root); len(cl) != 0 {
		t.Errorf("second self diff changes = %+v, want none", cl)
	}
}

func TestMountAndUnmount(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node { return a.Div(a.P("x")) })

	tree, cl, _ := h.d.Diff(h.tree, nil)
	vtest.Apply(t, h.mem, cl)
	if !tree.Empty() || h.mem.Len() != 0 {
		t.Errorf("unmount left %d nodes", h.mem.Len())
	}
	if _, cl, _ := h.d.Diff(tree, nil); len(cl) != 0 {
		t.Errorf("unmounting an empty tree emitted %+v", cl)
	}
}

func TestReplaceNeverDiffs(t *testing.T) {
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node { return a.Div(a.P("same")) })
	oldID := h.tree.ID()

	a := vdom.NewArena()
	tree, cl, _ := h.d.Replace(h.tree, a.Div(a.P("same")))
	vtest.Apply(t, h.mem, cl)
	vtest.ExpectMirrors(t, h.mem, tree)

	if tree.ID() == oldID {
		t.Errorf("Replace reused root node %d", oldID)
	}
	if cl.Count(vdom.OpCreateElement) != 2 || cl.Count(vdom.OpRemoveChild) != 1 {
		t.Errorf("changes = %+v", cl.Stats())
	}
	if _, ok := h.mem.Lookup(oldID); ok {
		t.Errorf("old root %d still live", oldID)
	}
}

func TestTreeFind(t *testing.T) {
	clicked := ""
	h := newHarness(t)
	h.step(func(a *vdom.Arena) *vdom.Node {
		return a.Div(
			a.Button(vdom.OnClick(func(e vdom.Event) { clicked = "one" }), "1"),
			a.Button(vdom.OnClick(func(e vdom.Event) { clicked = "two" }), "2"),
		)
	})

	var buttons []vdom.ID
	h.tree.Walk(func(n *vdom.Node, id vdom.ID) {
		if n.Tag == "button" {
			buttons = append(buttons, id)
		}
	})
	if len(buttons) != 2 {
		t.Fatalf("found %d buttons", len(buttons))
	}
	h.tree.Find(buttons[1]).Listener("click")(vdom.Event{Name: "click"})
	if clicked != "two" {
		t.Errorf("clicked = %q, want two", clicked)
	}
	if h.tree.Find(9999) != nil {
		t.Errorf("Find(unknown) != nil")
	}
}

func TestElementArguments(t *testing.T) {
	a := vdom.NewArena()
	var nilNode *vdom.Node
	n := a.Div(
		nil,
		vdom.Class("a"),
		[]vdom.Attr{vdom.Class("b"), vdom.Attribute("title", "t")},
		vdom.Disabled(false),
		"text",
		nilNode,
		[]*vdom.Node{a.Span("s"), nil},
		vdom.RenderFunc(func(a *vdom.Arena) *vdom.Node { return a.P("r") }),
		vdom.Key("k"),
	)

	if got := vtest.Markup(n); got != `<div class="b" title="t">text<span>s</span><p>r</p></div>` {
		t.Errorf("Markup() = %q", got)
	}
	if n.Key != "k" {
		t.Errorf("Key = %q", n.Key)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("unsupported argument did not panic")
		}
	}()
	a.Div(42)
}

func TestTextContent(t *testing.T) {
	a := vdom.NewArena()
	n := a.Div(a.P("a"), a.Textf("%d", 1), a.Span(a.Text("b")))
	if got := n.TextContent(); got != "a1b" {
		t.Errorf("TextContent() = %q", got)
	}
	if got := fmt.Sprint(vdom.KindCached); got != "Cached" {
		t.Errorf("KindCached = %q", got)
	}
}
