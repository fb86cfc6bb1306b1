package vtest

import (
	"fmt"
	"html"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vango-dev/memodom/pkg/surface"
	"github.com/vango-dev/memodom/pkg/vdom"
)

// View is a normalized node used to compare virtual and live trees.
// Attribute order and listener order are not significant.
type View struct {
	ID        vdom.ID
	Tag       string
	Text      string
	Attrs     map[string]string
	Listeners []string
	Children  []View
}

// FromTree returns the views of a physical tree's root, if any.
func FromTree(t vdom.Tree) []View {
	if t.Empty() {
		return nil
	}
	return []View{fromNode(t.Root, t.Mount)}
}

func fromNode(n *vdom.Node, m *vdom.Mount) View {
	n = n.Resolve()
	v := View{ID: m.ID, Tag: n.Tag, Text: n.Text}
	if n.Kind == vdom.KindText {
		v.Tag = ""
	}
	for _, a := range n.Attrs {
		if v.Attrs == nil {
			v.Attrs = make(map[string]string)
		}
		v.Attrs[a.Key] = a.Value
	}
	for _, l := range n.Listeners {
		v.Listeners = append(v.Listeners, l.Event)
	}
	slices.Sort(v.Listeners)
	for i, c := range n.Children {
		v.Children = append(v.Children, fromNode(c, m.Children[i]))
	}
	return v
}

// FromMemory returns the views of the container's children.
func FromMemory(mem *surface.Memory) []View {
	root, _ := mem.Lookup(vdom.ContainerID)
	var out []View
	for _, id := range root.Children {
		out = append(out, fromMemory(mem, id))
	}
	return out
}

func fromMemory(mem *surface.Memory, id vdom.ID) View {
	info, ok := mem.Lookup(id)
	if !ok {
		return View{ID: id, Tag: "#missing"}
	}
	v := View{ID: info.ID, Tag: info.Tag, Text: info.Text}
	for _, a := range info.Attrs {
		if v.Attrs == nil {
			v.Attrs = make(map[string]string)
		}
		v.Attrs[a.Key] = a.Value
	}
	v.Listeners = slices.Sorted(slices.Values(info.Listeners))
	for _, c := range info.Children {
		v.Children = append(v.Children, fromMemory(mem, c))
	}
	return v
}

// ExpectMirrors asserts that the live nodes of mem match tree, including
// the surface IDs bound to every node.
func ExpectMirrors(t testing.TB, mem *surface.Memory, tree vdom.Tree) {
	t.Helper()
	if diff := cmp.Diff(FromTree(tree), FromMemory(mem), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("surface does not mirror tree (-tree +surface):\n%s", diff)
	}
}

// Apply applies cl to mem and fails the test on error.
func Apply(t testing.TB, mem *surface.Memory, cl vdom.ChangeList) {
	t.Helper()
	if err := surface.Apply(mem, cl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
}

// Step diffs next against prev, applies the changes to mem and checks the
// result mirrors the new tree.
func Step(t testing.TB, d *vdom.Differ, mem *surface.Memory, prev vdom.Tree, next *vdom.Node) (vdom.Tree, vdom.ChangeList) {
	t.Helper()
	tree, cl, _ := d.Diff(prev, next)
	Apply(t, mem, cl)
	ExpectMirrors(t, mem, tree)
	return tree, cl
}

// Markup renders a virtual node the way surface.Memory renders live nodes.
func Markup(n *vdom.Node) string {
	var b strings.Builder
	writeMarkup(&b, n)
	return b.String()
}

func writeMarkup(b *strings.Builder, n *vdom.Node) {
	n = n.Resolve()
	if n == nil {
		return
	}
	if n.Kind == vdom.KindText {
		b.WriteString(html.EscapeString(n.Text))
		return
	}
	fmt.Fprintf(b, "<%s", n.Tag)
	for _, a := range n.Attrs {
		fmt.Fprintf(b, ` %s="%s"`, a.Key, html.EscapeString(a.Value))
	}
	b.WriteByte('>')
	for _, c := range n.Children {
		writeMarkup(b, c)
	}
	fmt.Fprintf(b, "</%s>", n.Tag)
}

// ExpectHTML asserts the surface's markup equals want.
func ExpectHTML(t testing.TB, mem *surface.Memory, want string) {
	t.Helper()
	if got := mem.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", truncate(got, 500), want)
	}
}

// ExpectContains asserts that the surface's markup contains expected.
func ExpectContains(t testing.TB, mem *surface.Memory, expected string) {
	t.Helper()
	html := mem.HTML()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the surface's markup does not contain
// unexpected.
func ExpectNotContains(t testing.TB, mem *surface.Memory, unexpected string) {
	t.Helper()
	html := mem.HTML()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
