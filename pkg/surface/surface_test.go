package surface

import (
	"context"
	"errors"
	"testing"

	"github.com/vango-dev/memodom/pkg/vdom"
)

func build(t *testing.T, m *Memory, cl vdom.ChangeList) {
	t.Helper()
	if err := Apply(m, cl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
}

// list mounts <ul><li>a</li><li>b</li><li>c</li></ul> with li IDs 2, 3, 4.
func list(t *testing.T) *Memory {
	m := NewMemory()
	build(t, m, vdom.ChangeList{
		{Op: vdom.OpCreateElement, ID: 1, Value: "ul"},
		{Op: vdom.OpCreateElement, ID: 2, Value: "li"},
		{Op: vdom.OpCreateText, ID: 5, Value: "a"},
		{Op: vdom.OpInsertChild, Parent: 2, ID: 5, Index: 0},
		{Op: vdom.OpCreateElement, ID: 3, Value: "li"},
		{Op: vdom.OpCreateText, ID: 6, Value: "b"},
		{Op: vdom.OpInsertChild, Parent: 3, ID: 6, Index: 0},
		{Op: vdom.OpCreateElement, ID: 4, Value: "li"},
		{Op: vdom.OpCreateText, ID: 7, Value: "c"},
		{Op: vdom.OpInsertChild, Parent: 4, ID: 7, Index: 0},
		{Op: vdom.OpInsertChild, Parent: 1, ID: 2, Index: 0},
		{Op: vdom.OpInsertChild, Parent: 1, ID: 3, Index: 1},
		{Op: vdom.OpInsertChild, Parent: 1, ID: 4, Index: 2},
		{Op: vdom.OpInsertChild, Parent: vdom.ContainerID, ID: 1, Index: 0},
	})
	return m
}

func TestMemoryBuild(t *testing.T) {
	m := list(t)
	if got := m.HTML(); got != "<ul><li>a</li><li>b</li><li>c</li></ul>" {
		t.Errorf("HTML() = %q", got)
	}
	if m.Len() != 7 {
		t.Errorf("Len() = %d, want 7", m.Len())
	}
	if m.Count(vdom.OpInsertChild) != 7 {
		t.Errorf("Count(InsertChild) = %d, want 7", m.Count(vdom.OpInsertChild))
	}
	m.ResetCounts()
	if m.Count(vdom.OpInsertChild) != 0 {
		t.Errorf("counts not reset")
	}
}

func TestInsertChildMoves(t *testing.T) {
	m := list(t)
	build(t, m, vdom.ChangeList{{Op: vdom.OpInsertChild, Parent: 1, ID: 4, Index: 0}})
	if got := m.TextContent(); got != "cab" {
		t.Errorf("TextContent() = %q, want cab", got)
	}

	build(t, m, vdom.ChangeList{{Op: vdom.OpInsertChild, Parent: 1, ID: 4, Index: 2}})
	if got := m.TextContent(); got != "abc" {
		t.Errorf("TextContent() = %q, want abc", got)
	}
}

func TestRemoveChildDiscardsSubtree(t *testing.T) {
	m := list(t)
	build(t, m, vdom.ChangeList{{Op: vdom.OpRemoveChild, Parent: 1, ID: 3}})
	if _, ok := m.Lookup(6); ok {
		t.Errorf("text of removed li still live")
	}
	if m.Len() != 5 {
		t.Errorf("Len() = %d, want 5", m.Len())
	}
}

func TestAttributesAndListeners(t *testing.T) {
	m := list(t)
	build(t, m, vdom.ChangeList{
		{Op: vdom.OpSetAttribute, ID: 1, Key: "class", Value: "x"},
		{Op: vdom.OpSetAttribute, ID: 1, Key: "id", Value: "l"},
		{Op: vdom.OpSetAttribute, ID: 1, Key: "class", Value: "y"},
		{Op: vdom.OpRemoveAttribute, ID: 1, Key: "id"},
		{Op: vdom.OpAddListener, ID: 2, Key: "click"},
		{Op: vdom.OpAddListener, ID: 2, Key: "click"},
		{Op: vdom.OpSetText, ID: 5, Value: "A"},
	})

	info, _ := m.Lookup(1)
	if len(info.Attrs) != 1 || info.Attrs[0] != (vdom.Attr{Key: "class", Value: "y"}) {
		t.Errorf("Attrs = %v", info.Attrs)
	}
	if li, _ := m.Lookup(2); len(li.Listeners) != 1 {
		t.Errorf("Listeners = %v", li.Listeners)
	}
	build(t, m, vdom.ChangeList{{Op: vdom.OpRemoveListener, ID: 2, Key: "click"}})
	if m.HasListener(2, "click") {
		t.Errorf("listener not removed")
	}
	if got := m.HTML(); got != `<ul class="y"><li>A</li><li>b</li><li>c</li></ul>` {
		t.Errorf("HTML() = %q", got)
	}
}

func TestTemplates(t *testing.T) {
	m := list(t)
	build(t, m, vdom.ChangeList{
		{Op: vdom.OpAddListener, ID: 2, Key: "click"},
		{Op: vdom.OpSaveTemplate, Template: 9, ID: 1},
		{Op: vdom.OpCloneNode, Template: 9, ID: 100},
		{Op: vdom.OpInsertChild, Parent: vdom.ContainerID, ID: 100, Index: 1},
	})

	// Pre-order: ul 100, li 101, "a" 102, li 103, "b" 104, li 105, "c" 106.
	for id, want := range map[vdom.ID]string{100: "ul", 101: "li", 103: "li", 105: "li"} {
		if info, ok := m.Lookup(id); !ok || info.Tag != want {
			t.Errorf("Lookup(%d) = %+v, %v; want %s", id, info, ok, want)
		}
	}
	if info, _ := m.Lookup(106); info.Text != "c" {
		t.Errorf("Lookup(106).Text = %q, want c", info.Text)
	}
	if m.HasListener(101, "click") {
		t.Errorf("clone carried a listener")
	}
	if got := m.TextContent(); got != "abcabc" {
		t.Errorf("TextContent() = %q", got)
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name  string
		cl    vdom.ChangeList
		index int
		want  error
	}{
		{"unknown node", vdom.ChangeList{{Op: vdom.OpSetText, ID: 42, Value: "x"}}, 0, ErrUnknownNode},
		{"duplicate", vdom.ChangeList{
			{Op: vdom.OpCreateText, ID: 1},
			{Op: vdom.OpCreateText, ID: 1},
		}, 1, ErrDuplicateNode},
		{"unknown template", vdom.ChangeList{{Op: vdom.OpCloneNode, Template: 7, ID: 1}}, 0, ErrUnknownTemplate},
		{"index out of range", vdom.ChangeList{
			{Op: vdom.OpCreateText, ID: 1},
			{Op: vdom.OpInsertChild, Parent: vdom.ContainerID, ID: 1, Index: 3},
		}, 1, ErrIndexOutOfRange},
		{"attribute on text", vdom.ChangeList{
			{Op: vdom.OpCreateText, ID: 1},
			{Op: vdom.OpSetAttribute, ID: 1, Key: "k"},
		}, 1, ErrNotElement},
		{"unsupported op", vdom.ChangeList{{Op: vdom.Op(0xFF)}}, 0, ErrUnsupportedOp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Apply(NewMemory(), tt.cl)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Apply() error = %v, want %v", err, tt.want)
			}
			var opErr *OpError
			if !errors.As(err, &opErr) || opErr.Index != tt.index {
				t.Errorf("OpError index = %+v, want %d", opErr, tt.index)
			}
		})
	}
}

func TestDetachedExecutor(t *testing.T) {
	m := NewMemory()
	exec := NewExecutor(m)
	cl := vdom.ChangeList{{Op: vdom.OpCreateText, ID: 1, Value: "x"}}
	if err := exec.Execute(context.Background(), cl); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	m.Detach()
	cl = vdom.ChangeList{{Op: vdom.OpCreateText, ID: 2, Value: "y"}}
	if err := exec.Execute(context.Background(), cl); !errors.Is(err, ErrDetached) {
		t.Errorf("Execute() after Detach error = %v, want ErrDetached", err)
	}
}
