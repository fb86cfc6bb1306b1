package vdom

// DiffStats summarizes the work of one diff.
type DiffStats struct {
	Skipped   int // Cached subtrees reused through the identity fast path
	Created   int // Nodes created one by one
	Cloned    int // Subtrees created from a template
	Templates int // Templates recorded
}

// Differ compares physical and virtual trees and emits change lists.
//
// A Differ owns state that outlives a single diff: the surface ID
// allocator and the template registry. It is not safe for concurrent use.
type Differ struct {
	nextID    ID
	templates map[TemplateID]*Node
	tplArena  *Arena

	changes ChangeList
	stats   DiffStats

	// flatten looks through cached references on the new side while a
	// clone is fixed up against its flattened template.
	flatten bool
}

// NewDiffer creates a Differ with an empty template registry.
func NewDiffer() *Differ {
	return &Differ{
		nextID:    ContainerID + 1,
		templates: make(map[TemplateID]*Node),
		tplArena:  NewArena(),
	}
}

// Diff returns the changes that turn the physical tree prev into next,
// along with the physical tree to diff against next time. An empty prev
// mounts next into the container; a nil next unmounts prev.
func (d *Differ) Diff(prev Tree, next *Node) (Tree, ChangeList, DiffStats) {
	d.begin()
	var m *Mount
	switch {
	case next == nil:
		if !prev.Empty() {
			d.emit(Change{Op: OpRemoveChild, Parent: ContainerID, ID: prev.ID()})
		}
	case prev.Empty():
		m = d.create(next)
		d.emit(Change{Op: OpInsertChild, Parent: ContainerID, ID: m.ID, Index: 0})
	default:
		m = d.diff(prev.Root, prev.Mount, next, ContainerID, 0)
	}
	return d.end(next, m)
}

// Replace returns the changes that swap the root of prev for next without
// comparing their content: next is created, then prev is removed.
func (d *Differ) Replace(prev Tree, next *Node) (Tree, ChangeList, DiffStats) {
	d.begin()
	var m *Mount
	if next != nil {
		m = d.create(next)
	}
	if !prev.Empty() {
		d.emit(Change{Op: OpRemoveChild, Parent: ContainerID, ID: prev.ID()})
	}
	if m != nil {
		d.emit(Change{Op: OpInsertChild, Parent: ContainerID, ID: m.ID, Index: 0})
	}
	return d.end(next, m)
}

// Templates returns the number of recorded templates.
func (d *Differ) Templates() int {
	return len(d.templates)
}

func (d *Differ) begin() {
	d.changes = nil
	d.stats = DiffStats{}
}

func (d *Differ) end(next *Node, m *Mount) (Tree, ChangeList, DiffStats) {
	cl, st := d.changes, d.stats
	d.changes = nil
	if m == nil {
		next = nil
	}
	return Tree{Root: next, Mount: m}, cl, st
}

func (d *Differ) emit(c Change) {
	d.changes = append(d.changes, c)
}

// alloc reserves n consecutive surface IDs.
func (d *Differ) alloc(n int) ID {
	id := d.nextID
	d.nextID += ID(n)
	return id
}

// diff compares two nodes at the same position under parent and returns
// the mount of next.
func (d *Differ) diff(prev *Node, pm *Mount, next *Node, parent ID, index int) *Mount {
	if d.flatten {
		next = next.Resolve()
	}
	if prev.Kind == KindCached && next.Kind == KindCached {
		return d.diffCached(prev, pm, next, parent, index)
	}

	// Different kinds, cached or not - replace
	if prev.Kind != next.Kind {
		return d.replace(pm, next, parent, index)
	}

	switch prev.Kind {
	case KindText:
		if prev.Text != next.Text {
			d.emit(Change{Op: OpSetText, ID: pm.ID, Value: next.Text})
		}
		return pm
	case KindElement:
		if prev.Tag != next.Tag {
			return d.replace(pm, next, parent, index)
		}
		d.diffAttrs(pm.ID, prev, next)
		d.diffListeners(pm.ID, prev, next)
		return &Mount{ID: pm.ID, Children: d.diffChildren(pm, prev, next)}
	}
	return pm
}

// diffCached compares two cached references. The subtree is skipped when
// both trace to the same wrapper and the new render reused the retained
// output; otherwise the outputs are diffed as plain trees.
func (d *Differ) diffCached(prev *Node, pm *Mount, next *Node, parent ID, index int) *Mount {
	pc, nc := prev.cache, next.cache
	if pc.handle == nc.handle && pc.generation == nc.generation && nc.warm {
		d.stats.Skipped++
		return pm
	}
	return d.diff(pc.output, pm, nc.output, parent, index)
}

// replace creates next, removes the node at pm and puts next at its position.
func (d *Differ) replace(pm *Mount, next *Node, parent ID, index int) *Mount {
	m := d.create(next)
	d.emit(Change{Op: OpRemoveChild, Parent: parent, ID: pm.ID})
	d.emit(Change{Op: OpInsertChild, Parent: parent, ID: m.ID, Index: index})
	return m
}

// diffAttrs emits per-key attribute updates.
func (d *Differ) diffAttrs(id ID, prev, next *Node) {
	for _, a := range next.Attrs {
		if v, ok := prev.Attr(a.Key); !ok || v != a.Value {
			d.emit(Change{Op: OpSetAttribute, ID: id, Key: a.Key, Value: a.Value})
		}
	}
	for _, a := range prev.Attrs {
		if _, ok := next.Attr(a.Key); !ok {
			d.emit(Change{Op: OpRemoveAttribute, ID: id, Key: a.Key})
		}
	}
}

// diffListeners emits listener registrations by event name. Swapping the
// function behind an event needs no surface change.
func (d *Differ) diffListeners(id ID, prev, next *Node) {
	for _, l := range next.Listeners {
		if prev.Listener(l.Event) == nil {
			d.emit(Change{Op: OpAddListener, ID: id, Key: l.Event})
		}
	}
	for _, l := range prev.Listeners {
		if next.Listener(l.Event) == nil {
			d.emit(Change{Op: OpRemoveListener, ID: id, Key: l.Event})
		}
	}
}

// diffChildren compares child sequences. Keyed reconciliation is used as
// soon as one new child has a key.
func (d *Differ) diffChildren(pm *Mount, prev, next *Node) []*Mount {
	if hasKeys(next.Children) {
		return d.diffKeyedChildren(pm, prev.Children, next.Children)
	}
	return d.diffUnkeyedChildren(pm, prev.Children, next.Children)
}

// diffUnkeyedChildren matches children by position.
func (d *Differ) diffUnkeyedChildren(pm *Mount, prev, next []*Node) []*Mount {
	mounts := make([]*Mount, len(next))
	common := min(len(prev), len(next))
	for i := 0; i < common; i++ {
		mounts[i] = d.diff(prev[i], pm.Children[i], next[i], pm.ID, i)
	}
	for i := len(prev) - 1; i >= common; i-- {
		d.emit(Change{Op: OpRemoveChild, Parent: pm.ID, ID: pm.Children[i].ID})
	}
	for i := common; i < len(next); i++ {
		mounts[i] = d.create(next[i])
		d.emit(Change{Op: OpInsertChild, Parent: pm.ID, ID: mounts[i].ID, Index: i})
	}
	return mounts
}

// hasKeys returns true if any child has a key.
func hasKeys(children []*Node) bool {
	for _, c := range children {
		if c.Key != "" {
			return true
		}
	}
	return false
}
