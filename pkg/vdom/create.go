package vdom

// create materializes a detached subtree for n and returns its mount.
func (d *Differ) create(n *Node) *Mount {
	if n.Kind == KindCached {
		return d.createCached(n)
	}
	m := &Mount{ID: d.alloc(1)}
	d.stats.Created++
	switch n.Kind {
	case KindText:
		d.emit(Change{Op: OpCreateText, ID: m.ID, Value: n.Text})
	case KindElement:
		d.emit(Change{Op: OpCreateElement, ID: m.ID, Value: n.Tag})
		for _, a := range n.Attrs {
			d.emit(Change{Op: OpSetAttribute, ID: m.ID, Key: a.Key, Value: a.Value})
		}
		for _, l := range n.Listeners {
			d.emit(Change{Op: OpAddListener, ID: m.ID, Key: l.Event})
		}
		if len(n.Children) > 0 {
			m.Children = make([]*Mount, len(n.Children))
		}
		for i, c := range n.Children {
			m.Children[i] = d.create(c)
			d.emit(Change{Op: OpInsertChild, Parent: m.ID, ID: m.Children[i].ID, Index: i})
		}
	}
	return m
}

// createCached materializes a cached reference. Shapes seen before are
// cloned from their template and fixed up with a diff against the
// template's content; the first materialization of a shape records it.
func (d *Differ) createCached(n *Node) *Mount {
	out := n.cache.output
	tpl := TemplateID(n.cache.shape)

	if snap, ok := d.templates[tpl]; ok && compatible(snap, out) {
		base := d.alloc(countNodes(snap))
		d.emit(Change{Op: OpCloneNode, Template: tpl, ID: base})
		d.stats.Cloned++
		next := base
		flatten := d.flatten
		d.flatten = true
		m := d.diff(snap, mountClone(snap, &next), out, ContainerID, 0)
		d.flatten = flatten
		return m
	}

	m := d.create(out)
	if _, ok := d.templates[tpl]; !ok && out.Kind != KindCached {
		d.templates[tpl] = d.snapshot(out)
		d.emit(Change{Op: OpSaveTemplate, Template: tpl, ID: m.ID})
		d.stats.Templates++
	}
	return m
}

// compatible reports whether a clone of snap can be diffed into out
// without replacing the clone's root.
func compatible(snap, out *Node) bool {
	if snap.Kind != out.Kind {
		return false
	}
	return snap.Kind != KindElement || snap.Tag == out.Tag
}

// matchable reports whether two keyed siblings can be diffed in place.
func (d *Differ) matchable(prev, next *Node) bool {
	if d.flatten {
		next = next.Resolve()
	}
	return matchable(prev, next)
}

func matchable(prev, next *Node) bool {
	if prev.Kind != next.Kind {
		return false
	}
	switch prev.Kind {
	case KindCached:
		return matchable(prev.cache.output, next.cache.output)
	case KindElement:
		return prev.Tag == next.Tag
	}
	return true
}

// countNodes counts surface nodes, looking through cached references.
func countNodes(n *Node) int {
	n = n.Resolve()
	total := 1
	for _, c := range n.Children {
		total += countNodes(c)
	}
	return total
}

// snapshot copies the structure of a freshly created subtree into the
// template arena. Cached references are flattened and listeners dropped:
// surfaces do not clone listeners.
func (d *Differ) snapshot(n *Node) *Node {
	n = n.Resolve()
	a := d.tplArena
	cp := a.Node()
	cp.Kind = n.Kind
	cp.Tag = n.Tag
	cp.Text = n.Text
	cp.Key = n.Key
	cp.Attrs = append([]Attr(nil), n.Attrs...)
	cp.Children = a.Children(len(n.Children))
	for _, c := range n.Children {
		cp.Children = append(cp.Children, d.snapshot(c))
	}
	return cp
}

// mountClone binds a template snapshot to the pre-order IDs a surface
// gives the nodes of a clone.
func mountClone(snap *Node, next *ID) *Mount {
	m := &Mount{ID: *next}
	*next++
	if len(snap.Children) > 0 {
		m.Children = make([]*Mount, len(snap.Children))
	}
	for i, c := range snap.Children {
		m.Children[i] = mountClone(c, next)
	}
	return m
}
