package vdom

// Mount binds a node to the surface. Its shape mirrors the node with cached
// references resolved: one Mount per surface node. Mounts are immutable and
// may be shared between the physical trees of consecutive passes.
type Mount struct {
	ID       ID
	Children []*Mount
}

// Tree is a physical tree: a rendered node tree plus its surface binding.
type Tree struct {
	Root  *Node
	Mount *Mount
}

// Empty reports whether nothing is mounted.
func (t Tree) Empty() bool {
	return t.Root == nil
}

// ID returns the surface ID of the tree's root, or the container when empty.
func (t Tree) ID() ID {
	if t.Mount == nil {
		return ContainerID
	}
	return t.Mount.ID
}

// Find returns the node bound to id.
func (t Tree) Find(id ID) *Node {
	return find(t.Root, t.Mount, id)
}

func find(n *Node, m *Mount, id ID) *Node {
	n = n.Resolve()
	if n == nil || m == nil {
		return nil
	}
	if m.ID == id {
		return n
	}
	for i, c := range n.Children {
		if i >= len(m.Children) {
			break
		}
		if found := find(c, m.Children[i], id); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for every surface node of the tree in pre-order.
func (t Tree) Walk(fn func(n *Node, id ID)) {
	walk(t.Root, t.Mount, fn)
}

func walk(n *Node, m *Mount, fn func(*Node, ID)) {
	n = n.Resolve()
	if n == nil || m == nil {
		return
	}
	fn(n, m.ID)
	for i, c := range n.Children {
		if i < len(m.Children) {
			walk(c, m.Children[i], fn)
		}
	}
}
