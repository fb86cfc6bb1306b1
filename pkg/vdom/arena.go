package vdom

const (
	nodeChunkSize  = 256
	childChunkSize = 1024
)

// Arena is an append-only allocator for the nodes of one render pass.
//
// Individual values are never freed. Reset releases everything at once and
// keeps the chunks for the next pass, so nothing allocated from an Arena may
// be used after Reset.
type Arena struct {
	nodes      [][]Node
	nodeChunk  int // current node chunk
	nodeN      int // used slots in the current node chunk
	children   [][]*Node
	childChunk int
	childN     int
	strBytes   int
	allocated  int
}

// ArenaStats describes what an Arena handed out since the last Reset.
type ArenaStats struct {
	Nodes       int
	StringBytes int
	Chunks      int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Node allocates a zeroed node.
func (a *Arena) Node() *Node {
	if a.nodeN == nodeChunkSize {
		a.nodeChunk++
		a.nodeN = 0
	}
	if a.nodeChunk == len(a.nodes) {
		a.nodes = append(a.nodes, make([]Node, nodeChunkSize))
	}
	n := &a.nodes[a.nodeChunk][a.nodeN]
	a.nodeN++
	a.allocated++
	return n
}

// Children allocates a child slice of length 0 and capacity n. Slices that
// would not fit a chunk are allocated on their own.
func (a *Arena) Children(n int) []*Node {
	if n == 0 {
		return nil
	}
	if n > childChunkSize/4 {
		return make([]*Node, 0, n)
	}
	if a.childN+n > childChunkSize {
		a.childChunk++
		a.childN = 0
	}
	if a.childChunk == len(a.children) {
		a.children = append(a.children, make([]*Node, childChunkSize))
	}
	s := a.children[a.childChunk][a.childN : a.childN : a.childN+n]
	a.childN += n
	return s
}

// String records s as arena-owned text. Go strings are immutable, so the
// value is returned as is and only accounted for.
func (a *Arena) String(s string) string {
	a.strBytes += len(s)
	return s
}

// Stats reports allocation totals since the last Reset.
func (a *Arena) Stats() ArenaStats {
	return ArenaStats{
		Nodes:       a.allocated,
		StringBytes: a.strBytes,
		Chunks:      len(a.nodes) + len(a.children),
	}
}

// Reset releases every value allocated from the arena. Chunks are cleared
// and retained for reuse.
func (a *Arena) Reset() {
	for _, chunk := range a.nodes {
		clear(chunk)
	}
	for _, chunk := range a.children {
		clear(chunk)
	}
	a.nodeChunk = 0
	a.nodeN = 0
	a.childChunk = 0
	a.childN = 0
	a.strBytes = 0
	a.allocated = 0
}
