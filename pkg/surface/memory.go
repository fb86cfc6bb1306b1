package surface

import (
	"fmt"
	"html"
	"slices"
	"strings"
	"sync"

	"github.com/vango-dev/memodom/pkg/vdom"
)

// memNode is a live node of a Memory surface.
type memNode struct {
	id        vdom.ID
	tag       string // empty for text nodes
	text      string
	attrs     []vdom.Attr
	listeners []string
	children  []*memNode
	parent    *memNode
}

func (n *memNode) isText() bool { return n.tag == "" }

// Memory is an in-process Surface holding a real node tree.
// It is safe for concurrent use.
type Memory struct {
	mu        sync.Mutex
	root      *memNode
	nodes     map[vdom.ID]*memNode
	templates map[vdom.TemplateID]*memNode
	counts    [vdom.NumOps]int
	detached  bool
}

var _ Surface = (*Memory)(nil)

// NewMemory creates a surface with an empty container.
func NewMemory() *Memory {
	root := &memNode{id: vdom.ContainerID, tag: "#container"}
	return &Memory{
		root:      root,
		nodes:     map[vdom.ID]*memNode{vdom.ContainerID: root},
		templates: make(map[vdom.TemplateID]*memNode),
	}
}

// Detach simulates the loss of the container. Every later operation fails
// with ErrDetached.
func (m *Memory) Detach() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detached = true
}

// Count returns how many operations of kind op were executed.
func (m *Memory) Count(op vdom.Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if int(op) >= len(m.counts) {
		return 0
	}
	return m.counts[op]
}

// ResetCounts zeroes the operation counters.
func (m *Memory) ResetCounts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = [vdom.NumOps]int{}
}

// Len returns the number of live nodes, container excluded.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nodes) - 1
}

// begin locks the surface and checks it is usable. Callers must unlock.
func (m *Memory) begin(op vdom.Op) error {
	m.mu.Lock()
	if m.detached {
		return ErrDetached
	}
	m.counts[op]++
	return nil
}

func (m *Memory) lookup(id vdom.ID) (*memNode, error) {
	n, ok := m.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return n, nil
}

func (m *Memory) element(id vdom.ID) (*memNode, error) {
	n, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	if n.isText() {
		return nil, fmt.Errorf("%w: %d", ErrNotElement, id)
	}
	return n, nil
}

func (m *Memory) add(n *memNode) error {
	if _, dup := m.nodes[n.id]; dup {
		return fmt.Errorf("%w: %d", ErrDuplicateNode, n.id)
	}
	m.nodes[n.id] = n
	return nil
}

// CreateElement implements Surface.
func (m *Memory) CreateElement(id vdom.ID, tag string) error {
	defer m.mu.Unlock()
	if err := m.begin(vdom.OpCreateElement); err != nil {
		return err
	}
	return m.add(&memNode{id: id, tag: tag})
}

// CreateText implements Surface.
func (m *Memory) CreateText(id vdom.ID, text string) error {
	defer m.mu.Unlock()
	if err := m.begin(vdom.OpCreateText); err != nil {
		return err
	}
	return m.add(&memNode{id: id, text: text})
}

// SetAttribute implements Surface.
func (m *Memory) SetAttribute(id vdom.ID, key, value string) error {
	defer m.mu.Unlock()
	if err := m.begin(vdom.OpSetAttribute); err != nil {
		return err
	}
	n, err := m.element(id)
	if err != nil {
		return err
	}
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs[i].Value = value
			return nil
		}
	}
	n.attrs = append(n.attrs, vdom.Attr{Key: key, Value: value})
	return nil
}

// RemoveAttribute implements Surface.
func (m *Memory) RemoveAttribute(id vdom.ID, key string) error {
	defer m.mu.Unlock()
	if err := m.begin(vdom.OpRemoveAttribute); err != nil {
		return err
	}
	n, err := m.element(id)
	if err != nil {
		return err
	}
	n.attrs = slices.DeleteFunc(n.attrs, func(a vdom.Attr) bool { return a.Key == key })
	return nil
}

// AddListener implements Surface.
func (m *Memory) AddListener(id vdom.ID, event string) error {
	defer m.mu.Unlock()
	if err := m.begin(vdom.OpAddListener); err != nil {
		return err
	}
	n, err := m.element(id)
	if err != nil {
		return err
	}
	if !slices.Contains(n.listeners, event) {
		n.listeners = append(n.listeners, event)
	}
	return nil
}

// RemoveListener implements Surface.
func (m *Memory) RemoveListener(id vdom.ID, event string) error {
	defer m.mu.Unlock()
	if err := m.begin(vdom.OpRemoveListener); err != nil {
		return err
	}
	n, err := m.element(id)
	if err != nil {
		return err
	}
	n.listeners = slices.DeleteFunc(n.listeners, func(e string) bool { return e == event })
	return nil
}

// SetText implements Surface.
func (m *Memory) SetText(id vdom.ID, text string) error {
	defer m.mu.Unlock()
	if err := m.begin(vdom.OpSetText); err != nil {
		return err
	}
	n, err := m.lookup(id)
	if err != nil {
		return err
	}
	if !n.isText() {
		return fmt.Errorf("surface: node %d is not a text node", id)
	}
	n.text = text
	return nil
}

// InsertChild implements Surface.
func (m *Memory) InsertChild(parent, child vdom.ID, index int) error {
	defer m.mu.Unlock()
	if err := m.begin(vdom.OpInsertChild); err != nil {
		return err
	}
	p, err := m.element(parent)
	if err != nil {
		return err
	}
	c, err := m.lookup(child)
	if err != nil {
		return err
	}
	if c == p || c == m.root {
		return fmt.Errorf("surface: cannot insert %d into %d", child, parent)
	}
	detach(c)
	if index < 0 || index > len(p.children) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(p.children))
	}
	p.children = slices.Insert(p.children, index, c)
	c.parent = p
	return nil
}

// RemoveChild implements Surface.
func (m *Memory) RemoveChild(parent, child vdom.ID) error {
	defer m.mu.Unlock()
	if err := m.begin(vdom.OpRemoveChild); err != nil {
		return err
	}
	p, err := m.element(parent)
	if err != nil {
		return err
	}
	c, err := m.lookup(child)
	if err != nil {
		return err
	}
	if c.parent != p {
		return fmt.Errorf("surface: node %d is not a child of %d", child, parent)
	}
	detach(c)
	m.discard(c)
	return nil
}

func detach(c *memNode) {
	if c.parent == nil {
		return
	}
	p := c.parent
	if i := slices.Index(p.children, c); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	c.parent = nil
}

func (m *Memory) discard(n *memNode) {
	delete(m.nodes, n.id)
	for _, c := range n.children {
		m.discard(c)
	}
}

// SaveTemplate implements Surface.
func (m *Memory) SaveTemplate(tpl vdom.TemplateID, id vdom.ID) error {
	defer m.mu.Unlock()
	if err := m.begin(vdom.OpSaveTemplate); err != nil {
		return err
	}
	n, err := m.lookup(id)
	if err != nil {
		return err
	}
	m.templates[tpl] = copyTree(n, nil)
	return nil
}

// CloneNode implements Surface.
func (m *Memory) CloneNode(tpl vdom.TemplateID, id vdom.ID) error {
	defer m.mu.Unlock()
	if err := m.begin(vdom.OpCloneNode); err != nil {
		return err
	}
	t, ok := m.templates[tpl]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTemplate, tpl)
	}
	next := id
	clone := copyTree(t, &next)
	var err error
	walk(clone, func(n *memNode) {
		if err == nil {
			err = m.add(n)
		}
	})
	return err
}

// copyTree deep-copies n without listeners. When next is non-nil, copies
// receive sequential IDs in pre-order.
func copyTree(n *memNode, next *vdom.ID) *memNode {
	cp := &memNode{
		id:    n.id,
		tag:   n.tag,
		text:  n.text,
		attrs: slices.Clone(n.attrs),
	}
	if next != nil {
		cp.id = *next
		*next++
	}
	for _, c := range n.children {
		cc := copyTree(c, next)
		cc.parent = cp
		cp.children = append(cp.children, cc)
	}
	return cp
}

func walk(n *memNode, fn func(*memNode)) {
	fn(n)
	for _, c := range n.children {
		walk(c, fn)
	}
}

// HasListener reports whether the node forwards event.
func (m *Memory) HasListener(id vdom.ID, event string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	return ok && slices.Contains(n.listeners, event)
}

// NodeInfo is a read-only view of a live node.
type NodeInfo struct {
	ID        vdom.ID
	Tag       string
	Text      string
	Attrs     []vdom.Attr
	Listeners []string
	Children  []vdom.ID
}

// Lookup returns a view of the node bound to id.
func (m *Memory) Lookup(id vdom.ID) (NodeInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok {
		return NodeInfo{}, false
	}
	info := NodeInfo{
		ID:        n.id,
		Tag:       n.tag,
		Text:      n.text,
		Attrs:     slices.Clone(n.attrs),
		Listeners: slices.Clone(n.listeners),
	}
	for _, c := range n.children {
		info.Children = append(info.Children, c.id)
	}
	return info, true
}

// HTML renders the container's children as markup. Attributes keep their
// insertion order.
func (m *Memory) HTML() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b strings.Builder
	for _, c := range m.root.children {
		writeHTML(&b, c)
	}
	return b.String()
}

func writeHTML(b *strings.Builder, n *memNode) {
	if n.isText() {
		b.WriteString(html.EscapeString(n.text))
		return
	}
	b.WriteByte('<')
	b.WriteString(n.tag)
	for _, a := range n.attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	for _, c := range n.children {
		writeHTML(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
}

// TextContent concatenates the text of the container's subtree.
func (m *Memory) TextContent() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b strings.Builder
	walk(m.root, func(n *memNode) {
		if n.isText() {
			b.WriteString(n.text)
		}
	})
	return b.String()
}
