package surface

import (
	"context"
	"errors"
	"fmt"

	"github.com/vango-dev/memodom/pkg/vdom"
)

// Common surface errors.
var (
	ErrDetached        = errors.New("surface: container detached")
	ErrUnknownNode     = errors.New("surface: unknown node")
	ErrUnknownTemplate = errors.New("surface: unknown template")
	ErrDuplicateNode   = errors.New("surface: node id already in use")
	ErrIndexOutOfRange = errors.New("surface: child index out of range")
	ErrNotElement      = errors.New("surface: node is not an element")
	ErrUnsupportedOp   = errors.New("surface: unsupported operation")
)

// Surface executes primitive UI operations.
type Surface interface {
	CreateElement(id vdom.ID, tag string) error
	CreateText(id vdom.ID, text string) error
	SetAttribute(id vdom.ID, key, value string) error
	RemoveAttribute(id vdom.ID, key string) error
	AddListener(id vdom.ID, event string) error
	RemoveListener(id vdom.ID, event string) error
	SetText(id vdom.ID, text string) error

	// InsertChild detaches child if it is attached, then inserts it into
	// parent's children at index.
	InsertChild(parent, child vdom.ID, index int) error

	// RemoveChild detaches child from parent and discards its subtree.
	RemoveChild(parent, child vdom.ID) error

	// SaveTemplate records a copy of the subtree rooted at id, without
	// listeners.
	SaveTemplate(tpl vdom.TemplateID, id vdom.ID) error

	// CloneNode creates a detached copy of a template. The copy's nodes
	// get IDs id, id+1, ... in pre-order.
	CloneNode(tpl vdom.TemplateID, id vdom.ID) error
}

// OpError reports the change a surface rejected.
type OpError struct {
	Index  int
	Change vdom.Change
	Err    error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("surface: change %d (%s id=%d): %v", e.Index, e.Change.Op, e.Change.ID, e.Err)
}

// Unwrap returns the underlying surface error.
func (e *OpError) Unwrap() error {
	return e.Err
}

// Apply executes cl against s in order. It stops at the first error and
// returns it wrapped in an *OpError; changes before it stay applied.
func Apply(s Surface, cl vdom.ChangeList) error {
	for i, c := range cl {
		if err := applyOne(s, c); err != nil {
			return &OpError{Index: i, Change: c, Err: err}
		}
	}
	return nil
}

func applyOne(s Surface, c vdom.Change) error {
	switch c.Op {
	case vdom.OpCreateElement:
		return s.CreateElement(c.ID, c.Value)
	case vdom.OpCreateText:
		return s.CreateText(c.ID, c.Value)
	case vdom.OpSetAttribute:
		return s.SetAttribute(c.ID, c.Key, c.Value)
	case vdom.OpRemoveAttribute:
		return s.RemoveAttribute(c.ID, c.Key)
	case vdom.OpAddListener:
		return s.AddListener(c.ID, c.Key)
	case vdom.OpRemoveListener:
		return s.RemoveListener(c.ID, c.Key)
	case vdom.OpSetText:
		return s.SetText(c.ID, c.Value)
	case vdom.OpInsertChild:
		return s.InsertChild(c.Parent, c.ID, c.Index)
	case vdom.OpRemoveChild:
		return s.RemoveChild(c.Parent, c.ID)
	case vdom.OpSaveTemplate:
		return s.SaveTemplate(c.Template, c.ID)
	case vdom.OpCloneNode:
		return s.CloneNode(c.Template, c.ID)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedOp, c.Op)
	}
}

// Executor adapts a Surface to the driver's executor contract.
type Executor struct {
	Surface Surface
}

// NewExecutor returns an executor applying change lists to s.
func NewExecutor(s Surface) *Executor {
	return &Executor{Surface: s}
}

// Execute implements driver.Executor.
func (e *Executor) Execute(_ context.Context, cl vdom.ChangeList) error {
	return Apply(e.Surface, cl)
}
