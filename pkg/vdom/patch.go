package vdom

// Op is the type of a change-list operation.
type Op uint8

const (
	OpCreateElement   Op = 0x01 // Create a detached element
	OpCreateText      Op = 0x02 // Create a detached text node
	OpSetAttribute    Op = 0x03 // Set/update attribute
	OpRemoveAttribute Op = 0x04 // Remove attribute
	OpAddListener     Op = 0x05 // Start forwarding an event
	OpRemoveListener  Op = 0x06 // Stop forwarding an event
	OpSetText         Op = 0x07 // Update text content
	OpInsertChild     Op = 0x08 // Insert (or move) a child at an index
	OpRemoveChild     Op = 0x09 // Detach and discard a child subtree
	OpSaveTemplate    Op = 0x0A // Record a live subtree as a template
	OpCloneNode       Op = 0x0B // Create a detached copy of a template
)

// NumOps is one past the largest Op value.
const NumOps = int(OpCloneNode) + 1

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpSetAttribute:
		return "SetAttribute"
	case OpRemoveAttribute:
		return "RemoveAttribute"
	case OpAddListener:
		return "AddListener"
	case OpRemoveListener:
		return "RemoveListener"
	case OpSetText:
		return "SetText"
	case OpInsertChild:
		return "InsertChild"
	case OpRemoveChild:
		return "RemoveChild"
	case OpSaveTemplate:
		return "SaveTemplate"
	case OpCloneNode:
		return "CloneNode"
	default:
		return "Unknown"
	}
}

// TemplateID identifies a recorded template on the surface.
type TemplateID uint64

// Change is a single surface operation.
//
// Field use per op:
//
//	CreateElement    ID, Value (tag)
//	CreateText       ID, Value (text)
//	SetAttribute     ID, Key, Value
//	RemoveAttribute  ID, Key
//	AddListener      ID, Key (event)
//	RemoveListener   ID, Key (event)
//	SetText          ID, Value
//	InsertChild      Parent, ID (child), Index
//	RemoveChild      Parent, ID (child)
//	SaveTemplate     Template, ID (subtree root)
//	CloneNode        Template, ID (first pre-order ID of the clone)
type Change struct {
	Op       Op
	ID       ID
	Parent   ID
	Index    int
	Key      string
	Value    string
	Template TemplateID
}

// ChangeList is an ordered sequence of changes, safe to apply sequentially.
type ChangeList []Change

// Stats counts the changes per op.
func (cl ChangeList) Stats() [NumOps]int {
	var counts [NumOps]int
	for _, c := range cl {
		if int(c.Op) < NumOps {
			counts[c.Op]++
		}
	}
	return counts
}

// Count returns the number of changes with the given op.
func (cl ChangeList) Count(op Op) int {
	n := 0
	for _, c := range cl {
		if c.Op == op {
			n++
		}
	}
	return n
}
