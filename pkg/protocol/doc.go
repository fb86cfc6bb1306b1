// Package protocol implements the binary wire format memodom uses to ship
// change lists and events between a driver and a remote surface.
//
// # Frames
//
// Every message is a frame: a 1-byte type, a 4-byte big-endian payload
// length and the payload.
//
//	┌─────────────┬───────────────────────────────┬──────────────┐
//	│ Frame Type  │ Payload Length                │ Payload      │
//	│ (1 byte)    │ (4 bytes, big-endian)         │ (variable)   │
//	└─────────────┴───────────────────────────────┴──────────────┘
//
// # Change Batches
//
// A FrameChanges payload is a Batch: a sequence number followed by a
// varint count of changes. Each change starts with its op byte; the fields
// that follow depend on the op and mirror vdom.Change:
//
//	CreateElement    id, tag
//	CreateText       id, text
//	SetAttribute     id, key, value
//	RemoveAttribute  id, key
//	AddListener      id, event
//	RemoveListener   id, event
//	SetText          id, text
//	InsertChild      parent, child, index
//	RemoveChild      parent, child
//	SaveTemplate     template, id
//	CloneNode        template, id
//
// IDs, indexes and template IDs are unsigned varints; strings are
// varint-length-prefixed UTF-8.
//
// # Events
//
// A FrameEvent payload carries an event from the surface back to the
// driver: name, target ID and a list of key/value pairs.
package protocol
