package protocol

import (
	"fmt"

	"github.com/vango-dev/memodom/pkg/vdom"
)

// Batch is the change list of one render cycle.
type Batch struct {
	Seq     uint64
	Changes vdom.ChangeList
}

// EncodeBatch encodes b as a FrameChanges frame.
func EncodeBatch(b Batch) []byte {
	e := NewEncoder()
	e.WriteUvarint(b.Seq)
	e.WriteUvarint(uint64(len(b.Changes)))
	for _, c := range b.Changes {
		encodeChange(e, c)
	}
	f := Frame{Type: FrameChanges, Payload: e.Bytes()}
	return f.Encode()
}

func encodeChange(e *Encoder, c vdom.Change) {
	e.WriteByte(byte(c.Op))
	switch c.Op {
	case vdom.OpCreateElement, vdom.OpCreateText, vdom.OpSetText:
		e.WriteUvarint(uint64(c.ID))
		e.WriteString(c.Value)
	case vdom.OpSetAttribute:
		e.WriteUvarint(uint64(c.ID))
		e.WriteString(c.Key)
		e.WriteString(c.Value)
	case vdom.OpRemoveAttribute, vdom.OpAddListener, vdom.OpRemoveListener:
		e.WriteUvarint(uint64(c.ID))
		e.WriteString(c.Key)
	case vdom.OpInsertChild:
		e.WriteUvarint(uint64(c.Parent))
		e.WriteUvarint(uint64(c.ID))
		e.WriteUvarint(uint64(c.Index))
	case vdom.OpRemoveChild:
		e.WriteUvarint(uint64(c.Parent))
		e.WriteUvarint(uint64(c.ID))
	case vdom.OpSaveTemplate, vdom.OpCloneNode:
		e.WriteUvarint(uint64(c.Template))
		e.WriteUvarint(uint64(c.ID))
	}
}

// DecodeBatch decodes a frame produced by EncodeBatch.
func DecodeBatch(data []byte) (Batch, error) {
	f, err := DecodeFrame(data)
	if err != nil {
		return Batch{}, err
	}
	if f.Type != FrameChanges {
		return Batch{}, fmt.Errorf("%w: got %s, want %s", ErrInvalidFrameType, f.Type, FrameChanges)
	}
	return decodeBatchPayload(f.Payload)
}

func decodeBatchPayload(payload []byte) (Batch, error) {
	d := NewDecoder(payload)
	seq, err := d.ReadUvarint()
	if err != nil {
		return Batch{}, err
	}
	n, err := d.ReadCount()
	if err != nil {
		return Batch{}, err
	}
	b := Batch{Seq: seq, Changes: make(vdom.ChangeList, 0, n)}
	for i := 0; i < n; i++ {
		c, err := decodeChange(d)
		if err != nil {
			return Batch{}, fmt.Errorf("protocol: change %d: %w", i, err)
		}
		b.Changes = append(b.Changes, c)
	}
	return b, nil
}

func decodeChange(d *Decoder) (vdom.Change, error) {
	op, err := d.ReadByte()
	if err != nil {
		return vdom.Change{}, err
	}
	c := vdom.Change{Op: vdom.Op(op)}

	// Each op reads its fields in order; the first error wins.
	var derr error
	id := func() vdom.ID {
		if derr != nil {
			return 0
		}
		var v vdom.ID
		v, derr = d.ReadID()
		return v
	}
	str := func() string {
		if derr != nil {
			return ""
		}
		var s string
		s, derr = d.ReadString()
		return s
	}
	num := func() uint64 {
		if derr != nil {
			return 0
		}
		var v uint64
		v, derr = d.ReadUvarint()
		return v
	}

	switch c.Op {
	case vdom.OpCreateElement, vdom.OpCreateText, vdom.OpSetText:
		c.ID = id()
		c.Value = str()
	case vdom.OpSetAttribute:
		c.ID = id()
		c.Key = str()
		c.Value = str()
	case vdom.OpRemoveAttribute, vdom.OpAddListener, vdom.OpRemoveListener:
		c.ID = id()
		c.Key = str()
	case vdom.OpInsertChild:
		c.Parent = id()
		c.ID = id()
		if idx := num(); idx <= MaxCollectionCount {
			c.Index = int(idx)
		} else if derr == nil {
			derr = fmt.Errorf("%w: child index %d", ErrCollectionTooLarge, idx)
		}
	case vdom.OpRemoveChild:
		c.Parent = id()
		c.ID = id()
	case vdom.OpSaveTemplate, vdom.OpCloneNode:
		c.Template = vdom.TemplateID(num())
		c.ID = id()
	default:
		return vdom.Change{}, fmt.Errorf("%w: 0x%02x", ErrUnknownOp, op)
	}
	return c, derr
}
