package protocol

import (
	"errors"
	"io"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 5

	// MaxPayloadSize is the largest payload a frame may carry (16MB).
	MaxPayloadSize = 16 << 20
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameChanges FrameType = 0x01 // Driver → surface change batch
	FrameEvent   FrameType = 0x02 // Surface → driver event
	FrameError   FrameType = 0x03 // Fatal error, connection closes after it
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameChanges:
		return "Changes"
	case FrameEvent:
		return "Event"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is a typed payload.
type Frame struct {
	Type    FrameType
	Payload []byte
}

// Encode encodes the frame including its header.
func (f *Frame) Encode() []byte {
	e := &Encoder{buf: make([]byte, 0, FrameHeaderSize+len(f.Payload))}
	e.WriteByte(byte(f.Type))
	e.WriteUint32(uint32(len(f.Payload)))
	e.buf = append(e.buf, f.Payload...)
	return e.Bytes()
}

// DecodeFrame decodes one complete frame. Trailing bytes are an error.
func DecodeFrame(data []byte) (*Frame, error) {
	d := NewDecoder(data)
	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	ft := FrameType(t)
	if ft < FrameChanges || ft > FrameError {
		return nil, ErrInvalidFrameType
	}
	length, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	if length > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	if int(length) != d.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:])
	return &Frame{Type: ft, Payload: payload}, nil
}
