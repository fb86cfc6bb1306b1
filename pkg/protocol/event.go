package protocol

import (
	"fmt"
	"sort"

	"github.com/vango-dev/memodom/pkg/vdom"
)

// EncodeEvent encodes ev as a FrameEvent frame. Data keys are written in
// sorted order so equal events encode identically.
func EncodeEvent(ev vdom.Event) []byte {
	e := NewEncoder()
	e.WriteString(ev.Name)
	e.WriteUvarint(uint64(ev.Target))
	keys := make([]string, 0, len(ev.Data))
	for k := range ev.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.WriteUvarint(uint64(len(keys)))
	for _, k := range keys {
		e.WriteString(k)
		e.WriteString(ev.Data[k])
	}
	f := Frame{Type: FrameEvent, Payload: e.Bytes()}
	return f.Encode()
}

// DecodeEvent decodes a frame produced by EncodeEvent.
func DecodeEvent(data []byte) (vdom.Event, error) {
	f, err := DecodeFrame(data)
	if err != nil {
		return vdom.Event{}, err
	}
	if f.Type != FrameEvent {
		return vdom.Event{}, fmt.Errorf("%w: got %s, want %s", ErrInvalidFrameType, f.Type, FrameEvent)
	}
	d := NewDecoder(f.Payload)
	var ev vdom.Event
	if ev.Name, err = d.ReadString(); err != nil {
		return vdom.Event{}, err
	}
	if ev.Target, err = d.ReadID(); err != nil {
		return vdom.Event{}, err
	}
	n, err := d.ReadCount()
	if err != nil {
		return vdom.Event{}, err
	}
	if n > 0 {
		ev.Data = make(map[string]string, n)
	}
	for i := 0; i < n; i++ {
		k, err := d.ReadString()
		if err != nil {
			return vdom.Event{}, err
		}
		v, err := d.ReadString()
		if err != nil {
			return vdom.Event{}, err
		}
		ev.Data[k] = v
	}
	return ev, nil
}

// EncodeError encodes a fatal error message as a FrameError frame.
func EncodeError(msg string) []byte {
	e := NewEncoder()
	e.WriteString(msg)
	f := Frame{Type: FrameError, Payload: e.Bytes()}
	return f.Encode()
}

// DecodeError decodes a frame produced by EncodeError.
func DecodeError(data []byte) (string, error) {
	f, err := DecodeFrame(data)
	if err != nil {
		return "", err
	}
	if f.Type != FrameError {
		return "", fmt.Errorf("%w: got %s, want %s", ErrInvalidFrameType, f.Type, FrameError)
	}
	return NewDecoder(f.Payload).ReadString()
}
