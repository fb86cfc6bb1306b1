package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/memodom/pkg/protocol"
	"github.com/vango-dev/memodom/pkg/surface"
	"github.com/vango-dev/memodom/pkg/vdom"
)

var (
	// ErrSequenceGap is returned when a batch does not follow the previous
	// one.
	ErrSequenceGap = errors.New("remote: batch out of sequence")

	// ErrUnexpectedFrame is returned for frames a mirror does not accept.
	ErrUnexpectedFrame = errors.New("remote: unexpected frame")
)

// PeerError is a fatal error reported by the driver side.
type PeerError struct {
	Message string
}

func (e *PeerError) Error() string {
	return "remote: peer error: " + e.Message
}

// Mirror applies batches received from a driver to a local surface and
// sends events back.
type Mirror struct {
	conn    *conn
	surface surface.Surface
	seq     uint64
	logger  *slog.Logger
}

// Dial connects to a driver's websocket endpoint.
func Dial(ctx context.Context, url string, s surface.Surface) (*Mirror, error) {
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return nil, fmt.Errorf("remote: dial %s: %s: %w", url, resp.Status, err)
		}
		return nil, fmt.Errorf("remote: dial %s: %w", url, err)
	}
	return NewMirror(ws, s), nil
}

// NewMirror wraps an established connection.
func NewMirror(ws *websocket.Conn, s surface.Surface) *Mirror {
	return &Mirror{
		conn:    newConn(ws, 0),
		surface: s,
		logger:  slog.Default().With("component", "mirror"),
	}
}

// Next reads the next batch and applies it to the surface.
func (m *Mirror) Next() (protocol.Batch, error) {
	_, msg, err := m.conn.ws.ReadMessage()
	if err != nil {
		return protocol.Batch{}, err
	}
	f, err := protocol.DecodeFrame(msg)
	if err != nil {
		return protocol.Batch{}, err
	}

	switch f.Type {
	case protocol.FrameChanges:
		b, err := protocol.DecodeBatch(msg)
		if err != nil {
			return protocol.Batch{}, err
		}
		if b.Seq != m.seq+1 {
			return b, fmt.Errorf("%w: got %d after %d", ErrSequenceGap, b.Seq, m.seq)
		}
		if err := surface.Apply(m.surface, b.Changes); err != nil {
			return b, err
		}
		m.seq = b.Seq
		return b, nil

	case protocol.FrameError:
		text, err := protocol.DecodeError(msg)
		if err != nil {
			return protocol.Batch{}, err
		}
		return protocol.Batch{}, &PeerError{Message: text}

	default:
		return protocol.Batch{}, fmt.Errorf("%w: %s", ErrUnexpectedFrame, f.Type)
	}
}

// Run applies batches until the connection closes or ctx is done. A normal
// close returns nil.
func (m *Mirror) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		m.conn.close(websocket.CloseNormalClosure, "")
	})
	defer stop()

	for {
		b, err := m.Next()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		m.logger.Debug("batch applied", "seq", b.Seq, "changes", len(b.Changes))
	}
}

// Send delivers an event to the driver.
func (m *Mirror) Send(ev vdom.Event) error {
	return m.conn.write(protocol.EncodeEvent(ev))
}

// Seq returns the sequence number of the last applied batch.
func (m *Mirror) Seq() uint64 {
	return m.seq
}

// Close closes the connection.
func (m *Mirror) Close() error {
	return m.conn.close(websocket.CloseNormalClosure, "")
}
