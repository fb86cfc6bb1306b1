package remote

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/memodom/pkg/driver"
	"github.com/vango-dev/memodom/pkg/protocol"
	"github.com/vango-dev/memodom/pkg/vdom"
)

// Session binds one websocket peer to one driver.
type Session struct {
	ID string

	conn        *conn
	exec        *Executor
	driver      *driver.Vdom
	readTimeout time.Duration
	logger      *slog.Logger
}

// NewSession mounts root and sends the initial batch to the peer.
func NewSession(ctx context.Context, id string, ws *websocket.Conn, root vdom.Renderer, config SessionConfig, opts ...driver.Option) (*Session, error) {
	c := newConn(ws, config.WriteTimeout)
	exec := newExecutor(c)
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session_id", id)

	d, err := driver.New(ctx, exec, root, append([]driver.Option{driver.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:          id,
		conn:        c,
		exec:        exec,
		driver:      d,
		readTimeout: config.ReadTimeout,
		logger:      logger,
	}, nil
}

// SessionConfig configures a Session.
type SessionConfig struct {
	// ReadTimeout bounds the wait for the next peer frame. Zero disables it.
	ReadTimeout time.Duration

	// WriteTimeout bounds every frame write. Zero disables it.
	WriteTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Driver returns the session's driver.
func (s *Session) Driver() *driver.Vdom {
	return s.driver
}

// ReadLoop dispatches peer events until the connection closes, ctx is
// done or the driver fails. It closes the session before returning; a done
// ctx returns nil.
func (s *Session) ReadLoop(ctx context.Context) error {
	defer s.Close()

	// An expired read deadline unblocks ReadMessage while leaving the
	// connection writable for the unmount batch and the close frame.
	stop := context.AfterFunc(ctx, func() {
		s.conn.ws.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		if s.readTimeout > 0 {
			s.conn.ws.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		if ctx.Err() != nil {
			return nil
		}
		_, msg, err := s.conn.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Debug("read loop cancelled")
				return nil
			}
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				return err
			}
			return nil
		}

		ev, err := protocol.DecodeEvent(msg)
		if err != nil {
			s.logger.Error("event decode error", "error", err)
			continue
		}

		_, err = s.driver.Dispatch(ctx, ev.Target, ev)
		var panicErr *driver.ListenerPanic
		switch {
		case err == nil:
		case errors.As(err, &panicErr):
			s.conn.write(protocol.EncodeError("internal error"))
		case ctx.Err() != nil:
			return nil
		default:
			s.logger.Error("dispatch failed", "error", err)
			s.conn.write(protocol.EncodeError(err.Error()))
			return err
		}
	}
}

// Close unmounts the root and closes the connection.
func (s *Session) Close() {
	if err := s.driver.Close(context.Background()); err != nil {
		s.logger.Debug("unmount on close failed", "error", err)
	}
	s.conn.close(websocket.CloseNormalClosure, "")
	s.logger.Info("session closed",
		"batches", s.exec.Seq(),
		"bytes_sent", s.exec.BytesSent())
}
