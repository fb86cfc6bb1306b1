package remote

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/memodom/pkg/protocol"
	"github.com/vango-dev/memodom/pkg/vdom"
)

// Executor sends change lists to a peer as numbered batches. It implements
// driver.Executor.
type Executor struct {
	conn  *conn
	seq   atomic.Uint64
	bytes atomic.Uint64
}

// NewExecutor creates an executor writing to ws. A zero writeTimeout
// disables write deadlines.
func NewExecutor(ws *websocket.Conn, writeTimeout time.Duration) *Executor {
	return newExecutor(newConn(ws, writeTimeout))
}

func newExecutor(c *conn) *Executor {
	return &Executor{conn: c}
}

// Execute encodes cl as the next batch and writes it. The change list is
// not applied until the peer reads it; a write error means the peer may
// have missed the batch.
func (e *Executor) Execute(_ context.Context, cl vdom.ChangeList) error {
	seq := e.seq.Add(1)
	frame := protocol.EncodeBatch(protocol.Batch{Seq: seq, Changes: cl})
	if err := e.conn.write(frame); err != nil {
		return fmt.Errorf("remote: send batch %d: %w", seq, err)
	}
	e.bytes.Add(uint64(len(frame)))
	return nil
}

// Seq returns the sequence number of the last batch sent.
func (e *Executor) Seq() uint64 {
	return e.seq.Load()
}

// BytesSent returns the number of frame bytes written.
func (e *Executor) BytesSent() uint64 {
	return e.bytes.Load()
}
