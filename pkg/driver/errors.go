package driver

import (
	"errors"
	"fmt"

	"github.com/vango-dev/memodom/pkg/vdom"
)

var (
	// ErrClosed is returned by operations on a closed driver.
	ErrClosed = errors.New("driver: closed")

	// ErrPoisoned is returned after a cycle failed at the surface.
	ErrPoisoned = errors.New("driver: poisoned by failed cycle")

	// ErrDriverGone is returned by a Handle whose driver was closed or
	// collected.
	ErrDriverGone = errors.New("driver: gone")

	// ErrComponentType is returned by WithComponentAs when the root is not
	// of the requested type.
	ErrComponentType = errors.New("driver: root component has a different type")

	// ErrReentrant is returned by WithComponent, Dispatch and Close when
	// called while a WithComponent callback or a listener holds the driver.
	// A caller on another goroutine may retry once the holder returns.
	ErrReentrant = errors.New("driver: called from inside a held callback")
)

// CycleError reports a render cycle that failed at the executor.
type CycleError struct {
	Seq     uint64 // Sequence number of the failed cycle
	Changes int    // Size of the change list that was being applied
	Err     error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("driver: cycle %d (%d changes) failed: %v", e.Seq, e.Changes, e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}

// ListenerPanic reports a listener that panicked during Dispatch.
type ListenerPanic struct {
	Target vdom.ID
	Event  string
	Value  any
	Stack  []byte
}

func (e *ListenerPanic) Error() string {
	return fmt.Sprintf("driver: listener %q on node %d panicked: %v", e.Event, e.Target, e.Value)
}
