package driver

import (
	"context"
	"errors"
	"weak"

	"github.com/vango-dev/memodom/pkg/vdom"
)

// Handle is a non-owning reference to a driver. It does not keep the driver
// alive; once the driver is closed or collected, every method returns
// ErrDriverGone.
type Handle struct {
	ptr weak.Pointer[Vdom]
}

func newHandle(d *Vdom) *Handle {
	return &Handle{ptr: weak.Make(d)}
}

func (h *Handle) driver() (*Vdom, error) {
	d := h.ptr.Value()
	if d == nil {
		return nil, ErrDriverGone
	}
	return d, nil
}

func gone(err error) error {
	if errors.Is(err, ErrClosed) {
		return ErrDriverGone
	}
	return err
}

// Alive reports whether the driver still exists. A true result may be stale
// by the time the caller acts on it.
func (h *Handle) Alive() bool {
	d := h.ptr.Value()
	if d == nil {
		return false
	}
	// closed is guarded by the semaphore; a racing Close is reported by the
	// next operation instead.
	select {
	case d.sem <- struct{}{}:
		closed := d.closed
		d.release()
		return !closed
	default:
		return true
	}
}

// Render calls Vdom.Render.
func (h *Handle) Render(ctx context.Context) error {
	d, err := h.driver()
	if err != nil {
		return err
	}
	return gone(d.Render(ctx))
}

// SetComponent calls Vdom.SetComponent.
func (h *Handle) SetComponent(ctx context.Context, root vdom.Renderer) error {
	d, err := h.driver()
	if err != nil {
		return err
	}
	return gone(d.SetComponent(ctx, root))
}

// WithComponent calls Vdom.WithComponent.
func (h *Handle) WithComponent(ctx context.Context, fn func(root vdom.Renderer) error) error {
	d, err := h.driver()
	if err != nil {
		return err
	}
	return gone(d.WithComponent(ctx, fn))
}

// Dispatch calls Vdom.Dispatch.
func (h *Handle) Dispatch(ctx context.Context, target vdom.ID, ev vdom.Event) (bool, error) {
	d, err := h.driver()
	if err != nil {
		return false, err
	}
	ok, err := d.Dispatch(ctx, target, ev)
	return ok, gone(err)
}
