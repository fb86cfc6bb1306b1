package driver

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/memodom/pkg/journal"
	"github.com/vango-dev/memodom/pkg/protocol"
	"github.com/vango-dev/memodom/pkg/vdom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// State is the driver's cycle state.
type State int32

const (
	StateIdle      State = iota // No cycle in flight
	StateRendering              // A render, diff and apply is in progress
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRendering:
		return "Rendering"
	default:
		return "Unknown"
	}
}

// Executor applies change lists to a UI surface.
type Executor interface {
	Execute(ctx context.Context, cl vdom.ChangeList) error
}

// Vdom drives one root renderable against one surface.
type Vdom struct {
	// sem is a one-slot semaphore granting exclusive access.
	sem   chan struct{}
	state atomic.Int32

	exec   Executor
	root   vdom.Renderer
	differ *vdom.Differ
	tree   vdom.Tree

	// arenas[cur] backs tree; the other one is clean and receives the next pass.
	arenas [2]*vdom.Arena
	cur    int

	seq    uint64
	err    error
	closed bool
	handle *Handle

	// mu guards held and queued. held is set while a WithComponent callback
	// or a listener runs; requests arriving then are queued for the holder.
	mu     sync.Mutex
	held   bool
	queued request

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	journal *journal.Journal
}

// New creates a driver for root and mounts it with a first cycle.
func New(ctx context.Context, exec Executor, root vdom.Renderer, opts ...Option) (*Vdom, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer("memodom")
	}

	d := &Vdom{
		sem:     make(chan struct{}, 1),
		exec:    exec,
		root:    root,
		differ:  vdom.NewDiffer(),
		arenas:  [2]*vdom.Arena{vdom.NewArena(), vdom.NewArena()},
		logger:  o.logger.With("component", "driver"),
		metrics: o.metrics,
		tracer:  o.tracer,
		journal: o.journal,
	}
	d.handle = newHandle(d)

	if err := d.acquire(ctx); err != nil {
		return nil, err
	}
	defer d.release()
	d.metrics.driverOpened()
	if err := d.cycle(ctx, "mount", false); err != nil {
		d.metrics.driverClosed()
		return nil, err
	}
	return d, nil
}

// acquire waits for exclusive access.
func (d *Vdom) acquire(ctx context.Context) error {
	select {
	case d.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	switch {
	case d.closed:
		d.release()
		return ErrClosed
	case d.err != nil:
		d.release()
		return ErrPoisoned
	}
	return nil
}

func (d *Vdom) release() {
	<-d.sem
}

// request is a cycle asked for while the driver was held.
type request struct {
	render bool
	root   vdom.Renderer // set by SetComponent
}

// enqueue records a request for the holder when the driver is held. It
// reports false when the caller must acquire the driver itself.
func (d *Vdom) enqueue(root vdom.Renderer) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.held {
		return false
	}
	d.queued.render = true
	if root != nil {
		d.queued.root = root
	}
	return true
}

func (d *Vdom) isHeld() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.held
}

// hold runs fn with the driver marked held and returns what was queued
// meanwhile. Callers hold exclusive access.
func (d *Vdom) hold(fn func() error) (req request, err error) {
	d.mu.Lock()
	d.held = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.held = false
		req, d.queued = d.queued, request{}
		d.mu.Unlock()
	}()
	return request{}, fn()
}

// drain runs the cycle for req. kind is used when req only asks for a
// render; a queued root always triggers a replace.
func (d *Vdom) drain(ctx context.Context, req request, kind string) error {
	if req.root != nil {
		d.root = req.root
		return d.cycle(ctx, "replace", true)
	}
	if req.render {
		return d.cycle(ctx, kind, false)
	}
	return nil
}

// Render runs one render, diff and apply cycle. Called from inside a
// WithComponent callback or a listener, it queues the cycle for the holder
// and returns nil at once.
func (d *Vdom) Render(ctx context.Context) error {
	if d.enqueue(nil) {
		return nil
	}
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.release()
	return d.cycle(ctx, "render", false)
}

// Schedule queues a render cycle and returns a channel that receives its
// result once the cycle completed.
func (d *Vdom) Schedule() <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- d.Render(context.Background())
	}()
	return done
}

// SetComponent replaces the root renderable. The old root's subtree is
// removed and the new one created from scratch, without comparing them.
// Like Render, it is queued when called while the driver is held.
func (d *Vdom) SetComponent(ctx context.Context, root vdom.Renderer) error {
	if d.enqueue(root) {
		return nil
	}
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.release()
	d.root = root
	return d.cycle(ctx, "replace", true)
}

// WithComponent runs fn with exclusive access to the root renderable. No
// cycle runs while fn executes. fn typically mutates state or invalidates
// cache wrappers. A Render or SetComponent issued by fn is queued and its
// cycle runs after fn returns, before WithComponent does; without one the
// effect shows at the next Render. fn must not call WithComponent, Dispatch
// or Close; those return ErrReentrant.
func (d *Vdom) WithComponent(ctx context.Context, fn func(root vdom.Renderer) error) error {
	if d.isHeld() {
		return ErrReentrant
	}
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.release()
	req, err := d.hold(func() error { return fn(d.root) })
	if cerr := d.drain(ctx, req, "render"); err == nil {
		err = cerr
	}
	return err
}

// WithComponentAs is WithComponent for a root of known type T.
func WithComponentAs[T vdom.Renderer](ctx context.Context, d *Vdom, fn func(root T) error) error {
	return d.WithComponent(ctx, func(r vdom.Renderer) error {
		root, ok := r.(T)
		if !ok {
			return ErrComponentType
		}
		return fn(root)
	})
}

// Dispatch delivers ev to the listener bound to the surface node target and
// then runs a render cycle. It reports whether a listener was found; when
// none is, no cycle runs. The listener holds the driver the way a
// WithComponent callback does.
func (d *Vdom) Dispatch(ctx context.Context, target vdom.ID, ev vdom.Event) (bool, error) {
	if d.isHeld() {
		return false, ErrReentrant
	}
	if err := d.acquire(ctx); err != nil {
		return false, err
	}
	defer d.release()

	n := d.tree.Find(target)
	if n == nil {
		return false, nil
	}
	l := n.Listener(ev.Name)
	if l == nil {
		d.logger.Debug("no listener", "target", target, "event", ev.Name)
		return false, nil
	}
	ev.Target = target
	req, err := d.hold(func() error { return d.safeExecute(l, ev) })
	if err != nil {
		return true, err
	}
	req.render = true
	return true, d.drain(ctx, req, "event")
}

// safeExecute runs a listener with panic recovery.
func (d *Vdom) safeExecute(l vdom.Listener, ev vdom.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			d.logger.Error("listener panic",
				"panic", r,
				"target", ev.Target,
				"event", ev.Name,
				"stack", string(stack))
			err = &ListenerPanic{Target: ev.Target, Event: ev.Name, Value: r, Stack: stack}
		}
	}()
	l(ev)
	return nil
}

// State reports whether a cycle is in flight.
func (d *Vdom) State() State {
	return State(d.state.Load())
}

// Tree returns the current physical tree. It is only stable while the
// caller holds exclusive access, e.g. inside WithComponent.
func (d *Vdom) Tree() vdom.Tree {
	return d.tree
}

// Handle returns a non-owning reference to the driver.
func (d *Vdom) Handle() *Handle {
	return d.handle
}

// Close unmounts the root and releases the driver. Later operations return
// ErrClosed. Closing a poisoned driver skips the unmount. The unmount is
// observed and journaled like any other cycle, with kind "unmount".
func (d *Vdom) Close(ctx context.Context) error {
	if d.isHeld() {
		return ErrReentrant
	}
	select {
	case d.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer d.release()
	if d.closed {
		return nil
	}
	d.closed = true
	d.metrics.driverClosed()
	if d.err != nil || d.tree.Empty() {
		return nil
	}

	err := d.apply(ctx, "unmount", func(*vdom.Arena) (vdom.Tree, vdom.ChangeList, vdom.DiffStats) {
		return d.differ.Diff(d.tree, nil)
	})
	d.tree = vdom.Tree{}
	d.root = nil
	d.arenas[0].Reset()
	d.arenas[1].Reset()
	return err
}

// cycle renders the root into the spare arena, diffs it against the
// physical tree and applies the changes. Callers hold exclusive access.
func (d *Vdom) cycle(ctx context.Context, kind string, replace bool) error {
	return d.apply(ctx, kind, func(spare *vdom.Arena) (vdom.Tree, vdom.ChangeList, vdom.DiffStats) {
		next := d.root.Render(spare)
		if replace {
			return d.differ.Replace(d.tree, next)
		}
		return d.differ.Diff(d.tree, next)
	})
}

// apply computes the next tree with pass, executes its change list and
// journals it, under one span and one metrics sample.
func (d *Vdom) apply(ctx context.Context, kind string, pass func(spare *vdom.Arena) (vdom.Tree, vdom.ChangeList, vdom.DiffStats)) (err error) {
	d.state.Store(int32(StateRendering))
	defer d.state.Store(int32(StateIdle))

	d.seq++
	seq := d.seq
	start := time.Now()
	ctx, span := startCycleSpan(ctx, d.tracer, kind, seq)

	tree, cl, stats := pass(d.arenas[1-d.cur])

	defer func() {
		elapsed := time.Since(start)
		d.metrics.recordCycle(kind, elapsed, cl, stats, err)
		endCycleSpan(span, cl, stats, err)
	}()

	if len(cl) > 0 {
		if execErr := d.exec.Execute(context.WithoutCancel(ctx), cl); execErr != nil {
			d.err = execErr
			d.logger.Warn("cycle failed, driver poisoned",
				"seq", seq,
				"kind", kind,
				"changes", len(cl),
				"error", execErr)
			return &CycleError{Seq: seq, Changes: len(cl), Err: execErr}
		}
		if d.journal != nil {
			d.journal.Record(seq, protocol.EncodeBatch(protocol.Batch{Seq: seq, Changes: cl}))
		}
	}

	// The pass arena now backs the physical tree; the previous one is free.
	d.tree = tree
	d.arenas[d.cur].Reset()
	d.cur = 1 - d.cur

	d.logger.Debug("cycle complete",
		"seq", seq,
		"kind", kind,
		"changes", len(cl),
		"skipped", stats.Skipped,
		"cloned", stats.Cloned,
		"duration", time.Since(start))
	return nil
}
