// Package engine runs a conversation graph simulation at a fixed frame rate and applies
// pointer, resize and rebuild events between frames.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/psidex/convgraph/internal/graph"
	"github.com/psidex/convgraph/internal/lib"
)

var (
	// ErrStopped is returned by every event method once the engine has been torn down.
	ErrStopped = errors.New("engine stopped")
	// ErrRunning is returned by Run if the engine's loop is already running.
	ErrRunning = errors.New("engine already running")
)

const (
	DefaultFrameInterval    = 16 * time.Millisecond
	DefaultSubscriberBuffer = 4
)

type Options struct {
	Params           graph.Params
	Dimensions       graph.Dimensions
	FrameInterval    time.Duration
	SubscriberBuffer int
	Logger           *slog.Logger
}

// Frame is what subscribers receive after every tick.
type Frame struct {
	Seq uint64 `json:"seq"`
	// Generation counts rebuilds. Node ids are only comparable between frames of the
	// same generation.
	Generation uint64         `json:"generation"`
	Snapshot   graph.Snapshot `json:"snapshot"`
	Dragged    string         `json:"dragged,omitempty"`
	Hovered    string         `json:"hovered,omitempty"`
	Energy     float64        `json:"energy"`
}

// Engine owns one graph. A single mutex serialises ticks and events, so an event is
// always applied fully before or after a step, never during one.
type Engine struct {
	logger   *slog.Logger
	interval time.Duration
	buffer   int

	mu       sync.Mutex
	snapshot graph.Snapshot
	ctrl     graph.Controller
	dim      graph.Dimensions
	params   graph.Params
	seq      uint64
	gen      uint64
	stopped  bool
	running  bool
	subs     map[chan Frame]struct{}

	stop     chan struct{}
	stopOnce sync.Once
}

// New builds the initial graph from entities. Zero values in opts are replaced with
// defaults.
func New(entities []graph.Entity, title string, opts Options) *Engine {
	if opts.Params == (graph.Params{}) {
		opts.Params = graph.DefaultParams()
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.SubscriberBuffer <= 0 {
		opts.SubscriberBuffer = DefaultSubscriberBuffer
	}
	if opts.Logger == nil {
		opts.Logger = lib.Discard()
	}

	return &Engine{
		logger:   opts.Logger,
		interval: opts.FrameInterval,
		buffer:   opts.SubscriberBuffer,
		snapshot: graph.Build(entities, title),
		dim:      opts.Dimensions,
		params:   opts.Params,
		subs:     make(map[chan Frame]struct{}),
		stop:     make(chan struct{}),
	}
}

// Run ticks the engine every frame interval until ctx is done or Stop is called. It
// always stops the engine before returning.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return ErrStopped
	}
	if e.running {
		e.mu.Unlock()
		return ErrRunning
	}
	e.running = true
	e.mu.Unlock()

	defer e.Stop()

	enginesRunning.Inc()
	defer enginesRunning.Dec()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Debug("engine loop started", "interval", e.interval)
	for {
		select {
		case <-ctx.Done():
			e.logger.Debug("engine loop cancelled", "err", ctx.Err())
			return nil
		case <-e.stop:
			e.logger.Debug("engine loop stopped")
			return nil
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Stop tears the engine down. Subscriber channels are closed and every later tick or
// event is a no-op. It is safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.mu.Lock()
		e.stopped = true
		for ch := range e.subs {
			close(ch)
			delete(e.subs, ch)
		}
		e.mu.Unlock()
		close(e.stop)
	})
}

// Done is closed once the engine has been stopped.
func (e *Engine) Done() <-chan struct{} {
	return e.stop
}

// Tick advances the simulation by one frame. It reports false, and does nothing, if the
// engine is stopped or the surface has no usable size.
func (e *Engine) Tick() (Frame, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped || !e.dim.Valid() {
		ticksSkipped.Inc()
		return Frame{}, false
	}

	start := time.Now()
	e.snapshot = graph.Step(e.snapshot, e.params, e.dim, e.ctrl.Dragged())
	stepDuration.Observe(time.Since(start).Seconds())
	ticksTotal.Inc()

	e.seq++
	frame := e.frameLocked()
	e.publishLocked(frame)
	return frame, true
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() graph.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Frame returns the current state along with the interaction state.
func (e *Engine) Frame() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameLocked()
}

func (e *Engine) Dimensions() graph.Dimensions {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dim
}

// Subscribe returns a channel receiving a Frame after every tick, and a function to
// unsubscribe. Frames are dropped rather than stalling the engine if the subscriber falls
// behind. The channel is closed on unsubscribe or when the engine stops.
func (e *Engine) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, e.buffer)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		close(ch)
		return ch, func() {}
	}
	e.subs[ch] = struct{}{}

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.subs[ch]; ok {
			delete(e.subs, ch)
			close(ch)
		}
	}
}

// Rebuild replaces the graph with a fresh layout for new input. Interaction state that
// refers to nodes which no longer exist is dropped.
func (e *Engine) Rebuild(entities []graph.Entity, title string) error {
	return e.apply(func() {
		e.snapshot = graph.Build(entities, title)
		e.ctrl.Reconcile(e.snapshot)
		e.gen++
		e.publishLocked(e.frameLocked())
		e.logger.Debug("graph rebuilt", "title", e.snapshot.Title, "nodes", len(e.snapshot.Nodes))
	})
}

// Resize changes the surface size. Invalid sizes pause the simulation until a valid size
// arrives.
func (e *Engine) Resize(dim graph.Dimensions) error {
	return e.apply(func() {
		e.dim = dim
	})
}

func (e *Engine) SetParams(p graph.Params) error {
	return e.apply(func() {
		e.params = p
	})
}

func (e *Engine) PointerDown(id string) error {
	return e.apply(func() {
		if !e.ctrl.PointerDown(e.snapshot, id) {
			e.logger.Debug("ignoring pointer down on unknown node", "node", id)
		}
	})
}

func (e *Engine) PointerMove(x, y float64) error {
	return e.apply(func() {
		e.snapshot = e.ctrl.PointerMove(e.snapshot, e.dim, x, y)
	})
}

func (e *Engine) PointerUp() error {
	return e.apply(e.ctrl.PointerUp)
}

// PointerLeave is the pointer leaving the whole surface.
func (e *Engine) PointerLeave() error {
	return e.apply(e.ctrl.PointerLeave)
}

func (e *Engine) PointerEnter(id string) error {
	return e.apply(func() {
		if !e.ctrl.PointerEnter(e.snapshot, id) {
			e.logger.Debug("ignoring hover on unknown node", "node", id)
		}
	})
}

// HoverClear is the pointer leaving the hovered node.
func (e *Engine) HoverClear() error {
	return e.apply(e.ctrl.HoverClear)
}

func (e *Engine) Tooltip() (graph.Tooltip, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.Tooltip(e.snapshot)
}

func (e *Engine) apply(fn func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	fn()
	return nil
}

func (e *Engine) frameLocked() Frame {
	return Frame{
		Seq:        e.seq,
		Generation: e.gen,
		Snapshot:   e.snapshot,
		Dragged:    e.ctrl.Dragged(),
		Hovered:    e.ctrl.Hovered(),
		Energy:     graph.KineticEnergy(e.snapshot),
	}
}

func (e *Engine) publishLocked(frame Frame) {
	for ch := range e.subs {
		select {
		case ch <- frame:
		default:
			framesDropped.Inc()
		}
	}
}
