package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// DefaultCapacity bounds the command queue. It is sized to catch a runaway
// producer, not to throttle normal input.
const DefaultCapacity = 64

var (
	// ErrDisconnected is returned by Send once the engine has stopped
	// receiving, and by Recv once every Handle has been closed and the queue
	// is drained.
	ErrDisconnected = errors.New("engine: channel disconnected")

	// ErrHandleClosed is returned when sending on a Handle after Close.
	ErrHandleClosed = errors.New("engine: handle closed")
)

// IsDisconnected reports whether err means the engine is already gone.
// Producers treat this as "already shut down" rather than a failure.
func IsDisconnected(err error) bool {
	return errors.Is(err, ErrDisconnected)
}

// channel is a bounded multi-producer, single-consumer FIFO of commands.
type channel struct {
	queue chan Command

	// mu guards senders and rxClosed. Enqueues that do not block happen
	// under it, so none can land after Receiver.Close returns.
	mu       sync.Mutex
	senders  int
	rxClosed bool
	gone     chan struct{} // closed when the last Handle is closed
	closed   chan struct{} // closed when the Receiver is torn down
}

// tryEnqueue queues cmd if there is room. It reports false with a nil error
// when the queue is full.
func (c *channel) tryEnqueue(cmd Command) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rxClosed {
		return false, ErrDisconnected
	}
	select {
	case c.queue <- cmd:
		return true, nil
	default:
		return false, nil
	}
}

// Handle is the producer side of the command channel. Each producer should
// hold its own Handle (see Clone); commands sent through one Handle are
// received in send order.
type Handle struct {
	ch     *channel
	closed atomic.Bool
}

// Receiver is the single consumer side of the command channel.
type Receiver struct {
	ch *channel
}

// NewChannel creates a command channel with the given capacity.
// A capacity <= 0 uses DefaultCapacity.
func NewChannel(capacity int) (*Handle, *Receiver) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	ch := &channel{
		queue:   make(chan Command, capacity),
		senders: 1,
		gone:    make(chan struct{}),
		closed:  make(chan struct{}),
	}
	return &Handle{ch: ch}, &Receiver{ch: ch}
}

// Send enqueues cmd. It blocks while the queue is full and fails with
// ErrDisconnected if the receiver is, or becomes, closed.
func (h *Handle) Send(cmd Command) error {
	if h.closed.Load() {
		return ErrHandleClosed
	}
	if sent, err := h.ch.tryEnqueue(cmd); sent || err != nil {
		return err
	}
	// Full: wait for room. Both cases can be ready when the receiver takes
	// its last command and closes, so a won enqueue is checked again.
	select {
	case h.ch.queue <- cmd:
		select {
		case <-h.ch.closed:
			return ErrDisconnected
		default:
			return nil
		}
	case <-h.ch.closed:
		return ErrDisconnected
	}
}

// Clone returns a new Handle on the same channel.
// Cloning a closed Handle returns a closed Handle.
func (h *Handle) Clone() *Handle {
	if h.closed.Load() {
		c := &Handle{ch: h.ch}
		c.closed.Store(true)
		return c
	}
	h.ch.mu.Lock()
	h.ch.senders++
	h.ch.mu.Unlock()
	return &Handle{ch: h.ch}
}

// Close drops this Handle. When the last Handle is closed the receiver sees
// ErrDisconnected after draining the commands already queued.
func (h *Handle) Close() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}
	h.ch.mu.Lock()
	defer h.ch.mu.Unlock()
	h.ch.senders--
	if h.ch.senders == 0 {
		close(h.ch.gone)
	}
}

// Recv blocks until a command is available or the channel is disconnected.
func (r *Receiver) Recv() (Command, error) {
	return r.RecvContext(context.Background())
}

// RecvContext is Recv that also returns ctx.Err() when ctx is done.
func (r *Receiver) RecvContext(ctx context.Context) (Command, error) {
	select {
	case cmd := <-r.ch.queue:
		return cmd, nil
	case <-r.ch.closed:
		return Command{}, ErrDisconnected
	case <-ctx.Done():
		return Command{}, ctx.Err()
	case <-r.ch.gone:
		// No producer is left, but anything already queued is still delivered.
		select {
		case cmd := <-r.ch.queue:
			return cmd, nil
		default:
			return Command{}, ErrDisconnected
		}
	}
}

// Close tears down the consuming end. Blocked and future senders get
// ErrDisconnected. Safe to call more than once.
func (r *Receiver) Close() {
	r.ch.mu.Lock()
	defer r.ch.mu.Unlock()
	if !r.ch.rxClosed {
		r.ch.rxClosed = true
		close(r.ch.closed)
	}
}

// Len returns the number of queued commands.
func (r *Receiver) Len() int {
	return len(r.ch.queue)
}
