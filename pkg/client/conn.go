package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Status is the connection manager's view of the connection
type Status int

// status constants
const (
	StatusDisconnected Status = iota
	StatusConnected
	StatusReconnecting
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	case StatusFailed:
		return "failed"
	}

	return "unknown"
}

// ErrDisposed is returned when using a disposed connection manager
var ErrDisposed = errors.New("connection manager is disposed")

// ErrQueueFull is returned when the offline queue cannot hold another event
var ErrQueueFull = errors.New("offline queue is full")

// ErrReconnectExhausted is passed to the failure callback when every
// reconnect attempt has been used up
var ErrReconnectExhausted = errors.New("reconnect attempts exhausted")

var errReplayIncomplete = errors.New("queued events were not fully replayed")

// Options control reconnect backoff, heartbeats, and the offline queue
type Options struct {
	// Base is the delay before the first reconnect attempt
	Base time.Duration

	// Decay multiplies the delay after each failed attempt
	Decay float64

	// Max caps the delay between attempts
	Max time.Duration

	// MaxAttempts is the number of reconnect attempts before giving up
	MaxAttempts int

	// HeartbeatInterval is how often a ping is sent while connected
	HeartbeatInterval time.Duration

	// HeartbeatTimeout is how long to wait for a pong before treating the
	// connection as dropped
	HeartbeatTimeout time.Duration

	// QueueSize is the offline queue capacity
	QueueSize int
}

// DefaultOptions returns the default connection manager options
func DefaultOptions() Options {
	return Options{
		Base:              time.Millisecond * 100,
		Decay:             1.5,
		Max:               time.Second,
		MaxAttempts:       10,
		HeartbeatInterval: time.Second * 5,
		HeartbeatTimeout:  time.Second * 15,
		QueueSize:         256,
	}
}

type queuedEvent struct {
	event   string
	payload interface{}
}

// ConnManager supervises a Transport: it reconnects with exponential backoff
// after unexpected disconnects, queues outbound events while offline, and
// monitors the connection with heartbeats.
type ConnManager struct {
	transport Transport
	opts      Options
	logger    logrus.FieldLogger

	mu       sync.Mutex
	status   Status
	queue    []queuedEvent
	disposed bool
	lastPong time.Time

	onStatus      func(Status)
	onReconnected func(replayed int)
	onFailure     func(error)

	reconnecting  atomic.Bool
	heartbeatOnce sync.Once
	done          chan struct{}
}

// NewConnManager returns a connection manager over the transport
// Zero-valued options fall back to their defaults.
func NewConnManager(logger logrus.FieldLogger, transport Transport, opts Options) *ConnManager {
	defaults := DefaultOptions()
	if opts.Base <= 0 {
		opts.Base = defaults.Base
	}
	if opts.Decay <= 1 {
		opts.Decay = defaults.Decay
	}
	if opts.Max <= 0 {
		opts.Max = defaults.Max
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaults.MaxAttempts
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = defaults.HeartbeatInterval
	}
	if opts.HeartbeatTimeout <= 0 {
		opts.HeartbeatTimeout = defaults.HeartbeatTimeout
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaults.QueueSize
	}

	c := &ConnManager{
		transport: transport,
		opts:      opts,
		logger:    logger,
		status:    StatusDisconnected,
		done:      make(chan struct{}),
	}

	transport.On(EventDisconnect, func(_ json.RawMessage) {
		c.handleDisconnect()
	})
	transport.On(EventPong, func(_ json.RawMessage) {
		c.mu.Lock()
		c.lastPong = time.Now()
		c.mu.Unlock()
	})

	return c
}

// OnStatusChange registers a callback invoked whenever the status changes
func (c *ConnManager) OnStatusChange(fn func(Status)) {
	c.mu.Lock()
	c.onStatus = fn
	c.mu.Unlock()
}

// OnReconnected registers a callback invoked after a successful reconnect
// with the number of queued events that were replayed
func (c *ConnManager) OnReconnected(fn func(replayed int)) {
	c.mu.Lock()
	c.onReconnected = fn
	c.mu.Unlock()
}

// OnFailure registers the terminal callback invoked when reconnecting is
// abandoned
func (c *ConnManager) OnFailure(fn func(error)) {
	c.mu.Lock()
	c.onFailure = fn
	c.mu.Unlock()
}

// Status returns the current connection status
func (c *ConnManager) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Connect establishes the initial connection
func (c *ConnManager) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	c.mu.Unlock()

	if err := c.transport.Connect(ctx); err != nil {
		return err
	}

	if !c.afterConnect(false) {
		_ = c.transport.Disconnect()
		c.handleDisconnect()
	}

	c.heartbeatOnce.Do(func() {
		go c.heartbeatLoop()
	})

	return nil
}

// Send delivers an event, or queues it in FIFO order while not connected
func (c *ConnManager) Send(event string, payload interface{}) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}

	if c.status != StatusConnected {
		if len(c.queue) >= c.opts.QueueSize {
			c.mu.Unlock()
			return ErrQueueFull
		}

		c.queue = append(c.queue, queuedEvent{event: event, payload: payload})
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.transport.Send(event, payload)
}

// Dispose shuts the manager down. Safe to call more than once.
func (c *ConnManager) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.status = StatusDisconnected
	c.mu.Unlock()

	close(c.done)
	c.transport.On(EventDisconnect, nil)
	c.transport.On(EventPong, nil)
	_ = c.transport.Disconnect()
}

func (c *ConnManager) setStatus(s Status) {
	c.mu.Lock()
	if c.status == s {
		c.mu.Unlock()
		return
	}
	c.status = s
	fn := c.onStatus
	c.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}

// afterConnect replays the offline queue before the manager reports itself
// connected, so new sends can never jump ahead of queued events. Returns
// false if the replay did not complete; the unsent events stay queued in
// order and the connection must not be treated as established.
func (c *ConnManager) afterConnect(isReconnect bool) bool {
	c.mu.Lock()
	c.lastPong = time.Now()
	c.mu.Unlock()

	replayed, ok := c.flushQueue()
	if !ok {
		return false
	}

	c.setStatus(StatusConnected)

	if isReconnect {
		c.mu.Lock()
		fn := c.onReconnected
		c.mu.Unlock()

		if fn != nil {
			fn(replayed)
		}
	}

	return true
}

// flushQueue replays queued events in order. Events sent while the flush is
// in progress are appended to the queue, keeping the replay strictly FIFO.
// A failed send puts the event back at the head and reports an incomplete
// flush.
func (c *ConnManager) flushQueue() (int, bool) {
	replayed := 0
	for {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.mu.Unlock()
			return replayed, true
		}

		item := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()

		if err := c.transport.Send(item.event, item.payload); err != nil {
			c.logger.WithError(err).Warn("could not replay queued event")

			c.mu.Lock()
			c.queue = append([]queuedEvent{item}, c.queue...)
			c.mu.Unlock()
			return replayed, false
		}

		replayed++
	}
}

func (c *ConnManager) handleDisconnect() {
	c.mu.Lock()
	if c.disposed || c.status == StatusFailed {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// a second concurrent reconnect loop must never start
	if !c.reconnecting.CompareAndSwap(false, true) {
		return
	}

	c.setStatus(StatusReconnecting)
	go c.reconnectLoop()
}

func (c *ConnManager) reconnectLoop() {
	defer c.reconnecting.Store(false)

	interval := c.opts.Base
	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-c.done:
			timer.Stop()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), handshakeTimeout)
		err := c.transport.Connect(ctx)
		cancel()

		if err == nil {
			if c.afterConnect(true) {
				c.logger.WithField("attempt", attempt).Info("reconnected")
				return
			}

			// the queue must drain before the connection counts; try again
			_ = c.transport.Disconnect()
			err = errReplayIncomplete
		}

		c.logger.WithError(err).WithField("attempt", attempt).Warn("reconnect attempt failed")
		interval = nextInterval(interval, c.opts.Decay, c.opts.Max)
	}

	c.setStatus(StatusFailed)

	c.mu.Lock()
	fn := c.onFailure
	c.mu.Unlock()

	if fn != nil {
		fn(ErrReconnectExhausted)
	}
}

// nextInterval applies the backoff decay, capped at max
func nextInterval(current time.Duration, decay float64, max time.Duration) time.Duration {
	next := time.Duration(float64(current) * decay)
	if next > max {
		next = max
	}

	return next
}

func (c *ConnManager) heartbeatLoop() {
	ticker := time.NewTicker(c.opts.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if c.Status() != StatusConnected {
				continue
			}

			if err := c.transport.Send("ping", nil); err != nil {
				c.logger.WithError(err).Debug("heartbeat send failed")
			}

			c.mu.Lock()
			last := c.lastPong
			c.mu.Unlock()

			if time.Since(last) > c.opts.HeartbeatTimeout {
				c.logger.Warn("heartbeat timed out")
				_ = c.transport.Disconnect()
				c.handleDisconnect()
			}
		case <-c.done:
			return
		}
	}
}
