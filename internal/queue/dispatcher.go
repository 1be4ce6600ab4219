package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultDispatchBuffer  = 256
	DefaultDispatchTimeout = 5 * time.Second
)

var (
	ErrDispatchQueueFull = errors.New("dispatch queue full")
	ErrDispatcherStopped = errors.New("dispatcher stopped")
)

type envelope struct {
	ctx        context.Context
	payload    []byte
	routingKey string
}

// Dispatcher moves broker publishing off the request path. Publish only
// enqueues; Run drains the queue through the wrapped Publisher, bounding
// each send by the dispatch timeout.
type Dispatcher struct {
	pub      Publisher
	log      *zap.Logger
	timeout  time.Duration
	queue    chan envelope
	done     chan struct{}
	stopOnce sync.Once
}

func NewDispatcher(pub Publisher, logger *zap.Logger) *Dispatcher {
	return NewDispatcherWith(pub, logger, DefaultDispatchBuffer, DefaultDispatchTimeout)
}

func NewDispatcherWith(pub Publisher, logger *zap.Logger, buffer int, timeout time.Duration) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultDispatchBuffer
	}
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	return &Dispatcher{
		pub:     pub,
		log:     logger,
		timeout: timeout,
		queue:   make(chan envelope, buffer),
		done:    make(chan struct{}),
	}
}

// Publish never blocks. The caller's cancellation is dropped so a finished
// request does not abort its own event; trace values are kept.
func (d *Dispatcher) Publish(ctx context.Context, payload []byte, routingKey string) error {
	select {
	case <-d.done:
		return ErrDispatcherStopped
	default:
	}
	select {
	case d.queue <- envelope{ctx: context.WithoutCancel(ctx), payload: payload, routingKey: routingKey}:
		return nil
	default:
		return ErrDispatchQueueFull
	}
}

// Run publishes queued events until ctx is cancelled. Events still queued at
// that point are discarded.
func (d *Dispatcher) Run(ctx context.Context) {
	defer d.stopOnce.Do(func() { close(d.done) })
	for {
		select {
		case <-ctx.Done():
			if n := len(d.queue); n > 0 {
				d.log.Warn("dispatcher stopped with pending events", zap.Int("pending", n))
			}
			return
		case env := <-d.queue:
			d.send(env)
		}
	}
}

// Pending reports how many events wait for the broker.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

func (d *Dispatcher) send(env envelope) {
	ctx, cancel := context.WithTimeout(env.ctx, d.timeout)
	defer cancel()
	if err := d.pub.Publish(ctx, env.payload, env.routingKey); err != nil {
		d.log.Error("publish event failed",
			zap.String("routing_key", env.routingKey),
			zap.Error(err),
		)
	}
}
