package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/iliyamo/hotel-management/internal/queue"
)

var (
	// ErrPublishQueueFull is returned when the backlog is full and the
	// event was dropped.
	ErrPublishQueueFull = errors.New("event publish queue full")
	ErrPublisherClosed  = errors.New("event publisher closed")
)

// AsyncPublisher hands events to a single background worker so a slow or
// unreachable broker never holds up the request that emitted them.  The
// request context is not carried over: the write is already committed and
// the event must outlive the response.
type AsyncPublisher struct {
	next EventPublisher

	mu     sync.RWMutex
	closed bool
	events chan queue.StayEvent
	done   chan struct{}
}

// NewAsyncPublisher starts the worker.  backlog bounds how many events may
// wait for next; further events are dropped until it drains.
func NewAsyncPublisher(next EventPublisher, backlog int) *AsyncPublisher {
	if backlog < 1 {
		backlog = 1
	}
	p := &AsyncPublisher{
		next:   next,
		events: make(chan queue.StayEvent, backlog),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for ev := range p.events {
		_ = p.next.Publish(context.Background(), ev)
	}
}

// Publish queues ev and returns at once.
func (p *AsyncPublisher) Publish(_ context.Context, ev queue.StayEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.events <- ev:
		return nil
	default:
		log.Printf("events: backlog full, dropped %s for reservation %d", ev.Type, ev.ReservationID)
		return ErrPublishQueueFull
	}
}

// Close stops accepting events and waits until the backlog is published
// or ctx ends.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
