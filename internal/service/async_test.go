package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-management/internal/queue"
)

// stalled blocks every publish until release is closed.
type stalled struct {
	release chan struct{}

	mu   sync.Mutex
	sent []queue.StayEvent
}

func (s *stalled) Publish(_ context.Context, ev queue.StayEvent) error {
	<-s.release
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, ev)
	return nil
}

func (s *stalled) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestAsyncPublisherDoesNotWaitForBroker(t *testing.T) {
	next := &stalled{release: make(chan struct{})}
	p := NewAsyncPublisher(next, 4)

	start := time.Now()
	ev := queue.StayEvent{Type: queue.ReservationConfirmed, ReservationID: 5}
	require.NoError(t, p.Publish(context.Background(), ev))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Zero(t, next.count())

	close(next.release)
	assert.Eventually(t, func() bool { return next.count() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, p.Close(context.Background()))
	assert.Equal(t, ev, next.sent[0])
}

func TestAsyncPublisherDropsWhenBacklogFull(t *testing.T) {
	next := &stalled{release: make(chan struct{})}
	p := NewAsyncPublisher(next, 1)

	ev := queue.StayEvent{Type: queue.PaymentCompleted, ReservationID: 5}
	// first is taken by the worker, second fills the backlog
	require.NoError(t, p.Publish(context.Background(), ev))
	assert.Eventually(t, func() bool { return len(p.events) == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, p.Publish(context.Background(), ev))
	assert.ErrorIs(t, p.Publish(context.Background(), ev), ErrPublishQueueFull)

	close(next.release)
	require.NoError(t, p.Close(context.Background()))
	assert.Equal(t, 2, next.count())
	assert.ErrorIs(t, p.Publish(context.Background(), ev), ErrPublisherClosed)
}

func TestAsyncPublisherCloseHonoursDeadline(t *testing.T) {
	next := &stalled{release: make(chan struct{})}
	defer close(next.release)
	p := NewAsyncPublisher(next, 1)
	require.NoError(t, p.Publish(context.Background(), queue.StayEvent{Type: queue.ReservationCheckedIn, ReservationID: 1}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Close(ctx), context.DeadlineExceeded)
}
