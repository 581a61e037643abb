package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hotel-management/internal/model"
)

// NotificationStore is where the consumer files guest notifications.
// *repository.NotificationRepo satisfies it.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
}

// Consumer drains StayQueue: each event is appended to LogDir/stay.log and
// turned into a notification for the guest.
type Consumer struct {
	URL    string
	LogDir string
	Store  NotificationStore
}

// Run connects to the broker and consumes until ctx is cancelled.  Broker
// failures are retried with backoff; a message that cannot be handled is
// rejected without requeue so it cannot spin the loop.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Printf("stay-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("stay-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("stay-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(StayQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(StayQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(ctx, d.Body); err != nil {
				requeue := retryable(err)
				log.Printf("stay-consumer: handle message failed (requeue=%t): %v", requeue, err)
				if requeue && !sleep(ctx, time.Second) {
					_ = d.Nack(false, true)
					return ctx.Err()
				}
				_ = d.Nack(false, requeue)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// ErrMalformed marks a message that can never be handled.  It is dropped
// instead of requeued.
var ErrMalformed = errors.New("malformed stay event")

// storeError wraps a notification store failure; the message is requeued.
type storeError struct{ err error }

func (e *storeError) Error() string { return "create notification: " + e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

func retryable(err error) bool {
	var se *storeError
	return errors.As(err, &se)
}

// Handle processes one message body.  The guest notification is stored
// before the log line is written, so a requeued message never leaves a
// duplicate line behind.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var ev StayEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ev.Type == "" || ev.ReservationID == 0 {
		return fmt.Errorf("%w: event without type or reservation", ErrMalformed)
	}
	if c.Store != nil && ev.GuestID != 0 {
		if err := c.Store.Create(ctx, ev.Notification()); err != nil {
			return &storeError{err: err}
		}
	}
	if err := c.appendLog(ev); err != nil {
		log.Printf("stay-consumer: unlogged event: %s", ev.LogLine())
		return err
	}
	return nil
}

func (c *Consumer) appendLog(ev StayEvent) error {
	dir := c.LogDir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "stay.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(ev.LogLine()); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
