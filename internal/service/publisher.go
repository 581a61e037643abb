// Package service holds the outbound integrations the handlers call after a
// write has committed.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hotel-management/internal/queue"
)

// EventPublisher sends stay events.  Implementations must not block the
// request for long; a failed publish never undoes the write it reports.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.StayEvent) error
}

// AMQPPublisher dials the broker for every publish.  Stay events are rare
// enough that holding a channel open is not worth the reconnect handling.
type AMQPPublisher struct {
	URL     string
	Timeout time.Duration
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Timeout: 3 * time.Second}
}

// Publish declares the durable stay queue and sends ev as a persistent
// JSON message on the default exchange.  Errors are logged and returned.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.StayEvent) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(p.Timeout)})
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.StayQueue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := ch.PublishWithContext(ctx, "", queue.StayQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(ev.Type),
		Body:         body,
	}); err != nil {
		log.Printf("rabbitmq: publish %s failed: %v", ev.Type, err)
		return err
	}
	return nil
}

// NopPublisher drops every event.  It backs EVENTS_ENABLED=false.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.StayEvent) error { return nil }
