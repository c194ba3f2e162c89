// Package service holds background and side-effect helpers that sit
// between the HTTP handlers and the outside world: the event publisher
// and the periodic publish sweeper.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/stagelink/gigbook/internal/queue"
)

// publishJSON declares the named durable queue and publishes the payload
// as a persistent JSON message on the default exchange. Errors are logged
// and returned so callers on the request path can choose to ignore them;
// a broker outage must never fail a booking write that already committed.
func publishJSON(ctx context.Context, queueName string, payload any) error {
	conn, err := amqp.Dial(q.BrokerURL())
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

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// PublishGigPublished publishes a GigPublishedEvent to the gig.published
// queue.
func PublishGigPublished(ctx context.Context, event q.GigPublishedEvent) error {
	return publishJSON(ctx, "gig.published", event)
}

// PublishBookingStatus publishes a BookingStatusEvent to the
// booking.status queue.
func PublishBookingStatus(ctx context.Context, event q.BookingStatusEvent) error {
	return publishJSON(ctx, "booking.status", event)
}
