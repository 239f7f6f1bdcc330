// Package service provides the publisher that pushes record events to
// RabbitMQ.  Errors are logged and returned so callers can ignore failures
// without interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/mdkhajajamaludin/wellness/internal/config"
	q "github.com/mdkhajajamaludin/wellness/internal/queue"
)

// Publisher sends RecordEvents to a durable queue.  Each Publish dials its
// own connection; event volume is one message per mutating request.
type Publisher struct {
	url   string
	queue string
	log   zerolog.Logger
}

// NewPublisher returns nil when events are not configured.
func NewPublisher(cfg config.EventsConfig, log zerolog.Logger) *Publisher {
	if !cfg.Enabled() {
		return nil
	}
	return &Publisher{url: cfg.URL, queue: cfg.Queue, log: log}
}

// Publish marshals ev and publishes it as a persistent message to the
// configured queue, declaring the queue first (idempotent).
func (p *Publisher) Publish(ctx context.Context, ev q.RecordEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Msg("rabbitmq: marshal event failed")
		return err
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         ev.Resource + "." + ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.log.Warn().Err(err).Str("event_id", ev.EventID).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}
