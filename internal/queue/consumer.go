// Package queue contains the background consumer that listens to the record
// events queue and appends one line per event to the activity log.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Consumer drains a durable queue of RecordEvent messages into a log file.
type Consumer struct {
	URL     string
	Queue   string
	LogPath string
	Log     zerolog.Logger
}

// Run connects to the broker, declares the queue (durable) and consumes until
// ctx is cancelled.  Dial failures and dropped channels are retried with
// exponential backoff capped at 30s.  Malformed messages are rejected without
// requeue so a poison message cannot spin the loop.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn().Err(err).Dur("retry_in", backoff).Msg("activity consumer: dial failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warn().Err(err).Msg("activity consumer: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn().Err(err).Msg("activity consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.handle(d.Body); err != nil {
			c.Log.Error().Err(err).Msg("activity consumer: handle message failed")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func (c *Consumer) handle(body []byte) error {
	var ev RecordEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Resource == "" || ev.Type == "" {
		return errors.New("event missing type or resource")
	}
	return appendLine(c.LogPath, FormatActivity(ev))
}

// FormatActivity renders an event as a single human readable line.
func FormatActivity(ev RecordEvent) string {
	owner := ev.UserID
	if owner == "" {
		owner = "-"
	}
	return fmt.Sprintf("[%s] %s %s | record_id=%d | user_id=%s | event_id=%s\n",
		ev.OccurredAt, ev.Resource, ev.Type, ev.RecordID, owner, ev.EventID)
}

func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write activity log: %w", err)
	}
	return nil
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
