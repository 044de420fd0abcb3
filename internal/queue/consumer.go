package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler receives each decoded envelope from the broadcast exchange.
type Handler func(Envelope)

// FilterOrigin wraps next, dropping envelopes this process published
// itself.  A server instance delivers its own events to local
// subscribers directly; without the filter the fanout copy would arrive
// a second time.
func FilterOrigin(origin string, next Handler) Handler {
	return func(env Envelope) {
		if origin != "" && env.Origin == origin {
			return
		}
		next(env)
	}
}

// StartConsumer connects to RabbitMQ, binds an exclusive auto-delete
// queue to the fanout exchange and delivers every envelope to the
// handler.  It runs a reconnect loop with capped exponential backoff and
// returns only when the context is cancelled, so a broker outage never
// takes the process down with it.
func StartConsumer(ctx context.Context, url string, handle Handler) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("queue: consumer dial failed: %v; retrying in %s", err, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(ctx, conn, handle); err != nil {
			log.Printf("queue: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		_ = conn.Close()
		return nil
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, handle Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}

	// Exclusive auto-delete queue: every consumer process gets its own
	// copy of each event, and the queue disappears when the process does.
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			var env Envelope
			if err := json.Unmarshal(d.Body, &env); err != nil {
				log.Printf("queue: drop malformed message: %v", err)
				continue
			}
			handle(env)
		}
	}
}
