package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"campusevents/internal/domain"
)

const consumerTag = "campusevents-notices"

// channel is the subset of *amqp.Channel the client uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
	Close() error
}

// RabbitMQ publishes registration notices to a durable queue and consumes them back.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel channel
	queue   string
	logger  *slog.Logger
}

// NewRabbitMQ dials url, opens a channel and declares the durable queue.
func NewRabbitMQ(url, queue string, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queue, err)
	}
	logger.Info("rabbitmq initialized", "queue", queue)
	return &RabbitMQ{conn: conn, channel: ch, queue: queue, logger: logger}, nil
}

// Publish encodes the notice as JSON and sends it as a persistent message.
func (r *RabbitMQ) Publish(ctx context.Context, notice *domain.RegistrationNotice) error {
	if notice == nil {
		return fmt.Errorf("publish notice: nil notice")
	}
	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}
	err = r.channel.PublishWithContext(ctx, "", r.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         string(notice.Kind),
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	r.logger.DebugContext(ctx, "notice published", "kind", notice.Kind, "registration_id", notice.RegistrationID)
	return nil
}

// Consume delivers decoded notices to handle until ctx is cancelled or the
// delivery channel closes. Messages that fail to decode are dropped; handler
// errors requeue the message once.
func (r *RabbitMQ) Consume(ctx context.Context, handle func(context.Context, *domain.RegistrationNotice) error) error {
	msgs, err := r.channel.Consume(r.queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming %q: %w", r.queue, err)
	}
	r.logger.Info("started consuming", "queue", r.queue)
	for {
		select {
		case <-ctx.Done():
			if err := r.channel.Cancel(consumerTag, false); err != nil {
				r.logger.Warn("cancel consumer", "error", err)
			}
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			r.deliver(ctx, d, handle)
		}
	}
}

func (r *RabbitMQ) deliver(ctx context.Context, d amqp.Delivery, handle func(context.Context, *domain.RegistrationNotice) error) {
	var notice domain.RegistrationNotice
	if err := json.Unmarshal(d.Body, &notice); err != nil {
		r.logger.Error("drop undecodable notice", "error", err)
		_ = d.Nack(false, false)
		return
	}
	if err := handle(ctx, &notice); err != nil {
		r.logger.Warn("failed to process notice", "kind", notice.Kind, "registration_id", notice.RegistrationID, "error", err, "redelivered", d.Redelivered)
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

// Close closes the channel and the connection.
func (r *RabbitMQ) Close() {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
	r.logger.Info("rabbitmq connection closed")
}
