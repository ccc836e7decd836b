// Package service publishes order events to RabbitMQ.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticketing/internal/metrics"
	"github.com/iliyamo/cinema-ticketing/internal/queue"
)

// Publisher sends order events.  Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, ev queue.OrderEvent) error
}

// AMQPPublisher opens a connection per event, declares the durable
// orders queue and publishes a persistent message to it.
type AMQPPublisher struct {
	url     string
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewAMQPPublisher(url string, log *zap.Logger, m *metrics.Metrics) *AMQPPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &AMQPPublisher{url: url, log: log, metrics: m}
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq dial failed", zap.Error(err))
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.OrdersQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(ev.Type),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.OrdersQueue, false, false, msg); err != nil {
		p.log.Warn("rabbitmq publish failed", zap.Error(err), zap.Int64("order_id", ev.OrderID))
		return fmt.Errorf("publish: %w", err)
	}
	p.metrics.OrderEvent(string(ev.Type))
	return nil
}

// LogPublisher only logs events.  It is used when the broker is
// disabled so the order flow stays the same.
type LogPublisher struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewLogPublisher(log *zap.Logger, m *metrics.Metrics) *LogPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogPublisher{log: log, metrics: m}
}

func (p *LogPublisher) Publish(_ context.Context, ev queue.OrderEvent) error {
	p.log.Info("order event",
		zap.String("type", string(ev.Type)),
		zap.Int64("order_id", ev.OrderID),
		zap.Strings("seats", ev.Seats),
	)
	p.metrics.OrderEvent(string(ev.Type))
	return nil
}
