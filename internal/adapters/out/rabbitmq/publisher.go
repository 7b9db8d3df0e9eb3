// Package rabbitmq publishes order status changes to a fanout exchange so that other
// services (customer notifications, dashboards) can follow an order without polling.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

const (
	DefaultExchange       = "order_status_fanout"
	DefaultPublishTimeout = 5 * time.Second
)

var _ ports.StatusNotifier = (*Publisher)(nil)

// channel is the subset of *amqp091.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type Publisher struct {
	mu       sync.Mutex
	url      string
	conn     *amqp091.Connection
	ch       channel
	exchange string
	timeout  time.Duration
	logger   *slog.Logger
}

// Dial connects to the broker and declares the durable fanout exchange.
func Dial(url string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{
		url:      url,
		exchange: DefaultExchange,
		timeout:  DefaultPublishTimeout,
		logger:   logger.With("component", "rabbitmq"),
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		p.exchange, // name
		"fanout",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}

	p.conn, p.ch = conn, ch
	return nil
}

func (p *Publisher) NotifyStatusChanged(ctx context.Context, change order.StatusChanged) error {
	body, err := json.Marshal(newStatusChangedMessage(change))
	if err != nil {
		return fmt.Errorf("marshal status change: %w", err)
	}

	// amqp091 channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil && p.conn.IsClosed() {
		p.logger.WarnContext(ctx, "broker connection lost, reconnecting")
		if err := p.connect(); err != nil {
			return fmt.Errorf("reconnect: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    change.ChangedAt,
		MessageId:    change.OrderID.String() + ":" + change.Status.String(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.exchange, err)
	}

	p.logger.DebugContext(ctx, "status change published",
		"order_id", change.OrderID.String(), "status", change.Status.String())
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var chErr, connErr error
	if p.ch != nil {
		chErr = p.ch.Close()
	}
	if p.conn != nil {
		connErr = p.conn.Close()
	}
	if chErr != nil {
		return chErr
	}
	return connErr
}
