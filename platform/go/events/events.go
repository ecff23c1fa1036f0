// Package events publishes domain notifications for consumers outside the API (email delivery).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers JSON events under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// connection is the part of *amqp.Connection the publisher uses.
type connection interface {
	Channel() (channel, error)
	IsClosed() bool
	Close() error
}

type amqpConnection struct{ *amqp.Connection }

func (c amqpConnection) Channel() (channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// AMQPPublisher publishes to a durable topic exchange. A closed channel is re-opened and a closed
// connection redialed on the next Publish.
type AMQPPublisher struct {
	exchange string
	dial     func() (connection, error)

	mu   sync.Mutex
	conn connection
	ch   channel
}

// NewAMQPPublisher dials url and declares exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		return nil, fmt.Errorf("exchange is required")
	}

	p := &AMQPPublisher{
		exchange: exchange,
		dial: func() (connection, error) {
			conn, err := amqp.Dial(url)
			if err != nil {
				return nil, fmt.Errorf("dial rabbitmq: %w", err)
			}
			return amqpConnection{conn}, nil
		},
	}
	conn, err := p.dial()
	if err != nil {
		return nil, err
	}
	p.conn = conn
	if err := p.declare(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

// declare opens a channel on p.conn and declares the exchange. Callers hold p.mu or own p.
func (p *AMQPPublisher) declare() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}
	p.ch = ch
	return nil
}

// ensureChannel re-opens what the broker closed since the last publish. Callers hold p.mu.
func (p *AMQPPublisher) ensureChannel() error {
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := p.dial()
		if err != nil {
			return err
		}
		p.conn, p.ch = conn, nil
	}
	if p.ch == nil || p.ch.IsClosed() {
		return p.declare()
	}
	return nil
}

// Publish marshals payload and sends it as a persistent message.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureChannel(); err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Noop drops every event. Used when AMQP_URL is unset.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }

func (Noop) Close() error { return nil }
