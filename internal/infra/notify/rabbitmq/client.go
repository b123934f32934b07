// Package rabbitmq publishes new waves to a RabbitMQ exchange.
package rabbitmq

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gabapcia/waveportal/internal/infra/notify"
	"github.com/gabapcia/waveportal/internal/wavefeed"
)

// channel is the subset of *amqp.Channel the notifier uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type client struct {
	conn       *amqp.Connection
	channel    channel
	exchange   string
	routingKey string
	contract   string
}

var _ wavefeed.Notifier = (*client)(nil)

// NotifyWave implements wavefeed.Notifier.
func (c *client) NotifyWave(ctx context.Context, record wavefeed.Record) error {
	body, err := notify.Encode(c.contract, record)
	if err != nil {
		return err
	}

	return c.channel.PublishWithContext(ctx,
		c.exchange,
		c.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
}

func (c *client) Close() error {
	err := c.channel.Close()
	if c.conn != nil {
		err = errors.Join(err, c.conn.Close())
	}

	return err
}

// NewClient dials RabbitMQ, declares a durable topic exchange and returns a
// notifier publishing the waves of contract on it.
func NewClient(url, exchange, routingKey, contract string) (*client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &client{
		conn:       conn,
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		contract:   contract,
	}, nil
}
