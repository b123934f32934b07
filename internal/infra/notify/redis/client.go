// Package redis publishes new waves on a Redis Pub/Sub channel.
package redis

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/gabapcia/waveportal/internal/infra/notify"
	"github.com/gabapcia/waveportal/internal/wavefeed"
)

// publisher is the subset of *redis.Client the notifier uses.
type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Close() error
}

type client struct {
	conn     publisher
	contract string
	channel  string
}

var _ wavefeed.Notifier = (*client)(nil)

// wavesChannel builds the channel new waves of contract are published on:
//
//	"<prefix>:new:<contract>"
func wavesChannel(prefix, contract string) string {
	return fmt.Sprintf("%s:new:%s", prefix, strings.ToLower(contract))
}

// NotifyWave implements wavefeed.Notifier.
func (c *client) NotifyWave(ctx context.Context, record wavefeed.Record) error {
	payload, err := notify.Encode(c.contract, record)
	if err != nil {
		return err
	}

	return c.conn.Publish(ctx, c.channel, payload).Err()
}

func (c *client) Close() error {
	return c.conn.Close()
}

// NewClient connects to Redis and returns a notifier for the waves of contract.
func NewClient(ctx context.Context, addr, username, password string, db int, channelPrefix, contract string) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		conn.Close()
		return nil, err
	}

	return &client{
		conn:     conn,
		contract: contract,
		channel:  wavesChannel(channelPrefix, contract),
	}, nil
}
