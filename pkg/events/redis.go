package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/meltgauge/pkg/errors"
)

// DefaultChannel is the Redis channel used when no prefix is configured.
const DefaultChannel = "meltgauge:clicks"

// ChannelName returns the click channel for a key prefix such as "meltgauge:".
func ChannelName(prefix string) string {
	if prefix == "" {
		return DefaultChannel
	}
	return prefix + "clicks"
}

// RedisPublisher publishes clicks as JSON on a Redis channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a publisher on channel.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Send publishes c. A publish with no subscribers is not an error.
func (p *RedisPublisher) Send(ctx context.Context, c Click) error {
	data, err := json.Marshal(c)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode click")
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return errs.Wrap(errs.ErrCodeNetwork, err, "publish click on %s", p.channel)
	}
	return nil
}

// RedisSubscriber reads clicks from a Redis channel.
type RedisSubscriber struct {
	client  *redis.Client
	channel string
	logger  *log.Logger
}

// NewRedisSubscriber creates a subscriber on channel. A nil logger uses
// log.Default().
func NewRedisSubscriber(client *redis.Client, channel string, logger *log.Logger) *RedisSubscriber {
	if logger == nil {
		logger = log.Default()
	}
	return &RedisSubscriber{client: client, channel: channel, logger: logger}
}

// Run delivers each valid click to handle until ctx is cancelled.
// Undecodable messages and handler errors are logged and skipped.
func (s *RedisSubscriber) Run(ctx context.Context, handle func(context.Context, Click) error) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return errs.Wrap(errs.ErrCodeNetwork, err, "subscribe %s", s.channel)
	}
	s.logger.Info("Listening for clicks", "channel", s.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("redis channel %s closed", s.channel)
			}
			c, err := DecodeClick([]byte(msg.Payload))
			if err != nil {
				s.logger.Warn("Dropping click", "err", err)
				continue
			}
			if err := handle(ctx, c); err != nil {
				s.logger.Warn("Click not applied", "tank", c.TankID, "index", c.Index, "err", err)
			}
		}
	}
}

// DecodeClick parses and validates a JSON click.
func DecodeClick(data []byte) (Click, error) {
	var c Click
	if err := json.Unmarshal(data, &c); err != nil {
		return Click{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode click")
	}
	if err := c.Validate(); err != nil {
		return Click{}, err
	}
	return c, nil
}

var _ Sender = (*RedisPublisher)(nil)
