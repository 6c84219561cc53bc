package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultChannel is the Redis pub/sub channel change events travel on.
const DefaultChannel = "tvguide:events"

const publishTimeout = 2 * time.Second

// Redis wraps a go-redis client.
type Redis struct {
	client *redis.Client
}

// NewRedis parses a Redis URL (e.g. "redis://host:6379/0") and returns a
// client. Call Ping to verify the connection.
func NewRedis(rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Redis{client: redis.NewClient(opts)}, nil
}

// Ping checks the connection to Redis.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close shuts down the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// RedisRelay fans events out across service instances. Notify publishes to
// a Redis channel; Run relays everything published there, by any instance,
// to the local listeners.
type RedisRelay struct {
	rds     *Redis
	channel string
	local   Broadcaster
	log     zerolog.Logger
}

// NewRedisRelay returns a relay publishing on channel and delivering to local.
func NewRedisRelay(rds *Redis, channel string, local Broadcaster, log zerolog.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{rds: rds, channel: channel, local: local, log: log}
}

// Notify publishes ev. If Redis is unavailable the event is still delivered
// to this instance's listeners.
func (r *RedisRelay) Notify(ctx context.Context, ev Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := r.rds.client.Publish(ctx, r.channel, string(ev)).Err(); err != nil {
		r.log.Warn().Err(err).Str("event", string(ev)).Msg("notify: publish failed, delivering locally")
		r.local.Broadcast(ev)
	}
}

// Run subscribes to the channel and relays events until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.rds.client.Subscribe(ctx, r.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.log.Info().Str("channel", r.channel).Msg("notify: relaying redis events")

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			ev := Event(msg.Payload)
			if !ev.Valid() {
				r.log.Debug().Str("payload", msg.Payload).Msg("notify: ignoring unknown event")
				continue
			}
			r.local.Broadcast(ev)
		}
	}
}
