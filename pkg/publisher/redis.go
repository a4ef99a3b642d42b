package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/poikkeusinfo/pkg/poikkeusinfo"
)

// RedisPublisher writes the snapshot, broadcasts the cycle result on a pub/sub
// channel and optionally queues every notification as an event.
type RedisPublisher struct {
	client   *redis.Client
	snapshot *Snapshot
	channel  string
	key      string
	queue    EventQueue
}

func NewRedisPublisher(client *redis.Client, snapshot *Snapshot, channel string, key string, queue EventQueue) *RedisPublisher {
	return &RedisPublisher{
		client:   client,
		snapshot: snapshot,
		channel:  channel,
		key:      key,
		queue:    queue,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, cycle string, notifications []poikkeusinfo.DisruptionNotification) error {
	if notifications == nil {
		notifications = []poikkeusinfo.DisruptionNotification{}
	}

	content, err := json.Marshal(notifications)
	if err != nil {
		return err
	}

	if err := p.snapshot.Store(ctx, content); err != nil {
		return fmt.Errorf("storing snapshot: %w", err)
	}

	broadcast, err := encodeBroadcast(p.key, cycle, notifications)
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, p.channel, broadcast).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.channel, err)
	}

	if p.queue != nil && len(notifications) > 0 {
		events := make([][]byte, 0, len(notifications))
		for _, notification := range notifications {
			event, err := json.Marshal(notification)
			if err != nil {
				return err
			}
			events = append(events, event)
		}

		if err := p.queue.PublishBytes(events...); err != nil {
			return fmt.Errorf("queueing events: %w", err)
		}
	}

	log.Debug().
		Str("cycle", cycle).
		Str("channel", p.channel).
		Int("notifications", len(notifications)).
		Msg("Published disruptions to redis")

	return nil
}

func (p *RedisPublisher) Close() error {
	return nil
}
