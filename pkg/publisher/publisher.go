package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/travigo/poikkeusinfo/pkg/config"
	"github.com/travigo/poikkeusinfo/pkg/poikkeusinfo"
	"github.com/travigo/poikkeusinfo/pkg/redis_client"
)

// Broadcast is the message sent to subscribers after every successful cycle.
type Broadcast struct {
	Key     string                                `json:"key"`
	Content []poikkeusinfo.DisruptionNotification `json:"content"`
	Cycle   string                                `json:"cycle"`
}

type Publisher interface {
	Publish(ctx context.Context, cycle string, notifications []poikkeusinfo.DisruptionNotification) error
	Close() error
}

// EventQueue receives one JSON payload per matched notification.
type EventQueue interface {
	PublishBytes(payload ...[]byte) error
}

func NewFromConfig(cfg config.PublisherConfig) (Publisher, error) {
	switch cfg.Backend {
	case config.PublisherBackendRedis:
		if redis_client.Client == nil {
			return nil, errors.New("redis publisher requires a redis connection")
		}

		var queue EventQueue
		if cfg.EventsQueue != "" {
			rmqQueue, err := redis_client.QueueConnection.OpenQueue(cfg.EventsQueue)
			if err != nil {
				return nil, fmt.Errorf("opening events queue: %w", err)
			}
			queue = rmqQueue
		}

		snapshot := NewSnapshot(redis_client.Client, cfg.SnapshotKey, cfg.SnapshotTTL)
		return NewRedisPublisher(redis_client.Client, snapshot, cfg.BroadcastChannel, cfg.BroadcastKey, queue), nil
	case config.PublisherBackendNATS:
		conn, err := nats.Connect(cfg.NATSURL, nats.Name("poikkeusinfo"))
		if err != nil {
			return nil, fmt.Errorf("connecting to nats: %w", err)
		}
		return NewNATSPublisher(conn, cfg.NATSSubject, cfg.BroadcastKey), nil
	case config.PublisherBackendNone, "":
		return &LogPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown publisher backend %q", cfg.Backend)
	}
}

func encodeBroadcast(key string, cycle string, notifications []poikkeusinfo.DisruptionNotification) ([]byte, error) {
	if notifications == nil {
		notifications = []poikkeusinfo.DisruptionNotification{}
	}

	return json.Marshal(Broadcast{
		Key:     key,
		Content: notifications,
		Cycle:   cycle,
	})
}
