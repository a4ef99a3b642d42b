package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/poikkeusinfo/pkg/poikkeusinfo"
)

type Handler func(notification poikkeusinfo.DisruptionNotification) error

// LogHandler writes every queued disruption to the log.
func LogHandler(notification poikkeusinfo.DisruptionNotification) error {
	event := log.Info().
		Str("id", notification.ID).
		Str("line", notification.DisplayName).
		Str("type", string(notification.Type)).
		Time("valid_to", notification.Validity.To)

	if notification.Info != nil {
		event = event.Str("text", notification.Info.Text)
		if notification.Info.Reason != nil {
			event = event.Str("reason", *notification.Info.Reason)
		}
		if notification.Info.Length != nil {
			event = event.Time("estimated_end", *notification.Info.Length)
		}
	}

	event.Msg("Disruption event")
	return nil
}

type RedisConsumer struct {
	QueueName string

	NumberConsumers int
	BatchSize       int

	Timeout time.Duration

	Consumer rmq.BatchConsumer
}

func (c *RedisConsumer) Setup(connection rmq.Connection) error {
	log.Info().Str("queue", c.QueueName).Msg("Starting consumers")

	queue, err := connection.OpenQueue(c.QueueName)
	if err != nil {
		return err
	}
	if err := queue.StartConsuming(int64(c.NumberConsumers*c.BatchSize), 1*time.Second); err != nil {
		return err
	}

	for i := 0; i < c.NumberConsumers; i++ {
		log.Debug().Msgf("Starting %s consumer %d", c.QueueName, i)

		if _, err := queue.AddBatchConsumer(fmt.Sprintf("%s-%d", c.QueueName, i), int64(c.BatchSize), c.Timeout, c.Consumer); err != nil {
			return err
		}
	}

	return nil
}

type BatchConsumer struct {
	handler Handler
}

func NewBatchConsumer(handler Handler) *BatchConsumer {
	return &BatchConsumer{handler: handler}
}

// Consume acks handled deliveries. Payloads that are not notifications or
// that the handler fails on are rejected.
func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	for _, delivery := range batch {
		var notification poikkeusinfo.DisruptionNotification
		err := json.Unmarshal([]byte(delivery.Payload()), &notification)
		if err == nil {
			err = consumer.handler(notification)
		}

		if err != nil {
			log.Error().Err(err).Msg("Failed to consume event")
			if rejectErr := delivery.Reject(); rejectErr != nil {
				log.Error().Err(rejectErr).Msg("Failed to reject event")
			}
			continue
		}

		if ackErr := delivery.Ack(); ackErr != nil {
			log.Error().Err(ackErr).Msg("Failed to ack event")
		}
	}
}
