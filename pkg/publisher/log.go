package publisher

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/travigo/poikkeusinfo/pkg/poikkeusinfo"
)

// LogPublisher only logs what would have been published.
type LogPublisher struct{}

func (p *LogPublisher) Publish(ctx context.Context, cycle string, notifications []poikkeusinfo.DisruptionNotification) error {
	for _, notification := range notifications {
		log.Info().
			Str("cycle", cycle).
			Str("id", notification.ID).
			Str("line", notification.DisplayName).
			Bool("valid", notification.Validity.Valid).
			Msg("Matched disruption")
	}

	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
