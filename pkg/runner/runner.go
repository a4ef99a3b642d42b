package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/travigo/poikkeusinfo/pkg/config"
	"github.com/travigo/poikkeusinfo/pkg/fetcher"
	"github.com/travigo/poikkeusinfo/pkg/poikkeusinfo"
	"github.com/travigo/poikkeusinfo/pkg/publisher"
)

// Runner performs fetch, parse, filter and publish cycles.
type Runner struct {
	Fetcher   fetcher.Fetcher
	Parser    *poikkeusinfo.Parser
	Filter    *poikkeusinfo.Filter
	Publisher publisher.Publisher
	Metrics   *Metrics
	Interval  time.Duration

	Now        func() time.Time
	NewCycleID func() string
}

func NewRunner(cfg *config.Config, feedFetcher fetcher.Fetcher, resultPublisher publisher.Publisher, metrics *Metrics) (*Runner, error) {
	options, err := cfg.ParserOptions()
	if err != nil {
		return nil, err
	}

	rules, err := cfg.Lines.Rules()
	if err != nil {
		return nil, err
	}

	return &Runner{
		Fetcher:    feedFetcher,
		Parser:     poikkeusinfo.NewParser(options),
		Filter:     poikkeusinfo.NewFilter(rules),
		Publisher:  resultPublisher,
		Metrics:    metrics,
		Interval:   cfg.Feed.Interval,
		Now:        time.Now,
		NewCycleID: uuid.NewString,
	}, nil
}

// RunOnce runs a single cycle and returns the matched notifications. Nothing
// is published when fetching or parsing fails.
func (r *Runner) RunOnce(ctx context.Context) ([]poikkeusinfo.DisruptionNotification, error) {
	startTime := time.Now()
	cycle := r.NewCycleID()
	logger := log.With().Str("cycle", cycle).Logger()

	body, err := r.Fetcher.Fetch(ctx)
	if err != nil {
		r.Metrics.fetchTotal.WithLabelValues("error").Inc()
		logger.Error().Err(err).Msg("Failed to fetch feed")
		return nil, err
	}
	r.Metrics.fetchTotal.WithLabelValues("ok").Inc()

	notifications, err := r.Parser.ParseBytes(body, r.Now())
	if err != nil {
		r.Metrics.parseErrors.Inc()
		logger.Error().Err(err).Msg("Failed to parse feed")
		return nil, fmt.Errorf("parsing feed: %w", err)
	}
	r.Metrics.parsedTotal.Add(float64(len(notifications)))

	matched := r.Filter.Filter(notifications)
	r.Metrics.matched.Set(float64(len(matched)))

	if err := r.Publisher.Publish(ctx, cycle, matched); err != nil {
		r.Metrics.publishErrors.Inc()
		logger.Error().Err(err).Msg("Failed to publish disruptions")
		return matched, fmt.Errorf("publishing: %w", err)
	}

	executionDuration := time.Since(startTime)
	r.Metrics.cycleDuration.Observe(executionDuration.Seconds())
	r.Metrics.lastSuccessTS.SetToCurrentTime()

	logger.Info().
		Int("parsed", len(notifications)).
		Int("matched", len(matched)).
		Str("duration", executionDuration.String()).
		Msg("Cycle complete")

	return matched, nil
}

// Run repeats cycles until ctx is cancelled. A failed cycle is logged and the
// loop carries on.
func (r *Runner) Run(ctx context.Context) error {
	for {
		startTime := time.Now()

		r.RunOnce(ctx)

		waitTime := r.waitTime(time.Since(startTime))
		log.Debug().Str("wait", waitTime.String()).Msg("Waiting for next cycle")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(waitTime):
		}
	}
}

// waitTime keeps cycles on the interval but never sleeps less than half of it.
func (r *Runner) waitTime(executionDuration time.Duration) time.Duration {
	return max(r.Interval/2, r.Interval-executionDuration)
}
