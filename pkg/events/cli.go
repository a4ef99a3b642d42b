package events

import (
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/poikkeusinfo/pkg/config"
	"github.com/travigo/poikkeusinfo/pkg/poikkeusinfo"
	"github.com/travigo/poikkeusinfo/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func queueName(c *cli.Context) (string, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return "", err
	}

	if cfg.Publisher.EventsQueue == "" {
		return "", errors.New("publisher.events_queue is not configured")
	}
	return cfg.Publisher.EventsQueue, nil
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Usage:   "path to the YAML configuration",
		EnvVars: []string{"POIKKEUSINFO_CONFIG"},
	}
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Consume queued disruption events",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run events consumers",
				Flags: []cli.Flag{configFlag()},
				Action: func(c *cli.Context) error {
					queue, err := queueName(c)
					if err != nil {
						return err
					}

					if err := redis_client.Connect(); err != nil {
						return err
					}

					redisConsumer := RedisConsumer{
						QueueName:       queue,
						NumberConsumers: 2,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer:        NewBatchConsumer(LogHandler),
					}
					if err := redisConsumer.Setup(redis_client.QueueConnection); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					return nil
				},
			},
			{
				Name:  "test-event",
				Usage: "generate a test event",
				Flags: []cli.Flag{configFlag()},
				Action: func(c *cli.Context) error {
					queue, err := queueName(c)
					if err != nil {
						return err
					}

					if err := redis_client.Connect(); err != nil {
						return err
					}

					reason := "tekninen vika"
					notification := poikkeusinfo.DisruptionNotification{
						ID:     "TEST",
						Type:   poikkeusinfo.NotificationTypeUrgentInfo,
						Source: poikkeusinfo.NotificationSourceManual,
						Info: &poikkeusinfo.InfoText{
							Text:   "Metro ei liikennöi. Syy: tekninen vika.",
							Reason: &reason,
						},
						Lines: []poikkeusinfo.TargetLine{
							{ID: "1300M", Direction: poikkeusinfo.DirectionToCentrum, Type: poikkeusinfo.LineTypeMetro, Number: "M"},
						},
						Validity: poikkeusinfo.Validity{
							Valid: true,
							From:  time.Now(),
							To:    time.Now().Add(time.Hour),
						},
						DisplayName: "metro",
					}

					eventsQueue, err := redis_client.QueueConnection.OpenQueue(queue)
					if err != nil {
						return err
					}

					payload, err := json.Marshal(notification)
					if err != nil {
						return err
					}

					log.Info().Str("queue", queue).Msg("Publishing test event")
					return eventsQueue.PublishBytes(payload)
				},
			},
		},
	}
}
