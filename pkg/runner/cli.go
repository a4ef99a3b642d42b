package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/poikkeusinfo/pkg/api"
	"github.com/travigo/poikkeusinfo/pkg/config"
	"github.com/travigo/poikkeusinfo/pkg/fetcher"
	"github.com/travigo/poikkeusinfo/pkg/poikkeusinfo"
	"github.com/travigo/poikkeusinfo/pkg/publisher"
	"github.com/travigo/poikkeusinfo/pkg/redis_client"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Usage:   "path to the YAML configuration",
		EnvVars: []string{"POIKKEUSINFO_CONFIG"},
	}
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "runner",
		Usage: "Fetch, filter and publish poikkeusinfo disruptions",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Poll the feed and publish matching disruptions",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "listen",
						Usage: "also serve the web api on this address",
					},
					&cli.BoolFlag{
						Name:  "once",
						Usage: "run a single cycle and exit",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					apiOptions := api.Options{}
					if cfg.Publisher.Backend == config.PublisherBackendRedis {
						if err := redis_client.Connect(); err != nil {
							log.Fatal().Err(err).Msg("Failed to connect to Redis")
						}

						apiOptions.Snapshot = publisher.NewSnapshot(redis_client.Client, cfg.Publisher.SnapshotKey, cfg.Publisher.SnapshotTTL)
						apiOptions.Ping = api.RedisPing
					}

					resultPublisher, err := publisher.NewFromConfig(cfg.Publisher)
					if err != nil {
						return err
					}
					defer resultPublisher.Close()

					metrics := NewMetrics()
					apiOptions.Gatherer = metrics.Registry

					runner, err := NewRunner(cfg, fetcher.New(cfg.Feed), resultPublisher, metrics)
					if err != nil {
						return err
					}

					if c.Bool("once") {
						_, err := runner.RunOnce(c.Context)
						return err
					}

					if listen := c.String("listen"); listen != "" {
						go func() {
							if err := api.SetupServer(listen, apiOptions); err != nil {
								log.Fatal().Err(err).Msg("Web api stopped")
							}
						}()
					}

					ctx, cancel := context.WithCancel(c.Context)
					defer cancel()

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					go func() {
						<-signals // wait for signal
						log.Info().Msg("Stopping runner")
						cancel()

						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					log.Info().Str("interval", runner.Interval.String()).Str("backend", cfg.Publisher.Backend).Msg("Starting runner")

					return runner.Run(ctx)
				},
			},
			{
				Name:      "parse",
				Usage:     "Parse saved feed documents and print the matching disruptions",
				ArgsUsage: "[FILE...]",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "print every parsed disruption, not only files with matches",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					paths := c.Args().Slice()
					if len(paths) == 0 {
						paths, err = filepath.Glob("*.xml")
						if err != nil {
							return err
						}
					}

					options, err := cfg.ParserOptions()
					if err != nil {
						return err
					}
					rules, err := cfg.Lines.Rules()
					if err != nil {
						return err
					}

					results := ParseFiles(poikkeusinfo.NewParser(options), poikkeusinfo.NewFilter(rules), paths, time.Now())

					return PrintFileResults(c.App.Writer, results, c.Bool("all"))
				},
			},
		},
	}
}

// PrintFileResults pretty prints the files with matches, or every parsed
// file when all is set. Files that failed to parse are reported and make the
// returned error non-nil.
func PrintFileResults(w io.Writer, results []FileResult, all bool) error {
	var failed []string

	for _, result := range results {
		if result.Err != nil {
			log.Error().Err(result.Err).Str("path", result.Path).Msg("Failed to parse file")
			failed = append(failed, result.Path)
			continue
		}

		shown := result.Matched
		if all {
			shown = result.Notifications
		}
		if len(shown) == 0 {
			continue
		}

		fmt.Fprintln(w, result.Path)
		pretty.Fprintf(w, "%# v\n", shown)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed to parse", len(failed), len(results))
	}

	return nil
}
