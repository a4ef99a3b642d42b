package api

import (
	"github.com/travigo/poikkeusinfo/pkg/config"
	"github.com/travigo/poikkeusinfo/pkg/publisher"
	"github.com/travigo/poikkeusinfo/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Serves the last published disruptions over HTTP",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:    "config",
						Usage:   "path to the YAML configuration",
						EnvVars: []string{"POIKKEUSINFO_CONFIG"},
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					if err := redis_client.Connect(); err != nil {
						return err
					}

					snapshot := publisher.NewSnapshot(redis_client.Client, cfg.Publisher.SnapshotKey, cfg.Publisher.SnapshotTTL)

					return SetupServer(c.String("listen"), Options{
						Snapshot: snapshot,
						Ping:     RedisPing,
					})
				},
			},
		},
	}
}
