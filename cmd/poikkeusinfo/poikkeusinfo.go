package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/poikkeusinfo/pkg/api"
	"github.com/travigo/poikkeusinfo/pkg/events"
	"github.com/travigo/poikkeusinfo/pkg/runner"
	"github.com/travigo/poikkeusinfo/pkg/util"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if util.GetEnvironmentVariable("POIKKEUSINFO_LOG_FORMAT", "CONSOLE") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if util.GetEnvironmentVariable("POIKKEUSINFO_DEBUG", "NO") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "poikkeusinfo",
		Description: "Follows the HSL poikkeusinfo disruption feed and publishes disruptions on the lines you care about",

		Commands: []*cli.Command{
			runner.RegisterCLI(),
			api.RegisterCLI(),
			events.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
