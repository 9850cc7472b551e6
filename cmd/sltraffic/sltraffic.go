package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/sltraffic/pkg/api"
	"github.com/travigo/sltraffic/pkg/diagnostics"
	"github.com/travigo/sltraffic/pkg/util"
	"github.com/urfave/cli/v2"
)

func main() {
	env := util.GetEnvironmentVariables()

	if env["SLTRAFFIC_LOG_FORMAT"] != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if env["SLTRAFFIC_DEBUG"] == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "sltraffic",
		Description: "Departure monitor for SL stops grouped by direction of travel",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.json",
				Usage:   "path to the YAML or JSON configuration file",
				EnvVars: []string{"SLTRAFFIC_CONFIG"},
			},
			&cli.DurationFlag{
				Name:  "reload-interval",
				Value: 5 * time.Second,
				Usage: "how often the configuration file is checked for changes, 0 disables reloading",
			},
		},

		Commands: []*cli.Command{
			api.RegisterCLI(),
			diagnostics.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
