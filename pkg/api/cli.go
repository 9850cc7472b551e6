package api

import (
	"context"
	"net/http"

	"github.com/travigo/sltraffic/pkg/config"
	"github.com/travigo/sltraffic/pkg/dataaggregator"
	"github.com/travigo/sltraffic/pkg/sl"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the departures web API",
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
				},
				Action: func(c *cli.Context) error {
					provider := config.NewProvider(c.String("config"), c.Duration("reload-interval"))

					ctx, cancel := context.WithCancel(c.Context)
					defer cancel()
					go provider.Watch(ctx)

					httpClient := &http.Client{}
					aggregator := dataaggregator.NewAggregator(provider, func(settings *config.Settings) dataaggregator.DepartureSource {
						return sl.NewClient(httpClient, settings)
					})

					return SetupServer(c.String("listen"), aggregator)
				},
			},
		},
	}
}
