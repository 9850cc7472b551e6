package diagnostics

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/travigo/sltraffic/pkg/config"
	"github.com/travigo/sltraffic/pkg/dataaggregator"
	"github.com/travigo/sltraffic/pkg/sl"
	"github.com/urfave/cli/v2"
)

func loadClient(c *cli.Context) (*config.Settings, *sl.Client, error) {
	settings, err := config.LoadFile(c.String("config"))
	if err != nil {
		return nil, nil, cli.Exit(fmt.Sprintf("Error loading configuration: %s", err), 1)
	}

	return settings, sl.NewClient(&http.Client{}, settings), nil
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "diagnostics",
		Usage: "Tools for checking the configuration against the live SL API",
		Subcommands: []*cli.Command{
			{
				Name:  "alerts",
				Usage: "list every active alert on the configured sites",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "print Go values instead of JSON",
					},
				},
				Action: func(c *cli.Context) error {
					settings, client, err := loadClient(c)
					if err != nil {
						return err
					}

					siteIDs := dataaggregator.BuildStopGroups(settings.Routes).SiteIDs
					if len(siteIDs) == 0 {
						fmt.Fprintln(c.App.Writer, "No sites found in configuration.")
						return nil
					}

					fmt.Fprintf(c.App.Writer, "Scanning %d monitored sites for all active alerts...\n", len(siteIDs))
					deviations, scanned := CollectAlerts(c.Context, client, siteIDs)
					fmt.Fprintf(c.App.Writer, "Scanned %d of %d sites\n", len(scanned), len(siteIDs))

					return WriteAlerts(c.App.Writer, deviations, c.Bool("pretty"))
				},
			},
			{
				Name:  "validate",
				Usage: "check every configured route against the current departures",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "pause",
						Value: DefaultSitePause,
						Usage: "wait between site requests",
					},
				},
				Action: func(c *cli.Context) error {
					settings, client, err := loadClient(c)
					if err != nil {
						return err
					}

					fmt.Fprintf(c.App.Writer, "Validating %d routes from %s...\n\n", len(settings.Routes), c.String("config"))

					report := Validate(c.Context, client, settings.Routes, c.Duration("pause"))
					report.Write(c.App.Writer)

					if report.Failed > 0 {
						return cli.Exit("", 1)
					}

					return nil
				},
			},
			{
				Name:  "stations",
				Usage: "explore SL sites",
				Subcommands: []*cli.Command{
					{
						Name:      "search",
						Usage:     "search for a site id by name",
						ArgsUsage: "<name>",
						Action: func(c *cli.Context) error {
							if c.Args().Len() == 0 {
								return cli.Exit("A station name is required", 1)
							}

							_, client, err := loadClient(c)
							if err != nil {
								return err
							}

							return SearchStations(c.Context, client, c.Args().First(), c.App.Writer)
						},
					},
					{
						Name:      "lines",
						Usage:     "list the lines and destinations served by a site",
						ArgsUsage: "<site id>",
						Action: func(c *cli.Context) error {
							siteID, err := strconv.Atoi(c.Args().First())
							if err != nil || siteID <= 0 {
								return cli.Exit("Invalid ID. Please enter a number.", 1)
							}

							_, client, err := loadClient(c)
							if err != nil {
								return err
							}

							return ListLines(c.Context, client, siteID, c.App.Writer)
						},
					},
				},
			},
		},
	}
}
