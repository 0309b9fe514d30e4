package routefinder

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/aktarma/aktarma/pkg/stationgraph"
	"github.com/aktarma/aktarma/pkg/tcdd"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Find train journeys between two stations",
		Subcommands: []*cli.Command{
			{
				Name:  "routes",
				Usage: "find direct and connected routes",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Required: true, Usage: "origin station (id or name)"},
					&cli.StringFlag{Name: "to", Required: true, Usage: "destination station (id or name)"},
					&cli.StringFlag{Name: "date", Usage: "travel date (YYYY-MM-DD, default today)"},
					&cli.IntFlag{Name: "connections", Value: 1, Usage: "maximum number of transfers"},
					&cli.BoolFlag{Name: "full", Usage: "eagerly include same-train and connected results"},
					&cli.BoolFlag{Name: "show-sold-out", Usage: "keep offers with no bookable seats"},
				},
				Action: func(c *cli.Context) error {
					ctx := context.Background()

					client := tcdd.NewClient()
					client.ShowSoldOut = c.Bool("show-sold-out")

					fromID, err := resolveStation(ctx, client, c.String("from"))
					if err != nil {
						return err
					}
					toID, err := resolveStation(ctx, client, c.String("to"))
					if err != nil {
						return err
					}

					date, err := parseDate(c.String("date"))
					if err != nil {
						return err
					}

					opts := DefaultOptions()
					if c.Bool("full") {
						opts.Mode = ModeFull
					}

					finder := NewFinder(client, stationgraph.NewGraph(client), nil, opts)

					routes, err := finder.FindRoutes(ctx, fromID, toID, date, c.Int("connections"))
					if err != nil {
						return err
					}

					log.Info().Int("routes", len(routes)).Msg("Search complete")
					pretty.Println(routes)

					return nil
				},
			},
			{
				Name:  "alternatives",
				Usage: "stream same-train reseat alternatives for a specific departure",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Required: true, Usage: "origin station (id or name)"},
					&cli.StringFlag{Name: "to", Required: true, Usage: "destination station (id or name)"},
					&cli.StringFlag{Name: "date", Usage: "travel date (YYYY-MM-DD, default today)"},
					&cli.StringFlag{Name: "time", Required: true, Usage: "target departure time (HH:MM)"},
				},
				Action: func(c *cli.Context) error {
					ctx := context.Background()

					client := tcdd.NewClient()

					fromID, err := resolveStation(ctx, client, c.String("from"))
					if err != nil {
						return err
					}
					toID, err := resolveStation(ctx, client, c.String("to"))
					if err != nil {
						return err
					}

					date, err := parseDate(c.String("date"))
					if err != nil {
						return err
					}

					finder := NewFinder(client, stationgraph.NewGraph(client), nil, DefaultOptions())

					for event := range finder.FindSameTrainAlternatives(ctx, fromID, toID, date, c.String("time")) {
						switch {
						case event.Done:
							log.Info().Msg("Alternatives stream complete")
						case event.Station != "":
							log.Info().Str("station", event.Station).Msg("Examining intermediate station")
						case event.Journey != nil:
							pretty.Println(event.Journey)
						}
					}

					return nil
				},
			},
		},
	}
}

func resolveStation(ctx context.Context, client *tcdd.Client, identifier string) (int, error) {
	if stationID, err := strconv.Atoi(identifier); err == nil {
		return stationID, nil
	}

	station, err := client.FindStationByName(ctx, identifier)
	if err != nil {
		return 0, err
	}

	return station.ID, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}

	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date should be YYYY-MM-DD: %w", err)
	}

	return date, nil
}
