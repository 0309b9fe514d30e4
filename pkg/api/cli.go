package api

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/aktarma/aktarma/pkg/redis_client"
	"github.com/aktarma/aktarma/pkg/routefinder"
	"github.com/aktarma/aktarma/pkg/stationgraph"
	"github.com/aktarma/aktarma/pkg/tcdd"
	"github.com/aktarma/aktarma/pkg/util"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the journey search web API",
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
					&cli.BoolFlag{
						Name:  "full-search",
						Usage: "eagerly include same-train and connected results in the planner",
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						log.Info().Err(err).Msg("Redis unavailable - feed caching disabled")
					}

					client := tcdd.NewClient()
					graph := stationgraph.NewGraph(client)

					policy := routefinder.DefaultGeographyPolicy()

					env := util.GetEnvironmentVariables()
					if env["AKTARMA_POLICY_FILE"] != "" {
						loadedPolicy, err := routefinder.LoadGeographyPolicy(env["AKTARMA_POLICY_FILE"])
						if err != nil {
							return err
						}
						policy = loadedPolicy
					}

					opts := routefinder.DefaultOptions()
					if c.Bool("full-search") {
						opts.Mode = routefinder.ModeFull
					}

					finder := routefinder.NewFinder(client, graph, policy, opts)

					return SetupServer(c.String("listen"), client, graph, finder)
				},
			},
		},
	}
}
