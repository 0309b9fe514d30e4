package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/aktarma/aktarma/pkg/api"
	"github.com/aktarma/aktarma/pkg/routefinder"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("AKTARMA_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("AKTARMA_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "aktarma",
		Description: "Single binary of truth for Aktarma - runs all the services",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			routefinder.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
