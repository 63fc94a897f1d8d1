package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	s := &srv{}
	app := &cli.App{
		Name:  "mantra-backend",
		Usage: "Google-connected automation backend",
		Commands: []*cli.Command{
			{
				Name:   "api",
				Usage:  "Start the API server",
				Action: s.startApi,
			},
			{
				Name:   "migrate",
				Usage:  "Migrate the database schema",
				Action: s.migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
