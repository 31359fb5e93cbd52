package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env file is fine; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "dispatchd",
		Usage: "Food donation dispatch service",
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
