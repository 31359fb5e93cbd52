package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"food-dispatch-service/internal/adapters/postgres"
	"food-dispatch-service/internal/platform/db"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Initialize the schema and seed the database from a JSON file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Path to the seed JSON file",
			Value:   "seed.json",
		},
	},
	Action: func(cCtx *cli.Context) error {
		config, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if config.DatabaseURL == "" {
			return fmt.Errorf("seed requires DATABASE_URL")
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("connected to database")

		store := postgres.NewStore(pool)
		if err := store.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}

		path := cCtx.String("file")
		logrus.WithField("file", path).Info("seeding database")
		if err := store.SeedFromJSON(ctx, path); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}

		logrus.Info("seed complete")
		return nil
	},
}
