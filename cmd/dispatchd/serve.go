package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"food-dispatch-service/internal/adapters/geocode"
	"food-dispatch-service/internal/adapters/memory"
	"food-dispatch-service/internal/adapters/optimize"
	"food-dispatch-service/internal/adapters/postgres"
	"food-dispatch-service/internal/adapters/redisstore"
	"food-dispatch-service/internal/agents"
	"food-dispatch-service/internal/api"
	"food-dispatch-service/internal/listing"
	"food-dispatch-service/internal/platform/db"
	"food-dispatch-service/internal/ports"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the orchestration loop and HTTP server",
	Action: serve,
}

// facadeStores is the store surface the composition root needs. Both
// the Postgres and in-memory stores satisfy it.
type facadeStores interface {
	ports.Facade
	ports.ListingStore
	ports.SubmissionStore
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	var (
		stores   facadeStores
		geoCache geocode.Cache
	)
	if config.DatabaseURL != "" {
		pool, err := db.Connect(ctx, config.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		store := postgres.NewStore(pool)
		if err := store.InitSchema(ctx); err != nil {
			return err
		}
		stores = store
		geoCache = geocode.NewPgCache(pool)
		logger.Info("using postgres store")
	} else {
		stores = memory.NewFacade()
		logger.Warn("DATABASE_URL not set, using in-memory store")
	}

	var claimRecords listing.ClaimRecords
	if config.RedisURL != "" {
		opts, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		claimRecords = redisstore.NewClaimRecords(client, 0)
		logger.Info("claim records backed by redis")
	}

	var geocoder ports.Geocoder
	if config.ORSAPIKey != "" {
		geocoder = geocode.NewORSGeocoder(config.ORSBaseURL, config.ORSAPIKey, nil, geoCache, logger)
	} else {
		logger.Warn("ORS_API_KEY not set, addresses will not be geocoded")
	}

	orchestrator := agents.NewOrchestrator([]agents.Stage{
		&agents.IntakeStage{Facade: stores, Geocoder: geocoder, Log: logger},
		&agents.TriageStage{Facade: stores, Log: logger},
		&agents.BundlerStage{Facade: stores, Log: logger},
		&agents.OptimizerStage{Facade: stores, Optimizer: optimize.NearestNeighbor{}, Log: logger},
		&agents.CoverageStage{Facade: stores, Log: logger},
	}, time.Duration(config.CycleIntervalSec)*time.Second, logger)

	orchestrator.Start(ctx)
	defer orchestrator.Stop()

	router := api.NewRouter(api.Stores{
		Listings:     stores,
		Tasks:        stores,
		Submissions:  stores,
		ClaimRecords: claimRecords,
	}, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.ServerPort),
		Handler:      router,
		ReadTimeout:  time.Duration(config.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(config.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.WithField("port", config.ServerPort).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
