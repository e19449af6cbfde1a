package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	mintconsumer "github.com/rmirandacr/vaultkeeper-backend/internal/consumers/minting"
	"github.com/rmirandacr/vaultkeeper-backend/internal/inventory"
	"github.com/rmirandacr/vaultkeeper-backend/internal/items"
	"github.com/rmirandacr/vaultkeeper-backend/internal/listings"
	"github.com/rmirandacr/vaultkeeper-backend/internal/submissions"
	"github.com/rmirandacr/vaultkeeper-backend/internal/users"
	"github.com/rmirandacr/vaultkeeper-backend/internal/vaultings"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/config"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/minting"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pubsub"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/storage/gcs"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "vault-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "vault-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	requireResource(ctx, logg, "gcs", err)

	mintClient, err := minting.NewHTTPClient(ctx, cfg.Minting, logg)
	requireResource(ctx, logg, "minting client", err)

	defer func() {
		closeErr := multierr.Append(dbClient.Close(), pubsubClient.Close())
		if closeErr != nil {
			logg.Error(context.Background(), "error closing worker resources", closeErr)
		}
	}()

	auditSvc, err := auditlog.NewService(auditlog.NewRepository(dbClient.DB()), logg)
	requireResource(ctx, logg, "audit log service", err)

	vaultingsSvc, err := vaultings.NewService(
		vaultings.NewRepository(dbClient.DB()),
		items.NewRepository(dbClient.DB()),
		submissions.NewRepository(dbClient.DB()),
		users.NewRepository(dbClient.DB()),
		listings.NewRepository(dbClient.DB()),
		inventory.NewRepository(dbClient.DB()),
		dbClient,
		mintClient,
		gcsClient,
		auditSvc,
		logg,
		nil,
	)
	requireResource(ctx, logg, "vaultings service", err)

	consumer, err := mintconsumer.NewConsumer(vaultingsSvc, pubsubClient.MintEventsSubscription(), logg)
	requireResource(ctx, logg, "mint consumer", err)

	worker, err := NewService(ServiceParams{
		Config:       cfg,
		Logger:       logg,
		DB:           dbClient,
		PubSub:       pubsubClient,
		GCS:          gcsClient,
		MintConsumer: consumer,
	})
	requireResource(ctx, logg, "worker service", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{"env": cfg.App.Env})
	logg.Info(runCtx, "vault worker ready")

	if err := worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "vault worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "vault worker shutting down gracefully")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
