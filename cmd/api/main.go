package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmirandacr/vaultkeeper-backend/api/controllers"
	"github.com/rmirandacr/vaultkeeper-backend/api/routes"
	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/internal/inventory"
	"github.com/rmirandacr/vaultkeeper-backend/internal/items"
	"github.com/rmirandacr/vaultkeeper-backend/internal/listings"
	"github.com/rmirandacr/vaultkeeper-backend/internal/submissions"
	"github.com/rmirandacr/vaultkeeper-backend/internal/users"
	"github.com/rmirandacr/vaultkeeper-backend/internal/vaultings"
	webhookminting "github.com/rmirandacr/vaultkeeper-backend/internal/webhooks/minting"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/config"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/metrics"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/migrate"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/minting"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/redis"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/storage/gcs"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	requireResource(ctx, logg, "gcs", err)

	mintClient, err := minting.NewHTTPClient(ctx, cfg.Minting, logg)
	requireResource(ctx, logg, "minting client", err)

	userRepo := users.NewRepository(dbClient.DB())
	itemRepo := items.NewRepository(dbClient.DB())
	subRepo := submissions.NewRepository(dbClient.DB())
	vaultRepo := vaultings.NewRepository(dbClient.DB())
	listingRepo := listings.NewRepository(dbClient.DB())
	slotRepo := inventory.NewRepository(dbClient.DB())

	auditSvc, err := auditlog.NewService(auditlog.NewRepository(dbClient.DB()), logg)
	requireResource(ctx, logg, "audit log service", err)

	submissionsSvc, err := submissions.NewService(subRepo, itemRepo, userRepo, dbClient, gcsClient, auditSvc)
	requireResource(ctx, logg, "submissions service", err)

	lifecycle := metrics.NewLifecycleMetrics(prometheus.DefaultRegisterer)
	vaultingsSvc, err := vaultings.NewService(
		vaultRepo,
		itemRepo,
		subRepo,
		userRepo,
		listingRepo,
		slotRepo,
		dbClient,
		mintClient,
		gcsClient,
		auditSvc,
		logg,
		lifecycle,
	)
	requireResource(ctx, logg, "vaultings service", err)

	listingsSvc, err := listings.NewService(listingRepo, itemRepo, vaultRepo, dbClient, auditSvc)
	requireResource(ctx, logg, "listings service", err)

	inventorySvc, err := inventory.NewService(slotRepo, itemRepo, vaultRepo, dbClient, auditSvc)
	requireResource(ctx, logg, "inventory service", err)

	webhookGuard, err := webhookminting.NewIdempotencyGuard(redisClient, cfg.Webhook.IdempotencyTTL)
	requireResource(ctx, logg, "webhook idempotency guard", err)

	resolver := controllers.NewActorResolver(userRepo)

	router := routes.NewRouter(
		cfg,
		logg,
		map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
			"gcs":      gcsClient,
		},
		resolver,
		submissionsSvc,
		vaultingsSvc,
		listingsSvc,
		inventorySvc,
		auditSvc,
		webhookGuard,
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
