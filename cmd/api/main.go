package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wrenchworks/mechshop-backend/api/routes"
	"github.com/wrenchworks/mechshop-backend/internal/auth"
	"github.com/wrenchworks/mechshop-backend/internal/customers"
	"github.com/wrenchworks/mechshop-backend/internal/inventory"
	"github.com/wrenchworks/mechshop-backend/internal/mechanics"
	"github.com/wrenchworks/mechshop-backend/internal/tickets"
	"github.com/wrenchworks/mechshop-backend/pkg/config"
	"github.com/wrenchworks/mechshop-backend/pkg/db"
	"github.com/wrenchworks/mechshop-backend/pkg/logger"
	"github.com/wrenchworks/mechshop-backend/pkg/migrate"
	"github.com/wrenchworks/mechshop-backend/pkg/outbox"
	"github.com/wrenchworks/mechshop-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	customerRepo := customers.NewRepository(dbClient.DB())
	mechanicRepo := mechanics.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	ticketRepo := tickets.NewRepository(dbClient.DB())

	authService, err := auth.NewService(customerRepo, mechanicRepo, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	customerService, err := customers.NewService(customerRepo, dbClient, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}
	mechanicService, err := mechanics.NewService(mechanicRepo, dbClient, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create mechanic service", err)
		os.Exit(1)
	}
	inventoryService, err := inventory.NewService(inventoryRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	ticketService, err := tickets.NewService(
		ticketRepo,
		dbClient,
		tickets.NewCostCalculator(cfg.Billing),
		mechanicRepo,
		inventoryRepo,
		outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create ticket service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			authService,
			customerService,
			mechanicService,
			inventoryService,
			ticketService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
