package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/user/resale-catalog-service/internal/adapter/browserfetch"
	"github.com/user/resale-catalog-service/internal/adapter/httpfetch"
	"github.com/user/resale-catalog-service/internal/adapter/postgres"
	"github.com/user/resale-catalog-service/internal/adapter/redisstore"
	"github.com/user/resale-catalog-service/internal/adapter/sizingfile"
	"github.com/user/resale-catalog-service/internal/delivery/http/handler"
	"github.com/user/resale-catalog-service/internal/delivery/http/router"
	"github.com/user/resale-catalog-service/internal/identity"
	"github.com/user/resale-catalog-service/internal/repository"
	"github.com/user/resale-catalog-service/internal/usecase"
	"github.com/user/resale-catalog-service/pkg/config"
	"github.com/user/resale-catalog-service/pkg/logger"
	"github.com/user/resale-catalog-service/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Unable to load configuration", "error", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger.Init(os.Stdout, cfg.LogLevel)
	slog.Info("Logger initialized", "level", cfg.LogLevel)

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	baseURL, err := url.Parse(cfg.CatalogBaseURL)
	if err != nil {
		slog.Error("Invalid catalog base URL", "url", cfg.CatalogBaseURL, "error", err)
		os.Exit(1)
	}

	// --- Database Connections ---
	ctx := context.Background()

	dbpool, err := pgxpool.New(ctx, cfg.PostgresURL())
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	slog.Info("PostgreSQL connection pool established")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// --- Repositories ---
	catalogRepo := postgres.NewCatalogRepo(dbpool)
	if err := catalogRepo.Migrate(ctx); err != nil {
		slog.Error("Unable to run catalog migration", "error", err)
		os.Exit(1)
	}
	frontierRepo := redisstore.NewFrontierRepo(rdb)
	visitedRepo := redisstore.NewVisitedRepo(rdb)
	sizingRepo := sizingfile.New(cfg.SizingChartPath)

	identities := identity.NewPool(rand.New(rand.NewSource(time.Now().UnixNano())))
	var fetcher repository.PageFetcher = httpfetch.New(identities, cfg.FetchTimeout())
	if cfg.FetchMode == config.FetchModeBrowser {
		fetcher = browserfetch.New(identities, cfg.FetchTimeout())
	}
	slog.Info("Fetcher configured", "mode", cfg.FetchMode)

	// --- Use Cases ---
	crawler := usecase.NewCrawlerUseCase(fetcher, frontierRepo, visitedRepo, catalogRepo, sizingRepo, usecase.CrawlerOptions{
		BaseURL:         baseURL,
		PolitenessDelay: cfg.PolitenessDelay(),
		DetailRetries:   cfg.DetailRetries,
		LinksPerPage:    cfg.LinksPerPage,
		DedupExpiry:     cfg.DedupExpiry(),
	})
	runManager := usecase.NewRunManager(crawler, nil)
	catalogQuery := usecase.NewCatalogQuery(catalogRepo)
	sizingQuery := usecase.NewSizingQuery(sizingRepo)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(runManager, catalogQuery, sizingQuery)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	runManager.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exiting")
}
