package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
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
	"github.com/user/resale-catalog-service/internal/identity"
	"github.com/user/resale-catalog-service/internal/repository"
	"github.com/user/resale-catalog-service/internal/usecase"
	"github.com/user/resale-catalog-service/pkg/config"
	"github.com/user/resale-catalog-service/pkg/logger"
	"github.com/user/resale-catalog-service/pkg/metrics"
)

// One-shot crawl: walks a category listing, runs the pipeline, replaces the
// stored catalog, and prints the resulting stats.
func main() {
	category := flag.String("category", "women/dresses", "category listing slug to crawl")
	maxPages := flag.Int("max-pages", 5, "maximum listing pages to walk")
	targetCount := flag.Int("target-count", 50, "stop after this many accepted records")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Unable to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Init(os.Stderr, cfg.LogLevel)
	metrics.Init()

	baseURL, err := url.Parse(cfg.CatalogBaseURL)
	if err != nil {
		slog.Error("Invalid catalog base URL", "url", cfg.CatalogBaseURL, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := pgxpool.New(ctx, cfg.PostgresURL())
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}

	catalogRepo := postgres.NewCatalogRepo(dbpool)
	if err := catalogRepo.Migrate(ctx); err != nil {
		slog.Error("Unable to run catalog migration", "error", err)
		os.Exit(1)
	}

	identities := identity.NewPool(rand.New(rand.NewSource(time.Now().UnixNano())))
	var fetcher repository.PageFetcher = httpfetch.New(identities, cfg.FetchTimeout())
	if cfg.FetchMode == config.FetchModeBrowser {
		fetcher = browserfetch.New(identities, cfg.FetchTimeout())
	}

	crawler := usecase.NewCrawlerUseCase(
		fetcher,
		redisstore.NewFrontierRepo(rdb),
		redisstore.NewVisitedRepo(rdb),
		catalogRepo,
		sizingfile.New(cfg.SizingChartPath),
		usecase.CrawlerOptions{
			BaseURL:         baseURL,
			PolitenessDelay: cfg.PolitenessDelay(),
			DetailRetries:   cfg.DetailRetries,
			LinksPerPage:    cfg.LinksPerPage,
			DedupExpiry:     cfg.DedupExpiry(),
		},
	)

	slog.Info("Starting crawl run", "category", *category, "max_pages", *maxPages, "target_count", *targetCount)
	result, err := crawler.Run(ctx, usecase.CrawlParams{
		Category:    *category,
		MaxPages:    *maxPages,
		TargetCount: *targetCount,
	})
	if err != nil {
		slog.Error("Crawl run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("pages walked:       %d\n", result.PagesWalked)
	fmt.Printf("records harvested:  %d\n", result.Harvested)
	fmt.Printf("records stored:     %d\n", result.Stored)
	fmt.Printf("price range:        %.2f - %.2f (avg %.2f)\n",
		result.Stats.PriceRange.Min, result.Stats.PriceRange.Max, result.Stats.PriceRange.Average)
	fmt.Printf("with measurements:  %d\n", result.Stats.WithMeasurements)
	for brand, count := range result.Stats.ByBrand {
		fmt.Printf("  %-20s %d\n", brand, count)
	}
}
