package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"toilanguoisaigon/internal/adapters/gemini"
	"toilanguoisaigon/internal/adapters/observability"
	redisad "toilanguoisaigon/internal/adapters/redis"
	"toilanguoisaigon/internal/app"
	"toilanguoisaigon/internal/domain"
	"toilanguoisaigon/internal/shared"
	mysqlrepo "toilanguoisaigon/internal/storage/mysql"
)

func main() {
	queryCount := flag.Int("queries", 0, "pool queries to sample this run (0 = config default)")
	queryFile := flag.String("file", "", "file with one query per line (# comments allowed)")
	dryRun := flag.Bool("dry-run", false, "classify and log but write nothing")
	delay := flag.Duration("delay", 0, "override provider call delay (e.g. 500ms)")
	workers := flag.Int("workers", 0, "concurrent queries (0 = config default)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
	}
	if *delay > 0 {
		cfg.CallDelay = *delay
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	// Explicit queries, in priority order: file, then positional args.
	var explicit []domain.EnrichmentQuery
	if *queryFile != "" {
		f, err := os.Open(*queryFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", *queryFile).Msg("open query file failed")
		}
		explicit, err = app.ReadQueries(f)
		_ = f.Close()
		if err != nil {
			log.Fatal().Err(err).Str("file", *queryFile).Msg("read query file failed")
		}
	} else if args := flag.Args(); len(args) > 0 {
		explicit = app.Explicit(args)
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	provider, err := gemini.New(cfg.GeminiBase, cfg.GeminiModel, cfg.GeminiKey, gemini.Options{
		CallDelay: cfg.CallDelay,
		Retries:   cfg.Retries,
		BiasLat:   cfg.CityLat,
		BiasLng:   cfg.CityLng,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("provider init failed")
	}

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sched := &app.Scheduler{Pool: app.QueryPool, Cache: cache}
	svc := app.NewCrawlService(provider, repo, app.NewClassifier(app.DefaultRules()), app.Normalizer{Box: cfg.CityBox}, sched, cache)
	svc.Workers = cfg.Workers
	svc.RecentQueryTTL = cfg.RecentQueryTTL

	n := *queryCount
	if n <= 0 {
		n = cfg.QueryCount
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	sum, err := svc.Run(ctx, app.CrawlParams{
		Queries:    explicit,
		QueryCount: n,
		DryRun:     *dryRun,
	})
	if err != nil {
		log.Error().Err(err).Msg("crawl run aborted")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(sum)
}
