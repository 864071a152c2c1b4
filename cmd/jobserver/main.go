package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"toilanguoisaigon/internal/adapters/gemini"
	server "toilanguoisaigon/internal/adapters/http_server"
	"toilanguoisaigon/internal/adapters/observability"
	redisad "toilanguoisaigon/internal/adapters/redis"
	"toilanguoisaigon/internal/app"
	"toilanguoisaigon/internal/shared"
	mysqlrepo "toilanguoisaigon/internal/storage/mysql"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
	}

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	provider, err := gemini.New(cfg.GeminiBase, cfg.GeminiModel, cfg.GeminiKey, gemini.Options{
		CallDelay: cfg.CallDelay,
		Retries:   cfg.Retries,
		BiasLat:   cfg.CityLat,
		BiasLng:   cfg.CityLng,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("provider init failed")
	}

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	norm := app.Normalizer{Box: cfg.CityBox}
	sched := &app.Scheduler{Pool: app.QueryPool, Cache: cache}

	crawl := app.NewCrawlService(provider, repo, app.NewClassifier(app.DefaultRules()), norm, sched, cache)
	crawl.Workers = cfg.Workers
	crawl.RecentQueryTTL = cfg.RecentQueryTTL
	enrich := app.NewEnrichService(provider, repo, norm)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Crawl: crawl, Enrich: enrich, Cache: cache})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("job server listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
