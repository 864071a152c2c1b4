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
	"toilanguoisaigon/internal/app"
	"toilanguoisaigon/internal/shared"
	mysqlrepo "toilanguoisaigon/internal/storage/mysql"
)

func main() {
	batch := flag.Int("batch", 0, "records to enrich this run (0 = config default)")
	dryRun := flag.Bool("dry-run", false, "compute patches but write nothing")
	flag.Parse()

	_ = godotenv.Load()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
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

	svc := app.NewEnrichService(provider, mysqlrepo.New(db), app.Normalizer{Box: cfg.CityBox})

	n := *batch
	if n <= 0 {
		n = cfg.BatchSize
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	sum, err := svc.Run(ctx, n, *dryRun)
	if err != nil {
		log.Error().Err(err).Msg("enrich run aborted")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(sum)
}
