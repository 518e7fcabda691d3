package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"procova/adapters/httpapi"
	"procova/adapters/postgres"
	"procova/adapters/stats/extract"
	"procova/adapters/stats/power"
	"procova/adapters/tabular"
	"procova/app"
	"procova/internal/config"
	"procova/internal/errors"
	"procova/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Data.File == "" {
		log.Fatalf("config: %v", errors.ConfigInvalid("DATA_FILE is required"))
	}

	frame, err := tabular.NewReader(cfg.Data.File).Read()
	if err != nil {
		log.Fatalf("loading historical data: %v", err)
	}
	log.Printf("[API] loaded %s (%d rows, %d columns)", cfg.Data.File, frame.NumRows(), len(frame.Columns()))

	var runs ports.RunRepository
	if cfg.Database.URL != "" {
		repo, err := initDatabase(cfg.Database.URL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		runs = repo
		log.Printf("[API] run persistence enabled")
	}

	powerService := app.NewPowerService(
		extract.NewExtractor(),
		power.NewNoncentralModel(),
		power.NewGuentherSchoutenModel(),
	)
	sweepService := app.NewSweepService(powerService, cfg.Sweep.Parallelism)

	server := httpapi.NewServer(frame, cfg.Data.File, powerService, sweepService, runs)
	server.SetColumnDefaults(cfg.Data.Outcome, cfg.Data.Treatment)
	addr := ":" + cfg.Server.Port
	log.Printf("[API] listening on %s", addr)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func initDatabase(url string) (*postgres.RunRepositoryImpl, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	repo := postgres.NewRunRepository(db).(*postgres.RunRepositoryImpl)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return repo, nil
}
