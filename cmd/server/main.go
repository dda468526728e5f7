package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	httpadapter "talentflow/internal/adapter/http"
	"talentflow/internal/adapter/repository"
	"talentflow/internal/infrastructure/migration"
	"talentflow/internal/seed"
	"talentflow/internal/usecase"
	infra "talentflow/pkg/infrastructure"
)

func main() {
	ctx := context.Background()

	// Optional .env; absence is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}

	db, err := infra.OpenDB("")
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := migration.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	store := repository.New(db)
	if err := store.Warm(ctx); err != nil {
		log.Fatalf("warm store: %v", err)
	}

	// Seed only a warmed, empty store; an empty snapshot before warming
	// means nothing.
	if store.Warmed() && store.Empty() && os.Getenv("TALENTFLOW_SEED") != "0" {
		log.Printf("empty store, seeding dataset")
		if err := seed.Run(ctx, store, rand.New(rand.NewSource(time.Now().UnixNano()))); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	backend := usecase.NewBackend(store, backendConfig())

	app := fiber.New()
	httpadapter.NewHandler(backend).Register(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Printf("listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func backendConfig() usecase.BackendConfig {
	cfg := usecase.DefaultBackendConfig()
	if v := os.Getenv("TALENTFLOW_DELAY_MIN_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.MinDelay = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("TALENTFLOW_DELAY_MAX_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.MaxDelay = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("TALENTFLOW_ERROR_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ErrorRate = rate
		}
	}
	return cfg
}
