package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cbarkinozer/hotel-reservation-engine/internal/config"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/database"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/engine"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/handler"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/middleware"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/queue"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/router"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/seed"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/session"
)

// CustomValidator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate().
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db := openStore(cfg)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Init(ctx, db, database.Dialect(cfg.DBDriver), cfg.WipeOnStart); err != nil {
		log.Fatalf("schema init: %v", err)
	}

	eng := engine.New(db)

	// Seed the inventory exactly once per store lifetime. A populated
	// store is left alone unless it was just wiped.
	entries, err := seed.Load(cfg.SeedFile)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	created, err := seed.Apply(ctx, eng.Rooms(), entries)
	switch {
	case errors.Is(err, seed.ErrAlreadySeeded):
		log.Printf("inventory already seeded, skipping")
	case err != nil:
		log.Fatalf("seed: %v", err)
	default:
		log.Printf("seeded %d rooms from %s", created, cfg.SeedFile)
	}

	// Redis backs sessions and rate limiting; both degrade gracefully
	// when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: rate limiting disabled, sessions held in process memory")
	}
	sessions := session.NewStore(rdb, time.Duration(cfg.SessionTTLMin)*time.Minute)

	// Background consumer mirrors reservation events into logs/.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	v := validator.New()
	e := echo.New()
	e.Validator = &CustomValidator{validator: v}

	resHandler := handler.NewReservationHandler(eng)
	sesHandler := handler.NewSessionHandler(sessions, eng, v)
	router.RegisterRoutes(e, resHandler, sesHandler,
		middleware.CallerIdentity(cfg.JWTSecret),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, driver=%s)", addr, cfg.Env, cfg.DBDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openStore opens the configured database driver.
func openStore(cfg config.Config) *sql.DB {
	var (
		db  *sql.DB
		err error
	)
	if cfg.DBDriver == "sqlite3" {
		db, err = database.OpenSQLite(cfg.DBPath)
	} else {
		db, err = database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	return db
}
