package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/adam5096/api-server-postgresql/internal/config"
	"github.com/adam5096/api-server-postgresql/internal/database"
	"github.com/adam5096/api-server-postgresql/internal/handler"
	"github.com/adam5096/api-server-postgresql/internal/queue"
	"github.com/adam5096/api-server-postgresql/internal/repository"
	"github.com/adam5096/api-server-postgresql/internal/router"
	"github.com/adam5096/api-server-postgresql/internal/storage"
)

// sweepInterval is how often expired blacklist entries are reclaimed.
const sweepInterval = time.Hour

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.InitSchema(ctx, db); err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := config.NewRedisClient() // nil disables the blacklist cache
	if rdb == nil {
		log.Printf("redis unavailable, blacklist lookups go to postgres only")
	}

	store, err := storage.NewS3Store(ctx, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.S3Region, cfg.S3Bucket)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	users := repository.NewUserRepo(db)
	todos := repository.NewTodoRepo(db)
	blacklist := repository.NewTokenBlacklistRepo(db, rdb)

	go blacklist.StartSweeper(ctx, sweepInterval)
	go queue.StartSignupConsumer()

	e := echo.New()
	router.RegisterRoutes(e,
		handler.NewAuthHandler(cfg, users, blacklist),
		handler.NewTodoHandler(todos),
		handler.NewUploadHandler(store),
		cfg.JWTSecret, blacklist)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
