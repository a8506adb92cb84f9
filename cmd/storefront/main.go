package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/storage"
	"storefront/internal/token"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	logger := applog.Setup(out, cfg.LogLevel)
	log.SetOutput(out)

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if cfg.DoSeed {
		if err := repos.Seed(context.Background(), db); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	signer, err := token.NewSigner(cfg.JWTSecret)
	if err != nil {
		log.Fatal(err)
	}

	var limiterStore fiber.Storage
	if cfg.UseRedis() {
		rs, err := storage.NewRedis(cfg.RedisURL, storage.DefaultPrefix)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rs.Close()
		limiterStore = rs
	}

	app := handlers.NewApp(cfg, handlers.NewDeps(db, cfg, signer), limiterStore)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	logger.Info("listening", "addr", cfg.Addr(), "driver", cfg.DBDriver, "jwt_alg", signer.Algorithm(), "redis", cfg.UseRedis())
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatal(err)
	}
}
