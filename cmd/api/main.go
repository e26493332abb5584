package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skillswap/skillswap-api/internal/api"
	"github.com/skillswap/skillswap-api/internal/infrastructure/config"
	mongorepo "github.com/skillswap/skillswap-api/internal/infrastructure/db/mongo"
	redisrepo "github.com/skillswap/skillswap-api/internal/infrastructure/db/redis"
	"github.com/skillswap/skillswap-api/internal/infrastructure/queue"
	"github.com/skillswap/skillswap-api/pkg/logger"
)

// @title           SkillSwap API
// @version         1.0
// @description     Skill exchange platform: profile browsing with skill matching and the swap lifecycle.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Missing .env is fine; real deployments set everything via environment.
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "skillswap-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisrepo.Connect(ctx, redisrepo.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongorepo.NewUserRepository(db)
	swapRepo := mongorepo.NewSwapRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("users index creation failed")
	}
	if err := swapRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("swaps index creation failed")
	}

	eventRepo := mongorepo.NewSwapEventRepository(db)
	audit := queue.NewAuditDispatcher(cfg.Audit.Workers, eventRepo, log)
	audit.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, audit, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
