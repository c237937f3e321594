// Command api runs the IVY analytics HTTP API.
//
// @title        IVY API
// @version      1.0
// @description  Multi-tenant small-business analytics API.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ericrr237-labz/IVY/docs"
	"github.com/ericrr237-labz/IVY/internal/api"
	"github.com/ericrr237-labz/IVY/internal/infrastructure/config"
	mongodb "github.com/ericrr237-labz/IVY/internal/infrastructure/db/mongo"
	redisdb "github.com/ericrr237-labz/IVY/internal/infrastructure/db/redis"
	"github.com/ericrr237-labz/IVY/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		fallback := logger.Get()
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	e := api.NewRouter(db, rdb, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting api")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
