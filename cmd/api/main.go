package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/communityzine/magazine-system/internal/api"
	"github.com/communityzine/magazine-system/internal/core/service"
	"github.com/communityzine/magazine-system/internal/infrastructure/config"
	mongodb "github.com/communityzine/magazine-system/internal/infrastructure/db/mongo"
	redisdb "github.com/communityzine/magazine-system/internal/infrastructure/db/redis"
	"github.com/communityzine/magazine-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

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

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	submissionRepo := mongodb.NewSubmissionRepository(db)
	magazineRepo := mongodb.NewMagazineRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":       userRepo.EnsureIndexes,
		"submissions": submissionRepo.EnsureIndexes,
		"magazines":   magazineRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Services ---
	refreshStore := redisdb.NewRefreshStore(rdb)
	tokenService, err := service.NewTokenService(userRepo, refreshStore, cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		// Missing signing key is fatal: serving auth routes without it would
		// mean issuing unverifiable sessions.
		log.Fatal().Err(err).Msg("token service unavailable")
	}

	authService := service.NewAuthService(userRepo, tokenService, cfg.BcryptCost, log)
	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.IsProduction()); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}

	submissionService := service.NewSubmissionService(submissionRepo, log)
	magazineService := service.NewMagazineService(magazineRepo, submissionRepo, log)

	// --- HTTP ---
	e := api.NewRouter(api.Services{
		Auth:        authService,
		Tokens:      tokenService,
		Submissions: submissionService,
		Magazines:   magazineService,
	}, db, rdb, log, cfg.IsProduction())

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("magazine platform listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
