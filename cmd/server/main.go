// Command server runs the kotoba board: a pseudonymous public message
// board with role-gated moderation commands.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kalpasnet/kotoba/internal/board"
	"github.com/kalpasnet/kotoba/internal/config"
	"github.com/kalpasnet/kotoba/internal/db"
	routes "github.com/kalpasnet/kotoba/internal/http"
	"github.com/kalpasnet/kotoba/internal/identity"
	"github.com/kalpasnet/kotoba/internal/models"
	"github.com/kalpasnet/kotoba/internal/ws"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	database, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	if err := database.AutoMigrate(
		&models.Post{},
		&models.RoleAssignment{},
		&models.Setting{},
		&models.NGWord{},
	); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Core wiring.
	limiter := board.NewSeedLimiter()
	go limiter.Run(ctx, 10*time.Minute)

	roles := board.NewRoleRegistry(database, cfg.AdminTags, logger)
	store := board.NewPostStore(database)
	topics := board.NewTopicRegister(database)
	words := board.NewWordFilter(database)
	pipeline := board.NewPipeline(limiter, roles, store, topics, words, logger)

	// Bootstrap admin, mirroring the operator seeding flow.
	if cfg.AdminSeed != "" {
		tag := identity.Derive(cfg.AdminSeed)
		if err := roles.Assign(tag, board.RoleAdmin); err != nil {
			logger.Fatal("failed to assign bootstrap admin", zap.Error(err))
		}
		logger.Info("bootstrap admin assigned", zap.String("tag", tag))
	}

	hub := ws.NewHub()
	go hub.Run()

	router := gin.New()
	env := &routes.Env{
		Pipeline: pipeline,
		Store:    store,
		Topics:   topics,
		Roles:    roles,
		Hub:      hub,
		Log:      logger,
	}
	routes.SetupRoutes(router, env, cfg.CORSOrigin)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server exiting")
}
