package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcardenas/inventory-backend/internal/api"
	"github.com/mcardenas/inventory-backend/internal/audit"
	"github.com/mcardenas/inventory-backend/internal/auth"
	"github.com/mcardenas/inventory-backend/internal/config"
	"github.com/mcardenas/inventory-backend/internal/db"
	"github.com/mcardenas/inventory-backend/internal/logger"
	"github.com/mcardenas/inventory-backend/internal/metrics"
	"github.com/mcardenas/inventory-backend/internal/repository/postgres"
	"github.com/mcardenas/inventory-backend/internal/services"
	"github.com/mcardenas/inventory-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(cfg.Workers)
	defer wp.Stop()

	trail := audit.NewResolver(repos.Users.GetByID, repos.AuditRecords, log)
	trail.RegisterKind(audit.KindUser, func(ctx context.Context, id string) (string, error) {
		u, err := repos.Users.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return u.DisplayName(), nil
	})
	trail.RegisterKind(audit.KindItem, func(ctx context.Context, id string) (string, error) {
		it, err := repos.Items.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return it.Name, nil
	})

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)

	userSvc := services.NewUserService(repos.Users, trail, wp, tm)
	itemSvc := services.NewItemService(repos.Items, trail, wp)
	logSvc := services.NewAuditService(repos.AuditRecords, trail, wp)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:   cfg,
		Users: userSvc,
		Items: itemSvc,
		Logs:  logSvc,
		TM:    tm,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
