package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"

	"github.com/BruksfildServices01/repair-desk/internal/audit"
	"github.com/BruksfildServices01/repair-desk/internal/auth"
	"github.com/BruksfildServices01/repair-desk/internal/clock"
	"github.com/BruksfildServices01/repair-desk/internal/config"
	dbpkg "github.com/BruksfildServices01/repair-desk/internal/db"
	"github.com/BruksfildServices01/repair-desk/internal/logger"
	"github.com/BruksfildServices01/repair-desk/internal/routes"
	"github.com/BruksfildServices01/repair-desk/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("production", "")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database")
	}

	clk := clock.Real()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	revoker, err := auth.NewRevoker(ctx, cfg.RedisURL, clk)
	if err != nil {
		log.Fatal().Err(err).Msg("token revocation store")
	}

	store := storage.New(cfg.S3)
	if !cfg.S3.Enabled() {
		log.Warn().Msg("S3_BUCKET not set, attachment uploads are disabled")
	}

	auditLogs := audit.New(db)
	dispatcher := audit.NewDispatcher(auditLogs, log)

	r := gin.New()
	routes.RegisterRoutes(r, db, cfg, routes.Deps{
		Log:       log,
		Clock:     clk,
		Store:     store,
		Revoker:   revoker,
		Audit:     dispatcher,
		AuditLogs: auditLogs,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute)(r),
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("audit queue not drained")
	}
	if closer, ok := revoker.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info().Msg("shutdown complete")
}
