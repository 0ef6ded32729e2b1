package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"influencers/internal/analysis"
	"influencers/internal/app"
	"influencers/internal/cache"
	"influencers/internal/config"
	"influencers/internal/db"
	"influencers/internal/logger"
	"influencers/internal/ratelimit"
	"influencers/internal/server"
	"influencers/internal/store"
	"influencers/internal/ui"
)

func main() {
	cfg := config.Load()
	log := logger.WithSource(logger.New(cfg.LogLevel), cfg.SourceKind())

	ctx := context.Background()
	src, err := app.NewSource(ctx, cfg)
	if err != nil {
		log.Error("source_init_failed", "error", err)
		os.Exit(1)
	}
	loader := analysis.Loader{Source: src, TopN: cfg.TopN}
	reports := cache.NewTTL(cfg.CacheTTL, loader.Load)

	var snapshots server.SnapshotLister
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("db_connect_failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		snapshots = store.New(pool)
	}

	limiter := ratelimit.New(cfg.RefreshPerMinute, cfg.RefreshPerMinute)
	renderer, err := ui.New(cfg.TemplateDir)
	if err != nil {
		log.Error("template_load_failed", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, reports, snapshots, limiter, log, renderer)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("dashboard_listen", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http_server_error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
	log.Info("dashboard_shutdown")
}
