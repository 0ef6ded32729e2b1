package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"influencers/internal/analysis"
	"influencers/internal/app"
	"influencers/internal/config"
	"influencers/internal/db"
	"influencers/internal/logger"
	"influencers/internal/store"
)

const retention = 90 * 24 * time.Hour

func main() {
	cfg := config.Load()
	log := logger.WithSource(logger.New(cfg.LogLevel), cfg.SourceKind())

	if cfg.DatabaseURL == "" {
		log.Error("worker_requires_database")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db_connect_failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	src, err := app.NewSource(ctx, cfg)
	if err != nil {
		log.Error("source_init_failed", "error", err)
		os.Exit(1)
	}

	st := store.New(pool)
	loader := analysis.Loader{Source: src, TopN: cfg.TopN}

	ticker := time.NewTicker(cfg.SnapshotInterval)
	defer ticker.Stop()

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	log.Info("worker_start", "env", cfg.Env, "interval", cfg.SnapshotInterval.String())
	runOnce(ctx, cfg.SourceKind(), loader, st, log)
	for {
		select {
		case <-ticker.C:
			pruneSnapshots(ctx, st, log)
			runOnce(ctx, cfg.SourceKind(), loader, st, log)
		case <-done:
			log.Info("worker_shutdown")
			return
		}
	}
}

func pruneSnapshots(ctx context.Context, st *store.Store, log *slog.Logger) {
	removed, err := st.PruneSnapshots(ctx, retention)
	if err != nil {
		log.Error("snapshot_prune_failed", "error", err)
		return
	}
	if removed > 0 {
		log.Info("snapshot_prune", "removed", removed)
	}
}

func runOnce(ctx context.Context, source string, loader analysis.Loader, st *store.Store, log *slog.Logger) {
	ctxLoad, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rep, err := loader.Load(ctxLoad)
	if err != nil {
		log.Error("snapshot_load_failed", "error", err)
		return
	}
	snap, err := st.RecordSnapshot(ctx, store.SnapshotFromReport(source, rep))
	if err != nil {
		log.Error("snapshot_record_failed", "error", err)
		return
	}
	log.Info("snapshot_recorded",
		"snapshot_id", snap.ID,
		"total_influencers", snap.TotalInfluencers,
		"total_followers", snap.TotalFollowers,
		"dropped_rows", snap.DroppedRows,
	)
}
