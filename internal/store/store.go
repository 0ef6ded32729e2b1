package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"influencers/internal/analysis"
)

type Store struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type Snapshot struct {
	ID               int64     `json:"id"`
	Source           string    `json:"source"`
	TakenAt          time.Time `json:"taken_at"`
	TotalInfluencers int       `json:"total_influencers"`
	TotalFollowers   float64   `json:"total_followers"`
	AverageFollowers float64   `json:"average_followers"`
	DroppedRows      int       `json:"dropped_rows"`
	TopPlatform      string    `json:"top_platform"`
}

// SnapshotFromReport captures the headline numbers of a report.
func SnapshotFromReport(source string, rep analysis.Report) Snapshot {
	top := ""
	if len(rep.PlatformCounts) > 0 {
		top = rep.PlatformCounts[0].Label
	}
	return Snapshot{
		Source:           source,
		TakenAt:          rep.GeneratedAt,
		TotalInfluencers: rep.Summary.TotalInfluencers,
		TotalFollowers:   rep.Summary.TotalFollowers,
		AverageFollowers: rep.Summary.AverageFollowers,
		DroppedRows:      rep.DroppedRows,
		TopPlatform:      top,
	}
}

func (s *Store) RecordSnapshot(ctx context.Context, snap Snapshot) (Snapshot, error) {
	row := s.DB.QueryRow(ctx, `
		INSERT INTO metric_snapshots (source, taken_at, total_influencers, total_followers, average_followers, dropped_rows, top_platform)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, taken_at
	`, snap.Source, snap.TakenAt, snap.TotalInfluencers, snap.TotalFollowers, snap.AverageFollowers, snap.DroppedRows, snap.TopPlatform)
	if err := row.Scan(&snap.ID, &snap.TakenAt); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ListSnapshots returns up to limit snapshots, newest first.
func (s *Store) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := s.DB.Query(ctx, `
		SELECT id, source, taken_at, total_influencers, total_followers, average_followers, dropped_rows, top_platform
		FROM metric_snapshots
		ORDER BY taken_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Snapshot, error) {
		var snap Snapshot
		err := row.Scan(&snap.ID, &snap.Source, &snap.TakenAt, &snap.TotalInfluencers,
			&snap.TotalFollowers, &snap.AverageFollowers, &snap.DroppedRows, &snap.TopPlatform)
		return snap, err
	})
}

// PruneSnapshots deletes snapshots older than the retention window.
func (s *Store) PruneSnapshots(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	ct, err := s.DB.Exec(ctx, `DELETE FROM metric_snapshots WHERE taken_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
