package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested report was not found.
var ErrNotFound = errors.New("report not found")

// Report is a stored wallet scan result.
type Report struct {
	ID        int             `json:"id"`
	Address   string          `json:"address"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
}

// WatchEntry is a wallet on the rescan watchlist.
type WatchEntry struct {
	Address string    `json:"address"`
	Label   string    `json:"label,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

// Repository defines persistent storage for scan reports and the watchlist.
type Repository interface {
	Save(ctx context.Context, address string, data json.RawMessage) error
	GetLatest(ctx context.Context, address string) (*Report, error)
	List(ctx context.Context, address string, limit int) ([]Report, error)

	Watch(ctx context.Context, address, label string) error
	Unwatch(ctx context.Context, address string) error
	Watchlist(ctx context.Context) ([]WatchEntry, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL report repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Save(ctx context.Context, address string, data json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wallet_reports (address, data) VALUES ($1, $2::jsonb)`,
		address, data)
	if err != nil {
		return fmt.Errorf("saving report for %s: %w", address, err)
	}
	return nil
}

func (r *PgRepository) GetLatest(ctx context.Context, address string) (*Report, error) {
	var rep Report
	err := r.pool.QueryRow(ctx,
		`SELECT id, address, data, created_at
		 FROM wallet_reports
		 WHERE address = $1
		 ORDER BY created_at DESC
		 LIMIT 1`, address).Scan(&rep.ID, &rep.Address, &rep.Data, &rep.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting latest report: %w", err)
	}
	return &rep, nil
}

func (r *PgRepository) List(ctx context.Context, address string, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, address, data, created_at
		 FROM wallet_reports
		 WHERE address = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, address, limit)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var rep Report
		if err := rows.Scan(&rep.ID, &rep.Address, &rep.Data, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return reports, nil
}

func (r *PgRepository) Watch(ctx context.Context, address, label string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO watchlist (address, label)
		 VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET label = $2`,
		address, label)
	if err != nil {
		return fmt.Errorf("adding %s to watchlist: %w", address, err)
	}
	return nil
}

func (r *PgRepository) Unwatch(ctx context.Context, address string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM watchlist WHERE address = $1`, address)
	if err != nil {
		return fmt.Errorf("removing %s from watchlist: %w", address, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) Watchlist(ctx context.Context) ([]WatchEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT address, label, added_at FROM watchlist ORDER BY added_at`)
	if err != nil {
		return nil, fmt.Errorf("reading watchlist: %w", err)
	}
	defer rows.Close()

	var entries []WatchEntry
	for rows.Next() {
		var e WatchEntry
		if err := rows.Scan(&e.Address, &e.Label, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning watchlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating watchlist: %w", err)
	}
	return entries, nil
}
