package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"riskgate/internal/assessment"
	"riskgate/internal/masterdata"
	"riskgate/pkg/platform/sentinel"
)

// Postgres stores catalog entries in the catalog_entries table, keyed by
// (catalog, lower(key)) so lookups are case-insensitive while the original
// casing is kept for display.
//
// Schema:
//
//	CREATE TABLE catalog_entries (
//	    catalog     TEXT        NOT NULL,
//	    key_lower   TEXT        NOT NULL,
//	    display_key TEXT        NOT NULL,
//	    band        TEXT        NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (catalog, key_lower)
//	);
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed catalog store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context, catalog masterdata.Catalog, key string) (masterdata.Entry, error) {
	var entry masterdata.Entry
	var band string
	err := p.db.QueryRowContext(ctx,
		`SELECT display_key, band, updated_at FROM catalog_entries WHERE catalog = $1 AND key_lower = $2`,
		string(catalog), strings.ToLower(key),
	).Scan(&entry.Key, &band, &entry.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return masterdata.Entry{}, sentinel.ErrNotFound
	}
	if err != nil {
		return masterdata.Entry{}, fmt.Errorf("get catalog entry: %w", err)
	}
	entry.Band = assessment.RiskBand(band)
	return entry, nil
}

func (p *Postgres) List(ctx context.Context, catalog masterdata.Catalog) ([]masterdata.Entry, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT display_key, band, updated_at FROM catalog_entries WHERE catalog = $1 ORDER BY display_key`,
		string(catalog),
	)
	if err != nil {
		return nil, fmt.Errorf("list catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []masterdata.Entry
	for rows.Next() {
		var entry masterdata.Entry
		var band string
		if err := rows.Scan(&entry.Key, &band, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		entry.Band = assessment.RiskBand(band)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog entries: %w", err)
	}
	return entries, nil
}

func (p *Postgres) Upsert(ctx context.Context, catalog masterdata.Catalog, entry masterdata.Entry) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO catalog_entries (catalog, key_lower, display_key, band, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (catalog, key_lower)
		 DO UPDATE SET display_key = EXCLUDED.display_key, band = EXCLUDED.band, updated_at = EXCLUDED.updated_at`,
		string(catalog), strings.ToLower(entry.Key), entry.Key, string(entry.Band), entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert catalog entry: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, catalog masterdata.Catalog, key string) error {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM catalog_entries WHERE catalog = $1 AND key_lower = $2`,
		string(catalog), strings.ToLower(key),
	)
	if err != nil {
		return fmt.Errorf("delete catalog entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete catalog entry rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
