// Package store provides persistence for master data catalogs.
package store

import (
	"context"

	"riskgate/internal/masterdata"
)

// Store persists catalog entries. Keys are matched case-insensitively;
// implementations return sentinel.ErrNotFound for missing entries.
type Store interface {
	Get(ctx context.Context, catalog masterdata.Catalog, key string) (masterdata.Entry, error)
	List(ctx context.Context, catalog masterdata.Catalog) ([]masterdata.Entry, error)
	Upsert(ctx context.Context, catalog masterdata.Catalog, entry masterdata.Entry) error
	Delete(ctx context.Context, catalog masterdata.Catalog, key string) error
}
