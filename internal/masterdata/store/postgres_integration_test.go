//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"riskgate/internal/assessment"
	"riskgate/internal/masterdata"
	"riskgate/internal/masterdata/store"
	"riskgate/pkg/platform/sentinel"
	"riskgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "catalog_entries"))
}

func (s *PostgresStoreSuite) TestUpsertAndGetCaseInsensitive() {
	ctx := context.Background()
	entry := masterdata.Entry{Key: "North Korea", Band: assessment.BandNoGo, UpdatedAt: time.Now().UTC()}
	s.Require().NoError(s.store.Upsert(ctx, masterdata.CatalogCountry, entry))

	got, err := s.store.Get(ctx, masterdata.CatalogCountry, "north korea")
	s.Require().NoError(err)
	s.Equal("North Korea", got.Key)
	s.Equal(assessment.BandNoGo, got.Band)
}

func (s *PostgresStoreSuite) TestUpsertOverwritesBand() {
	ctx := context.Background()
	s.Require().NoError(s.store.Upsert(ctx, masterdata.CatalogProduct,
		masterdata.Entry{Key: "Credit Card", Band: assessment.BandMedium, UpdatedAt: time.Now().UTC()}))
	s.Require().NoError(s.store.Upsert(ctx, masterdata.CatalogProduct,
		masterdata.Entry{Key: "Credit Card", Band: assessment.BandHigh, UpdatedAt: time.Now().UTC()}))

	got, err := s.store.Get(ctx, masterdata.CatalogProduct, "Credit Card")
	s.Require().NoError(err)
	s.Equal(assessment.BandHigh, got.Band)
}

func (s *PostgresStoreSuite) TestCatalogsAreIsolated() {
	ctx := context.Background()
	s.Require().NoError(s.store.Upsert(ctx, masterdata.CatalogEmployment,
		masterdata.Entry{Key: "Accountant", Band: assessment.BandHigh, UpdatedAt: time.Now().UTC()}))

	_, err := s.store.Get(ctx, masterdata.CatalogBusiness, "Accountant")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListOrdered() {
	ctx := context.Background()
	now := time.Now().UTC()
	for _, key := range []string{"Mining", "Banking", "Charities"} {
		s.Require().NoError(s.store.Upsert(ctx, masterdata.CatalogBusiness,
			masterdata.Entry{Key: key, Band: assessment.BandHigh, UpdatedAt: now}))
	}

	entries, err := s.store.List(ctx, masterdata.CatalogBusiness)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("Banking", entries[0].Key)
	s.Equal("Charities", entries[1].Key)
	s.Equal("Mining", entries[2].Key)
}

func (s *PostgresStoreSuite) TestDeleteMissingReturnsNotFound() {
	err := s.store.Delete(context.Background(), masterdata.CatalogCountry, "Atlantis")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSeedIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(store.Seed(ctx, s.store))
	s.Require().NoError(store.Seed(ctx, s.store))

	entries, err := s.store.List(ctx, masterdata.CatalogCountry)
	s.Require().NoError(err)
	s.Len(entries, 42)
}
