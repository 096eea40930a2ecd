package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipl-auction/internal/database"
	"ipl-auction/internal/domain"
	"ipl-auction/internal/storage"
	"ipl-auction/internal/storage/storagetest"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "auction.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPlayerRepository(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.PlayerStore {
		return NewPlayerRepository(openTestDB(t), zerolog.Nop())
	})
}

func TestPlayerRepository_PriceRoundTrip(t *testing.T) {
	repo := NewPlayerRepository(openTestDB(t), zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, repo.InsertBulk(ctx, storagetest.Seed()))

	// 0.1 + 0.2 style values must survive storage exactly
	price := decimal.RequireFromString("0.30")
	require.NoError(t, repo.RecordSale(ctx, domain.PoolOverseas, "Jos Buttler", "RR", price))

	sold, err := repo.ListByTeam(ctx, domain.PoolOverseas, "RR")
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.True(t, sold[0].SellingPrice.Decimal.Equal(price))
}

func TestPlayerRepository_RejectsInconsistentRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())

	// sold without a buyer violates the sale-state check
	err := repo.InsertBulk(context.Background(), []*domain.Player{
		{ID: "x", Name: "Broken", Pool: domain.PoolDomestic, Role: domain.RoleBatsman, IsSold: true},
	})
	require.Error(t, err)

	n, err := repo.Count(context.Background(), domain.PoolDomestic)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlayerRepository_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auction.db")

	first, err := database.Open(path, zerolog.Nop())
	require.NoError(t, err)
	repo := NewPlayerRepository(first, zerolog.Nop())
	require.NoError(t, repo.InsertBulk(context.Background(), storagetest.Seed()))
	require.NoError(t, first.Close())

	second, err := database.Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer second.Close()

	n, err := NewPlayerRepository(second, zerolog.Nop()).Count(context.Background(), domain.PoolDomestic)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
