// Package storagetest holds the behaviour every storage.PlayerStore must share.
// Each implementation runs it from its own tests.
package storagetest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipl-auction/internal/domain"
	"ipl-auction/internal/storage"
)

// Factory returns an empty store. Cleanup is the factory's job (t.Cleanup).
type Factory func(t *testing.T) storage.PlayerStore

// Seed is a small roster across both pools.
func Seed() []*domain.Player {
	return []*domain.Player{
		{ID: "d1", Name: "Rohit Sharma", Pool: domain.PoolDomestic, Role: domain.RoleBatsman, Matches: 243, Runs: 6211, ImpactPerMatch: 31.2},
		{ID: "d2", Name: "Jasprit Bumrah", Pool: domain.PoolDomestic, Role: domain.RoleBowler, Matches: 120, Wickets: 145, ImpactPerMatch: 35.8},
		{ID: "d3", Name: "MS Dhoni", Pool: domain.PoolDomestic, Role: domain.RoleWicketkeeper, Matches: 250, Runs: 5082, ImpactPerMatch: 27.4},
		{ID: "o1", Name: "Jos Buttler", Pool: domain.PoolOverseas, Role: domain.RoleWicketkeeper, Matches: 96, Runs: 3223, ImpactPerMatch: 33.1},
		{ID: "o2", Name: "Rashid Khan", Pool: domain.PoolOverseas, Role: domain.RoleBowlingAllrounder, Matches: 109, Wickets: 139, ImpactPerMatch: 34.6},
	}
}

func names(players []*domain.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

// Run exercises a PlayerStore implementation.
func Run(t *testing.T, newStore Factory) {
	t.Run("InsertAndList", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.InsertBulk(ctx, Seed()))

		domestic, err := store.List(ctx, domain.PoolDomestic)
		require.NoError(t, err)
		assert.Equal(t, []string{"Jasprit Bumrah", "MS Dhoni", "Rohit Sharma"}, names(domestic))

		overseas, err := store.List(ctx, domain.PoolOverseas)
		require.NoError(t, err)
		assert.Equal(t, []string{"Jos Buttler", "Rashid Khan"}, names(overseas))

		rohit := domestic[2]
		assert.Equal(t, "d1", rohit.ID)
		assert.Equal(t, domain.PoolDomestic, rohit.Pool)
		assert.Equal(t, domain.RoleBatsman, rohit.Role)
		assert.Equal(t, 243, rohit.Matches)
		assert.Equal(t, 6211, rohit.Runs)
		assert.InDelta(t, 31.2, rohit.ImpactPerMatch, 1e-9)
		assert.False(t, rohit.IsSold)
		assert.True(t, rohit.SaleStateConsistent())

		n, err := store.Count(ctx, domain.PoolOverseas)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("InsertDuplicate", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.InsertBulk(ctx, Seed()))

		dup := &domain.Player{ID: "new-id", Name: "MS Dhoni", Pool: domain.PoolDomestic, Role: domain.RoleWicketkeeper}
		assert.ErrorIs(t, store.InsertBulk(ctx, []*domain.Player{dup}), storage.ErrDuplicateKey)

		n, err := store.Count(ctx, domain.PoolDomestic)
		require.NoError(t, err)
		assert.Equal(t, 3, n, "failed batch must not insert anything")
	})

	t.Run("SameNameInBothPools", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		err := store.InsertBulk(ctx, []*domain.Player{
			{ID: "a", Name: "Twin", Pool: domain.PoolDomestic, Role: domain.RoleBatsman},
			{ID: "b", Name: "Twin", Pool: domain.PoolOverseas, Role: domain.RoleBatsman},
		})
		require.NoError(t, err)
	})

	t.Run("RecordSale", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		require.NoError(t, store.InsertBulk(ctx, Seed()))

		price := decimal.RequireFromString("12.5")
		require.NoError(t, store.RecordSale(ctx, domain.PoolDomestic, "MS Dhoni", "CSK", price))

		sold, err := store.ListSold(ctx, domain.PoolDomestic)
		require.NoError(t, err)
		require.Len(t, sold, 1)
		assert.Equal(t, "MS Dhoni", sold[0].Name)
		assert.True(t, sold[0].IsSold)
		assert.Equal(t, "CSK", sold[0].SoldTo)
		require.True(t, sold[0].SellingPrice.Valid)
		assert.True(t, sold[0].SellingPrice.Decimal.Equal(price), "got %s", sold[0].SellingPrice.Decimal)
		assert.True(t, sold[0].SaleStateConsistent())

		byTeam, err := store.ListByTeam(ctx, domain.PoolDomestic, "CSK")
		require.NoError(t, err)
		assert.Equal(t, []string{"MS Dhoni"}, names(byTeam))

		other, err := store.ListByTeam(ctx, domain.PoolOverseas, "CSK")
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("RecordSaleNotFound", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		require.NoError(t, store.InsertBulk(ctx, Seed()))

		err := store.RecordSale(ctx, domain.PoolDomestic, "Nobody", "MI", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, storage.ErrNotFound)

		// names are per pool
		err = store.RecordSale(ctx, domain.PoolOverseas, "MS Dhoni", "MI", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("RecordSaleTwice", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		require.NoError(t, store.InsertBulk(ctx, Seed()))

		require.NoError(t, store.RecordSale(ctx, domain.PoolOverseas, "Rashid Khan", "GT", decimal.NewFromInt(15)))
		err := store.RecordSale(ctx, domain.PoolOverseas, "Rashid Khan", "MI", decimal.NewFromInt(20))
		assert.ErrorIs(t, err, storage.ErrAlreadySold)

		sold, err := store.ListSold(ctx, domain.PoolOverseas)
		require.NoError(t, err)
		require.Len(t, sold, 1)
		assert.Equal(t, "GT", sold[0].SoldTo)
	})

	t.Run("ConcurrentSaleSellsOnce", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		require.NoError(t, store.InsertBulk(ctx, Seed()))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for _, team := range domain.Teams {
			wg.Add(1)
			go func(team string) {
				defer wg.Done()
				if err := store.RecordSale(ctx, domain.PoolDomestic, "Rohit Sharma", team, decimal.NewFromInt(5)); err == nil {
					wins.Add(1)
				}
			}(team)
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	})

	t.Run("Reset", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		require.NoError(t, store.InsertBulk(ctx, Seed()))

		require.NoError(t, store.RecordSale(ctx, domain.PoolDomestic, "Rohit Sharma", "MI", decimal.NewFromInt(10)))
		require.NoError(t, store.RecordSale(ctx, domain.PoolDomestic, "Jasprit Bumrah", "MI", decimal.NewFromInt(5)))
		require.NoError(t, store.RecordSale(ctx, domain.PoolOverseas, "Jos Buttler", "RR", decimal.NewFromInt(9)))

		require.NoError(t, store.Reset(ctx, domain.PoolDomestic))

		sold, err := store.ListSold(ctx, domain.PoolDomestic)
		require.NoError(t, err)
		assert.Empty(t, sold)

		all, err := store.List(ctx, domain.PoolDomestic)
		require.NoError(t, err)
		for _, p := range all {
			assert.False(t, p.IsSold)
			assert.Empty(t, p.SoldTo)
			assert.False(t, p.SellingPrice.Valid)
		}

		// the other pool is untouched
		overseas, err := store.ListSold(ctx, domain.PoolOverseas)
		require.NoError(t, err)
		assert.Len(t, overseas, 1)

		// a reset player can be sold again
		require.NoError(t, store.RecordSale(ctx, domain.PoolDomestic, "Rohit Sharma", "DC", decimal.NewFromInt(3)))
	})

	t.Run("InvalidPool", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.ListSold(ctx, domain.Pool("martian"))
		assert.ErrorIs(t, err, storage.ErrInvalidInput)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}
