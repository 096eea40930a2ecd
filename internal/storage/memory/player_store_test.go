package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipl-auction/internal/domain"
	"ipl-auction/internal/storage"
	"ipl-auction/internal/storage/storagetest"
)

func TestPlayerStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.PlayerStore {
		return NewPlayerStore()
	})
}

func TestPlayerStore_ReturnsCopies(t *testing.T) {
	store := NewPlayerStore()
	ctx := context.Background()
	require.NoError(t, store.InsertBulk(ctx, storagetest.Seed()))

	players, err := store.List(ctx, domain.PoolDomestic)
	require.NoError(t, err)
	players[0].Role = "changed"

	again, err := store.List(ctx, domain.PoolDomestic)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again[0].Role)
}

func TestPlayerStore_InsertRejectsInvalid(t *testing.T) {
	store := NewPlayerStore()
	ctx := context.Background()

	tests := []struct {
		name   string
		player *domain.Player
	}{
		{"nil", nil},
		{"no id", &domain.Player{Name: "x", Pool: domain.PoolDomestic}},
		{"no name", &domain.Player{ID: "x", Pool: domain.PoolDomestic}},
		{"bad pool", &domain.Player{ID: "x", Name: "x", Pool: "moon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.InsertBulk(ctx, []*domain.Player{tt.player})
			assert.ErrorIs(t, err, storage.ErrInvalidInput)
		})
	}
}
