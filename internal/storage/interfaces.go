package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"ipl-auction/internal/domain"
)

// PlayerStore provides access to the two player pools.
type PlayerStore interface {
	// InsertBulk seeds players atomically. Fails the whole batch on a duplicate.
	InsertBulk(ctx context.Context, players []*domain.Player) error

	// List returns every player in the pool, ordered by name.
	List(ctx context.Context, pool domain.Pool) ([]*domain.Player, error)

	// ListSold returns the sold players in the pool, ordered by name.
	ListSold(ctx context.Context, pool domain.Pool) ([]*domain.Player, error)

	// ListByTeam returns the players in the pool bought by team, ordered by name.
	ListByTeam(ctx context.Context, pool domain.Pool, team string) ([]*domain.Player, error)

	// RecordSale marks the named unsold player as sold to team for price.
	// Returns ErrNotFound if no such player exists, ErrAlreadySold if it is sold.
	RecordSale(ctx context.Context, pool domain.Pool, name, team string, price decimal.Decimal) error

	// Reset clears the sale state of every player in the pool.
	Reset(ctx context.Context, pool domain.Pool) error

	// Count returns the number of players in the pool.
	Count(ctx context.Context, pool domain.Pool) (int, error)

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
}
