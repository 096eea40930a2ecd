package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ipl-auction/internal/domain"
	"ipl-auction/internal/storage"
)

// PlayerStore is an in-memory implementation of storage.PlayerStore.
type PlayerStore struct {
	mu    sync.RWMutex
	pools map[domain.Pool]map[string]*domain.Player // pool -> name -> player
	ids   map[string]struct{}
	now   func() time.Time
}

// NewPlayerStore creates an empty in-memory player store.
func NewPlayerStore() *PlayerStore {
	pools := make(map[domain.Pool]map[string]*domain.Player, len(domain.Pools))
	for _, p := range domain.Pools {
		pools[p] = make(map[string]*domain.Player)
	}
	return &PlayerStore{
		pools: pools,
		ids:   make(map[string]struct{}),
		now:   time.Now,
	}
}

// InsertBulk adds players atomically. Fails the whole batch on any duplicate.
func (s *PlayerStore) InsertBulk(_ context.Context, players []*domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seenIDs := make(map[string]struct{}, len(players))
	seenNames := make(map[domain.Pool]map[string]struct{}, len(domain.Pools))
	for _, p := range players {
		if p == nil || p.ID == "" || p.Name == "" || !p.Pool.Valid() {
			return storage.ErrInvalidInput
		}
		if _, dup := s.ids[p.ID]; dup {
			return storage.ErrDuplicateKey
		}
		if _, dup := s.pools[p.Pool][p.Name]; dup {
			return storage.ErrDuplicateKey
		}
		if _, dup := seenIDs[p.ID]; dup {
			return storage.ErrDuplicateKey
		}
		if seenNames[p.Pool] == nil {
			seenNames[p.Pool] = make(map[string]struct{})
		}
		if _, dup := seenNames[p.Pool][p.Name]; dup {
			return storage.ErrDuplicateKey
		}
		seenIDs[p.ID] = struct{}{}
		seenNames[p.Pool][p.Name] = struct{}{}
	}

	now := s.now()
	for _, p := range players {
		// Store a copy to prevent external mutation
		playerCopy := *p
		if playerCopy.CreatedAt.IsZero() {
			playerCopy.CreatedAt = now
		}
		playerCopy.UpdatedAt = now
		s.pools[p.Pool][p.Name] = &playerCopy
		s.ids[p.ID] = struct{}{}
	}
	return nil
}

func (s *PlayerStore) filter(pool domain.Pool, keep func(*domain.Player) bool) ([]*domain.Player, error) {
	if !pool.Valid() {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Player, 0)
	for _, p := range s.pools[pool] {
		if keep(p) {
			playerCopy := *p
			result = append(result, &playerCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// List returns every player in the pool, ordered by name.
func (s *PlayerStore) List(_ context.Context, pool domain.Pool) ([]*domain.Player, error) {
	return s.filter(pool, func(*domain.Player) bool { return true })
}

// ListSold returns the sold players in the pool, ordered by name.
func (s *PlayerStore) ListSold(_ context.Context, pool domain.Pool) ([]*domain.Player, error) {
	return s.filter(pool, func(p *domain.Player) bool { return p.IsSold })
}

// ListByTeam returns the players in the pool bought by team, ordered by name.
func (s *PlayerStore) ListByTeam(_ context.Context, pool domain.Pool, team string) ([]*domain.Player, error) {
	if team == "" {
		return nil, storage.ErrInvalidInput
	}
	return s.filter(pool, func(p *domain.Player) bool { return p.SoldTo == team })
}

// RecordSale marks the named unsold player as sold.
func (s *PlayerStore) RecordSale(_ context.Context, pool domain.Pool, name, team string, price decimal.Decimal) error {
	if !pool.Valid() || name == "" || team == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pools[pool][name]
	if !ok {
		return storage.ErrNotFound
	}
	if p.IsSold {
		return storage.ErrAlreadySold
	}

	p.IsSold = true
	p.SoldTo = team
	p.SellingPrice = decimal.NewNullDecimal(price)
	p.UpdatedAt = s.now()
	return nil
}

// Reset clears the sale state of every player in the pool.
func (s *PlayerStore) Reset(_ context.Context, pool domain.Pool) error {
	if !pool.Valid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, p := range s.pools[pool] {
		if !p.IsSold && p.SoldTo == "" && !p.SellingPrice.Valid {
			continue
		}
		p.IsSold = false
		p.SoldTo = ""
		p.SellingPrice = decimal.NullDecimal{}
		p.UpdatedAt = now
	}
	return nil
}

// Count returns the number of players in the pool.
func (s *PlayerStore) Count(_ context.Context, pool domain.Pool) (int, error) {
	if !pool.Valid() {
		return 0, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pools[pool]), nil
}

// Ping always succeeds.
func (s *PlayerStore) Ping(context.Context) error {
	return nil
}

// Verify interface compliance at compile time.
var _ storage.PlayerStore = (*PlayerStore)(nil)
