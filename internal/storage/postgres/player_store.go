package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"ipl-auction/internal/domain"
	"ipl-auction/internal/storage"
)

const playerColumns = `
	id, pool, name, role, matches, runs, wickets, impact_per_match, total_impact,
	image_path, batting_style, bowling_style, former_team, is_sold, sold_to,
	selling_price::text, created_at, updated_at`

// PlayerStore implements storage.PlayerStore using PostgreSQL.
type PlayerStore struct {
	pool *Pool
}

// NewPlayerStore creates a new PlayerStore.
func NewPlayerStore(pool *Pool) *PlayerStore {
	return &PlayerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PlayerStore = (*PlayerStore)(nil)

// InsertBulk adds players atomically. Fails entire batch on any duplicate.
func (s *PlayerStore) InsertBulk(ctx context.Context, players []*domain.Player) error {
	if len(players) == 0 {
		return nil
	}
	for _, p := range players {
		if p == nil || p.ID == "" || p.Name == "" || !p.Pool.Valid() {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO players (
			id, pool, name, role, matches, runs, wickets, impact_per_match, total_impact,
			image_path, batting_style, bowling_style, former_team, is_sold, sold_to, selling_price
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16::text::numeric)
	`

	for _, p := range players {
		_, err := tx.Exec(ctx, query,
			p.ID,
			string(p.Pool),
			p.Name,
			p.Role,
			p.Matches,
			p.Runs,
			p.Wickets,
			p.ImpactPerMatch,
			p.TotalImpact,
			p.ImagePath,
			p.BattingStyle,
			p.BowlingStyle,
			p.FormerTeam,
			p.IsSold,
			optionalText(p.SoldTo),
			priceText(p.SellingPrice),
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert player in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// List returns every player in the pool, ordered by name.
func (s *PlayerStore) List(ctx context.Context, pool domain.Pool) ([]*domain.Player, error) {
	if !pool.Valid() {
		return nil, storage.ErrInvalidInput
	}

	query := `SELECT ` + playerColumns + `
		FROM players
		WHERE pool = $1
		ORDER BY name COLLATE "C"
	`
	return s.query(ctx, "list players", query, string(pool))
}

// ListSold returns the sold players in the pool, ordered by name.
func (s *PlayerStore) ListSold(ctx context.Context, pool domain.Pool) ([]*domain.Player, error) {
	if !pool.Valid() {
		return nil, storage.ErrInvalidInput
	}

	query := `SELECT ` + playerColumns + `
		FROM players
		WHERE pool = $1 AND is_sold
		ORDER BY name COLLATE "C"
	`
	return s.query(ctx, "list sold players", query, string(pool))
}

// ListByTeam returns the players in the pool bought by team, ordered by name.
func (s *PlayerStore) ListByTeam(ctx context.Context, pool domain.Pool, team string) ([]*domain.Player, error) {
	if !pool.Valid() || team == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `SELECT ` + playerColumns + `
		FROM players
		WHERE pool = $1 AND sold_to = $2
		ORDER BY name COLLATE "C"
	`
	return s.query(ctx, "list players by team", query, string(pool), team)
}

// RecordSale marks the named unsold player as sold. The update is conditional
// on the row still being unsold, so concurrent sales of one player cannot both win.
func (s *PlayerStore) RecordSale(ctx context.Context, pool domain.Pool, name, team string, price decimal.Decimal) error {
	if !pool.Valid() || name == "" || team == "" {
		return storage.ErrInvalidInput
	}

	query := `
		UPDATE players
		SET is_sold = TRUE, sold_to = $1, selling_price = $2::text::numeric, updated_at = NOW()
		WHERE pool = $3 AND name = $4 AND NOT is_sold
	`

	tag, err := s.pool.Exec(ctx, query, team, price.String(), string(pool), name)
	if err != nil {
		return fmt.Errorf("record sale: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var isSold bool
	err = s.pool.QueryRow(ctx, `SELECT is_sold FROM players WHERE pool = $1 AND name = $2`, string(pool), name).Scan(&isSold)
	if err != nil {
		if isNotFoundError(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("look up player: %w", err)
	}
	return storage.ErrAlreadySold
}

// Reset clears the sale state of every player in the pool.
func (s *PlayerStore) Reset(ctx context.Context, pool domain.Pool) error {
	if !pool.Valid() {
		return storage.ErrInvalidInput
	}

	query := `
		UPDATE players
		SET is_sold = FALSE, sold_to = NULL, selling_price = NULL, updated_at = NOW()
		WHERE pool = $1 AND (is_sold OR sold_to IS NOT NULL OR selling_price IS NOT NULL)
	`

	if _, err := s.pool.Exec(ctx, query, string(pool)); err != nil {
		return fmt.Errorf("reset pool: %w", err)
	}
	return nil
}

// Count returns the number of players in the pool.
func (s *PlayerStore) Count(ctx context.Context, pool domain.Pool) (int, error) {
	if !pool.Valid() {
		return 0, storage.ErrInvalidInput
	}

	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM players WHERE pool = $1`, string(pool)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return n, nil
}

// Ping checks the connection pool.
func (s *PlayerStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PlayerStore) query(ctx context.Context, op, query string, args ...any) ([]*domain.Player, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// scanPlayers scans multiple rows into a slice of Player.
func scanPlayers(rows pgx.Rows) ([]*domain.Player, error) {
	players := make([]*domain.Player, 0)

	for rows.Next() {
		var p domain.Player
		var poolStr string
		var soldTo, price *string

		err := rows.Scan(
			&p.ID,
			&poolStr,
			&p.Name,
			&p.Role,
			&p.Matches,
			&p.Runs,
			&p.Wickets,
			&p.ImpactPerMatch,
			&p.TotalImpact,
			&p.ImagePath,
			&p.BattingStyle,
			&p.BowlingStyle,
			&p.FormerTeam,
			&p.IsSold,
			&soldTo,
			&price,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan player row: %w", err)
		}

		p.Pool = domain.Pool(poolStr)
		if soldTo != nil {
			p.SoldTo = *soldTo
		}
		if price != nil {
			d, err := decimal.NewFromString(*price)
			if err != nil {
				return nil, fmt.Errorf("parse selling price %q: %w", *price, err)
			}
			p.SellingPrice = decimal.NewNullDecimal(d)
		}
		players = append(players, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player rows: %w", err)
	}
	return players, nil
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func priceText(price decimal.NullDecimal) *string {
	if !price.Valid {
		return nil
	}
	s := price.Decimal.String()
	return &s
}
