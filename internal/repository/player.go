package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ipl-auction/internal/constants"
	"ipl-auction/internal/domain"
	"ipl-auction/internal/storage"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const playerColumns = `id, pool, name, role, matches, runs, wickets, impact_per_match, total_impact,
	image_path, batting_style, bowling_style, former_team, is_sold, sold_to, selling_price,
	created_at, updated_at`

// PlayerRepository is the SQLite implementation of storage.PlayerStore.
type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

var _ storage.PlayerStore = (*PlayerRepository)(nil)

func (r *PlayerRepository) InsertBulk(ctx context.Context, players []*domain.Player) error {
	for _, p := range players {
		if p == nil || p.ID == "" || p.Name == "" || !p.Pool.Valid() {
			return storage.ErrInvalidInput
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := 0; i < len(players); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(players))

		for _, p := range players[i:end] {
			createdAt := p.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			_, err := stmt.ExecContext(ctx,
				p.ID, string(p.Pool), p.Name, p.Role, p.Matches, p.Runs, p.Wickets,
				p.ImpactPerMatch, p.TotalImpact, p.ImagePath, p.BattingStyle, p.BowlingStyle,
				p.FormerTeam, p.IsSold, nullString(p.SoldTo), p.SellingPrice, createdAt, now,
			)
			if err != nil {
				if isConstraintError(err) {
					return fmt.Errorf("player %s/%s: %w", p.Pool, p.Name, storage.ErrDuplicateKey)
				}
				return fmt.Errorf("failed to insert player %s: %w", p.ID, err)
			}
		}
		r.logger.Debug().Int("from", i).Int("to", end).Msg("inserted player batch")
	}

	return tx.Commit()
}

func (r *PlayerRepository) List(ctx context.Context, pool domain.Pool) ([]*domain.Player, error) {
	if !pool.Valid() {
		return nil, storage.ErrInvalidInput
	}
	return r.query(ctx, `SELECT `+playerColumns+` FROM players WHERE pool = ? ORDER BY name`, string(pool))
}

func (r *PlayerRepository) ListSold(ctx context.Context, pool domain.Pool) ([]*domain.Player, error) {
	if !pool.Valid() {
		return nil, storage.ErrInvalidInput
	}
	return r.query(ctx, `SELECT `+playerColumns+` FROM players WHERE pool = ? AND is_sold = 1 ORDER BY name`, string(pool))
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, pool domain.Pool, team string) ([]*domain.Player, error) {
	if !pool.Valid() || team == "" {
		return nil, storage.ErrInvalidInput
	}
	return r.query(ctx, `SELECT `+playerColumns+` FROM players WHERE pool = ? AND sold_to = ? ORDER BY name`, string(pool), team)
}

// RecordSale only touches an unsold row, so two racing sales of the same
// player cannot both succeed.
func (r *PlayerRepository) RecordSale(ctx context.Context, pool domain.Pool, name, team string, price decimal.Decimal) error {
	if !pool.Valid() || name == "" || team == "" {
		return storage.ErrInvalidInput
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE players
		SET is_sold = 1, sold_to = ?, selling_price = ?, updated_at = ?
		WHERE pool = ? AND name = ? AND is_sold = 0`,
		team, price.String(), time.Now().UTC(), string(pool), name,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("pool", string(pool)).Str("player", name).Msg("failed to record sale")
		return fmt.Errorf("failed to record sale: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 1 {
		r.logger.Debug().Str("pool", string(pool)).Str("player", name).Str("team", team).Msg("sale recorded")
		return nil
	}

	var isSold bool
	err = r.db.QueryRowContext(ctx, `SELECT is_sold FROM players WHERE pool = ? AND name = ?`, string(pool), name).Scan(&isSold)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up player: %w", err)
	}
	return storage.ErrAlreadySold
}

func (r *PlayerRepository) Reset(ctx context.Context, pool domain.Pool) error {
	if !pool.Valid() {
		return storage.ErrInvalidInput
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE players
		SET is_sold = 0, sold_to = NULL, selling_price = NULL, updated_at = ?
		WHERE pool = ? AND (is_sold = 1 OR sold_to IS NOT NULL OR selling_price IS NOT NULL)`,
		time.Now().UTC(), string(pool),
	)
	if err != nil {
		r.logger.Error().Err(err).Str("pool", string(pool)).Msg("failed to reset pool")
		return fmt.Errorf("failed to reset pool: %w", err)
	}

	affected, _ := res.RowsAffected()
	r.logger.Info().Str("pool", string(pool)).Int64("cleared", affected).Msg("pool reset")
	return nil
}

func (r *PlayerRepository) Count(ctx context.Context, pool domain.Pool) (int, error) {
	if !pool.Valid() {
		return 0, storage.ErrInvalidInput
	}

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE pool = ?`, string(pool)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return n, nil
}

func (r *PlayerRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PlayerRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}
	return result, nil
}

func scanPlayer(rows *sql.Rows) (*domain.Player, error) {
	var (
		p      domain.Player
		pool   string
		soldTo sql.NullString
	)
	err := rows.Scan(
		&p.ID, &pool, &p.Name, &p.Role, &p.Matches, &p.Runs, &p.Wickets,
		&p.ImpactPerMatch, &p.TotalImpact, &p.ImagePath, &p.BattingStyle, &p.BowlingStyle,
		&p.FormerTeam, &p.IsSold, &soldTo, &p.SellingPrice, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	p.Pool = domain.Pool(pool)
	p.SoldTo = soldTo.String
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
