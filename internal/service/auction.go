package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ipl-auction/internal/auction"
	"ipl-auction/internal/constants"
	"ipl-auction/internal/domain"
	"ipl-auction/internal/observability"
	"ipl-auction/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	ErrStoreUnavailable = errors.New("player store unavailable")
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidPool      = errors.New("invalid pool")
)

type AuctionService struct {
	store  storage.PlayerStore
	logger zerolog.Logger

	// serializes read-roster, validate, write in SellPlayer
	saleMu sync.Mutex
}

func NewAuctionService(store storage.PlayerStore, logger zerolog.Logger) *AuctionService {
	return &AuctionService{store: store, logger: logger}
}

func (s *AuctionService) ListPlayers(ctx context.Context, pool domain.Pool) ([]domain.Player, error) {
	if !pool.Valid() {
		return nil, ErrInvalidPool
	}

	var players []*domain.Player
	err := s.storeCall(ctx, "list", func(ctx context.Context) (err error) {
		players, err = s.store.List(ctx, pool)
		return err
	})
	if err != nil {
		return nil, err
	}
	return values(players), nil
}

func (s *AuctionService) ListSoldPlayers(ctx context.Context, pool domain.Pool) ([]domain.Player, error) {
	if !pool.Valid() {
		return nil, ErrInvalidPool
	}

	var players []*domain.Player
	err := s.storeCall(ctx, "list_sold", func(ctx context.Context) (err error) {
		players, err = s.store.ListSold(ctx, pool)
		return err
	})
	if err != nil {
		return nil, err
	}
	return values(players), nil
}

func (s *AuctionService) ListPlayersByTeam(ctx context.Context, pool domain.Pool, team string) ([]domain.Player, error) {
	if !pool.Valid() {
		return nil, ErrInvalidPool
	}
	if team == "" {
		return nil, fmt.Errorf("%w: team", ErrMissingField)
	}

	var players []*domain.Player
	err := s.storeCall(ctx, "list_by_team", func(ctx context.Context) (err error) {
		players, err = s.store.ListByTeam(ctx, pool, team)
		return err
	})
	if err != nil {
		return nil, err
	}
	return values(players), nil
}

// RecordSale writes a sale without checking quotas or purse. SellPlayer is
// the checked variant.
func (s *AuctionService) RecordSale(ctx context.Context, pool domain.Pool, name, team string, price decimal.Decimal) error {
	if !pool.Valid() {
		return ErrInvalidPool
	}
	if name == "" {
		return fmt.Errorf("%w: playerName", ErrMissingField)
	}
	if team == "" {
		return fmt.Errorf("%w: team", ErrMissingField)
	}

	err := s.storeCall(ctx, "record_sale", func(ctx context.Context) error {
		return s.store.RecordSale(ctx, pool, name, team, price)
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("pool", string(pool)).Str("player", name).Str("team", team).Msg("sale not recorded")
		return err
	}

	observability.RecordSale(string(pool), team)
	s.logger.Info().
		Str("pool", string(pool)).
		Str("player", name).
		Str("team", team).
		Str("price", price.String()).
		Msg("sale recorded")
	return nil
}

func (s *AuctionService) ResetPool(ctx context.Context, pool domain.Pool) error {
	if !pool.Valid() {
		return ErrInvalidPool
	}

	err := s.storeCall(ctx, "reset", func(ctx context.Context) error {
		return s.store.Reset(ctx, pool)
	})
	if err != nil {
		return err
	}

	observability.RecordPoolReset(string(pool))
	s.logger.Info().Str("pool", string(pool)).Msg("pool reset")
	return nil
}

// ResetAll resets both pools. A failure on the first pool leaves the second
// untouched.
func (s *AuctionService) ResetAll(ctx context.Context) error {
	for _, pool := range domain.Pools {
		if err := s.ResetPool(ctx, pool); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSale checks whether team may buy a player from pool at price.
// A rejected proposal is a Verdict, not an error.
func (s *AuctionService) ValidateSale(ctx context.Context, team string, pool domain.Pool, price decimal.Decimal) (auction.Verdict, error) {
	if !pool.Valid() {
		return auction.Verdict{}, ErrInvalidPool
	}

	proposal := domain.SaleProposal{Pool: pool, Team: team, Price: price}

	var roster []domain.Player
	if domain.IsTeam(team) {
		var err error
		roster, err = s.teamRoster(ctx, team)
		if err != nil {
			return auction.Verdict{}, err
		}
	}

	verdict := auction.ValidateSale(roster, proposal)
	s.recordVerdict(proposal, verdict)
	return verdict, nil
}

// SellPlayer validates and records a sale as one step. Sales going through
// the same service never overrun a quota or the purse.
func (s *AuctionService) SellPlayer(ctx context.Context, pool domain.Pool, name, team string, price decimal.Decimal) (auction.Verdict, error) {
	if !pool.Valid() {
		return auction.Verdict{}, ErrInvalidPool
	}
	if name == "" {
		return auction.Verdict{}, fmt.Errorf("%w: playerName", ErrMissingField)
	}

	s.saleMu.Lock()
	defer s.saleMu.Unlock()

	verdict, err := s.ValidateSale(ctx, team, pool, price)
	if err != nil || !verdict.Valid {
		return verdict, err
	}

	if err := s.RecordSale(ctx, pool, name, team, price); err != nil {
		return auction.Verdict{}, err
	}
	return verdict, nil
}

func (s *AuctionService) GetTeamSummaries(ctx context.Context) ([]domain.TeamSummary, error) {
	domestic, overseas, err := s.soldPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return auction.AggregateTeams(domestic, overseas), nil
}

func (s *AuctionService) GetWinners(ctx context.Context) ([]domain.TeamRanking, error) {
	domestic, overseas, err := s.soldPlayers(ctx)
	if err != nil {
		return nil, err
	}

	winners := auction.SelectWinners(domestic, overseas)
	s.logger.Debug().Int("qualified", len(winners)).Msg("winners selected")
	return winners, nil
}

// Ping reports whether the store is reachable.
func (s *AuctionService) Ping(ctx context.Context) error {
	return s.storeCall(ctx, "ping", s.store.Ping)
}

// teamRoster reads everything team has bought, from both pools concurrently.
func (s *AuctionService) teamRoster(ctx context.Context, team string) ([]domain.Player, error) {
	var domestic, overseas []*domain.Player

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.storeCall(gctx, "list_by_team", func(ctx context.Context) (err error) {
			domestic, err = s.store.ListByTeam(ctx, domain.PoolDomestic, team)
			return err
		})
	})
	g.Go(func() error {
		return s.storeCall(gctx, "list_by_team", func(ctx context.Context) (err error) {
			overseas, err = s.store.ListByTeam(ctx, domain.PoolOverseas, team)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(values(domestic), values(overseas)...), nil
}

func (s *AuctionService) soldPlayers(ctx context.Context) ([]domain.Player, []domain.Player, error) {
	var domestic, overseas []*domain.Player

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.storeCall(gctx, "list_sold", func(ctx context.Context) (err error) {
			domestic, err = s.store.ListSold(ctx, domain.PoolDomestic)
			return err
		})
	})
	g.Go(func() error {
		return s.storeCall(gctx, "list_sold", func(ctx context.Context) (err error) {
			overseas, err = s.store.ListSold(ctx, domain.PoolOverseas)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return values(domestic), values(overseas), nil
}

func (s *AuctionService) recordVerdict(p domain.SaleProposal, v auction.Verdict) {
	if v.Valid {
		observability.RecordValidation("")
		return
	}

	observability.RecordValidation(string(v.Rejection.Kind))
	s.logger.Info().
		Str("team", p.Team).
		Str("pool", string(p.Pool)).
		Str("price", p.Price.String()).
		Str("reason", string(v.Rejection.Kind)).
		Msg("sale rejected")
}

// storeCall bounds fn by the database timeout, records its latency and
// wraps unexpected failures as ErrStoreUnavailable.
func (s *AuctionService) storeCall(ctx context.Context, op string, fn func(context.Context) error) error {
	return callStore(ctx, s.logger, op, fn)
}

func callStore(ctx context.Context, logger zerolog.Logger, op string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	start := time.Now()
	err := classifyStoreError(fn(ctx))
	var failure error
	if errors.Is(err, ErrStoreUnavailable) {
		failure = err
		logger.Error().Err(err).Str("operation", op).Msg("store operation failed")
	}
	observability.RecordStoreOp(op, time.Since(start).Seconds(), failure)
	return err
}

func classifyStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrAlreadySold),
		errors.Is(err, storage.ErrDuplicateKey),
		errors.Is(err, storage.ErrInvalidInput):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
}

func values(players []*domain.Player) []domain.Player {
	out := make([]domain.Player, 0, len(players))
	for _, p := range players {
		out = append(out, *p)
	}
	return out
}
