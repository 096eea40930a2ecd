package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ipl-auction/internal/api"
	"ipl-auction/internal/constants"
	"ipl-auction/internal/domain"
	"ipl-auction/internal/observability"
	"ipl-auction/internal/storage"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type SeedService struct {
	store  storage.PlayerStore
	client *api.RosterClient
	logger zerolog.Logger
}

func NewSeedService(store storage.PlayerStore, client *api.RosterClient, logger zerolog.Logger) *SeedService {
	return &SeedService{store: store, client: client, logger: logger}
}

// SeedIfEmpty loads the roster at source (a file path or http(s) URL) when
// both pools are empty. Returns how many players were inserted.
func (s *SeedService) SeedIfEmpty(ctx context.Context, source string) (int, error) {
	if source == "" {
		s.logger.Debug().Msg("no seed source configured")
		return 0, nil
	}

	for _, pool := range domain.Pools {
		var n int
		err := callStore(ctx, s.logger, "count", func(ctx context.Context) (err error) {
			n, err = s.store.Count(ctx, pool)
			return err
		})
		if err != nil {
			return 0, err
		}
		if n > 0 {
			s.logger.Info().Str("pool", string(pool)).Int("players", n).Msg("store already seeded, skipping")
			return 0, nil
		}
	}

	doc, err := s.load(ctx, source)
	if err != nil {
		return 0, err
	}

	players := make([]*domain.Player, 0, len(doc.Indians)+len(doc.Foreigners))
	seeded := make(map[domain.Pool]int, len(domain.Pools))
	for _, batch := range []struct {
		pool    domain.Pool
		entries []api.RosterEntry
	}{
		{domain.PoolDomestic, doc.Indians},
		{domain.PoolOverseas, doc.Foreigners},
	} {
		count := 0
		for _, e := range batch.entries {
			p, err := s.toPlayer(batch.pool, e)
			if err != nil {
				return 0, err
			}
			if p == nil {
				continue
			}
			players = append(players, p)
			count++
		}
		seeded[batch.pool] = count
		observability.RecordPlayersSeeded(string(batch.pool), count)
	}

	err = callStore(ctx, s.logger, "insert_bulk", func(ctx context.Context) error {
		return s.store.InsertBulk(ctx, players)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed players: %w", err)
	}

	s.logger.Info().
		Str("source", source).
		Int("domestic", seeded[domain.PoolDomestic]).
		Int("overseas", seeded[domain.PoolOverseas]).
		Msg("player pools seeded")
	return len(players), nil
}

func (s *SeedService) load(ctx context.Context, source string) (*api.RosterDocument, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		ctx, cancel := context.WithTimeout(ctx, constants.SeedFetchTimeout)
		defer cancel()

		doc, err := s.client.FetchRoster(ctx, source)
		if err != nil {
			s.logger.Error().Err(err).Str("source", source).Msg("failed to fetch roster")
			return nil, fmt.Errorf("failed to fetch roster: %w", err)
		}
		return doc, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	return api.ParseRoster(data)
}

func (s *SeedService) toPlayer(pool domain.Pool, e api.RosterEntry) (*domain.Player, error) {
	name := strings.TrimSpace(e.Player)
	if name == "" {
		s.logger.Warn().Str("pool", string(pool)).Msg("skipping roster entry without a name")
		return nil, nil
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate player id: %w", err)
	}

	return &domain.Player{
		ID:             id,
		Name:           name,
		Pool:           pool,
		Role:           e.Role,
		Matches:        e.Matches,
		Runs:           e.Runs,
		Wickets:        e.Wickets,
		ImpactPerMatch: e.ImpactPerMatch,
		TotalImpact:    e.TotalImpact,
		ImagePath:      e.ImagePath,
		BattingStyle:   e.BattingStyle,
		BowlingStyle:   e.BowlingStyle,
		FormerTeam:     e.Team,
	}, nil
}
