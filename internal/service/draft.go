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

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSessionNotFound = errors.New("draft session not found")
	ErrDraftExhausted  = errors.New("draft exhausted")
	ErrInvalidPosition = errors.New("draft position must be at least 1")
)

// DraftSession is a fixed random order over the players that were unsold when
// it started.
type DraftSession struct {
	ID        string
	Total     int
	CreatedAt time.Time

	order []domain.Player
}

type DraftService struct {
	store  storage.PlayerStore
	logger zerolog.Logger
	rnd    auction.RandSource
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*DraftSession
}

func NewDraftService(store storage.PlayerStore, logger zerolog.Logger) *DraftService {
	return &DraftService{
		store:    store,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*DraftSession),
	}
}

func (s *DraftService) StartDraft(ctx context.Context) (DraftSession, error) {
	unsold, err := s.unsoldPlayers(ctx)
	if err != nil {
		return DraftSession{}, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return DraftSession{}, fmt.Errorf("failed to generate session id: %w", err)
	}

	session := &DraftSession{
		ID:        id,
		Total:     len(unsold),
		CreatedAt: s.now(),
		order:     auction.DraftOrder(unsold, s.rnd),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[id] = session
	active := len(s.sessions)
	s.mu.Unlock()

	observability.RecordDraftStarted()
	observability.UpdateDraftSessions(active)
	s.logger.Info().Str("session", id).Int("players", session.Total).Msg("draft started")

	return DraftSession{ID: session.ID, Total: session.Total, CreatedAt: session.CreatedAt}, nil
}

// DraftSlot returns the player at the 1-based position of the session's order.
func (s *DraftService) DraftSlot(_ context.Context, sessionID string, position int) (domain.Player, error) {
	if position < 1 {
		return domain.Player{}, ErrInvalidPosition
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return domain.Player{}, ErrSessionNotFound
	}

	if position > len(session.order) {
		return domain.Player{}, ErrDraftExhausted
	}
	return session.order[position-1], nil
}

func (s *DraftService) unsoldPlayers(ctx context.Context) ([]domain.Player, error) {
	var domestic, overseas []*domain.Player

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return callStore(gctx, s.logger, "list", func(ctx context.Context) (err error) {
			domestic, err = s.store.List(ctx, domain.PoolDomestic)
			return err
		})
	})
	g.Go(func() error {
		return callStore(gctx, s.logger, "list", func(ctx context.Context) (err error) {
			overseas, err = s.store.List(ctx, domain.PoolOverseas)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	unsold := make([]domain.Player, 0, len(domestic)+len(overseas))
	for _, p := range append(domestic, overseas...) {
		if !p.IsSold {
			unsold = append(unsold, *p)
		}
	}
	return unsold, nil
}

func (s *DraftService) pruneLocked() {
	cutoff := s.now().Add(-constants.DraftSessionTTL)
	for id, session := range s.sessions {
		if session.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Debug().Str("session", id).Msg("draft session expired")
		}
	}
}
