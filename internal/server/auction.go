package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ipl-auction/internal/auction"
	"ipl-auction/internal/constants"
	"ipl-auction/internal/domain"
	"ipl-auction/internal/observability"
	"ipl-auction/internal/service"
	"ipl-auction/internal/storage"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const AuctionServicePath = "/auction.v1.AuctionService/"

type AuctionServer struct {
	auctionSvc *service.AuctionService
	draftSvc   *service.DraftService
	logger     zerolog.Logger
}

func NewAuctionServer(auctionSvc *service.AuctionService, draftSvc *service.DraftService, logger zerolog.Logger) *AuctionServer {
	return &AuctionServer{auctionSvc: auctionSvc, draftSvc: draftSvc, logger: logger}
}

// Handler returns the path prefix and handler serving every procedure.
func (s *AuctionServer) Handler() (string, http.Handler) {
	opts := []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(observeInterceptor()),
	}

	mux := http.NewServeMux()
	handle := func(name string, h http.Handler) {
		mux.Handle(AuctionServicePath+name, h)
	}

	handle("ListPlayers", connect.NewUnaryHandler(AuctionServicePath+"ListPlayers", s.ListPlayers, opts...))
	handle("ListSoldPlayers", connect.NewUnaryHandler(AuctionServicePath+"ListSoldPlayers", s.ListSoldPlayers, opts...))
	handle("ListPlayersByTeam", connect.NewUnaryHandler(AuctionServicePath+"ListPlayersByTeam", s.ListPlayersByTeam, opts...))
	handle("RecordSale", connect.NewUnaryHandler(AuctionServicePath+"RecordSale", s.RecordSale, opts...))
	handle("SellPlayer", connect.NewUnaryHandler(AuctionServicePath+"SellPlayer", s.SellPlayer, opts...))
	handle("ResetPool", connect.NewUnaryHandler(AuctionServicePath+"ResetPool", s.ResetPool, opts...))
	handle("ResetAll", connect.NewUnaryHandler(AuctionServicePath+"ResetAll", s.ResetAll, opts...))
	handle("ValidateSale", connect.NewUnaryHandler(AuctionServicePath+"ValidateSale", s.ValidateSale, opts...))
	handle("GetTeamSummaries", connect.NewUnaryHandler(AuctionServicePath+"GetTeamSummaries", s.GetTeamSummaries, opts...))
	handle("GetWinners", connect.NewUnaryHandler(AuctionServicePath+"GetWinners", s.GetWinners, opts...))
	handle("StartDraft", connect.NewUnaryHandler(AuctionServicePath+"StartDraft", s.StartDraft, opts...))
	handle("GetDraftSlot", connect.NewUnaryHandler(AuctionServicePath+"GetDraftSlot", s.GetDraftSlot, opts...))

	return AuctionServicePath, mux
}

func (s *AuctionServer) ListPlayers(ctx context.Context, req *connect.Request[PoolRequest]) (*connect.Response[PlayersResponse], error) {
	pool, err := parsePool(req.Msg.Pool)
	if err != nil {
		return nil, toConnectError(err)
	}

	players, err := s.auctionSvc.ListPlayers(ctx, pool)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlayersResponse{Players: toPlayerMessages(players)}), nil
}

func (s *AuctionServer) ListSoldPlayers(ctx context.Context, req *connect.Request[PoolRequest]) (*connect.Response[PlayersResponse], error) {
	pool, err := parsePool(req.Msg.Pool)
	if err != nil {
		return nil, toConnectError(err)
	}

	players, err := s.auctionSvc.ListSoldPlayers(ctx, pool)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlayersResponse{Players: toPlayerMessages(players)}), nil
}

func (s *AuctionServer) ListPlayersByTeam(ctx context.Context, req *connect.Request[ListPlayersByTeamRequest]) (*connect.Response[PlayersResponse], error) {
	pool, err := parsePool(req.Msg.Pool)
	if err != nil {
		return nil, toConnectError(err)
	}

	players, err := s.auctionSvc.ListPlayersByTeam(ctx, pool, req.Msg.Team)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlayersResponse{Players: toPlayerMessages(players)}), nil
}

func (s *AuctionServer) RecordSale(ctx context.Context, req *connect.Request[SaleRequest]) (*connect.Response[Empty], error) {
	pool, err := parsePool(req.Msg.Pool)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Price == nil {
		return nil, toConnectError(fmt.Errorf("%w: price", service.ErrMissingField))
	}

	if err := s.auctionSvc.RecordSale(ctx, pool, req.Msg.PlayerName, req.Msg.Team, *req.Msg.Price); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (s *AuctionServer) SellPlayer(ctx context.Context, req *connect.Request[SaleRequest]) (*connect.Response[SaleVerdict], error) {
	pool, err := parsePool(req.Msg.Pool)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Price == nil {
		return connect.NewResponse(missingPrice()), nil
	}

	verdict, err := s.auctionSvc.SellPlayer(ctx, pool, req.Msg.PlayerName, req.Msg.Team, *req.Msg.Price)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toVerdictMessage(verdict)), nil
}

func (s *AuctionServer) ResetPool(ctx context.Context, req *connect.Request[PoolRequest]) (*connect.Response[Empty], error) {
	pool, err := parsePool(req.Msg.Pool)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.auctionSvc.ResetPool(ctx, pool); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (s *AuctionServer) ResetAll(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[Empty], error) {
	if err := s.auctionSvc.ResetAll(ctx); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

// ValidateSale reports rejections in the body, never as an RPC error. A
// request without an origin is checked against the domestic quota.
func (s *AuctionServer) ValidateSale(ctx context.Context, req *connect.Request[ValidateSaleRequest]) (*connect.Response[SaleVerdict], error) {
	pool := domain.PoolDomestic
	if strings.TrimSpace(req.Msg.Origin) != "" {
		var err error
		if pool, err = parsePool(req.Msg.Origin); err != nil {
			return nil, toConnectError(err)
		}
	}
	if req.Msg.Price == nil {
		return connect.NewResponse(missingPrice()), nil
	}

	verdict, err := s.auctionSvc.ValidateSale(ctx, req.Msg.Team, pool, *req.Msg.Price)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toVerdictMessage(verdict)), nil
}

func (s *AuctionServer) GetTeamSummaries(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[TeamSummariesResponse], error) {
	summaries, err := s.auctionSvc.GetTeamSummaries(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &TeamSummariesResponse{Teams: make([]TeamSummaryMessage, 0, len(summaries))}
	for _, summary := range summaries {
		resp.Teams = append(resp.Teams, toSummaryMessage(summary))
	}
	return connect.NewResponse(resp), nil
}

func (s *AuctionServer) GetWinners(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[WinnersResponse], error) {
	winners, err := s.auctionSvc.GetWinners(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &WinnersResponse{Winners: make([]TeamRankingMessage, 0, len(winners))}
	for _, w := range winners {
		resp.Winners = append(resp.Winners, TeamRankingMessage{
			Team:        w.Team,
			TotalImpact: w.TotalImpact,
			Players:     toPlayerMessages(w.Players),
		})
	}
	return connect.NewResponse(resp), nil
}

func (s *AuctionServer) StartDraft(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[StartDraftResponse], error) {
	session, err := s.draftSvc.StartDraft(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&StartDraftResponse{SessionID: session.ID, Total: session.Total}), nil
}

func (s *AuctionServer) GetDraftSlot(ctx context.Context, req *connect.Request[DraftSlotRequest]) (*connect.Response[DraftSlotResponse], error) {
	if req.Msg.SessionID == "" {
		return nil, toConnectError(fmt.Errorf("%w: sessionId", service.ErrMissingField))
	}

	player, err := s.draftSvc.DraftSlot(ctx, req.Msg.SessionID, req.Msg.Position)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DraftSlotResponse{
		Position: req.Msg.Position,
		Player:   toPlayerMessage(player),
	}), nil
}

// Healthz pings the player store.
func (s *AuctionServer) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.auctionSvc.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health check failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func missingPrice() *SaleVerdict {
	return &SaleVerdict{
		Error:   string(auction.RejectMissingField),
		Message: "price is required",
	}
}

func toConnectError(err error) error {
	var code connect.Code
	switch {
	case errors.Is(err, service.ErrInvalidPool),
		errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrInvalidPosition),
		errors.Is(err, storage.ErrInvalidInput):
		code = connect.CodeInvalidArgument
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, storage.ErrAlreadySold),
		errors.Is(err, service.ErrDraftExhausted):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, storage.ErrDuplicateKey):
		code = connect.CodeAlreadyExists
	case errors.Is(err, service.ErrStoreUnavailable):
		code = connect.CodeUnavailable
	default:
		code = connect.CodeInternal
	}
	return connect.NewError(code, err)
}

// observeInterceptor bounds each call by the request timeout and records
// its outcome.
func observeInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
			defer cancel()

			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
				zerolog.Ctx(ctx).Warn().
					Err(err).
					Str("procedure", req.Spec().Procedure).
					Str("code", code).
					Msg("rpc failed")
			}
			observability.RecordRequest(req.Spec().Procedure, code, time.Since(start).Seconds())
			return resp, err
		}
	}
}
