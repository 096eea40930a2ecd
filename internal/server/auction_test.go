package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipl-auction/internal/domain"
	"ipl-auction/internal/service"
	"ipl-auction/internal/storage"
	"ipl-auction/internal/storage/memory"
	"ipl-auction/internal/storage/storagetest"
)

func newTestServer(t *testing.T, store storage.PlayerStore) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	srv := NewAuctionServer(
		service.NewAuctionService(store, logger),
		service.NewDraftService(store, logger),
		logger,
	)

	mux := http.NewServeMux()
	path, handler := srv.Handler()
	mux.Handle(path, handler)
	mux.HandleFunc("/healthz", srv.Healthz)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func seededStore(t *testing.T, extra ...*domain.Player) *memory.PlayerStore {
	t.Helper()
	store := memory.NewPlayerStore()
	require.NoError(t, store.InsertBulk(context.Background(), append(storagetest.Seed(), extra...)))
	return store
}

// call posts body to a procedure and decodes the reply into out.
func call(t *testing.T, ts *httptest.Server, procedure string, body any, out any) int {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+AuctionServicePath+procedure, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type rpcError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestAuctionServer_SaleFlow(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	status := call(t, ts, "RecordSale", map[string]any{"pool": "indians", "playerName": "Rohit Sharma", "team": "MI", "price": 10}, nil)
	require.Equal(t, http.StatusOK, status)
	status = call(t, ts, "RecordSale", map[string]any{"pool": "domestic", "playerName": "Jasprit Bumrah", "team": "MI", "price": "5"}, nil)
	require.Equal(t, http.StatusOK, status)

	var summaries struct {
		Teams []struct {
			Team         string `json:"team"`
			TotalPlayers struct {
				Indians    int `json:"indians"`
				Foreigners int `json:"foreigners"`
			} `json:"totalPlayers"`
			PurseRemaining float64 `json:"purseRemaining"`
			RoleCounts     struct {
				Batsmen int `json:"batsmen"`
				Bowlers int `json:"bowlers"`
			} `json:"roleCounts"`
			Players struct {
				Indians []struct {
					Name         string  `json:"name"`
					SellingPrice float64 `json:"sellingPrice"`
				} `json:"indians"`
				Foreigners []json.RawMessage `json:"foreigners"`
			} `json:"players"`
		} `json:"teams"`
	}
	require.Equal(t, http.StatusOK, call(t, ts, "GetTeamSummaries", struct{}{}, &summaries))
	require.Len(t, summaries.Teams, 10)

	mi := summaries.Teams[0]
	assert.Equal(t, "MI", mi.Team)
	assert.Equal(t, 2, mi.TotalPlayers.Indians)
	assert.Equal(t, 0, mi.TotalPlayers.Foreigners)
	assert.Equal(t, 85.0, mi.PurseRemaining)
	assert.Equal(t, 1, mi.RoleCounts.Batsmen)
	assert.Equal(t, 1, mi.RoleCounts.Bowlers)
	assert.Len(t, mi.Players.Indians, 2)
	assert.NotNil(t, mi.Players.Foreigners)

	var sold PlayersResponse
	require.Equal(t, http.StatusOK, call(t, ts, "ListSoldPlayers", PoolRequest{Pool: "domestic"}, &sold))
	require.Len(t, sold.Players, 2)
	assert.True(t, sold.Players[0].Sold)
	assert.Equal(t, "MI", sold.Players[0].SoldTo)
	require.NotNil(t, sold.Players[0].SellingPrice)

	require.Equal(t, http.StatusOK, call(t, ts, "ResetAll", struct{}{}, nil))

	require.Equal(t, http.StatusOK, call(t, ts, "ListSoldPlayers", PoolRequest{Pool: "domestic"}, &sold))
	assert.Empty(t, sold.Players)
}

func TestAuctionServer_ValidateSaleQuota(t *testing.T) {
	extra := make([]*domain.Player, 0, 4)
	for i := range 4 {
		extra = append(extra, &domain.Player{ID: fmt.Sprintf("x%d", i), Name: fmt.Sprintf("Import %d", i), Pool: domain.PoolOverseas, Role: domain.RoleBowler})
	}
	store := seededStore(t, extra...)
	for i := range 4 {
		require.NoError(t, store.RecordSale(context.Background(), domain.PoolOverseas, fmt.Sprintf("Import %d", i), "MI", decimal.NewFromInt(1)))
	}
	ts := newTestServer(t, store)

	var verdict SaleVerdict
	status := call(t, ts, "ValidateSale", map[string]any{"team": "MI", "origin": "overseas", "price": 5}, &verdict)

	require.Equal(t, http.StatusOK, status)
	assert.False(t, verdict.Valid)
	assert.Equal(t, "QuotaExceeded", verdict.Error)
	assert.Equal(t, "foreigners", verdict.Origin)
	assert.NotEmpty(t, verdict.Message)

	// admissible replies omit error, so decode into a fresh value
	var domestic SaleVerdict
	status = call(t, ts, "ValidateSale", map[string]any{"team": "MI", "origin": "domestic", "price": 5}, &domestic)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, domestic.Valid)
	assert.Empty(t, domestic.Error)
	assert.Empty(t, domestic.Origin)
}

func TestAuctionServer_ValidateSaleWithoutOriginIsDomestic(t *testing.T) {
	extra := make([]*domain.Player, 0, 7)
	for i := range 7 {
		extra = append(extra, &domain.Player{ID: fmt.Sprintf("d%d", i), Name: fmt.Sprintf("Local %d", i), Pool: domain.PoolDomestic, Role: domain.RoleBatsman})
	}
	store := seededStore(t, extra...)
	ts := newTestServer(t, store)

	var open SaleVerdict
	require.Equal(t, http.StatusOK, call(t, ts, "ValidateSale", map[string]any{"team": "MI", "price": 5}, &open))
	assert.True(t, open.Valid)

	for i := range 7 {
		require.NoError(t, store.RecordSale(context.Background(), domain.PoolDomestic, fmt.Sprintf("Local %d", i), "MI", decimal.NewFromInt(1)))
	}

	var full SaleVerdict
	require.Equal(t, http.StatusOK, call(t, ts, "ValidateSale", map[string]any{"team": "MI", "price": 5}, &full))
	assert.False(t, full.Valid)
	assert.Equal(t, "QuotaExceeded", full.Error)
	assert.Equal(t, "indians", full.Origin)
}

func TestAuctionServer_ValidateSaleRejections(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"invalid team", map[string]any{"team": "XYZ", "origin": "domestic", "price": 1}, "InvalidTeam"},
		{"missing team", map[string]any{"origin": "domestic", "price": 1}, "MissingField"},
		{"missing price", map[string]any{"team": "MI", "origin": "domestic"}, "MissingField"},
		{"negative price", map[string]any{"team": "MI", "origin": "domestic", "price": -1}, "InvalidPrice"},
		{"over budget", map[string]any{"team": "MI", "origin": "domestic", "price": 100.5}, "InsufficientBudget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verdict SaleVerdict
			require.Equal(t, http.StatusOK, call(t, ts, "ValidateSale", tt.body, &verdict))
			assert.False(t, verdict.Valid)
			assert.Equal(t, tt.want, verdict.Error)
		})
	}
}

func TestAuctionServer_SellPlayer(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	var verdict SaleVerdict
	require.Equal(t, http.StatusOK, call(t, ts, "SellPlayer",
		SaleRequest{Pool: "overseas", PlayerName: "Rashid Khan", Team: "GT", Price: ptr(decimal.NewFromInt(99))}, &verdict))
	assert.True(t, verdict.Valid)

	// 1 CR left
	var rejected SaleVerdict
	require.Equal(t, http.StatusOK, call(t, ts, "SellPlayer",
		SaleRequest{Pool: "overseas", PlayerName: "Jos Buttler", Team: "GT", Price: ptr(decimal.NewFromInt(2))}, &rejected))
	assert.False(t, rejected.Valid)
	assert.Equal(t, "InsufficientBudget", rejected.Error)

	var rpcErr rpcError
	status := call(t, ts, "SellPlayer",
		SaleRequest{Pool: "overseas", PlayerName: "Rashid Khan", Team: "MI", Price: ptr(decimal.NewFromInt(1))}, &rpcErr)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "failed_precondition", rpcErr.Code)
}

func TestAuctionServer_ErrorCodes(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	tests := []struct {
		name      string
		procedure string
		body      any
		status    int
		code      string
	}{
		{"unknown player", "RecordSale", map[string]any{"pool": "domestic", "playerName": "Nobody", "team": "MI", "price": 1}, http.StatusNotFound, "not_found"},
		{"bad pool", "ListSoldPlayers", PoolRequest{Pool: "martian"}, http.StatusBadRequest, "invalid_argument"},
		{"missing pool", "ResetPool", PoolRequest{}, http.StatusBadRequest, "invalid_argument"},
		{"missing price", "RecordSale", map[string]any{"pool": "domestic", "playerName": "MS Dhoni", "team": "CSK"}, http.StatusBadRequest, "invalid_argument"},
		{"missing team", "ListPlayersByTeam", ListPlayersByTeamRequest{Pool: "domestic"}, http.StatusBadRequest, "invalid_argument"},
		{"unknown origin", "ValidateSale", map[string]any{"team": "MI", "origin": "martian", "price": 1}, http.StatusBadRequest, "invalid_argument"},
		{"unknown session", "GetDraftSlot", DraftSlotRequest{SessionID: "nope", Position: 1}, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rpcErr rpcError
			assert.Equal(t, tt.status, call(t, ts, tt.procedure, tt.body, &rpcErr))
			assert.Equal(t, tt.code, rpcErr.Code)
		})
	}
}

func TestAuctionServer_Draft(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	var session StartDraftResponse
	require.Equal(t, http.StatusOK, call(t, ts, "StartDraft", struct{}{}, &session))
	require.NotEmpty(t, session.SessionID)
	require.Equal(t, 5, session.Total)

	seen := map[string]bool{}
	for pos := 1; pos <= session.Total; pos++ {
		var slot DraftSlotResponse
		require.Equal(t, http.StatusOK, call(t, ts, "GetDraftSlot", DraftSlotRequest{SessionID: session.SessionID, Position: pos}, &slot))
		assert.Equal(t, pos, slot.Position)
		seen[slot.Player.Name] = true
	}
	assert.Len(t, seen, 5)

	var rpcErr rpcError
	call(t, ts, "GetDraftSlot", DraftSlotRequest{SessionID: session.SessionID, Position: 6}, &rpcErr)
	assert.Equal(t, "failed_precondition", rpcErr.Code)
}

func TestAuctionServer_GetWinnersEmpty(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	var winners WinnersResponse
	require.Equal(t, http.StatusOK, call(t, ts, "GetWinners", struct{}{}, &winners))
	assert.NotNil(t, winners.Winners)
	assert.Empty(t, winners.Winners)
}

type unreachableStore struct {
	storage.PlayerStore
}

func (unreachableStore) ListSold(context.Context, domain.Pool) ([]*domain.Player, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func (unreachableStore) Ping(context.Context) error {
	return errors.New("dial tcp: connection refused")
}

func TestAuctionServer_StoreUnavailable(t *testing.T) {
	ts := newTestServer(t, unreachableStore{})

	var rpcErr rpcError
	assert.Equal(t, http.StatusServiceUnavailable, call(t, ts, "GetWinners", struct{}{}, &rpcErr))
	assert.Equal(t, "unavailable", rpcErr.Code)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuctionServer_Healthz(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func ptr[T any](v T) *T {
	return &v
}
