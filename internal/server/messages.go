package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ipl-auction/internal/auction"
	"ipl-auction/internal/domain"
	"ipl-auction/internal/service"
)

// Wire names for the two pools, as the web client sends them.
const (
	originIndians    = "indians"
	originForeigners = "foreigners"
)

type PoolRequest struct {
	Pool string `json:"pool"`
}

type ListPlayersByTeamRequest struct {
	Pool string `json:"pool"`
	Team string `json:"team"`
}

type SaleRequest struct {
	Pool       string           `json:"pool"`
	PlayerName string           `json:"playerName"`
	Team       string           `json:"team"`
	Price      *decimal.Decimal `json:"price"`
}

type ValidateSaleRequest struct {
	Team   string           `json:"team"`
	Origin string           `json:"origin"`
	Price  *decimal.Decimal `json:"price"`
}

type Empty struct{}

type PlayersResponse struct {
	Players []PlayerMessage `json:"players"`
}

type PlayerMessage struct {
	ID             string       `json:"id"`
	Name           string       `json:"player"`
	Pool           string       `json:"pool"`
	Role           string       `json:"role"`
	Matches        int          `json:"matches"`
	Runs           int          `json:"runs"`
	Wickets        int          `json:"wickets"`
	ImpactPerMatch float64      `json:"impactPerMatch"`
	TotalImpact    float64      `json:"total_impact"`
	ImagePath      string       `json:"imagePath,omitempty"`
	BattingStyle   string       `json:"battingStyle,omitempty"`
	BowlingStyle   string       `json:"bowlingStyle,omitempty"`
	FormerTeam     string       `json:"team,omitempty"`
	Sold           bool         `json:"sold"`
	SoldTo         string       `json:"soldTo,omitempty"`
	SellingPrice   *json.Number `json:"sellingPrice,omitempty"`
}

// SaleVerdict answers ValidateSale and SellPlayer.
type SaleVerdict struct {
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
	Origin  string `json:"origin,omitempty"`
	Message string `json:"message,omitempty"`
}

type TeamSummariesResponse struct {
	Teams []TeamSummaryMessage `json:"teams"`
}

type TeamSummaryMessage struct {
	Team           string             `json:"team"`
	Players        TeamRosterMessage  `json:"players"`
	TotalPlayers   OriginCountMessage `json:"totalPlayers"`
	PurseRemaining json.Number        `json:"purseRemaining"`
	RoleCounts     RoleCountMessage   `json:"roleCounts"`
}

type TeamRosterMessage struct {
	Indians    []TeamPlayerMessage `json:"indians"`
	Foreigners []TeamPlayerMessage `json:"foreigners"`
}

type TeamPlayerMessage struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	SellingPrice json.Number `json:"sellingPrice"`
	Role         string      `json:"role"`
}

type OriginCountMessage struct {
	Indians    int `json:"indians"`
	Foreigners int `json:"foreigners"`
}

type RoleCountMessage struct {
	Batsmen       int `json:"batsmen"`
	Bowlers       int `json:"bowlers"`
	Wicketkeepers int `json:"wicketkeepers"`
	AllRounders   int `json:"allRounders"`
}

type WinnersResponse struct {
	Winners []TeamRankingMessage `json:"winners"`
}

type TeamRankingMessage struct {
	Team        string          `json:"team"`
	TotalImpact float64         `json:"totalImpact"`
	Players     []PlayerMessage `json:"players"`
}

type StartDraftResponse struct {
	SessionID string `json:"sessionId"`
	Total     int    `json:"total"`
}

type DraftSlotRequest struct {
	SessionID string `json:"sessionId"`
	Position  int    `json:"position"`
}

type DraftSlotResponse struct {
	Position int           `json:"position"`
	Player   PlayerMessage `json:"player"`
}

// parsePool accepts both the stored names and the web client names.
func parsePool(s string) (domain.Pool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", fmt.Errorf("%w: pool", service.ErrMissingField)
	case string(domain.PoolDomestic), originIndians:
		return domain.PoolDomestic, nil
	case string(domain.PoolOverseas), originForeigners:
		return domain.PoolOverseas, nil
	default:
		return "", fmt.Errorf("%w: %q", service.ErrInvalidPool, s)
	}
}

func originOf(pool domain.Pool) string {
	if pool == domain.PoolOverseas {
		return originForeigners
	}
	return originIndians
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func toPlayerMessage(p domain.Player) PlayerMessage {
	msg := PlayerMessage{
		ID:             p.ID,
		Name:           p.Name,
		Pool:           string(p.Pool),
		Role:           p.Role,
		Matches:        p.Matches,
		Runs:           p.Runs,
		Wickets:        p.Wickets,
		ImpactPerMatch: p.ImpactPerMatch,
		TotalImpact:    p.TotalImpact,
		ImagePath:      p.ImagePath,
		BattingStyle:   p.BattingStyle,
		BowlingStyle:   p.BowlingStyle,
		FormerTeam:     p.FormerTeam,
		Sold:           p.IsSold,
		SoldTo:         p.SoldTo,
	}
	if p.SellingPrice.Valid {
		n := number(p.SellingPrice.Decimal)
		msg.SellingPrice = &n
	}
	return msg
}

func toPlayerMessages(players []domain.Player) []PlayerMessage {
	out := make([]PlayerMessage, 0, len(players))
	for _, p := range players {
		out = append(out, toPlayerMessage(p))
	}
	return out
}

func toTeamPlayerMessages(players []domain.TeamPlayer) []TeamPlayerMessage {
	out := make([]TeamPlayerMessage, 0, len(players))
	for _, p := range players {
		out = append(out, TeamPlayerMessage{
			ID:           p.ID,
			Name:         p.Name,
			SellingPrice: number(p.SellingPrice),
			Role:         p.Role,
		})
	}
	return out
}

func toSummaryMessage(s domain.TeamSummary) TeamSummaryMessage {
	return TeamSummaryMessage{
		Team: s.Team,
		Players: TeamRosterMessage{
			Indians:    toTeamPlayerMessages(s.Players.Domestic),
			Foreigners: toTeamPlayerMessages(s.Players.Overseas),
		},
		TotalPlayers: OriginCountMessage{
			Indians:    s.TotalPlayers.Domestic,
			Foreigners: s.TotalPlayers.Overseas,
		},
		PurseRemaining: number(s.PurseRemaining),
		RoleCounts: RoleCountMessage{
			Batsmen:       s.RoleCounts.Batsmen,
			Bowlers:       s.RoleCounts.Bowlers,
			Wicketkeepers: s.RoleCounts.Wicketkeepers,
			AllRounders:   s.RoleCounts.AllRounders,
		},
	}
}

func toVerdictMessage(v auction.Verdict) *SaleVerdict {
	if v.Valid {
		return &SaleVerdict{Valid: true}
	}

	msg := &SaleVerdict{
		Error:   string(v.Rejection.Kind),
		Message: v.Rejection.Message,
	}
	if v.Rejection.Pool != "" {
		msg.Origin = originOf(v.Rejection.Pool)
	}
	return msg
}
