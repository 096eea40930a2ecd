package domain

import "github.com/shopspring/decimal"

type TeamPlayer struct {
	ID           string
	Name         string
	SellingPrice decimal.Decimal
	Role         string
}

type TeamRoster struct {
	Domestic []TeamPlayer
	Overseas []TeamPlayer
}

type OriginCounts struct {
	Domestic int
	Overseas int
}

type RoleCounts struct {
	Batsmen       int
	Bowlers       int
	Wicketkeepers int
	AllRounders   int
}

type TeamSummary struct {
	Team           string
	Players        TeamRoster
	TotalPlayers   OriginCounts
	PurseRemaining decimal.Decimal
	RoleCounts     RoleCounts
}

type TeamRanking struct {
	Team        string
	TotalImpact float64
	Players     []Player
}
