package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Pool string

const (
	PoolDomestic Pool = "domestic"
	PoolOverseas Pool = "overseas"
)

var Pools = []Pool{PoolDomestic, PoolOverseas}

func (p Pool) Valid() bool {
	return p == PoolDomestic || p == PoolOverseas
}

// Canonical role labels. Stored roles are free text; only these exact strings
// count toward lineup eligibility.
const (
	RoleBatsman           = "Batsman"
	RoleBowler            = "Bowler"
	RoleWicketkeeper      = "Wicketkeeper"
	RoleAllrounder        = "Allrounder"
	RoleBowlingAllrounder = "Bowling Allrounder"
)

type Player struct {
	ID             string
	Name           string
	Pool           Pool
	Role           string
	Matches        int
	Runs           int
	Wickets        int
	ImpactPerMatch float64
	TotalImpact    float64
	ImagePath      string
	BattingStyle   string
	BowlingStyle   string
	FormerTeam     string

	IsSold       bool
	SoldTo       string              // team code, empty while unsold
	SellingPrice decimal.NullDecimal // invalid while unsold

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaleStateConsistent reports whether sold, team and price agree.
func (p Player) SaleStateConsistent() bool {
	if p.IsSold {
		return p.SoldTo != "" && p.SellingPrice.Valid
	}
	return p.SoldTo == "" && !p.SellingPrice.Valid
}

// Price returns the selling price, zero while unsold.
func (p Player) Price() decimal.Decimal {
	if !p.SellingPrice.Valid {
		return decimal.Zero
	}
	return p.SellingPrice.Decimal
}

type SaleProposal struct {
	PlayerName string
	Pool       Pool
	Team       string
	Price      decimal.Decimal
}
