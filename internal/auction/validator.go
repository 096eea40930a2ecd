// Package auction holds the pure decision and roll-up routines applied to
// player-sale records. Nothing here touches storage.
package auction

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ipl-auction/internal/domain"
)

type RejectionKind string

const (
	RejectMissingField       RejectionKind = "MissingField"
	RejectInvalidPrice       RejectionKind = "InvalidPrice"
	RejectInvalidTeam        RejectionKind = "InvalidTeam"
	RejectQuotaExceeded      RejectionKind = "QuotaExceeded"
	RejectInsufficientBudget RejectionKind = "InsufficientBudget"
)

// Rejection explains why a proposal is inadmissible. Pool is only set for
// RejectQuotaExceeded.
type Rejection struct {
	Kind    RejectionKind
	Pool    domain.Pool
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

type Verdict struct {
	Valid     bool
	Rejection *Rejection
}

func admissible() Verdict {
	return Verdict{Valid: true}
}

func reject(kind RejectionKind, pool domain.Pool, format string, args ...any) Verdict {
	return Verdict{Rejection: &Rejection{
		Kind:    kind,
		Pool:    pool,
		Message: fmt.Sprintf(format, args...),
	}}
}

// RosterTotals is the part of a team's roster the validator cares about.
type RosterTotals struct {
	Domestic int
	Overseas int
	Spent    decimal.Decimal
}

// Remaining is the purse left after Spent.
func (t RosterTotals) Remaining() decimal.Decimal {
	return domain.TotalPurse.Sub(t.Spent)
}

// Count returns how many players from pool the roster holds.
func (t RosterTotals) Count(pool domain.Pool) int {
	if pool == domain.PoolOverseas {
		return t.Overseas
	}
	return t.Domestic
}

// Totals tallies a team's roster. Each player counts against the quota of the
// pool it belongs to.
func Totals(roster []domain.Player) RosterTotals {
	totals := RosterTotals{Spent: decimal.Zero}
	for _, p := range roster {
		if p.Pool == domain.PoolOverseas {
			totals.Overseas++
		} else {
			totals.Domestic++
		}
		totals.Spent = totals.Spent.Add(p.Price())
	}
	return totals
}

// ValidateSale decides whether proposal is admissible given roster, the players
// the destination team already bought. Rules are applied in a fixed order and
// the first failure wins: team membership, origin quota, then purse.
func ValidateSale(roster []domain.Player, proposal domain.SaleProposal) Verdict {
	if proposal.Team == "" {
		return reject(RejectMissingField, "", "team is required")
	}
	if proposal.Price.IsNegative() {
		return reject(RejectInvalidPrice, "", "price must not be negative, got %s", proposal.Price)
	}
	if !domain.IsTeam(proposal.Team) {
		return reject(RejectInvalidTeam, "", "invalid team %q", proposal.Team)
	}

	totals := Totals(roster)

	quota := domain.Quota(proposal.Pool)
	if totals.Count(proposal.Pool)+1 > quota {
		return reject(RejectQuotaExceeded, proposal.Pool,
			"cannot have more than %d %s players", quota, proposal.Pool)
	}

	if totals.Remaining().LessThan(proposal.Price) {
		return reject(RejectInsufficientBudget, "",
			"insufficient purse: %s CR remaining, bid is %s CR", totals.Remaining(), proposal.Price)
	}

	return admissible()
}
