package auction

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ipl-auction/internal/domain"
)

func sold(name string, pool domain.Pool, role, team string, price int64, impact float64) domain.Player {
	return domain.Player{
		ID:             "id-" + name,
		Name:           name,
		Pool:           pool,
		Role:           role,
		ImpactPerMatch: impact,
		IsSold:         true,
		SoldTo:         team,
		SellingPrice:   decimal.NewNullDecimal(decimal.NewFromInt(price)),
	}
}

func soldN(n int, pool domain.Pool, role, team string, price int64) []domain.Player {
	out := make([]domain.Player, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sold(fmt.Sprintf("%s-%s-%s-%d", team, pool, role, i), pool, role, team, price, 1))
	}
	return out
}

// eleven builds a lineup that passes the eligibility check: one keeper,
// four batsmen, two allrounders and four bowlers.
func eleven(team string, impact float64) []domain.Player {
	roles := []string{
		domain.RoleWicketkeeper,
		domain.RoleBatsman, domain.RoleBatsman, domain.RoleBatsman, domain.RoleBatsman,
		domain.RoleAllrounder, domain.RoleBowlingAllrounder,
		domain.RoleBowler, domain.RoleBowler, domain.RoleBowler, domain.RoleBowler,
	}
	out := make([]domain.Player, 0, len(roles))
	for i, role := range roles {
		out = append(out, sold(fmt.Sprintf("%s-%d", team, i), domain.PoolDomestic, role, team, 1, impact))
	}
	return out
}
