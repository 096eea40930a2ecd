package auction

import (
	"sort"

	"ipl-auction/internal/domain"
)

// LineupShape counts what a roster can field. Roles are matched exactly;
// labels outside the canonical set count toward nothing.
type LineupShape struct {
	Players        int
	Wicketkeepers  int
	BattingCapable int
	BowlingCapable int
}

func ShapeOf(players []domain.Player) LineupShape {
	shape := LineupShape{Players: len(players)}
	for _, p := range players {
		switch p.Role {
		case domain.RoleWicketkeeper:
			shape.Wicketkeepers++
			shape.BattingCapable++
		case domain.RoleBatsman:
			shape.BattingCapable++
		case domain.RoleAllrounder, domain.RoleBowlingAllrounder:
			shape.BattingCapable++
			shape.BowlingCapable++
		case domain.RoleBowler:
			shape.BowlingCapable++
		}
	}
	return shape
}

// Eligible reports whether the shape is a valid starting eleven.
func (s LineupShape) Eligible() bool {
	return s.Players == domain.LineupSize &&
		s.Wicketkeepers >= 1 &&
		s.BattingCapable >= domain.MinBattingCapable &&
		s.BowlingCapable >= domain.MinBowlingCapable
}

// SelectWinners groups sold players by team, sums impact per match, keeps the
// teams that can field a valid eleven and returns the top four by total impact.
// Ties keep team enumeration order. Each ranking lists its players by impact
// per match, highest first.
func SelectWinners(soldDomestic, soldOverseas []domain.Player) []domain.TeamRanking {
	rankings := make([]domain.TeamRanking, len(domain.Teams))
	byTeam := make(map[string]*domain.TeamRanking, len(domain.Teams))
	for i, team := range domain.Teams {
		rankings[i] = domain.TeamRanking{Team: team}
		byTeam[team] = &rankings[i]
	}

	for _, list := range [][]domain.Player{soldDomestic, soldOverseas} {
		for _, p := range list {
			if !p.IsSold {
				continue
			}
			r, ok := byTeam[p.SoldTo]
			if !ok {
				continue
			}
			r.Players = append(r.Players, p)
			r.TotalImpact += p.ImpactPerMatch
		}
	}

	qualified := make([]domain.TeamRanking, 0, len(rankings))
	for _, r := range rankings {
		if ShapeOf(r.Players).Eligible() {
			qualified = append(qualified, r)
		}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].TotalImpact > qualified[j].TotalImpact
	})

	if len(qualified) > domain.WinnerCount {
		qualified = qualified[:domain.WinnerCount]
	}

	for i := range qualified {
		players := qualified[i].Players
		sort.SliceStable(players, func(a, b int) bool {
			return players[a].ImpactPerMatch > players[b].ImpactPerMatch
		})
	}

	return qualified
}
