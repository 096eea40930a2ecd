package auction

import (
	"strings"

	"ipl-auction/internal/domain"
)

type RoleBucket int

const (
	BucketBatsmen RoleBucket = iota
	BucketBowlers
	BucketWicketkeepers
	BucketAllRounders
)

// ClassifyRole buckets a role label by case-insensitive substring, checked in
// the order batsman, bowler, wicketkeeper. Anything else is an all-rounder.
func ClassifyRole(role string) RoleBucket {
	r := strings.ToLower(role)
	switch {
	case strings.Contains(r, "batsman"):
		return BucketBatsmen
	case strings.Contains(r, "bowler"):
		return BucketBowlers
	case strings.Contains(r, "wicketkeeper"):
		return BucketWicketkeepers
	default:
		return BucketAllRounders
	}
}

func countRole(c *domain.RoleCounts, role string) {
	switch ClassifyRole(role) {
	case BucketBatsmen:
		c.Batsmen++
	case BucketBowlers:
		c.Bowlers++
	case BucketWicketkeepers:
		c.Wicketkeepers++
	default:
		c.AllRounders++
	}
}

// AggregateTeams rolls sold players up into one summary per team, in team
// enumeration order. Teams without purchases still appear with a full purse.
// Origin comes from the list a player is passed in. Unsold players and
// unknown team codes are skipped.
func AggregateTeams(soldDomestic, soldOverseas []domain.Player) []domain.TeamSummary {
	summaries := make([]domain.TeamSummary, len(domain.Teams))
	byTeam := make(map[string]*domain.TeamSummary, len(domain.Teams))
	for i, team := range domain.Teams {
		summaries[i] = domain.TeamSummary{
			Team: team,
			Players: domain.TeamRoster{
				Domestic: []domain.TeamPlayer{},
				Overseas: []domain.TeamPlayer{},
			},
			PurseRemaining: domain.TotalPurse,
		}
		byTeam[team] = &summaries[i]
	}

	add := func(players []domain.Player, pool domain.Pool) {
		for _, p := range players {
			if !p.IsSold {
				continue
			}
			s, ok := byTeam[p.SoldTo]
			if !ok {
				continue
			}

			entry := domain.TeamPlayer{
				ID:           p.ID,
				Name:         p.Name,
				SellingPrice: p.Price(),
				Role:         p.Role,
			}
			if pool == domain.PoolOverseas {
				s.Players.Overseas = append(s.Players.Overseas, entry)
				s.TotalPlayers.Overseas++
			} else {
				s.Players.Domestic = append(s.Players.Domestic, entry)
				s.TotalPlayers.Domestic++
			}
			s.PurseRemaining = s.PurseRemaining.Sub(entry.SellingPrice)
			countRole(&s.RoleCounts, p.Role)
		}
	}

	add(soldDomestic, domain.PoolDomestic)
	add(soldOverseas, domain.PoolOverseas)

	return summaries
}
