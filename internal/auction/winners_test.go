package auction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipl-auction/internal/domain"
)

func teamsOf(rankings []domain.TeamRanking) []string {
	out := make([]string, 0, len(rankings))
	for _, r := range rankings {
		out = append(out, r.Team)
	}
	return out
}

func TestSelectWinners_Empty(t *testing.T) {
	winners := SelectWinners(nil, nil)

	assert.NotNil(t, winners)
	assert.Empty(t, winners)
}

func TestSelectWinners_SingleQualifiedTeam(t *testing.T) {
	winners := SelectWinners(eleven("MI", 2.5), nil)

	require.Len(t, winners, 1)
	assert.Equal(t, "MI", winners[0].Team)
	assert.InDelta(t, 27.5, winners[0].TotalImpact, 1e-9)
	assert.Len(t, winners[0].Players, 11)
}

func TestSelectWinners_TenPlayersNeverQualify(t *testing.T) {
	winners := SelectWinners(eleven("MI", 5)[:10], nil)

	assert.Empty(t, winners)
}

func TestSelectWinners_TwelvePlayersNeverQualify(t *testing.T) {
	players := append(eleven("MI", 5), sold("extra", domain.PoolOverseas, domain.RoleBatsman, "MI", 1, 9))

	assert.Empty(t, SelectWinners(players, nil))
}

func TestSelectWinners_NoWicketkeeper(t *testing.T) {
	players := eleven("CSK", 5)
	players[0].Role = domain.RoleBatsman

	assert.Empty(t, SelectWinners(players, nil))
}

func TestSelectWinners_WicketkeeperMatchedExactly(t *testing.T) {
	players := eleven("CSK", 5)
	// counted as a wicketkeeper by the team summary, but not here
	players[0].Role = "wicketkeeper"

	assert.Empty(t, SelectWinners(players, nil))
}

func TestSelectWinners_BattingAndBowlingMinimums(t *testing.T) {
	t.Run("six batting capable", func(t *testing.T) {
		players := eleven("RR", 1)
		players[1].Role = domain.RoleBowler // 6 batting, 7 bowling
		assert.Empty(t, SelectWinners(players, nil))
	})

	t.Run("four bowling capable", func(t *testing.T) {
		players := eleven("RR", 1)
		players[10].Role = domain.RoleBatsman // 8 batting, 5 bowling
		assert.Len(t, SelectWinners(players, nil), 1)

		players[9].Role = domain.RoleBatsman // 9 batting, 4 bowling
		assert.Empty(t, SelectWinners(players, nil))
	})

	t.Run("unknown roles count toward nothing", func(t *testing.T) {
		players := eleven("RR", 1)
		players[5].Role = "Captain" // 6 batting, 5 bowling
		assert.Empty(t, SelectWinners(players, nil))
	})
}

func TestSelectWinners_OriginIndependent(t *testing.T) {
	players := eleven("KKR", 1)
	domestic := players[:7]
	overseas := make([]domain.Player, 0, 4)
	for _, p := range players[7:] {
		p.Pool = domain.PoolOverseas
		overseas = append(overseas, p)
	}

	winners := SelectWinners(domestic, overseas)

	require.Len(t, winners, 1)
	assert.Equal(t, "KKR", winners[0].Team)
}

func TestSelectWinners_TopFourByImpact(t *testing.T) {
	var domestic []domain.Player
	impacts := map[string]float64{
		"MI": 1, "CSK": 6, "RCB": 3, "DC": 5, "PBKS": 2, "GT": 4,
	}
	for team, impact := range impacts {
		domestic = append(domestic, eleven(team, impact)...)
	}
	// disqualified despite the highest impact
	domestic = append(domestic, eleven("SRH", 100)[:10]...)

	winners := SelectWinners(domestic, nil)

	assert.Equal(t, []string{"CSK", "DC", "GT", "RCB"}, teamsOf(winners))
	for i := 1; i < len(winners); i++ {
		assert.Greater(t, winners[i-1].TotalImpact, winners[i].TotalImpact)
	}
}

func TestSelectWinners_TiesKeepTeamOrder(t *testing.T) {
	var domestic []domain.Player
	for _, team := range []string{"SRH", "GT", "MI"} {
		domestic = append(domestic, eleven(team, 3)...)
	}

	winners := SelectWinners(domestic, nil)

	assert.Equal(t, []string{"MI", "GT", "SRH"}, teamsOf(winners))
}

func TestSelectWinners_PlayersOrderedByImpact(t *testing.T) {
	players := eleven("LSG", 1)
	players[3].ImpactPerMatch = 9
	players[8].ImpactPerMatch = 4

	winners := SelectWinners(players, nil)

	require.Len(t, winners, 1)
	assert.Equal(t, players[3].Name, winners[0].Players[0].Name)
	assert.Equal(t, players[8].Name, winners[0].Players[1].Name)
	// input is left untouched
	assert.Equal(t, "LSG-0", players[0].Name)
}

func TestSelectWinners_SkipsUnknownTeam(t *testing.T) {
	players := eleven("XYZ", 10)

	assert.Empty(t, SelectWinners(players, nil))
}
