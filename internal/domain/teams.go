package domain

import "github.com/shopspring/decimal"

// Teams is the fixed enumeration order used by every team-keyed result.
var Teams = []string{"MI", "CSK", "RCB", "DC", "PBKS", "RR", "LSG", "GT", "KKR", "SRH"}

var teamIndex = func() map[string]int {
	idx := make(map[string]int, len(Teams))
	for i, t := range Teams {
		idx[t] = i
	}
	return idx
}()

// IsTeam reports whether code is one of the ten team codes (exact match).
func IsTeam(code string) bool {
	_, ok := teamIndex[code]
	return ok
}

// TeamIndex returns the enumeration position of code, or -1.
func TeamIndex(code string) int {
	if i, ok := teamIndex[code]; ok {
		return i
	}
	return -1
}

const (
	DomesticQuota = 7
	OverseasQuota = 4

	LineupSize        = 11
	MinBattingCapable = 7
	MinBowlingCapable = 5
	WinnerCount       = 4
)

// TotalPurse is the starting budget of every team, in CR.
var TotalPurse = decimal.NewFromInt(100)

// Quota returns the roster limit for players from pool.
func Quota(pool Pool) int {
	if pool == PoolOverseas {
		return OverseasQuota
	}
	return DomesticQuota
}
