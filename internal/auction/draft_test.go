package auction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ipl-auction/internal/domain"
)

// fixedRandSource replays a fixed sequence, wrapping modulo n.
type fixedRandSource struct {
	sequence []int
	index    int
}

func (m *fixedRandSource) Intn(n int) int {
	if m.index >= len(m.sequence) {
		return 0
	}
	val := m.sequence[m.index] % n
	m.index++
	return val
}

func names(players []domain.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

func TestDraftOrder_IsPermutation(t *testing.T) {
	players := soldN(20, domain.PoolDomestic, domain.RoleBatsman, "MI", 1)

	order := DraftOrder(players, nil)

	assert.Len(t, order, len(players))
	assert.ElementsMatch(t, names(players), names(order))
}

func TestDraftOrder_DoesNotMutateInput(t *testing.T) {
	players := soldN(5, domain.PoolDomestic, domain.RoleBatsman, "MI", 1)
	before := names(players)

	DraftOrder(players, &fixedRandSource{sequence: []int{0, 0, 0, 0}})

	assert.Equal(t, before, names(players))
}

func TestDraftOrder_Deterministic(t *testing.T) {
	players := []domain.Player{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	// i=2 swaps with 0, i=1 swaps with 0: [a b c] -> [c b a] -> [b c a]
	order := DraftOrder(players, &fixedRandSource{sequence: []int{0, 0}})

	assert.Equal(t, []string{"b", "c", "a"}, names(order))
}

func TestDraftOrder_Empty(t *testing.T) {
	assert.Empty(t, DraftOrder(nil, nil))
}
