package auction

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"ipl-auction/internal/domain"
)

// RandSource provides random numbers for shuffling. Tests inject a
// deterministic one.
type RandSource interface {
	// Intn returns a random integer in [0, n). Panics if n <= 0.
	Intn(n int) int
}

type cryptoRandSource struct{}

func (cryptoRandSource) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("cryptoRandSource.Intn: n must be positive, got %d", n))
	}
	// rand.Int does not error when using rand.Reader
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(nBig.Int64())
}

var defaultRandSource RandSource = cryptoRandSource{}

// DraftOrder returns a Fisher-Yates shuffled copy of players. A nil rnd uses
// crypto/rand.
func DraftOrder(players []domain.Player, rnd RandSource) []domain.Player {
	if rnd == nil {
		rnd = defaultRandSource
	}

	order := make([]domain.Player, len(players))
	copy(order, players)

	for i := len(order) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}
