package trade

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"

	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// RNG is the only source of randomness in the engine. *rand.Rand satisfies it.
type RNG interface {
	Intn(n int) int
	Int63() int64
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewRNG returns a deterministic generator for seed.
func NewRNG(seed int64) RNG {
	return rand.New(rand.NewSource(seed))
}

// OfferSeed derives the offer seed for a team from the league clock. It only
// changes when the season, the phase or the number of completed refresh
// windows of refreshGames games changes, so repeated views within a window
// see the same offers.
func OfferSeed(state models.GameState, tid, refreshGames int) int64 {
	if refreshGames <= 0 {
		refreshGames = 1
	}
	h := fnv.New64a()
	var buf [8]byte
	for _, n := range []int{state.Season, int(state.Phase), state.GamesPlayed / refreshGames, tid} {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(n)))
		h.Write(buf[:])
	}
	return int64(h.Sum64() >> 1)
}

// weightedIndex picks an index with probability proportional to its weight.
// Non-positive weights are never chosen unless every weight is non-positive.
func weightedIndex(rng RNG, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	r := rng.Float64() * total
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if r < w {
			return i
		}
		r -= w
	}
	return last
}
