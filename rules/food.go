package rules

import (
	"math/rand"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// FoodRNG returns the generator used to place food at the given step.
// Deriving it from (seed, step) keeps placement reproducible from a saved seed
// without threading a mutable generator through snapshots.
func FoodRNG(seed uint64, step uint32) *rand.Rand {
	s := int64(deterministicU64Fast(seed, uint64(step)))
	if s == 0 {
		s = 1
	}
	return rand.New(rand.NewSource(s))
}

// FreeCells lists empty level cells not covered by any of the given bodies.
func FreeCells(level *game.Level, bodies ...game.Body) []game.Position {
	occupied := make(map[game.Position]struct{}, 16)
	for _, b := range bodies {
		for i := 0; i < b.Length(); i++ {
			occupied[b.PartAt(i).Position] = struct{}{}
		}
	}
	available := make([]game.Position, 0, level.NumEmpty())
	for _, p := range level.EmptyPositions() {
		if _, ok := occupied[p]; ok {
			continue
		}
		available = append(available, p)
	}
	return available
}

// PlaceFood picks a random empty cell that no installed snake covers.
// It returns false when the board is full.
func PlaceFood(s game.State) (game.Position, bool) {
	var bodies []game.Body
	for _, p := range [2]game.Player{s.Player1(), s.Player2()} {
		if p.Installed() {
			bodies = append(bodies, p.Body())
		}
	}
	available := FreeCells(s.Level(), bodies...)
	if len(available) == 0 {
		return game.Position{}, false
	}
	rng := FoodRNG(s.FoodSeed(), s.Step())
	return available[rng.Intn(len(available))], true
}

// deterministicU64Fast mixes two words with a splitmix64 finaliser.
func deterministicU64Fast(a, b uint64) uint64 {
	x := a + b*0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Mix exposes the same mixer for planners that derive per-tick seeds.
func Mix(a, b uint64) uint64 {
	return deterministicU64Fast(a, b)
}
