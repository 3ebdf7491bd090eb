// Package bot holds the movement planners a bot-controlled player can use and
// a registry that builds them by strategy name.
package bot

import (
	"errors"
	"fmt"
	"sort"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
	"github.com/neoneye/SwiftSnakeEngine-sub000/grid"
	"github.com/neoneye/SwiftSnakeEngine-sub000/mcts"
)

var ErrUnknownStrategy = errors.New("unknown bot strategy")

const (
	StrategyGreedy     = "greedy"
	StrategyTreeSearch = "treesearch"
	StrategyMonteCarlo = "montecarlo"
	StrategyMCTree     = "mctree"
)

// Factory builds a fresh planner. seed feeds planners that sample.
type Factory func(seed uint64) game.Planner

var factories = map[string]Factory{
	StrategyGreedy:     func(uint64) game.Planner { return Greedy{} },
	StrategyTreeSearch: func(uint64) game.Planner { return NewTreeSearch(DefaultTreeSearchConfig()) },
	StrategyMonteCarlo: func(seed uint64) game.Planner { return NewMonteCarlo(DefaultMonteCarloConfig(), seed) },
	StrategyMCTree:     func(seed uint64) game.Planner { return mcts.NewPlanner(mcts.DefaultConfig(), seed) },
}

// New returns the planner registered under name.
func New(name string, seed uint64) (game.Planner, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return f(seed), nil
}

// NewWithTreeConfig is New with an explicit configuration for the persistent tree planner.
func NewWithTreeConfig(name string, seed uint64, cfg mcts.Config) (game.Planner, error) {
	if name == StrategyMCTree {
		return mcts.NewPlanner(cfg, seed), nil
	}
	return New(name, seed)
}

// Strategies lists the registered strategy names in sorted order.
func Strategies() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// obstacles blocks walls, self and the opponent when it is installed. Dead
// opponents stay on the board.
func obstacles(level *game.Level, self, opponent game.Player) *grid.Grid {
	g := grid.New(level, self.Body())
	if opponent.Installed() && !opponent.Body().IsZero() {
		g.BlockBody(opponent.Body())
	}
	return g
}

// largestArea compares the moves whose next cell is free and picks the one
// leading to the largest reachable area. Forward wins ties. With no free
// cell at all it returns forward.
func largestArea(g *grid.Grid, body game.Body) game.Movement {
	best := game.MoveForward
	bestArea := -1
	for _, m := range [3]game.Movement{game.MoveForward, game.MoveCCW, game.MoveCW} {
		next := body.SimulateTick(m).Position
		if !g.Free(next) {
			continue
		}
		area := g.FloodFill(next, 0) + 1
		if area > bestArea {
			best, bestArea = m, area
		}
	}
	return best
}
