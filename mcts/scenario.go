package mcts

import (
	"math"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// Scenario is one terminal or frontier outcome of the tree as seen by the
// controlled player.
type Scenario struct {
	Terminal     int32
	FirstMove    game.Movement
	HasMove      bool
	CertainDeath bool
	Ticks        int
	Foods        int
	Distance     int32
}

// Better orders scenarios: survivable first, then more ticks, more food and
// a shorter distance to the food left on the board.
func (s Scenario) Better(o Scenario) bool {
	if s.CertainDeath != o.CertainDeath {
		return !s.CertainDeath
	}
	if s.Ticks != o.Ticks {
		return s.Ticks > o.Ticks
	}
	if s.Foods != o.Foods {
		return s.Foods > o.Foods
	}
	return s.Distance < o.Distance
}

func pickBest(scenarios []Scenario) (Scenario, bool) {
	if len(scenarios) == 0 {
		return Scenario{}, false
	}
	best := scenarios[0]
	for _, s := range scenarios[1:] {
		if s.Better(best) {
			best = s
		}
	}
	return best, true
}

// scenarios collects one scenario per node where a branch ends.
func (p *Planner) scenarios(start sim) []Scenario {
	var out []Scenario
	p.walk(0, start, func(idx int32, s *sim) bool {
		n := &p.nodes[idx]
		if len(n.Children) > 0 {
			return true
		}
		sc := Scenario{
			Terminal:  idx,
			FirstMove: s.first,
			HasMove:   s.hasFirst,
			Ticks:     s.depth,
			Foods:     s.selfFoods,
			Distance:  p.distanceToFood(s),
		}
		switch n.Kind {
		case KindKill:
			// The walk advanced the tick when it entered this node.
			sc.CertainDeath = s.selfDead
			if s.selfDead {
				sc.Ticks--
			} else {
				sc.Ticks = p.cfg.MaxDepth
			}
		case KindMoveChoiceSet:
			trapped := n.Pruned && len(n.Options) == 0
			if n.Player == s.selfID {
				sc.CertainDeath = trapped
			} else if trapped {
				sc.Ticks = p.cfg.MaxDepth
			}
		}
		out = append(out, sc)
		return false
	})
	return out
}

func (p *Planner) distanceToFood(s *sim) int32 {
	if !s.hasFood {
		return 0
	}
	if d, ok := p.level.EstimateDistance(s.self.HeadPosition(), s.food); ok {
		return d
	}
	return math.MaxInt32
}
