package mcts

import (
	"math/rand"
	"sort"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
	"github.com/neoneye/SwiftSnakeEngine-sub000/grid"
	"github.com/neoneye/SwiftSnakeEngine-sub000/rules"
)

// grower expands the frontier during one walk.
type grower struct {
	p     *Planner
	rng   *rand.Rand
	hint  *game.Position
	added int
}

func (g *grower) add(parent int32, n Node) int32 {
	g.added++
	return g.p.add(parent, n)
}

func (g *grower) visit(idx int32, s *sim) bool {
	p := g.p
	switch p.nodes[idx].Kind {
	case KindRoot, KindFoodPlacementChoice:
		return true
	case KindKill:
		return false
	case KindLeaf:
		if s.depth >= p.cfg.MaxDepth || p.full() {
			return false
		}
		p.nodes[idx].Kind = KindMoveChoiceSet
		p.nodes[idx].Player = s.selfID
		g.expandMoves(idx, s)
	case KindMoveChoiceSet:
		g.expandMoves(idx, s)
	case KindMoveChoice:
		if len(p.nodes[idx].Children) == 0 && !p.full() {
			g.resolveChoice(idx, s)
		}
	case KindFoodPlacement:
		g.expandFood(idx, s)
	}
	return true
}

// expandMoves prunes walls on the first visit, then adds untried moves in
// seeded random order until the breadth cap for this depth is reached.
func (g *grower) expandMoves(idx int32, s *sim) {
	p := g.p
	n := &p.nodes[idx]
	body := s.body(n.Player)
	if !n.Pruned {
		n.Pruned = true
		for _, m := range game.Moves {
			if !p.level.IsWall(body.SimulateTick(m).Position) {
				n.Options = append(n.Options, m)
			}
		}
	}

	caps := p.cfg.SelfBreadth
	if n.Player != s.selfID {
		caps = p.cfg.OpponentBreadth
	}
	limit := breadthAt(caps, s.depth)
	if len(n.Children) >= limit {
		return
	}
	var untried []game.Movement
	for _, m := range n.Options {
		if !n.hasMove(m, p.nodes) {
			untried = append(untried, m)
		}
	}
	g.rng.Shuffle(len(untried), func(i, j int) { untried[i], untried[j] = untried[j], untried[i] })
	player := n.Player
	for _, m := range untried {
		if len(p.nodes[idx].Children) >= limit || p.full() {
			return
		}
		g.add(idx, Node{
			Kind:     KindMoveChoice,
			Player:   player,
			Move:     m,
			Position: body.SimulateTick(m).Position,
		})
	}
}

// resolveChoice gives a move choice its single child: the opponent's choice
// set, or the outcome of the tick once both players have moved.
func (g *grower) resolveChoice(idx int32, s *sim) {
	p := g.p
	n := p.nodes[idx]
	if !s.lastMover(n.Player) {
		g.add(idx, Node{Kind: KindMoveChoiceSet, Player: n.Player.Opponent()})
		return
	}
	next := *s
	next.setMove(n.Player, n.Move)
	out := next.resolve(p.level)
	switch {
	case out.Player1.Killed || out.Player2.Killed:
		cause := out.Player1.Cause
		if !out.Player1.Killed {
			cause = out.Player2.Cause
		}
		g.add(idx, Node{
			Kind:           KindKill,
			SelfKilled:     out.Player1.Killed,
			OpponentKilled: out.Player2.Killed,
			Cause:          cause,
		})
	case out.Player1.EatsFood || out.Player2.EatsFood:
		g.add(idx, Node{Kind: KindFoodPlacement})
	default:
		g.add(idx, Node{Kind: KindLeaf})
	}
}

// expandFood samples reachable free cells not already covered by a child.
// With a known real food position, candidates closest to it by the level's
// distance estimate come first.
func (g *grower) expandFood(idx int32, s *sim) {
	p := g.p
	limit := p.cfg.foodCap(s.eaten)
	if len(p.nodes[idx].Children) >= limit || !p.room(2) {
		return
	}

	var bodies []game.Body
	if !s.selfDead {
		bodies = append(bodies, s.self)
	}
	if s.oppInstalled {
		bodies = append(bodies, s.opp)
	}
	reach := grid.New(p.level, bodies...).Distances(s.self.HeadPosition())
	var candidates []game.Position
	for _, c := range rules.FreeCells(p.level, bodies...) {
		if _, ok := reach.At(c); !ok {
			continue
		}
		if p.nodes[idx].hasChildAt(c, p.nodes) {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		if len(p.nodes[idx].Children) == 0 {
			g.add(idx, Node{Kind: KindLeaf})
		}
		return
	}
	g.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	if g.hint != nil {
		hint := *g.hint
		rank := func(c game.Position) int32 {
			if d, ok := p.level.EstimateDistance(c, hint); ok {
				return d
			}
			return 1 << 30
		}
		sort.SliceStable(candidates, func(i, j int) bool { return rank(candidates[i]) < rank(candidates[j]) })
	}

	for _, c := range candidates {
		if len(p.nodes[idx].Children) >= limit || !p.room(2) {
			return
		}
		choice := g.add(idx, Node{Kind: KindFoodPlacementChoice, Position: c})
		g.add(choice, Node{Kind: KindLeaf})
	}
}
