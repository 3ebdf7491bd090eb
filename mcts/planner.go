package mcts

import (
	"math/rand"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
	"github.com/neoneye/SwiftSnakeEngine-sub000/rules"
)

// Stats describes the last Plan call.
type Stats struct {
	// Rerooted is false when the tree had to be rebuilt from scratch.
	Rerooted bool
	// Kept is the number of nodes carried over from the previous tree,
	// including the new root.
	Kept int
	// Inserted is the number of nodes added this tick.
	Inserted  int
	Scenarios int
}

// rootState is the game state the current root stands for.
type rootState struct {
	self      game.Body
	selfAct   game.Act
	opp       game.Body
	oppAct    game.Act
	oppActive bool
	food      *game.Position
}

// Planner owns its tree exclusively and mutates it in place between ticks,
// so Plan returns the receiver. It must not be shared between players.
type Planner struct {
	cfg   Config
	seed  uint64
	tick  uint64
	level *game.Level
	self  game.PlayerID
	nodes []Node
	root  rootState
	stats Stats
}

func NewPlanner(cfg Config, seed uint64) *Planner {
	if cfg.MaxDepth < 1 {
		cfg.MaxDepth = 1
	}
	if cfg.MaxNodes < 16 {
		cfg.MaxNodes = 16
	}
	return &Planner{cfg: cfg, seed: seed}
}

func (p *Planner) Count() int          { return len(p.nodes) }
func (p *Planner) Stats() Stats        { return p.stats }
func (p *Planner) Node(idx int32) Node { return p.nodes[idx] }
func (p *Planner) Config() Config      { return p.cfg }

func (p *Planner) full() bool       { return !p.room(1) }
func (p *Planner) room(n int) bool { return len(p.nodes)+n <= p.cfg.MaxNodes }

func (p *Planner) Plan(level *game.Level, self, opponent game.Player, food *game.Position) (game.Planner, game.Movement) {
	if !self.Active() {
		return p, game.MoveForward
	}
	rng := rand.New(rand.NewSource(int64(rules.Mix(p.seed, p.tick))))
	p.tick++

	stats := Stats{}
	inserted := 0
	if p.level == level && p.self == self.ID() && len(p.nodes) > 0 {
		stats.Rerooted, inserted = p.reroot(self, opponent, food)
	}
	if !stats.Rerooted {
		p.fresh(level, food == nil)
		inserted = len(p.nodes)
	}
	stats.Kept = len(p.nodes) - inserted
	p.self = self.ID()
	p.root = rootState{
		self:      self.Body(),
		selfAct:   self.PendingAct(),
		opp:       opponent.Body(),
		oppAct:    opponent.PendingAct(),
		oppActive: opponent.Active(),
		food:      food,
	}

	start := newSim(self, opponent, food)
	g := grower{p: p, rng: rng, hint: food}
	p.walk(0, start, g.visit)
	stats.Inserted = inserted + g.added

	scenarios := p.scenarios(start)
	stats.Scenarios = len(scenarios)
	p.stats = stats
	best, ok := pickBest(scenarios)
	if !ok {
		return p, game.MoveForward
	}
	p.tag(best.Terminal)
	if !best.HasMove {
		return p, game.MoveForward
	}
	return p, best.FirstMove
}

// fresh discards the tree and starts over with a root and an empty leaf.
// While the next food is still to be placed the tree opens with a food
// placement instead, so the walk samples where it may land.
func (p *Planner) fresh(level *game.Level, foodPending bool) {
	p.level = level
	p.nodes = p.nodes[:0]
	first := KindLeaf
	if foodPending {
		first = KindFoodPlacement
	}
	p.nodes = append(p.nodes,
		Node{Kind: KindRoot, Parent: noParent, Children: []int32{1}},
		Node{Kind: first, Parent: 0},
	)
}

// add appends n under parent and returns its index.
func (p *Planner) add(parent int32, n Node) int32 {
	n.Parent = parent
	idx := int32(len(p.nodes))
	p.nodes = append(p.nodes, n)
	p.nodes[parent].Children = append(p.nodes[parent].Children, idx)
	return idx
}

// walk visits the tree depth first, rebuilding the game state along the
// way. visit runs before a node's children are read and may add children;
// returning false skips the subtree.
func (p *Planner) walk(idx int32, s sim, visit func(idx int32, s *sim) bool) {
	if p.nodes[idx].Kind == KindFoodPlacementChoice {
		s.food, s.hasFood = p.nodes[idx].Position, true
	}
	if !visit(idx, &s) {
		return
	}
	n := p.nodes[idx]
	if n.Kind == KindMoveChoice {
		s.setMove(n.Player, n.Move)
		if s.lastMover(n.Player) {
			s.advance(p.level)
		}
	}
	for _, c := range n.Children {
		p.walk(c, s, visit)
	}
}

// tag clears every Best flag and sets it along the path to terminal.
func (p *Planner) tag(terminal int32) {
	for i := range p.nodes {
		p.nodes[i].Best = false
	}
	for idx := terminal; idx != noParent; idx = p.nodes[idx].Parent {
		p.nodes[idx].Best = true
	}
}

// BestPath returns the controlled player's moves along the tagged path.
func (p *Planner) BestPath() []game.Movement {
	var moves []game.Movement
	idx := int32(0)
	for idx >= 0 {
		n := p.nodes[idx]
		if n.Kind == KindMoveChoice && n.Player == p.self {
			moves = append(moves, n.Move)
		}
		next := noParent
		for _, c := range n.Children {
			if p.nodes[c].Best {
				next = c
				break
			}
		}
		idx = next
	}
	return moves
}
