package bot

import (
	"sort"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
	"github.com/neoneye/SwiftSnakeEngine-sub000/grid"
)

type TreeSearchConfig struct {
	// Depth is the number of plies in the ternary tree.
	Depth int
	// MaxCandidates caps how many of the best leaves get the flood-fill
	// check. The scan stops at the first leaf that is not a trap, so this is
	// also the number of certain-death leaves it tolerates.
	MaxCandidates int
}

func DefaultTreeSearchConfig() TreeSearchConfig {
	return TreeSearchConfig{Depth: 7, MaxCandidates: 200}
}

// TreeSearch expands every turn/forward/turn sequence up to a fixed depth,
// prunes walls and self collisions, and filters out leaves that end in an
// area too small for the snake.
type TreeSearch struct {
	cfg TreeSearchConfig
}

func NewTreeSearch(cfg TreeSearchConfig) TreeSearch {
	if cfg.Depth < 1 {
		cfg.Depth = 1
	}
	return TreeSearch{cfg: cfg}
}

// tsNode is one ply. The move history of a leaf is recovered by walking
// parent indices, so nodes carry no slices.
type tsNode struct {
	parent int32
	move   game.Movement
	head   game.Head
}

type tsLeaf struct {
	moves []game.Movement
	body  game.Body
	score int32
}

func (t TreeSearch) Plan(level *game.Level, self, opponent game.Player, food *game.Position) (game.Planner, game.Movement) {
	if !self.Active() {
		return t, game.MoveForward
	}
	body := self.Body()
	obs := obstacles(level, self, opponent)

	nodes, leaves, depth := t.expand(level, body.Head())
	if len(leaves) == 0 {
		return t, largestArea(obs, body)
	}

	var oppBody game.Body
	if opponent.Installed() {
		oppBody = opponent.Body()
	}

	// Pass two: replay the full body along each leaf and drop self or
	// opponent collisions.
	moves := make([]game.Movement, depth)
	survivors := make([]tsLeaf, 0, len(leaves))
	for _, leaf := range leaves {
		materialize(nodes, leaf, moves)
		b := body
		act := self.PendingAct()
		foodTick := int32(-1)
		dead := false
		for i, m := range moves {
			b = b.StateForTick(m, act)
			act = game.ActNothing
			if b.IsEatingItself() || (!oppBody.IsZero() && oppBody.Contains(b.HeadPosition())) {
				dead = true
				break
			}
			if food != nil && foodTick < 0 && b.HeadPosition() == *food {
				foodTick = int32(i + 1)
				act = game.ActEat
			}
		}
		if dead {
			continue
		}
		survivors = append(survivors, tsLeaf{
			moves: append([]game.Movement(nil), moves...),
			body:  b,
			score: scoreLeaf(level, b.HeadPosition(), food, foodTick, int32(len(moves))),
		})
	}
	if len(survivors) == 0 {
		return t, largestArea(obs, body)
	}
	sort.SliceStable(survivors, func(i, j int) bool { return survivors[i].score < survivors[j].score })

	// Pass three: the first leaf that leaves room for the whole snake wins.
	limit := min(len(survivors), max(t.cfg.MaxCandidates, 1))
	fallback, fallbackArea := -1, -1
	for i := 0; i < limit; i++ {
		leaf := survivors[i]
		g := grid.New(level, leaf.body)
		if !oppBody.IsZero() {
			g.BlockBody(oppBody)
		}
		area := g.FloodFill(leaf.body.HeadPosition(), leaf.body.Length())
		if area >= leaf.body.Length() {
			return t, leaf.moves[0]
		}
		if area > fallbackArea {
			fallback, fallbackArea = i, area
		}
	}
	if fallback >= 0 {
		return t, survivors[fallback].moves[0]
	}
	return t, game.MoveForward
}

// expand builds the tree breadth first, stopping a branch at the first wall.
// It returns the node arena plus the deepest non-empty frontier and its depth.
func (t TreeSearch) expand(level *game.Level, head game.Head) (nodes []tsNode, leaves []int32, depth int) {
	nodes = []tsNode{{parent: -1, move: game.MoveNone, head: head}}
	frontier := []int32{0}
	for d := 1; d <= t.cfg.Depth; d++ {
		next := make([]int32, 0, len(frontier)*3)
		for _, idx := range frontier {
			for _, m := range game.Moves {
				h := nodes[idx].head.SimulateTick(m)
				if level.IsWall(h.Position) {
					continue
				}
				nodes = append(nodes, tsNode{parent: idx, move: m, head: h})
				next = append(next, int32(len(nodes)-1))
			}
		}
		if len(next) == 0 {
			break
		}
		frontier, depth = next, d
	}
	if depth == 0 {
		return nodes, nil, 0
	}
	return nodes, frontier, depth
}

// materialize writes the moves leading to leaf into dst, root first.
// dst must be exactly as long as the leaf's depth.
func materialize(nodes []tsNode, leaf int32, dst []game.Movement) {
	for i, idx := len(dst)-1, leaf; i >= 0; i, idx = i-1, nodes[idx].parent {
		dst[i] = nodes[idx].move
	}
}

// scoreLeaf estimates ticks to food: exact when the path eats it, otherwise
// the plies taken plus the level's distance estimate from the leaf, with
// Manhattan distance when the estimate has no route.
func scoreLeaf(level *game.Level, head game.Position, food *game.Position, foodTick, plies int32) int32 {
	if foodTick > 0 {
		return foodTick
	}
	if food == nil {
		return plies
	}
	if d, ok := level.EstimateDistance(head, *food); ok {
		return plies + d
	}
	return plies + head.ManhattanDistance(*food)
}
