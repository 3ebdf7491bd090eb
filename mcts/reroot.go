package mcts

import (
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// inferMove finds the move that turned before into after, given the act
// that was pending for that tick.
func inferMove(before game.Body, act game.Act, after game.Body) (game.Movement, bool) {
	m, ok := before.MoveToward(after.HeadPosition())
	if !ok || m == game.MoveNone {
		return game.MoveNone, false
	}
	if !before.StateForTick(m, act).Equal(after) {
		return game.MoveNone, false
	}
	return m, true
}

// matchChoice returns the move choice under a choice set that leads to head.
// Tagged children are tried first.
func (p *Planner) matchChoice(set int32, player game.PlayerID, head game.Position) (int32, bool) {
	n := p.nodes[set]
	if n.Kind != KindMoveChoiceSet || n.Player != player {
		return 0, false
	}
	for pass := 0; pass < 2; pass++ {
		for _, c := range n.Children {
			child := p.nodes[c]
			if child.Best != (pass == 0) {
				continue
			}
			if child.Position == head {
				return c, true
			}
		}
	}
	return 0, false
}

// reroot follows what actually happened since the last tick down from the
// root and makes the matching subtree the new tree. It reports false when
// the tree cannot be reused, plus the number of nodes it had to insert.
func (p *Planner) reroot(self, opponent game.Player, food *game.Position) (bool, int) {
	prev := p.root
	if prev.oppActive != opponent.Active() {
		return false, 0
	}
	if _, ok := inferMove(prev.self, prev.selfAct, self.Body()); !ok {
		return false, 0
	}

	idx := p.nodes[0].Children[0]
	treeFood := prev.food
	if p.nodes[idx].Kind == KindFoodPlacement {
		// The food was placed after the last plan. If it was eaten since,
		// it lay under the eater's head.
		placed := food
		if eaten := eatenFood(self, opponent); eaten != nil {
			placed = eaten
		}
		var ok bool
		if idx, ok = p.followFood(idx, placed); !ok {
			return false, 0
		}
		treeFood = placed
	}

	var ok bool
	if idx, ok = p.matchChoice(idx, self.ID(), self.Body().HeadPosition()); !ok {
		return false, 0
	}
	if len(p.nodes[idx].Children) == 0 {
		return false, 0
	}
	idx = p.nodes[idx].Children[0]

	if prev.oppActive {
		if _, ok := inferMove(prev.opp, prev.oppAct, opponent.Body()); !ok {
			return false, 0
		}
		if idx, ok = p.matchChoice(idx, opponent.ID(), opponent.Body().HeadPosition()); !ok {
			return false, 0
		}
		if len(p.nodes[idx].Children) == 0 {
			return false, 0
		}
		idx = p.nodes[idx].Children[0]
	}

	inserted := 0
	switch p.nodes[idx].Kind {
	case KindFoodPlacement:
		if food == nil {
			// Eaten this tick and not replaced yet: the placement itself
			// becomes the top of the tree.
			break
		}
		next, ok := p.followFood(idx, food)
		if !ok {
			choice := p.add(idx, Node{Kind: KindFoodPlacementChoice, Position: *food})
			next = p.add(choice, Node{Kind: KindLeaf})
			inserted = 2
		}
		idx = next
	case KindLeaf, KindMoveChoiceSet:
		if !samePosition(treeFood, food) {
			return false, 0
		}
	default:
		return false, 0
	}

	return true, p.compact(idx, inserted)
}

// followFood returns the node below a food placement for the given food,
// or the bare leaf when no food was placed.
func (p *Planner) followFood(placement int32, food *game.Position) (int32, bool) {
	for _, c := range p.nodes[placement].Children {
		n := p.nodes[c]
		switch {
		case food == nil && n.Kind != KindFoodPlacementChoice:
			return c, true
		case food != nil && n.Kind == KindFoodPlacementChoice && n.Position == *food && len(n.Children) > 0:
			return n.Children[0], true
		}
	}
	return 0, false
}

// eatenFood returns the cell of the food a player ate this tick.
func eatenFood(self, opponent game.Player) *game.Position {
	for _, pl := range [2]game.Player{self, opponent} {
		if pl.Active() && pl.PendingAct() == game.ActEat {
			h := pl.Body().HeadPosition()
			return &h
		}
	}
	return nil
}

func samePosition(a, b *game.Position) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// compact copies the subtree under idx into a fresh arena below a new root.
// The last inserted nodes of the old arena were added by this re-root; it
// returns how many of them made it into the copy.
func (p *Planner) compact(idx int32, inserted int) int {
	firstInserted := int32(len(p.nodes) - inserted)
	out := make([]Node, 1, len(p.nodes))
	out[0] = Node{Kind: KindRoot, Parent: noParent}
	copied := 0

	type item struct{ old, parent int32 }
	queue := []item{{old: idx, parent: 0}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		n := p.nodes[it.old]
		n.Parent = it.parent
		n.Best = false
		children := n.Children
		n.Children = nil
		if inserted > 0 && it.old >= firstInserted {
			copied++
		}
		newIdx := int32(len(out))
		out = append(out, n)
		out[it.parent].Children = append(out[it.parent].Children, newIdx)
		for _, c := range children {
			queue = append(queue, item{old: c, parent: newIdx})
		}
	}
	p.nodes = out
	return copied
}
