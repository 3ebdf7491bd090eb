// Package mcts implements the persistent Monte-Carlo tree planner. The tree
// lives in an arena of nodes addressed by int32 indices and is re-rooted,
// not rebuilt, when the game advances along a branch it already explored.
package mcts

import (
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// Kind tags what a node stands for.
type Kind uint8

const (
	// KindRoot has exactly one child: the first unresolved decision.
	KindRoot Kind = iota
	// KindMoveChoiceSet holds one player's candidate moves for a tick.
	KindMoveChoiceSet
	// KindMoveChoice is one candidate move and the head position it leads to.
	KindMoveChoice
	// KindFoodPlacement holds sampled positions for the next food. A bare
	// leaf child stands for a board with no free cell left.
	KindFoodPlacement
	// KindFoodPlacementChoice is one sampled food position.
	KindFoodPlacementChoice
	// KindKill is terminal: at least one player died.
	KindKill
	// KindLeaf is the unexplored frontier.
	KindLeaf
)

var kindNames = [...]string{"root", "move_choice_set", "move_choice", "food_placement", "food_placement_choice", "kill", "leaf"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is one arena entry. Fields beyond Kind, Parent and Children are only
// meaningful for the kinds noted.
type Node struct {
	Kind     Kind
	Parent   int32
	Children []int32

	// Player whose move this is (move choice set, move choice).
	Player game.PlayerID
	// Move of a move choice.
	Move game.Movement
	// Position is the resulting head for a move choice, the food cell for a
	// food placement choice.
	Position game.Position
	// Options are the moves left after wall pruning (move choice set).
	Options []game.Movement
	Pruned  bool
	// SelfKilled and OpponentKilled describe a kill node.
	SelfKilled     bool
	OpponentKilled bool
	Cause          game.Cause
	// Best marks the path of the last winning scenario.
	Best bool
}

func (n *Node) hasChildAt(p game.Position, nodes []Node) bool {
	for _, c := range n.Children {
		if nodes[c].Kind == KindFoodPlacementChoice && nodes[c].Position == p {
			return true
		}
	}
	return false
}

func (n *Node) hasMove(m game.Movement, nodes []Node) bool {
	for _, c := range n.Children {
		if nodes[c].Move == m {
			return true
		}
	}
	return false
}

const noParent int32 = -1
