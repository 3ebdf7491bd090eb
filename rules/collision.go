// Package rules holds the pure per-tick rules of the game: collision detection,
// seeded food placement and stuck-loop detection.
package rules

import (
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// Outcome is what the collision rules decided for one player this tick.
type Outcome struct {
	Killed   bool
	Cause    game.Cause
	EatsFood bool
}

// Collision holds the outcome for both players. It never mutates state;
// the step loop applies it.
type Collision struct {
	Player1 Outcome
	Player2 Outcome
}

func (c Collision) For(id game.PlayerID) Outcome {
	if id == game.Player2 {
		return c.Player2
	}
	return c.Player1
}

// Contender is one player's proposed move for the tick.
// Next is the body after the pending movement, computed without eating.
type Contender struct {
	Installed bool
	Alive     bool
	Next      game.Body
}

// Propose builds the contender for p from its pending movement.
func Propose(p game.Player) Contender {
	c := Contender{Installed: p.Installed(), Alive: p.Alive(), Next: p.Body()}
	if p.Active() {
		c.Next = p.Body().StateForTick(p.PendingMovement(), game.ActNothing)
	}
	return c
}

// DetectCollision evaluates the rules against the players' pending movements.
func DetectCollision(s game.State) Collision {
	return Resolve(s.Level(), s.FoodRef(), Propose(s.Player1()), Propose(s.Player2()))
}

// Resolve applies the collision rules in order: walls, head to head, opponent body,
// own body, food. A player killed by an earlier rule skips the later ones.
func Resolve(level *game.Level, food *game.Position, c1, c2 Contender) Collision {
	var out Collision
	if !c1.Installed && !c2.Installed {
		return out
	}
	alive1 := c1.Installed && c1.Alive
	alive2 := c2.Installed && c2.Alive
	head1 := c1.Next.HeadPosition()
	head2 := c2.Next.HeadPosition()

	kill := func(o *Outcome, alive *bool, cause game.Cause) {
		o.Killed = true
		o.Cause = cause
		*alive = false
	}

	if alive1 && level.IsWall(head1) {
		kill(&out.Player1, &alive1, game.CauseWall)
	}
	if alive2 && level.IsWall(head2) {
		kill(&out.Player2, &alive2, game.CauseWall)
	}
	if !alive1 && !alive2 {
		return out
	}

	if alive1 && alive2 && head1 == head2 {
		kill(&out.Player1, &alive1, game.CauseOpponent)
		kill(&out.Player2, &alive2, game.CauseOpponent)
		return out
	}

	// Both checks look at the proposed bodies, so their order does not matter.
	hit1 := alive1 && c2.Installed && c2.Next.Contains(head1)
	hit2 := alive2 && c1.Installed && c1.Next.Contains(head2)
	if hit1 {
		kill(&out.Player1, &alive1, game.CauseOpponent)
	}
	if hit2 {
		kill(&out.Player2, &alive2, game.CauseOpponent)
	}
	if !alive1 && !alive2 {
		return out
	}

	if alive1 && c1.Next.IsEatingItself() {
		kill(&out.Player1, &alive1, game.CauseSelf)
	}
	if alive2 && c2.Next.IsEatingItself() {
		kill(&out.Player2, &alive2, game.CauseSelf)
	}

	if food != nil {
		out.Player1.EatsFood = alive1 && head1 == *food
		out.Player2.EatsFood = alive2 && head2 == *food
	}
	return out
}
