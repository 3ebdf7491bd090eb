package engine

import (
	"fmt"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// Recording is a finished game as the replay loop needs it. Index k of the
// per-step slices is the state after k ticks.
type Recording struct {
	GameID  string
	LevelID string
	Seed    uint64
	Roles   [2]game.Role
	// Bodies holds head-first positions per player and step. For a player
	// that died the slice ends at the step where it is first seen dead, and
	// Causes holds why.
	Bodies [2][][]game.Position
	Food   []FoodAt
	Causes [2]game.Cause
}

// FoodAt is the food on the board at one step.
type FoodAt struct {
	Present  bool
	Position game.Position
}

func (r Recording) Installed(id game.PlayerID) bool {
	return r.Roles[id-1].Kind != game.RoleNone && len(r.Bodies[id-1]) > 0
}

// Steps is the number of ticks the recording covers.
func (r Recording) Steps() int {
	return max(len(r.Food), 1) - 1
}

// RecordingFromStates builds a recording from consecutive snapshots, for
// example an Environment's history plus its current state.
func RecordingFromStates(gameID string, states []game.State) (Recording, error) {
	if len(states) == 0 {
		return Recording{}, fmt.Errorf("recording %s: no states", gameID)
	}
	first := states[0]
	r := Recording{
		GameID:  gameID,
		LevelID: first.Level().ID(),
		Seed:    first.FoodSeed(),
		Roles:   [2]game.Role{first.Player1().Role(), first.Player2().Role()},
	}
	var closed [2]bool
	for _, s := range states {
		f, ok := s.Food()
		r.Food = append(r.Food, FoodAt{Present: ok, Position: f})
		for i, id := range [2]game.PlayerID{game.Player1, game.Player2} {
			p := s.Player(id)
			if !p.Installed() || closed[i] {
				continue
			}
			r.Bodies[i] = append(r.Bodies[i], p.Body().Positions())
			closed[i] = !p.Alive()
		}
	}
	last := states[len(states)-1]
	for i, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		r.Causes[i] = last.Player(id).LastCause()
	}
	return r, nil
}
