// Package engine runs games: the live step loop with bots and humans, the
// replay loop driven by a recording, and a decorator that hands every
// snapshot to a dataset recorder.
package engine

import (
	"errors"
	"log/slog"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
	"github.com/neoneye/SwiftSnakeEngine-sub000/rules"
)

var ErrNoStartBody = errors.New("level has no start body for player")

// Stepper is what a front-end drives, one tick per call.
type Stepper interface {
	Reset() game.State
	Step(intents map[game.PlayerID]game.Movement) game.State
	Undo() (game.State, bool)
	State() game.State
	History() int
}

// Seat describes who controls one snake.
type Seat struct {
	Role game.Role
	// NewPlanner builds the planner for a bot seat. It is called on every
	// reset so a replayed game starts from the same planner state.
	NewPlanner func() game.Planner
}

func HumanSeat() Seat { return Seat{Role: game.HumanRole()} }

func BotSeat(strategy string, newPlanner func() game.Planner) Seat {
	return Seat{Role: game.BotRole(strategy), NewPlanner: newPlanner}
}

// InitialState places each seated player on the level's preset body and the
// level's initial food, if any. Seats with RoleNone are left uninstalled.
func InitialState(level *game.Level, seats [2]Seat, seed uint64) (game.State, error) {
	var players [2]game.Player
	for i, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		seat := seats[i]
		if seat.Role.Kind == game.RoleNone {
			players[i] = game.NewUninstalledPlayer(id)
			continue
		}
		body, ok := level.InitialBody(id)
		if !ok {
			return game.State{}, ErrNoStartBody
		}
		p := game.NewPlayer(id, seat.Role, body)
		if seat.Role.Kind == game.RoleBot && seat.NewPlanner != nil {
			p = p.WithPlanner(seat.NewPlanner())
		}
		players[i] = p
	}
	s := game.NewState(level, players[0], players[1], seed)
	if f, ok := level.InitialFood(); ok {
		s = s.WithFood(f)
	}
	return s, nil
}

// applyCollision advances every active player by its pending movement, or
// kills it with the cause the rules found. Food eaten this tick is cleared
// and the eater grows on its next tick.
func applyCollision(s game.State, out rules.Collision, log *slog.Logger) game.State {
	eaten := false
	for _, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		p := s.Player(id)
		if !p.Active() {
			continue
		}
		o := out.For(id)
		if o.Killed {
			log.Info("player died", "player", id, "cause", o.Cause, "step", s.Step(), "length", p.Length())
			s = s.WithPlayer(p.Kill(o.Cause))
			continue
		}
		body := p.Body().StateForTick(p.PendingMovement(), p.PendingAct())
		p = p.WithBody(body).WithPendingMovement(game.MoveNone).WithPendingAct(game.ActNothing)
		if o.EatsFood {
			p = p.WithPendingAct(game.ActEat)
			eaten = true
		}
		s = s.WithPlayer(p)
	}
	if eaten {
		s = s.WithoutFood()
	}
	return s
}

func clearHumanIntents(s game.State) game.State {
	for _, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		if p := s.Player(id); p.IsHuman() && p.PendingMovement() != game.MoveNone {
			s = s.WithPlayer(p.WithPendingMovement(game.MoveNone))
		}
	}
	return s
}

func discardLogger(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return log
}
