package engine

import (
	"fmt"
	"log/slog"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
	"github.com/neoneye/SwiftSnakeEngine-sub000/rules"
)

// ReplayEnvironment steps through a Recording. Movements come from the
// recorded head positions and food from the recorded placements; a player
// whose positions run out dies with its recorded cause.
type ReplayEnvironment struct {
	level   *game.Level
	rec     Recording
	initial game.State
	state   game.State
	history []game.State
	log     *slog.Logger
}

func NewReplayEnvironment(level *game.Level, rec Recording, log *slog.Logger) (*ReplayEnvironment, error) {
	if level.ID() != rec.LevelID {
		panic(fmt.Sprintf("replay of %s on level %s", rec.LevelID, level.ID()))
	}
	var players [2]game.Player
	for i, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		if !rec.Installed(id) {
			players[i] = game.NewUninstalledPlayer(id)
			continue
		}
		body, err := game.NewBodyFromPositions(rec.Bodies[i][0])
		if err != nil {
			return nil, fmt.Errorf("replay %s player %v: %w", rec.GameID, id, err)
		}
		players[i] = game.NewPlayer(id, rec.Roles[i], body)
	}
	s := game.NewState(level, players[0], players[1], rec.Seed)
	if len(rec.Food) > 0 && rec.Food[0].Present {
		s = s.WithFood(rec.Food[0].Position)
	}
	return &ReplayEnvironment{
		level:   level,
		rec:     rec,
		initial: s,
		state:   s,
		log:     discardLogger(log),
	}, nil
}

func (r *ReplayEnvironment) State() game.State { return r.state }
func (r *ReplayEnvironment) History() int      { return len(r.history) }

// Done reports whether the recording has no further ticks.
func (r *ReplayEnvironment) Done() bool {
	return r.state.IsOver() || int(r.state.Step()) >= r.rec.Steps()
}

func (r *ReplayEnvironment) Reset() game.State {
	r.history = r.history[:0]
	r.state = r.initial
	return r.state
}

// Step ignores intents; every movement is taken from the recording.
func (r *ReplayEnvironment) Step(map[game.PlayerID]game.Movement) game.State {
	s := r.state
	if r.Done() {
		return s
	}
	next := int(s.Step()) + 1

	var dies [2]bool
	for i, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		p := s.Player(id)
		if !p.Active() {
			continue
		}
		bodies := r.rec.Bodies[i]
		if next >= len(bodies) {
			dies[i] = r.rec.Causes[i] != game.CauseNone
			continue
		}
		dies[i] = next == len(bodies)-1 && r.rec.Causes[i] != game.CauseNone
		head := bodies[next][0]
		if head == p.Body().HeadPosition() {
			continue
		}
		m, ok := p.Body().MoveToward(head)
		if !ok || m == game.MoveNone {
			r.log.Warn("recorded head is not reachable", "player", id, "step", next)
			m = game.MoveForward
		}
		s = s.WithPlayer(p.WithPendingMovement(m))
	}

	r.history = append(r.history, r.state)
	s = applyCollision(s, replayEats(s), r.log)
	for i, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		if p := s.Player(id); dies[i] && p.Alive() {
			s = s.WithPlayer(p.Kill(r.rec.Causes[i]))
		}
	}
	s = s.WithoutFood()
	if next < len(r.rec.Food) && r.rec.Food[next].Present {
		s = s.WithFood(r.rec.Food[next].Position)
	}
	s = s.IncrementStep()
	r.state = s
	return s
}

func (r *ReplayEnvironment) Undo() (game.State, bool) {
	if len(r.history) == 0 {
		return r.state, false
	}
	r.state = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	return r.state, true
}

// replayEats reports who steps onto the food. Deaths come from the
// recording, so nobody is killed here.
func replayEats(s game.State) rules.Collision {
	var out rules.Collision
	f, ok := s.Food()
	if !ok {
		return out
	}
	out.Player1.EatsFood = eats(s.Player1(), f)
	out.Player2.EatsFood = eats(s.Player2(), f)
	return out
}

func eats(p game.Player, food game.Position) bool {
	return p.Active() && p.PendingMovement() != game.MoveNone && p.Body().SimulateTick(p.PendingMovement()).Position == food
}
