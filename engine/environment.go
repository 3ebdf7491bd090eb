package engine

import (
	"log/slog"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
	"github.com/neoneye/SwiftSnakeEngine-sub000/rules"
)

type Options struct {
	Logger *slog.Logger
	// StuckThreshold overrides rules.DefaultStuckThreshold when positive.
	StuckThreshold int
}

// Environment is the live step loop. Snapshots are immutable, so the undo
// stack holds them directly.
type Environment struct {
	level   *game.Level
	seats   [2]Seat
	seed    uint64
	state   game.State
	history []game.State
	stuck   [2]*rules.StuckDetector
	log     *slog.Logger
}

func NewEnvironment(level *game.Level, seats [2]Seat, seed uint64, opts Options) (*Environment, error) {
	s, err := InitialState(level, seats, seed)
	if err != nil {
		return nil, err
	}
	e := &Environment{
		level: level,
		seats: seats,
		seed:  seed,
		state: s,
		log:   discardLogger(opts.Logger),
	}
	for i := range e.stuck {
		e.stuck[i] = rules.NewStuckDetector(opts.StuckThreshold)
	}
	return e, nil
}

func (e *Environment) State() game.State { return e.state }
func (e *Environment) History() int      { return len(e.history) }

// Reset rewinds to the initial configuration with fresh planners, places
// food if the level has none and lets the bots pick their first move.
func (e *Environment) Reset() game.State {
	s, err := InitialState(e.level, e.seats, e.seed)
	if err != nil {
		// The seats were validated by NewEnvironment.
		panic(err)
	}
	e.history = e.history[:0]
	for _, d := range e.stuck {
		d.Reset()
	}
	s = e.placeFood(s)
	s = e.planBots(s)
	e.state = s
	e.log.Debug("reset", "level", e.level.ID(), "seed", e.seed)
	return s
}

// Intend stores a human's movement for the next tick. It is ignored for
// bots and inactive players.
func (e *Environment) Intend(id game.PlayerID, m game.Movement) {
	p := e.state.Player(id)
	if !p.Active() || !p.IsHuman() || m == game.MoveNone {
		return
	}
	e.state = e.state.WithPlayer(p.WithPendingMovement(m))
}

// Step advances one tick. It returns the state unchanged while an active
// human has no pending movement.
func (e *Environment) Step(intents map[game.PlayerID]game.Movement) game.State {
	for id, m := range intents {
		e.Intend(id, m)
	}
	s := e.state
	if s.IsOver() {
		return s
	}
	for _, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		if p := s.Player(id); p.Active() && p.IsHuman() && p.PendingMovement() == game.MoveNone {
			return s
		}
	}

	e.history = append(e.history, s)
	s = applyCollision(s, rules.DetectCollision(s), e.log)
	s = e.killStuckBots(s)
	s = e.planBots(s)
	s = e.placeFood(s)
	s = s.IncrementStep()
	e.state = s

	e.log.Debug("step",
		"step", s.Step(),
		"food", s.FoodRef(),
		"alive1", s.Player1().Alive(),
		"alive2", s.Player2().Alive(),
	)
	return s
}

// Undo pops the previous snapshot. Pending human movements are cleared and
// the stuck detectors forget everything observed since.
func (e *Environment) Undo() (game.State, bool) {
	if len(e.history) == 0 {
		return e.state, false
	}
	prev := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	for _, d := range e.stuck {
		d.RewindTo(prev.Step())
	}
	e.state = clearHumanIntents(prev)
	return e.state, true
}

func (e *Environment) killStuckBots(s game.State) game.State {
	for i, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		p := s.Player(id)
		if !p.Active() || !p.IsBot() {
			continue
		}
		if e.stuck[i].Observe(s.Step(), p.Body()) {
			e.log.Info("player died", "player", id, "cause", game.CauseStuckInLoop, "step", s.Step(), "length", p.Length())
			s = s.WithPlayer(p.Kill(game.CauseStuckInLoop))
		}
	}
	return s
}

// planBots asks every active bot without a pending movement for its next move.
func (e *Environment) planBots(s game.State) game.State {
	for _, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		p := s.Player(id)
		if !p.Active() || !p.IsBot() || p.PendingMovement() != game.MoveNone {
			continue
		}
		planner := p.Planner()
		if planner == nil {
			e.log.Warn("bot has no planner, moving forward", "player", id, "strategy", p.Role().Strategy)
			s = s.WithPlayer(p.WithPendingMovement(game.MoveForward))
			continue
		}
		next, m := planner.Plan(s.Level(), p, s.Player(id.Opponent()), s.FoodRef())
		if m == game.MoveNone {
			m = game.MoveForward
		}
		s = s.WithPlayer(p.WithPlanner(next).WithPendingMovement(m))
	}
	return s
}

func (e *Environment) placeFood(s game.State) game.State {
	if _, ok := s.Food(); ok {
		return s
	}
	f, ok := rules.PlaceFood(s)
	if !ok {
		e.log.Warn("no free cell for food", "step", s.Step())
		return s
	}
	return s.WithFood(f)
}
