package engine

import (
	"log/slog"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// Recorder receives every snapshot of a game. FinishGame is called once,
// when no player is left alive.
type Recorder interface {
	RecordStep(s game.State) error
	FinishGame(s game.State) error
}

// Recorded wraps a Stepper and hands each new snapshot to a Recorder.
// Undo sends nothing; the recorder drops undone steps when it sees a
// snapshot for a step it already has.
type Recorded struct {
	inner    Stepper
	rec      Recorder
	log      *slog.Logger
	finished bool
	err      error
}

func NewRecorded(inner Stepper, rec Recorder, log *slog.Logger) *Recorded {
	return &Recorded{inner: inner, rec: rec, log: discardLogger(log)}
}

func (r *Recorded) State() game.State { return r.inner.State() }
func (r *Recorded) History() int      { return r.inner.History() }

// Err returns the first error the recorder reported.
func (r *Recorded) Err() error { return r.err }

func (r *Recorded) Reset() game.State {
	s := r.inner.Reset()
	r.finished = false
	r.record(s)
	return s
}

func (r *Recorded) Step(intents map[game.PlayerID]game.Movement) game.State {
	before := r.inner.State().Step()
	s := r.inner.Step(intents)
	if s.Step() == before {
		return s
	}
	r.record(s)
	return s
}

func (r *Recorded) Undo() (game.State, bool) {
	s, ok := r.inner.Undo()
	if ok {
		r.finished = s.IsOver()
	}
	return s, ok
}

// Finish ends the game for the recorder even though players are still
// alive, for runners that stop at a step limit.
func (r *Recorded) Finish() {
	if r.finished {
		return
	}
	r.finished = true
	s := r.inner.State()
	if err := r.rec.FinishGame(s); err != nil {
		r.fail("finish game", err, s)
	}
}

func (r *Recorded) record(s game.State) {
	if err := r.rec.RecordStep(s); err != nil {
		r.fail("record step", err, s)
	}
	if s.IsOver() && !r.finished {
		r.finished = true
		if err := r.rec.FinishGame(s); err != nil {
			r.fail("finish game", err, s)
		}
	}
}

func (r *Recorded) fail(what string, err error, s game.State) {
	r.log.Error(what, "error", err, "step", s.Step())
	if r.err == nil {
		r.err = err
	}
}
