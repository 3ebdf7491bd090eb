package engine

import (
	"context"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// RunToEnd resets s and steps it without human input until the game is
// over, maxSteps ticks have run (when positive) or ctx is done. It returns
// the final state and ctx.Err() if the run was cancelled.
func RunToEnd(ctx context.Context, s Stepper, maxSteps int, onStep func(game.State)) (game.State, error) {
	state := s.Reset()
	if onStep != nil {
		onStep(state)
	}
	for !state.IsOver() && (maxSteps <= 0 || int(state.Step()) < maxSteps) {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		next := s.Step(nil)
		if next.Step() == state.Step() {
			// Waiting on a human; nothing more can happen headless.
			return next, nil
		}
		state = next
		if onStep != nil {
			onStep(state)
		}
	}
	return state, nil
}
