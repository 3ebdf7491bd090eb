package spectate

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/neoneye/SwiftSnakeEngine-sub000/engine"
)

// Loop plays bot games on s back to back and publishes every frame to the
// hub, one tick per interval. A finished game stays on screen for pause
// before the next one starts under a new id.
type Loop struct {
	Stepper  engine.Stepper
	Hub      *Hub
	Interval time.Duration
	Pause    time.Duration
	MaxSteps int
	Log      *slog.Logger
}

// Run blocks until ctx is done.
func (l Loop) Run(ctx context.Context) error {
	log := l.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	wait := func(n int) error {
		for range n {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		return nil
	}
	pauseTicks := int(l.Pause / max(l.Interval, time.Millisecond))

	for {
		gameID := uuid.NewString()
		s := l.Stepper.Reset()
		log.Info("game started", "game_id", gameID, "level", s.Level().ID())
		l.Hub.Publish(Event{Type: "frame", Data: NewSnapshot(gameID, s)})

		for !s.IsOver() && (l.MaxSteps <= 0 || int(s.Step()) < l.MaxSteps) {
			if err := wait(1); err != nil {
				return err
			}
			next := l.Stepper.Step(nil)
			if next.Step() == s.Step() {
				// A human seat would block the loop forever.
				break
			}
			s = next
			l.Hub.Publish(Event{Type: "frame", Data: NewSnapshot(gameID, s)})
		}

		l.Hub.Publish(Event{Type: "game_end", Data: NewSnapshot(gameID, s)})
		log.Info("game ended", "game_id", gameID, "steps", s.Step(),
			"player1", s.Player1().LastCause().String(), "player2", s.Player2().LastCause().String())
		if err := wait(max(pauseTicks, 1)); err != nil {
			return err
		}
	}
}
