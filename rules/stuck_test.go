package rules

import (
	"testing"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// loopBodies returns the four layouts of a length-2 snake circling a 2x2 square.
func loopBodies() []game.Body {
	b := game.NewBody(game.Position{X: 2, Y: 2}, game.Up, 2)
	out := make([]game.Body, 0, 4)
	for i := 0; i < 4; i++ {
		b = b.StateForTick(game.MoveCW, game.ActNothing)
		out = append(out, b)
	}
	return out
}

func TestStuckDetector_FlagsRepeatedLoop(t *testing.T) {
	d := NewStuckDetector(DefaultStuckThreshold)
	loop := loopBodies()

	step := uint32(0)
	for i := 0; i < 4; i++ {
		if d.Observe(step, loop[i]) {
			t.Fatalf("stuck after %d fresh layouts", i+1)
		}
		step++
	}
	for repeat := 1; repeat <= 5; repeat++ {
		stuck := d.Observe(step, loop[(repeat-1)%4])
		step++
		if repeat < 5 && stuck {
			t.Fatalf("stuck after only %d repeats (score=%d)", repeat, d.Score())
		}
		if repeat == 5 && !stuck {
			t.Fatalf("not stuck after 5 repeats (score=%d)", d.Score())
		}
	}
}

func TestStuckDetector_ProgressDecaysScore(t *testing.T) {
	d := NewStuckDetector(DefaultStuckThreshold)
	loop := loopBodies()
	d.Observe(0, loop[0])
	d.Observe(1, loop[0])
	d.Observe(2, loop[0])
	if d.Score() != 4 {
		t.Fatalf("score=%d want=4", d.Score())
	}

	b := game.NewBody(game.Position{X: 5, Y: 1}, game.Up, 2)
	for step := uint32(3); step < 10; step++ {
		b = b.StateForTick(game.MoveForward, game.ActNothing)
		d.Observe(step, b)
	}
	if d.Score() != 0 {
		t.Fatalf("score=%d want=0 after fresh progress", d.Score())
	}
}

func TestStuckDetector_RewindReplaysHistory(t *testing.T) {
	d := NewStuckDetector(DefaultStuckThreshold)
	loop := loopBodies()
	for step := uint32(0); step < 12; step++ {
		d.Observe(step, loop[step%4])
	}
	if !d.IsStuck() {
		t.Fatalf("score=%d want stuck", d.Score())
	}

	d.RewindTo(6)
	// Steps 0..3 are fresh, 4 and 5 repeat.
	if d.Score() != 4 || d.IsStuck() {
		t.Fatalf("after rewind score=%d stuck=%v want=4,false", d.Score(), d.IsStuck())
	}

	d.Reset()
	if d.Score() != 0 {
		t.Fatalf("after reset score=%d want=0", d.Score())
	}
	if d.Observe(0, loop[0]) {
		t.Fatalf("fresh detector reports stuck")
	}
}
