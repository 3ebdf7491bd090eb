package rules

import "github.com/neoneye/SwiftSnakeEngine-sub000/game"

// DefaultStuckThreshold flags a snake after five repeated configurations in a row.
const DefaultStuckThreshold = 10

type stuckEntry struct {
	step uint32
	hash uint64
}

// StuckDetector flags a player that keeps revisiting the same body configurations.
// A new configuration lowers the score by one (never below zero), a repeated one
// raises it by two.
type StuckDetector struct {
	threshold int
	score     int
	seen      map[uint64]struct{}
	history   []stuckEntry
}

func NewStuckDetector(threshold int) *StuckDetector {
	if threshold <= 0 {
		threshold = DefaultStuckThreshold
	}
	return &StuckDetector{threshold: threshold, seen: map[uint64]struct{}{}}
}

func (d *StuckDetector) Score() int { return d.score }

func (d *StuckDetector) IsStuck() bool { return d.score >= d.threshold }

// Observe records the body seen while processing step and reports whether the
// player is now considered stuck.
func (d *StuckDetector) Observe(step uint32, body game.Body) bool {
	h := body.Fingerprint()
	d.history = append(d.history, stuckEntry{step: step, hash: h})
	d.apply(h)
	return d.IsStuck()
}

func (d *StuckDetector) apply(h uint64) {
	if _, ok := d.seen[h]; ok {
		d.score += 2
		return
	}
	d.seen[h] = struct{}{}
	if d.score > 0 {
		d.score--
	}
}

// RewindTo drops every observation made at or after step and rebuilds the
// score by replaying what remains.
func (d *StuckDetector) RewindTo(step uint32) {
	kept := d.history[:0]
	for _, e := range d.history {
		if e.step < step {
			kept = append(kept, e)
		}
	}
	d.history = kept
	d.score = 0
	d.seen = make(map[uint64]struct{}, len(kept))
	for _, e := range kept {
		d.apply(e.hash)
	}
}

func (d *StuckDetector) Reset() {
	d.RewindTo(0)
}
