package game

import (
	"errors"
	"testing"
)

func mustBody(t *testing.T, positions ...Position) Body {
	t.Helper()
	b, err := NewBodyFromPositions(positions)
	if err != nil {
		t.Fatalf("NewBodyFromPositions(%v): %v", positions, err)
	}
	return b
}

func TestNewBodyFromPositions_HeadFirst(t *testing.T) {
	b := mustBody(t, Position{X: 3, Y: 3}, Position{X: 3, Y: 2}, Position{X: 3, Y: 1})

	if b.HeadPosition() != (Position{X: 3, Y: 3}) {
		t.Fatalf("head=%v want=(3,3)", b.HeadPosition())
	}
	if b.HeadDirection() != Up {
		t.Fatalf("direction=%v want=up", b.HeadDirection())
	}
	if b.TailPosition() != (Position{X: 3, Y: 1}) {
		t.Fatalf("tail=%v want=(3,1)", b.TailPosition())
	}
	got := b.Positions()
	for i := 1; i < len(got); i++ {
		if !got[i-1].Adjacent(got[i]) {
			t.Fatalf("positions %v and %v are not adjacent", got[i-1], got[i])
		}
	}
}

func TestNewBodyFromPositions_Rejects(t *testing.T) {
	cases := []struct {
		name      string
		positions []Position
		want      error
	}{
		{"empty", nil, ErrBodyTooShort},
		{"single", []Position{{X: 1, Y: 1}}, ErrBodyTooShort},
		{"gap", []Position{{X: 1, Y: 1}, {X: 1, Y: 3}}, ErrBodyNotAdjacent},
		{"diagonal", []Position{{X: 1, Y: 1}, {X: 2, Y: 2}}, ErrBodyNotAdjacent},
		{"duplicate", []Position{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 1}}, ErrBodyDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBodyFromPositions(tc.positions)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err=%v want=%v", err, tc.want)
			}
		})
	}
}

func TestBody_StateForTick_MovesWithoutGrowing(t *testing.T) {
	before := NewBody(Position{X: 3, Y: 3}, Up, 3)
	after := before.StateForTick(MoveForward, ActNothing)

	want := []Position{{X: 3, Y: 4}, {X: 3, Y: 3}, {X: 3, Y: 2}}
	got := after.Positions()
	if len(got) != len(want) {
		t.Fatalf("len=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("body[%d]=%v want=%v", i, got[i], want[i])
		}
	}
	if before.HeadPosition() != (Position{X: 3, Y: 3}) {
		t.Fatalf("receiver was modified: head=%v", before.HeadPosition())
	}
	if after.IsEatingItself() {
		t.Fatalf("straight move reported as self collision")
	}
}

func TestBody_StateForTick_EatGrowsAndMarksFood(t *testing.T) {
	before := NewBody(Position{X: 3, Y: 3}, Up, 3)
	after := before.StateForTick(MoveCW, ActEat)

	if after.Length() != 4 {
		t.Fatalf("len=%d want=4", after.Length())
	}
	if after.HeadPosition() != (Position{X: 4, Y: 3}) || after.HeadDirection() != Right {
		t.Fatalf("head=%v dir=%v want=(4,3) right", after.HeadPosition(), after.HeadDirection())
	}
	if after.TailPosition() != before.TailPosition() {
		t.Fatalf("tail moved while eating: %v", after.TailPosition())
	}
	if last := after.PartAt(after.Length() - 1); last.Content != ContentFood {
		t.Fatalf("head content=%v want food", last.Content)
	}
}

func TestBody_StateForTick_NoneKeepsBody(t *testing.T) {
	before := NewBody(Position{X: 3, Y: 3}, Left, 4)
	after := before.StateForTick(MoveNone, ActEat)
	if !after.Equal(before) {
		t.Fatalf("body changed on MoveNone: %v -> %v", before, after)
	}
}

func TestBody_IsEatingItself_OnlyWhenHeadReentersBody(t *testing.T) {
	b := mustBody(t,
		Position{X: 2, Y: 2}, Position{X: 2, Y: 1}, Position{X: 1, Y: 1},
		Position{X: 1, Y: 2}, Position{X: 1, Y: 3}, Position{X: 2, Y: 3}, Position{X: 3, Y: 3},
	)
	if b.IsEatingItself() {
		t.Fatalf("fresh body reported as self collision")
	}
	if next := b.StateForTick(MoveCW, ActNothing); next.IsEatingItself() {
		t.Fatalf("turn into free cell reported as self collision")
	}
	if next := b.StateForTick(MoveForward, ActNothing); !next.IsEatingItself() {
		t.Fatalf("head at %v should overlap the body %v", next.HeadPosition(), next)
	}
}

func TestBody_MoveToward(t *testing.T) {
	b := NewBody(Position{X: 5, Y: 5}, Up, 3)
	cases := []struct {
		target Position
		want   Movement
		ok     bool
	}{
		{Position{X: 5, Y: 8}, MoveForward, true},
		{Position{X: 2, Y: 9}, MoveForward, true},
		{Position{X: 3, Y: 5}, MoveCCW, true},
		{Position{X: 7, Y: 4}, MoveCW, true},
		{Position{X: 1, Y: 1}, MoveCCW, true},
		{Position{X: 5, Y: 2}, MoveNone, false},
		{Position{X: 5, Y: 5}, MoveNone, true},
	}
	for _, tc := range cases {
		got, ok := b.MoveToward(tc.target)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("MoveToward(%v)=(%v,%v) want=(%v,%v)", tc.target, got, ok, tc.want, tc.ok)
		}
	}
}

func TestBody_MoveToward_NeverForwardWhenBehind(t *testing.T) {
	for _, dir := range []Direction{Up, Left, Right, Down} {
		b := NewBody(Position{X: 10, Y: 10}, dir, 2)
		for dist := int32(1); dist < 5; dist++ {
			dx, dy := dir.Opposite().Delta()
			behind := Position{X: 10 + dx*dist, Y: 10 + dy*dist}
			m, ok := b.MoveToward(behind)
			if ok || m != MoveNone {
				t.Fatalf("dir=%v target=%v got=(%v,%v) want=(none,false)", dir, behind, m, ok)
			}
		}
	}
}

func TestBody_MoveToward_ReachesNeighbour(t *testing.T) {
	b := NewBody(Position{X: 4, Y: 4}, Right, 3)
	for _, m := range Moves {
		next := b.SimulateTick(m).Position
		got, ok := b.MoveToward(next)
		if !ok || got != m {
			t.Fatalf("MoveToward(%v)=(%v,%v) want=%v", next, got, ok, m)
		}
	}
}

func TestBody_FingerprintTracksLayout(t *testing.T) {
	a := NewBody(Position{X: 4, Y: 4}, Right, 3)
	b := NewBody(Position{X: 4, Y: 4}, Right, 3)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("equal bodies hash differently")
	}
	c := a.StateForTick(MoveForward, ActNothing)
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("moved body hashes like the unmoved one")
	}
}
