package game

import "testing"

func TestState_MutatorsReturnCopies(t *testing.T) {
	l, err := NewLevelBuilder("box", 8, 8).SetWallBorder().Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	p1 := NewPlayer(Player1, HumanRole(), NewBody(Position{X: 3, Y: 3}, Up, 2))
	p2 := NewUninstalledPlayer(Player2)
	s0 := NewState(l, p1, p2, 42)

	s1 := s0.WithFood(Position{X: 5, Y: 5}).IncrementStep()
	s2 := s1.KillPlayer1(CauseWall)

	if _, ok := s0.Food(); ok {
		t.Fatalf("original state gained food")
	}
	if s0.Step() != 0 || s1.Step() != 1 {
		t.Fatalf("steps=%d,%d want=0,1", s0.Step(), s1.Step())
	}
	if !s1.Player1().Alive() {
		t.Fatalf("kill leaked into the previous snapshot")
	}
	if s2.Player1().Alive() || s2.Player1().LastCause() != CauseWall {
		t.Fatalf("player1 alive=%v cause=%v want dead by wall", s2.Player1().Alive(), s2.Player1().LastCause())
	}
	if !s2.IsOver() {
		t.Fatalf("game with no active players is not over")
	}

	ref := s1.FoodRef()
	*ref = Position{X: 1, Y: 1}
	if f, _ := s1.Food(); f != (Position{X: 5, Y: 5}) {
		t.Fatalf("FoodRef aliased state: food=%v", f)
	}
}

func TestState_CanPlaceFood(t *testing.T) {
	l, err := NewLevelBuilder("box", 8, 8).SetWallBorder().Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	body := NewBody(Position{X: 3, Y: 3}, Up, 3)
	dead := NewPlayer(Player2, BotRole("greedy"), NewBody(Position{X: 6, Y: 6}, Down, 2)).Kill(CauseSelf)
	s := NewState(l, NewPlayer(Player1, HumanRole(), body), dead, 1)

	cases := []struct {
		p    Position
		want bool
	}{
		{Position{X: 0, Y: 0}, false},
		{Position{X: 3, Y: 2}, false},
		{Position{X: 6, Y: 6}, false},
		{Position{X: 5, Y: 2}, true},
	}
	for _, tc := range cases {
		if got := s.CanPlaceFood(tc.p); got != tc.want {
			t.Fatalf("CanPlaceFood(%v)=%v want=%v", tc.p, got, tc.want)
		}
	}
}

func TestPlayer_KillWithoutCausePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Kill(CauseNone) did not panic")
		}
	}()
	NewPlayer(Player1, HumanRole(), NewBody(Position{X: 1, Y: 1}, Up, 1)).Kill(CauseNone)
}

func TestRole_ParseRoundTrip(t *testing.T) {
	for _, r := range []Role{NoneRole(), HumanRole(), BotRole("mctree")} {
		got, ok := ParseRole(r.String())
		if !ok || got != r {
			t.Fatalf("ParseRole(%q)=%v,%v want=%v", r.String(), got, ok, r)
		}
	}
	if _, ok := ParseRole("robot"); ok {
		t.Fatalf("unknown role parsed")
	}
}

func TestState_Board(t *testing.T) {
	l, err := NewLevelBuilder("box", 6, 4).SetWallBorder().Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	p1 := NewPlayer(Player1, HumanRole(), NewBody(Position{X: 2, Y: 1}, Right, 2))
	s := NewState(l, p1, NewUninstalledPlayer(Player2), 1).WithFood(Position{X: 4, Y: 2})
	want := "######\n" +
		"#...*#\n" +
		"#aA..#\n" +
		"######\n"
	if got := s.Board(); got != want {
		t.Fatalf("board:\n%s\nwant:\n%s", got, want)
	}
}
