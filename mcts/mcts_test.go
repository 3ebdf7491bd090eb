package mcts

import (
	"testing"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

func boxLevel(t testing.TB, w, h int32) *game.Level {
	t.Helper()
	l, err := game.NewLevelBuilder("box", w, h).SetWallBorder().Build()
	if err != nil {
		t.Fatalf("build level: %v", err)
	}
	return l
}

func subtreeSize(p *Planner, idx int32) int {
	n := 1
	for _, c := range p.Node(idx).Children {
		n += subtreeSize(p, c)
	}
	return n
}

// childFor finds the move choice for m under the root's choice set and
// returns the node it leads to.
func childFor(t *testing.T, p *Planner, m game.Movement) int32 {
	t.Helper()
	set := p.Node(0).Children[0]
	for _, c := range p.Node(set).Children {
		if n := p.Node(c); n.Move == m && len(n.Children) == 1 {
			return n.Children[0]
		}
	}
	t.Fatalf("no explored child for %v under root", m)
	return 0
}

func TestPlanner_InactiveReturnsForward(t *testing.T) {
	l := boxLevel(t, 8, 8)
	p := NewPlanner(DefaultConfig(), 1)
	dead := game.NewPlayer(game.Player1, game.BotRole("mctree"), game.NewBody(game.Position{X: 1, Y: 3}, game.Left, 2)).Kill(game.CauseWall)
	_, m := p.Plan(l, dead, game.NewUninstalledPlayer(game.Player2), nil)
	if m != game.MoveForward {
		t.Fatalf("move=%v want=forward", m)
	}
	if p.Count() != 0 {
		t.Fatalf("planner built a tree for a dead player: %d nodes", p.Count())
	}
}

func TestPlanner_AvoidsWallAhead(t *testing.T) {
	l := boxLevel(t, 10, 10)
	self := game.NewPlayer(game.Player1, game.BotRole("mctree"), game.NewBody(game.Position{X: 1, Y: 5}, game.Left, 3))
	food := game.Position{X: 5, Y: 8}
	for seed := uint64(0); seed < 5; seed++ {
		p := NewPlanner(DefaultConfig(), seed)
		_, m := p.Plan(l, self, game.NewUninstalledPlayer(game.Player2), &food)
		if m == game.MoveForward {
			t.Fatalf("seed %d: planner drove into the wall", seed)
		}
	}
}

func TestPlanner_ReusesSubtreeAfterMove(t *testing.T) {
	l := boxLevel(t, 12, 12)
	food := game.Position{X: 9, Y: 9}
	body := game.NewBody(game.Position{X: 4, Y: 4}, game.Up, 3)
	self := game.NewPlayer(game.Player1, game.BotRole("mctree"), body)
	opp := game.NewUninstalledPlayer(game.Player2)

	p := NewPlanner(DefaultConfig(), 7)
	_, m := p.Plan(l, self, opp, &food)
	first := p.Stats()
	if first.Rerooted || first.Kept != 0 || first.Inserted != p.Count() {
		t.Fatalf("first tick stats=%+v count=%d", first, p.Count())
	}
	wantKept := subtreeSize(p, childFor(t, p, m)) + 1

	next := self.WithBody(body.StateForTick(m, game.ActNothing))
	p.Plan(l, next, opp, &food)
	st := p.Stats()
	if !st.Rerooted {
		t.Fatalf("tree was rebuilt instead of re-rooted: %+v", st)
	}
	if st.Kept != wantKept {
		t.Fatalf("kept=%d want=%d", st.Kept, wantKept)
	}
	if p.Count() != st.Kept+st.Inserted {
		t.Fatalf("count=%d want kept+inserted=%d", p.Count(), st.Kept+st.Inserted)
	}

	// Choices that were already explored must not be explored again.
	set := p.Node(p.Node(0).Children[0])
	seen := map[game.Movement]bool{}
	for _, c := range set.Children {
		mv := p.Node(c).Move
		if seen[mv] {
			t.Fatalf("move %v explored twice under the new root", mv)
		}
		seen[mv] = true
	}
}

func TestPlanner_ReroutesThroughRealFood(t *testing.T) {
	l := boxLevel(t, 12, 12)
	body := game.NewBody(game.Position{X: 5, Y: 5}, game.Up, 3)
	food := game.Position{X: 5, Y: 6}
	self := game.NewPlayer(game.Player1, game.BotRole("mctree"), body)
	opp := game.NewUninstalledPlayer(game.Player2)

	p := NewPlanner(DefaultConfig(), 3)
	p.Plan(l, self, opp, &food)
	if k := p.Node(childFor(t, p, game.MoveForward)).Kind; k != KindFoodPlacement {
		t.Fatalf("eating move leads to %v want food_placement", k)
	}

	ate := self.WithBody(body.StateForTick(game.MoveForward, game.ActNothing)).WithPendingAct(game.ActEat)
	newFood := game.Position{X: 2, Y: 9}
	p.Plan(l, ate, opp, &newFood)
	st := p.Stats()
	if !st.Rerooted {
		t.Fatalf("tree rebuilt after eating: %+v", st)
	}
	if p.Count() != st.Kept+st.Inserted {
		t.Fatalf("count=%d want=%d", p.Count(), st.Kept+st.Inserted)
	}
}

func TestPlanner_FollowsFoodPlacedAfterEating(t *testing.T) {
	l := boxLevel(t, 12, 12)
	body := game.NewBody(game.Position{X: 5, Y: 5}, game.Up, 3)
	food := game.Position{X: 5, Y: 6}
	self := game.NewPlayer(game.Player1, game.BotRole("mctree"), body)
	opp := game.NewUninstalledPlayer(game.Player2)
	cfg := DefaultConfig()
	cfg.MaxDepth = 4
	cfg.MaxNodes = 1 << 17

	p := NewPlanner(cfg, 3)
	p.Plan(l, self, opp, &food)

	// The replacement food is not on the board yet when the eater plans.
	ate := self.WithBody(body.StateForTick(game.MoveForward, game.ActNothing)).WithPendingAct(game.ActEat)
	_, m := p.Plan(l, ate, opp, nil)
	if st := p.Stats(); !st.Rerooted {
		t.Fatalf("tree rebuilt on the eating tick: %+v", st)
	}
	top := p.Node(p.Node(0).Children[0])
	if top.Kind != KindFoodPlacement {
		t.Fatalf("top node=%v want food_placement", top.Kind)
	}

	next := ate.Body().StateForTick(m, game.ActEat)
	placed, found := game.Position{}, false
	for _, c := range top.Children {
		n := p.Node(c)
		if n.Kind == KindFoodPlacementChoice && len(n.Children) > 0 && n.Position != next.HeadPosition() {
			placed, found = n.Position, true
			break
		}
	}
	if !found {
		t.Fatalf("no sampled food under the top placement")
	}

	p.Plan(l, ate.WithBody(next).WithPendingAct(game.ActNothing), opp, &placed)
	st := p.Stats()
	if !st.Rerooted || st.Kept < 2 {
		t.Fatalf("stats=%+v want the sampled food's subtree kept", st)
	}
	if p.Count() != st.Kept+st.Inserted {
		t.Fatalf("count=%d want=%d", p.Count(), st.Kept+st.Inserted)
	}
}

func TestPlanner_FreshTreeSamplesPendingFood(t *testing.T) {
	l := boxLevel(t, 10, 10)
	self := game.NewPlayer(game.Player1, game.BotRole("mctree"), game.NewBody(game.Position{X: 4, Y: 4}, game.Up, 3))
	p := NewPlanner(DefaultConfig(), 2)
	p.Plan(l, self, game.NewUninstalledPlayer(game.Player2), nil)

	top := p.Node(p.Node(0).Children[0])
	if top.Kind != KindFoodPlacement || len(top.Children) == 0 {
		t.Fatalf("top node=%v children=%d want sampled food", top.Kind, len(top.Children))
	}
	for _, c := range top.Children {
		n := p.Node(c)
		if n.Kind != KindFoodPlacementChoice || self.Body().Contains(n.Position) || l.IsWall(n.Position) {
			t.Fatalf("bad food sample %v at %v", n.Kind, n.Position)
		}
	}
	if len(p.BestPath()) == 0 {
		t.Fatalf("no tagged path below the sampled food")
	}
}

func TestPlanner_RebuildsWhenStateDoesNotFollow(t *testing.T) {
	l := boxLevel(t, 12, 12)
	food := game.Position{X: 9, Y: 9}
	self := game.NewPlayer(game.Player1, game.BotRole("mctree"), game.NewBody(game.Position{X: 4, Y: 4}, game.Up, 3))
	opp := game.NewUninstalledPlayer(game.Player2)

	p := NewPlanner(DefaultConfig(), 7)
	p.Plan(l, self, opp, &food)
	teleported := self.WithBody(game.NewBody(game.Position{X: 8, Y: 3}, game.Right, 3))
	p.Plan(l, teleported, opp, &food)
	if st := p.Stats(); st.Rerooted || st.Kept != 0 {
		t.Fatalf("stats=%+v want a fresh tree", st)
	}
}

func TestPlanner_Deterministic(t *testing.T) {
	l := boxLevel(t, 14, 10)
	food := game.Position{X: 10, Y: 7}
	run := func() []game.Movement {
		p1 := game.NewPlayer(game.Player1, game.BotRole("mctree"), game.NewBody(game.Position{X: 3, Y: 3}, game.Right, 3))
		p2 := game.NewPlayer(game.Player2, game.BotRole("mctree"), game.NewBody(game.Position{X: 10, Y: 3}, game.Left, 3))
		a, b := NewPlanner(DefaultConfig(), 11), NewPlanner(DefaultConfig(), 12)
		var moves []game.Movement
		for tick := 0; tick < 6; tick++ {
			_, m1 := a.Plan(l, p1, p2, &food)
			_, m2 := b.Plan(l, p2, p1, &food)
			moves = append(moves, m1, m2)
			p1 = p1.WithBody(p1.Body().StateForTick(m1, game.ActNothing))
			p2 = p2.WithBody(p2.Body().StateForTick(m2, game.ActNothing))
		}
		return moves
	}
	x, y := run(), run()
	for i := range x {
		if x[i] != y[i] {
			t.Fatalf("move %d differs: %v vs %v", i, x[i], y[i])
		}
	}
}

func TestPlanner_RespectsNodeBudget(t *testing.T) {
	l := boxLevel(t, 12, 12)
	cfg := DefaultConfig()
	cfg.MaxNodes = 200
	p := NewPlanner(cfg, 5)
	self := game.NewPlayer(game.Player1, game.BotRole("mctree"), game.NewBody(game.Position{X: 5, Y: 5}, game.Up, 3))
	food := game.Position{X: 9, Y: 2}
	p.Plan(l, self, game.NewUninstalledPlayer(game.Player2), &food)
	if p.Count() > cfg.MaxNodes {
		t.Fatalf("count=%d over budget %d", p.Count(), cfg.MaxNodes)
	}
	if len(p.BestPath()) == 0 {
		t.Fatalf("no tagged path")
	}
}

func TestScenario_Better(t *testing.T) {
	doomed := Scenario{CertainDeath: true, Ticks: 9, Foods: 3}
	short := Scenario{Ticks: 2}
	if !short.Better(doomed) || doomed.Better(short) {
		t.Fatalf("certain death must rank below any survivable scenario")
	}
	a := Scenario{Ticks: 5, Foods: 1, Distance: 9}
	b := Scenario{Ticks: 5, Foods: 0, Distance: 1}
	if !a.Better(b) {
		t.Fatalf("more food should win at equal ticks")
	}
	c := Scenario{Ticks: 5, Foods: 1, Distance: 3}
	if !c.Better(a) {
		t.Fatalf("shorter distance should win at equal ticks and food")
	}
}

func BenchmarkPlanner_Tick(b *testing.B) {
	l := boxLevel(b, 20, 14)
	food := game.Position{X: 15, Y: 10}
	p1 := game.NewPlayer(game.Player1, game.BotRole("mctree"), game.NewBody(game.Position{X: 4, Y: 4}, game.Right, 4))
	p2 := game.NewPlayer(game.Player2, game.BotRole("mctree"), game.NewBody(game.Position{X: 15, Y: 4}, game.Left, 4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewPlanner(DefaultConfig(), uint64(i)).Plan(l, p1, p2, &food)
	}
}
