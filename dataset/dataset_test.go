package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/neoneye/SwiftSnakeEngine-sub000/bot"
	"github.com/neoneye/SwiftSnakeEngine-sub000/engine"
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

func duelLevel(t *testing.T) *game.Level {
	t.Helper()
	l, err := game.NewLevelBuilder("duel", 14, 10).
		SetWallBorder().
		SetInitialBody(game.Player1, game.NewBody(game.Position{X: 3, Y: 3}, game.Up, 3)).
		SetInitialBody(game.Player2, game.NewBody(game.Position{X: 10, Y: 6}, game.Down, 3)).
		Build()
	if err != nil {
		t.Fatalf("build level: %v", err)
	}
	return l
}

func botSeat(t *testing.T, strategy string, seed uint64) engine.Seat {
	t.Helper()
	if _, err := bot.New(strategy, seed); err != nil {
		t.Fatalf("bot %s: %v", strategy, err)
	}
	return engine.BotSeat(strategy, func() game.Planner {
		p, _ := bot.New(strategy, seed)
		return p
	})
}

// playRecorded runs one recorded game and returns its final state.
func playRecorded(t *testing.T, w *Writer, l *game.Level, seed uint64) (game.State, string) {
	t.Helper()
	seats := [2]engine.Seat{botSeat(t, bot.StrategyGreedy, seed), botSeat(t, bot.StrategyMonteCarlo, seed)}
	env, err := engine.NewEnvironment(l, seats, seed, engine.Options{})
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	rec := w.NewRecorder()
	r := engine.NewRecorded(env, rec, nil)
	final, err := engine.RunToEnd(context.Background(), r, 60, nil)
	if err != nil {
		t.Fatalf("RunToEnd: %v", err)
	}
	r.Finish()
	if r.Err() != nil {
		t.Fatalf("recorder: %v", r.Err())
	}
	return final, rec.GameID()
}

func TestRecorder_WritesTurnsAndGames(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, 10, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	l := duelLevel(t)
	final, id := playRecorded(t, w, l, 3)
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	games, err := LoadGames(dir)
	if err != nil {
		t.Fatalf("LoadGames: %v", err)
	}
	if len(games) != 1 || games[0].GameID != id || games[0].Steps != int32(final.Step()) {
		t.Fatalf("games=%+v want one game %s with %d steps", games, id, final.Step())
	}
	turns, err := LoadTurns(dir, id)
	if err != nil {
		t.Fatalf("LoadTurns: %v", err)
	}
	if len(turns) != int(final.Step())+1 {
		t.Fatalf("turn rows=%d want=%d", len(turns), final.Step()+1)
	}
	if got := len(turns[0].EmptyX); got != l.NumEmpty() {
		t.Fatalf("empty cells=%d want=%d", got, l.NumEmpty())
	}
	if tmp, _ := filepath.Glob(filepath.Join(dir, "*", "tmp", "*.parquet")); len(tmp) != 0 {
		t.Fatalf("batches left in tmp: %v", tmp)
	}
}

func TestWriter_FlushPairsTurnsAndGames(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, 1, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	l := duelLevel(t)
	playRecorded(t, w, l, 3)
	playRecorded(t, w, l, 4)
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	turns, _ := batchFiles(dir, turnsDir)
	games, _ := batchFiles(dir, gamesDir)
	if len(turns) != 2 || len(games) != 2 {
		t.Fatalf("turn batches=%d game batches=%d want 2 each", len(turns), len(games))
	}
	for i := range turns {
		if filepath.Base(turns[i]) != filepath.Base(games[i]) {
			t.Fatalf("batch %d: turns %s and games %s do not pair up", i, turns[i], games[i])
		}
	}
	if w.Games() != 2 {
		t.Fatalf("games=%d want=2", w.Games())
	}
}

func TestLoadRecording_ReplaysToSameBodies(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, 1, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	l := duelLevel(t)
	live, id := playRecorded(t, w, l, 11)
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rec, err := LoadRecording(dir, id)
	if err != nil {
		t.Fatalf("LoadRecording: %v", err)
	}
	r, err := engine.NewReplayEnvironment(l, rec, nil)
	if err != nil {
		t.Fatalf("NewReplayEnvironment: %v", err)
	}
	s := r.Reset()
	for !r.Done() {
		s = r.Step(nil)
	}
	if s.Step() != live.Step() {
		t.Fatalf("replay step=%d live=%d", s.Step(), live.Step())
	}
	for _, pid := range []game.PlayerID{game.Player1, game.Player2} {
		lp, rp := live.Player(pid), s.Player(pid)
		if !lp.Body().Equal(rp.Body()) || lp.Alive() != rp.Alive() || lp.LastCause() != rp.LastCause() {
			t.Fatalf("player %v: replay body=%v alive=%v cause=%v, live body=%v alive=%v cause=%v",
				pid, rp.Body(), rp.Alive(), rp.LastCause(), lp.Body(), lp.Alive(), lp.LastCause())
		}
	}

	if _, err := LoadRecording(dir, "missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("err=%v want=%v", err, ErrGameNotFound)
	}
}

func TestRecorder_UndoneStepsAreReplaced(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, 1, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	l := duelLevel(t)
	env, err := engine.NewEnvironment(l, [2]engine.Seat{engine.HumanSeat(), {Role: game.NoneRole()}}, 1, engine.Options{})
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	rec := w.NewRecorder()
	r := engine.NewRecorded(env, rec, nil)

	forward := map[game.PlayerID]game.Movement{game.Player1: game.MoveForward}
	r.Reset()
	r.Step(forward)
	r.Step(forward)
	r.Undo()
	r.Step(map[game.PlayerID]game.Movement{game.Player1: game.MoveCW})
	for !r.State().IsOver() {
		r.Step(forward)
	}
	if r.Err() != nil {
		t.Fatalf("recorder: %v", r.Err())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	turns, err := LoadTurns(dir, rec.GameID())
	if err != nil {
		t.Fatalf("LoadTurns: %v", err)
	}
	for i, row := range turns {
		if int(row.Step) != i {
			t.Fatalf("row %d has step %d", i, row.Step)
		}
	}
	// Step 2 turned right from (3,4), not up to (3,5).
	p := turns[2].Players[0]
	if head := (game.Position{X: p.BodyX[0], Y: p.BodyY[0]}); head != (game.Position{X: 4, Y: 4}) {
		t.Fatalf("step 2 head=%v want=(4,4)", head)
	}
}

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	empty, err := Summarize(context.Background(), dir)
	if err != nil || empty.Games != 0 {
		t.Fatalf("empty dir: summary=%+v err=%v", empty, err)
	}

	w, err := NewWriter(dir, 1, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	l := duelLevel(t)
	var steps int64
	for seed := uint64(1); seed <= 2; seed++ {
		final, _ := playRecorded(t, w, l, seed)
		steps += int64(final.Step())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	sum, err := Summarize(context.Background(), dir)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Games != 2 || sum.TotalSteps != steps {
		t.Fatalf("summary=%+v want 2 games and %d steps", sum, steps)
	}
	if len(sum.Strategies) != 2 {
		t.Fatalf("strategies=%+v want greedy and montecarlo", sum.Strategies)
	}
}

func TestWriter_EmptyCloseLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, 5, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	for _, kind := range []string{turnsDir, gamesDir} {
		entries, err := os.ReadDir(filepath.Join(dir, kind))
		if err != nil {
			t.Fatalf("read %s: %v", kind, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				t.Fatalf("unexpected file %s/%s", kind, e.Name())
			}
		}
	}
	if err := w.WriteGame(nil, GameRow{}); err == nil {
		t.Fatalf("write after close succeeded")
	}
}
