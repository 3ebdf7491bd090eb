package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

const (
	turnsDir = "turns"
	gamesDir = "games"

	turnSchema = "snake_turn_v1"
	gameSchema = "snake_game_v1"
)

// Writer owns the batch files of one dataset directory. Finished games are
// appended under a mutex, so Recorders on several goroutines can share it.
// A batch is flushed every flushGames games and on Close.
type Writer struct {
	dir        string
	flushGames int
	log        *slog.Logger

	mu      sync.Mutex
	turns   *batch[TurnRow]
	games   *batch[GameRow]
	pending int
	total   int
}

func NewWriter(dir string, flushGames int, log *slog.Logger) (*Writer, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	w := &Writer{dir: dir, flushGames: max(flushGames, 1), log: log}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) open() error {
	id := newBatchID()
	turns, err := openBatch[TurnRow](filepath.Join(w.dir, turnsDir), id, turnSchema)
	if err != nil {
		return err
	}
	games, err := openBatch[GameRow](filepath.Join(w.dir, gamesDir), id, gameSchema)
	if err != nil {
		_, _ = turns.commit()
		return err
	}
	w.turns, w.games, w.pending = turns, games, 0
	return nil
}

// Games is the number of games written since the writer was created.
func (w *Writer) Games() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.total
}

// WriteGame appends one finished game.
func (w *Writer) WriteGame(turns []TurnRow, g GameRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.turns == nil {
		return fmt.Errorf("dataset writer is closed")
	}
	if err := w.turns.append(turns...); err != nil {
		return err
	}
	if err := w.games.append(g); err != nil {
		return err
	}
	w.pending++
	w.total++
	w.log.Debug("game written", "game_id", g.GameID, "steps", g.Steps, "rows", len(turns))

	if w.pending >= w.flushGames {
		if err := w.flushLocked(); err != nil {
			return err
		}
		return w.open()
	}
	return nil
}

// Flush finalizes the current batch and starts a new one.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.turns == nil {
		return nil
	}
	if err := w.flushLocked(); err != nil {
		return err
	}
	return w.open()
}

func (w *Writer) flushLocked() error {
	games, rows := w.pending, w.turns.rows
	turnsPath, errT := w.turns.commit()
	gamesPath, errG := w.games.commit()
	w.turns, w.games, w.pending = nil, nil, 0
	if err := errors.Join(errT, errG); err != nil {
		return err
	}
	if games > 0 {
		w.log.Info("flushed batch", "games", games, "rows", rows, "turns", turnsPath, "summary", gamesPath)
	}
	return nil
}

// Close flushes buffered games. The writer cannot be used afterwards.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.turns == nil {
		return nil
	}
	return w.flushLocked()
}

// Recorder collects the snapshots of one game at a time and hands the game
// to its Writer when it finishes. A snapshot at step 0 starts a new game and
// a snapshot at an earlier step than the last one replaces the undone tail.
// Play that resumes after an undo past the end of a finished game is
// recorded again under a new game id.
// A Recorder is not safe for concurrent use.
type Recorder struct {
	w        *Writer
	gameID   string
	rows     []TurnRow
	finished bool
	log      *slog.Logger
}

func (w *Writer) NewRecorder() *Recorder {
	return &Recorder{w: w, log: w.log}
}

// GameID is the id of the game currently being recorded.
func (r *Recorder) GameID() string { return r.gameID }

func (r *Recorder) RecordStep(s game.State) error {
	step := int32(s.Step())
	switch {
	case step == 0 || r.gameID == "":
		if len(r.rows) > 0 && !r.finished {
			r.log.Debug("dropping unfinished game", "game_id", r.gameID, "rows", len(r.rows))
		}
		r.gameID = uuid.NewString()
		r.rows = nil
	case r.finished:
		r.gameID = uuid.NewString()
		rows := make([]TurnRow, len(r.rows))
		for i, row := range r.rows {
			row.GameID = r.gameID
			rows[i] = row
		}
		r.rows = rows
	}
	r.finished = false
	for len(r.rows) > 0 && r.rows[len(r.rows)-1].Step >= step {
		r.rows = r.rows[:len(r.rows)-1]
	}
	r.rows = append(r.rows, NewTurnRow(r.gameID, s))
	return nil
}

func (r *Recorder) FinishGame(s game.State) error {
	if r.gameID == "" || len(r.rows) == 0 || r.finished {
		return fmt.Errorf("finish game at step %d: nothing recorded", s.Step())
	}
	r.finished = true
	return r.w.WriteGame(r.rows, NewGameRow(r.gameID, s))
}
