package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"

	"github.com/neoneye/SwiftSnakeEngine-sub000/engine"
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

var ErrGameNotFound = errors.New("game not found")

// readRows reads a whole parquet file. Each Read gets a fresh buffer since
// the reader may reuse the nested slices of rows it is handed.
func readRows[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	all := make([]T, 0, int(reader.NumRows()))
	for {
		buf := make([]T, 256)
		n, err := reader.Read(buf)
		all = append(all, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return all, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
}

func batchFiles(dir, kind string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, kind, "*.parquet"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// LoadGames returns every game row in dir, oldest batch first.
func LoadGames(dir string) ([]GameRow, error) {
	files, err := batchFiles(dir, gamesDir)
	if err != nil {
		return nil, err
	}
	var out []GameRow
	for _, path := range files {
		rows, err := readRows[GameRow](path)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

// LoadTurns returns the turn rows of one game ordered by step.
func LoadTurns(dir, gameID string) ([]TurnRow, error) {
	files, err := batchFiles(dir, turnsDir)
	if err != nil {
		return nil, err
	}
	var out []TurnRow
	for _, path := range files {
		rows, err := readRows[TurnRow](path)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			if r.GameID == gameID {
				out = append(out, r)
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Step < out[j].Step })
	return out, nil
}

// LoadRecording rebuilds the replay input of a recorded game.
func LoadRecording(dir, gameID string) (engine.Recording, error) {
	rows, err := LoadTurns(dir, gameID)
	if err != nil {
		return engine.Recording{}, err
	}
	return RecordingFromRows(rows)
}

// RecordingFromRows converts the step-ordered turn rows of one game.
func RecordingFromRows(rows []TurnRow) (engine.Recording, error) {
	if len(rows) == 0 {
		return engine.Recording{}, fmt.Errorf("recording: no rows")
	}
	first := rows[0]
	rec := engine.Recording{GameID: first.GameID, LevelID: first.LevelID, Seed: first.Seed}
	for i, step := range rows {
		if int(step.Step) != i {
			return engine.Recording{}, fmt.Errorf("recording %s: row %d has step %d", first.GameID, i, step.Step)
		}
	}

	var closed [2]bool
	for _, row := range rows {
		food := engine.FoodAt{}
		if len(row.FoodX) > 0 && len(row.FoodY) > 0 {
			food = engine.FoodAt{Present: true, Position: game.Position{X: row.FoodX[0], Y: row.FoodY[0]}}
		}
		rec.Food = append(rec.Food, food)
		for _, p := range row.Players {
			i := int(p.ID) - 1
			if i < 0 || i > 1 || !p.Installed || closed[i] {
				continue
			}
			rec.Bodies[i] = append(rec.Bodies[i], joinXY(p.BodyX, p.BodyY))
			closed[i] = !p.Alive
		}
	}
	for _, p := range rows[len(rows)-1].Players {
		i := int(p.ID) - 1
		if i < 0 || i > 1 {
			continue
		}
		role, ok := game.ParseRole(p.Role)
		if !ok {
			return engine.Recording{}, fmt.Errorf("recording %s: unknown role %q", first.GameID, p.Role)
		}
		rec.Roles[i] = role
		if n := len(p.Causes); n > 0 {
			cause, ok := game.ParseCause(p.Causes[n-1])
			if !ok {
				return engine.Recording{}, fmt.Errorf("recording %s: unknown cause %q", first.GameID, p.Causes[n-1])
			}
			rec.Causes[i] = cause
		}
	}
	return rec, nil
}
