// Package dataset captures finished games as parquet batches and reads them
// back: per-step turn rows for replay, per-game rows for summaries.
package dataset

import (
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// TurnRow is one snapshot of a game. Coordinates have (0,0) at the bottom
// left. Food has zero or one entry.
type TurnRow struct {
	GameID  string `parquet:"game_id,dict"`
	LevelID string `parquet:"level_id,dict"`
	Seed    uint64 `parquet:"seed"`
	Step    int32  `parquet:"step"`
	Width   int32  `parquet:"width"`
	Height  int32  `parquet:"height"`

	EmptyX []int32 `parquet:"empty_x"`
	EmptyY []int32 `parquet:"empty_y"`

	FoodX []int32 `parquet:"food_x"`
	FoodY []int32 `parquet:"food_y"`

	Players []TurnPlayer `parquet:"players"`
}

type TurnPlayer struct {
	ID        int32    `parquet:"id"`
	Role      string   `parquet:"role,dict"`
	Installed bool     `parquet:"installed"`
	Alive     bool     `parquet:"alive"`
	BodyX     []int32  `parquet:"body_x"`
	BodyY     []int32  `parquet:"body_y"`
	Causes    []string `parquet:"causes"`
}

// GameRow is the end-of-game aggregate.
type GameRow struct {
	GameID  string       `parquet:"game_id,dict"`
	LevelID string       `parquet:"level_id,dict"`
	Seed    uint64       `parquet:"seed"`
	Steps   int32        `parquet:"steps"`
	Players []GamePlayer `parquet:"players"`
}

type GamePlayer struct {
	ID       int32  `parquet:"id"`
	Role     string `parquet:"role,dict"`
	Strategy string `parquet:"strategy,dict"`
	Length   int32  `parquet:"length"`
	Alive    bool   `parquet:"alive"`
	Cause    string `parquet:"cause,dict"`
}

func splitXY(positions []game.Position) (xs, ys []int32) {
	xs = make([]int32, len(positions))
	ys = make([]int32, len(positions))
	for i, p := range positions {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

func joinXY(xs, ys []int32) []game.Position {
	n := min(len(xs), len(ys))
	out := make([]game.Position, n)
	for i := range n {
		out[i] = game.Position{X: xs[i], Y: ys[i]}
	}
	return out
}

// NewTurnRow snapshots s.
func NewTurnRow(gameID string, s game.State) TurnRow {
	l := s.Level()
	row := TurnRow{
		GameID:  gameID,
		LevelID: l.ID(),
		Seed:    s.FoodSeed(),
		Step:    int32(s.Step()),
		Width:   l.Width(),
		Height:  l.Height(),
	}
	row.EmptyX, row.EmptyY = splitXY(l.EmptyPositions())
	if f, ok := s.Food(); ok {
		row.FoodX, row.FoodY = []int32{f.X}, []int32{f.Y}
	}
	for _, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		p := s.Player(id)
		tp := TurnPlayer{
			ID:        int32(id),
			Role:      p.Role().String(),
			Installed: p.Installed(),
			Alive:     p.Alive(),
		}
		if p.Installed() {
			tp.BodyX, tp.BodyY = splitXY(p.Body().Positions())
		}
		for _, c := range p.Causes() {
			tp.Causes = append(tp.Causes, c.String())
		}
		row.Players = append(row.Players, tp)
	}
	return row
}

// NewGameRow aggregates the final state of a game.
func NewGameRow(gameID string, s game.State) GameRow {
	row := GameRow{
		GameID:  gameID,
		LevelID: s.Level().ID(),
		Seed:    s.FoodSeed(),
		Steps:   int32(s.Step()),
	}
	for _, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		p := s.Player(id)
		if !p.Installed() {
			continue
		}
		row.Players = append(row.Players, GamePlayer{
			ID:       int32(id),
			Role:     p.Role().String(),
			Strategy: p.Role().Strategy,
			Length:   int32(p.Length()),
			Alive:    p.Alive(),
			Cause:    p.LastCause().String(),
		})
	}
	return row
}
