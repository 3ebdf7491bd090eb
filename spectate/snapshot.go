// Package spectate streams game snapshots to websocket viewers.
package spectate

import (
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

type Point struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

type Snake struct {
	ID     int      `json:"id"`
	Role   string   `json:"role"`
	Alive  bool     `json:"alive"`
	Body   []Point  `json:"body"` // head first
	Causes []string `json:"causes,omitempty"`
}

// Snapshot is one frame as a viewer sees it.
type Snapshot struct {
	GameID  string  `json:"game_id"`
	LevelID string  `json:"level_id"`
	Step    uint32  `json:"step"`
	Width   int32   `json:"width"`
	Height  int32   `json:"height"`
	Walls   []Point `json:"walls,omitempty"`
	Food    *Point  `json:"food,omitempty"`
	Snakes  []Snake `json:"snakes"`
	Over    bool    `json:"over"`
}

// Event is the envelope written to websocket clients.
type Event struct {
	Type string   `json:"type"` // "frame" or "game_end"
	Data Snapshot `json:"data"`
}

func points(ps []game.Position) []Point {
	out := make([]Point, len(ps))
	for i, p := range ps {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}

func walls(l *game.Level) []Point {
	var out []Point
	for y := int32(0); y < l.Height(); y++ {
		for x := int32(0); x < l.Width(); x++ {
			if p := (game.Position{X: x, Y: y}); l.IsWall(p) {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

// NewSnapshot converts s. Walls are included so a viewer that joins late
// can draw the board from any frame.
func NewSnapshot(gameID string, s game.State) Snapshot {
	l := s.Level()
	snap := Snapshot{
		GameID:  gameID,
		LevelID: l.ID(),
		Step:    s.Step(),
		Width:   l.Width(),
		Height:  l.Height(),
		Walls:   walls(l),
		Over:    s.IsOver(),
	}
	if f, ok := s.Food(); ok {
		snap.Food = &Point{X: f.X, Y: f.Y}
	}
	for _, id := range [2]game.PlayerID{game.Player1, game.Player2} {
		p := s.Player(id)
		if !p.Installed() {
			continue
		}
		sn := Snake{ID: int(id), Role: p.Role().String(), Alive: p.Alive(), Body: points(p.Body().Positions())}
		for _, c := range p.Causes() {
			sn.Causes = append(sn.Causes, c.String())
		}
		snap.Snakes = append(snap.Snakes, sn)
	}
	return snap
}
