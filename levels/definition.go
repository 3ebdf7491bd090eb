// Package levels loads levels by id or name: built-in ASCII definitions are
// parsed into game.Level values and their inter-cluster distances are cached
// on disk.
package levels

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// Definition is a level in source form. Rows are listed top line first:
// '*' or '#' is a wall, '.' empty, 'F' the initial food.
type Definition struct {
	ID          string
	Name        string
	Rows        []string
	Player1     []game.Position // head first
	Player2     []game.Position
	ClusterTile int32
}

func (d Definition) size() (int32, int32) {
	if len(d.Rows) == 0 {
		return 0, 0
	}
	return int32(len(d.Rows[0])), int32(len(d.Rows))
}

// Checksum identifies the definition's content. It keys the distance cache.
func (d Definition) Checksum() string {
	h := sha256.New()
	var buf [8]byte
	write := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	write(d.ID)
	for _, r := range d.Rows {
		write(r)
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(d.ClusterTile))
	h.Write(buf[:])
	return hex.EncodeToString(h.Sum(nil))
}

// builder parses the rows into a level builder with bodies and food set.
func (d Definition) builder() (*game.LevelBuilder, error) {
	w, h := d.size()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("level %s: %w", d.ID, game.ErrLevelSize)
	}
	b := game.NewLevelBuilder(d.ID, w, h).SetName(d.Name)
	if d.ClusterTile > 0 {
		b.SetClusterTile(d.ClusterTile)
	}
	for row, line := range d.Rows {
		if int32(len(line)) != w {
			return nil, fmt.Errorf("level %s row %d: width %d want %d: %w", d.ID, row, len(line), w, game.ErrLevelSize)
		}
		y := h - 1 - int32(row)
		for x, ch := range []byte(line) {
			p := game.Position{X: int32(x), Y: y}
			switch ch {
			case '*', '#':
				b.SetCell(p, game.CellWall)
			case 'F':
				b.SetInitialFood(p)
			case '.':
			default:
				return nil, fmt.Errorf("level %s: unknown cell %q at %v", d.ID, ch, p)
			}
		}
	}
	for i, positions := range [2][]game.Position{d.Player1, d.Player2} {
		if len(positions) == 0 {
			continue
		}
		body, err := game.NewBodyFromPositions(positions)
		if err != nil {
			return nil, fmt.Errorf("level %s player %d: %w", d.ID, i+1, err)
		}
		b.SetInitialBody(game.PlayerID(i+1), body)
	}
	return b, nil
}

// Build parses the definition and computes its clusters and distances.
func (d Definition) Build() (*game.Level, error) {
	b, err := d.builder()
	if err != nil {
		return nil, err
	}
	return b.Build()
}
