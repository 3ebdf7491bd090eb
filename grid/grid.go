// Package grid provides the occupancy bitmap and the area/path searches the
// planners run over it.
package grid

import (
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// Grid is a mutable occupancy bitmap over a level. Walls and cells outside the
// level are always blocked.
type Grid struct {
	level   *game.Level
	blocked []bool
}

// New blocks the level walls plus every cell covered by bodies.
func New(level *game.Level, bodies ...game.Body) *Grid {
	g := &Grid{level: level, blocked: make([]bool, level.NumCells())}
	for i := range g.blocked {
		g.blocked[i] = level.IsWall(level.PositionAt(i))
	}
	for _, b := range bodies {
		g.BlockBody(b)
	}
	return g
}

func (g *Grid) Level() *game.Level { return g.level }

func (g *Grid) Free(p game.Position) bool {
	return g.level.InBounds(p) && !g.blocked[g.level.Index(p)]
}

func (g *Grid) Block(p game.Position) {
	if g.level.InBounds(p) {
		g.blocked[g.level.Index(p)] = true
	}
}

// Unblock frees p unless it is a wall.
func (g *Grid) Unblock(p game.Position) {
	if g.level.InBounds(p) && !g.level.IsWall(p) {
		g.blocked[g.level.Index(p)] = false
	}
}

func (g *Grid) BlockBody(b game.Body) {
	for i := 0; i < b.Length(); i++ {
		g.Block(b.PartAt(i).Position)
	}
}

func (g *Grid) Clone() *Grid {
	return &Grid{level: g.level, blocked: append([]bool(nil), g.blocked...)}
}

// FloodFill counts the free cells reachable from start. start itself is not
// counted and does not need to be free, so it can be called from a snake head.
// A positive limit stops the search once that many cells are found.
func (g *Grid) FloodFill(start game.Position, limit int) int {
	if !g.level.InBounds(start) {
		return 0
	}
	seen := make([]bool, len(g.blocked))
	seen[g.level.Index(start)] = true
	queue := []game.Position{start}
	count := 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range p.Neighbors() {
			if !g.Free(n) {
				continue
			}
			ni := g.level.Index(n)
			if seen[ni] {
				continue
			}
			seen[ni] = true
			count++
			if limit > 0 && count >= limit {
				return count
			}
			queue = append(queue, n)
		}
	}
	return count
}

// Unreached marks cells a DistanceMap could not reach.
const Unreached int32 = -1

// DistanceMap holds BFS step counts from a source cell over free cells.
type DistanceMap struct {
	level *game.Level
	dist  []int32
}

// Distances runs a BFS from source. source is always distance zero even when blocked.
func (g *Grid) Distances(source game.Position) DistanceMap {
	dm := DistanceMap{level: g.level, dist: make([]int32, len(g.blocked))}
	for i := range dm.dist {
		dm.dist[i] = Unreached
	}
	if !g.level.InBounds(source) {
		return dm
	}
	dm.dist[g.level.Index(source)] = 0
	queue := []game.Position{source}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		d := dm.dist[g.level.Index(p)]
		for _, n := range p.Neighbors() {
			if !g.Free(n) {
				continue
			}
			ni := g.level.Index(n)
			if dm.dist[ni] != Unreached {
				continue
			}
			dm.dist[ni] = d + 1
			queue = append(queue, n)
		}
	}
	return dm
}

// At returns the distance to p, or false when p was not reached.
func (dm DistanceMap) At(p game.Position) (int32, bool) {
	if dm.level == nil || !dm.level.InBounds(p) {
		return 0, false
	}
	d := dm.dist[dm.level.Index(p)]
	return d, d != Unreached
}

// Path finds a shortest path from start to goal over free cells. goal may be
// blocked only if it is the food or target cell the caller wants to step on,
// so it is always accepted as a destination. The path excludes start.
func (g *Grid) Path(start, goal game.Position) ([]game.Position, bool) {
	return ShortestPath(start, goal, func(p game.Position, visit func(game.Position)) {
		for _, n := range p.Neighbors() {
			if n == goal || g.Free(n) {
				visit(n)
			}
		}
	})
}
