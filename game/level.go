package game

import (
	"errors"
)

var (
	ErrLevelSize        = errors.New("level size must be positive")
	ErrLevelOutOfBounds = errors.New("position outside level")
	ErrLevelBlocked     = errors.New("position is not an empty cell")
)

type Cell uint8

const (
	CellEmpty Cell = iota
	CellWall
)

// ClusterHopWeight converts a cluster hop count into an approximate cell distance.
const ClusterHopWeight = 10

// NoCluster is the cluster id of walls and of cells outside the level.
const NoCluster int32 = -1

// Unreachable is stored for cluster pairs with no route between them.
const Unreachable int32 = -1

// ClusterPair is an unordered pair of cluster ids. Use NewClusterPair to build one.
type ClusterPair struct {
	A int32
	B int32
}

func NewClusterPair(a, b int32) ClusterPair {
	if a > b {
		a, b = b, a
	}
	return ClusterPair{A: a, B: b}
}

// Level is a frozen grid. It is built once by a LevelBuilder and shared by reference
// between every game state that plays on it.
type Level struct {
	id     string
	name   string
	width  int32
	height int32

	cells     []Cell
	clusters  []int32
	distances map[ClusterPair]int32
	empty     []Position

	food   *Position
	bodies [2]*Body
}

func (l *Level) ID() string    { return l.id }
func (l *Level) Name() string  { return l.name }
func (l *Level) Width() int32  { return l.width }
func (l *Level) Height() int32 { return l.height }
func (l *Level) NumCells() int { return int(l.width * l.height) }
func (l *Level) NumEmpty() int { return len(l.empty) }
func (l *Level) Clusters() int { return countClusters(l.clusters) }

func (l *Level) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < l.width && p.Y < l.height
}

// Index maps an in-bounds position to its offset in row-major cell storage.
func (l *Level) Index(p Position) int {
	return int(p.Y*l.width + p.X)
}

// PositionAt is the inverse of Index.
func (l *Level) PositionAt(i int) Position {
	return Position{X: int32(i) % l.width, Y: int32(i) / l.width}
}

// Cell returns the cell at p. Everything outside the grid is a wall.
func (l *Level) Cell(p Position) Cell {
	if !l.InBounds(p) {
		return CellWall
	}
	return l.cells[l.Index(p)]
}

func (l *Level) IsWall(p Position) bool  { return l.Cell(p) == CellWall }
func (l *Level) IsEmpty(p Position) bool { return l.Cell(p) == CellEmpty }

func (l *Level) ClusterID(p Position) (int32, bool) {
	if !l.InBounds(p) {
		return NoCluster, false
	}
	id := l.clusters[l.Index(p)]
	return id, id != NoCluster
}

// EmptyPositions lists every empty cell in row-major order.
// The returned slice is shared; callers must not modify it.
func (l *Level) EmptyPositions() []Position {
	return l.empty
}

// ClusterDistances returns a copy of the precomputed hop counts between non-adjacent clusters.
func (l *Level) ClusterDistances() map[ClusterPair]int32 {
	out := make(map[ClusterPair]int32, len(l.distances))
	for k, v := range l.distances {
		out[k] = v
	}
	return out
}

func (l *Level) InitialFood() (Position, bool) {
	if l.food == nil {
		return Position{}, false
	}
	return *l.food, true
}

// InitialBody returns the preset body for a player, if the level defines one.
func (l *Level) InitialBody(id PlayerID) (Body, bool) {
	i := int(id) - 1
	if i < 0 || i > 1 || l.bodies[i] == nil {
		return Body{}, false
	}
	return *l.bodies[i], true
}

// EstimateDistance is a cheap long-range distance heuristic.
// Inside one cluster, and between adjacent clusters, it is the Manhattan distance.
// Otherwise it is the precomputed cluster hop count weighted by ClusterHopWeight.
// ok is false when no route connects the two clusters.
func (l *Level) EstimateDistance(a, b Position) (d int32, ok bool) {
	ca, okA := l.ClusterID(a)
	cb, okB := l.ClusterID(b)
	if !okA || !okB || ca == cb {
		return a.ManhattanDistance(b), true
	}
	hops, found := l.distances[NewClusterPair(ca, cb)]
	if !found {
		return a.ManhattanDistance(b), true
	}
	if hops == Unreachable {
		return 0, false
	}
	return hops * ClusterHopWeight, true
}

func countClusters(clusters []int32) int {
	seen := map[int32]struct{}{}
	for _, c := range clusters {
		if c != NoCluster {
			seen[c] = struct{}{}
		}
	}
	return len(seen)
}
