package game

import (
	"fmt"
)

// DefaultClusterTile is the block size used when cluster ids are assigned automatically.
const DefaultClusterTile = 5

// LevelBuilder assembles a Level. Setters assume in-bounds positions;
// Build validates the result and computes cluster distances.
type LevelBuilder struct {
	id     string
	name   string
	width  int32
	height int32

	cells       []Cell
	clusters    []int32
	clusterTile int32
	distances   map[ClusterPair]int32

	food   *Position
	bodies [2]*Body
}

// NewLevelBuilder starts a level of the given size with every cell empty.
func NewLevelBuilder(id string, width, height int32) *LevelBuilder {
	n := 0
	if width > 0 && height > 0 {
		n = int(width * height)
	}
	clusters := make([]int32, n)
	for i := range clusters {
		clusters[i] = NoCluster
	}
	return &LevelBuilder{
		id:          id,
		name:        id,
		width:       width,
		height:      height,
		cells:       make([]Cell, n),
		clusters:    clusters,
		clusterTile: DefaultClusterTile,
	}
}

func (b *LevelBuilder) inBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < b.width && p.Y < b.height
}

func (b *LevelBuilder) index(p Position) int {
	return int(p.Y*b.width + p.X)
}

func (b *LevelBuilder) SetName(name string) *LevelBuilder {
	b.name = name
	return b
}

func (b *LevelBuilder) SetCell(p Position, c Cell) *LevelBuilder {
	if b.inBounds(p) {
		b.cells[b.index(p)] = c
	}
	return b
}

// SetWallBorder turns the outermost ring of cells into walls.
func (b *LevelBuilder) SetWallBorder() *LevelBuilder {
	for x := int32(0); x < b.width; x++ {
		b.SetCell(Position{X: x, Y: 0}, CellWall)
		b.SetCell(Position{X: x, Y: b.height - 1}, CellWall)
	}
	for y := int32(0); y < b.height; y++ {
		b.SetCell(Position{X: 0, Y: y}, CellWall)
		b.SetCell(Position{X: b.width - 1, Y: y}, CellWall)
	}
	return b
}

// SetCluster assigns an explicit cluster id to an empty cell.
func (b *LevelBuilder) SetCluster(p Position, id int32) *LevelBuilder {
	if b.inBounds(p) {
		b.clusters[b.index(p)] = id
	}
	return b
}

// SetClusterTile sets the block size for cells without an explicit cluster id.
func (b *LevelBuilder) SetClusterTile(tile int32) *LevelBuilder {
	if tile > 0 {
		b.clusterTile = tile
	}
	return b
}

// SetClusterDistances supplies precomputed hop counts, typically loaded from a cache.
// Build skips the distance search when they are present.
func (b *LevelBuilder) SetClusterDistances(d map[ClusterPair]int32) *LevelBuilder {
	b.distances = make(map[ClusterPair]int32, len(d))
	for k, v := range d {
		b.distances[NewClusterPair(k.A, k.B)] = v
	}
	return b
}

func (b *LevelBuilder) SetInitialFood(p Position) *LevelBuilder {
	b.food = &p
	return b
}

func (b *LevelBuilder) SetInitialBody(id PlayerID, body Body) *LevelBuilder {
	i := int(id) - 1
	if i >= 0 && i < 2 {
		b.bodies[i] = &body
	}
	return b
}

// Build validates the level, assigns missing cluster ids and computes cluster distances.
func (b *LevelBuilder) Build() (*Level, error) {
	if b.width <= 0 || b.height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrLevelSize, b.width, b.height)
	}

	l := &Level{
		id:       b.id,
		name:     b.name,
		width:    b.width,
		height:   b.height,
		cells:    append([]Cell(nil), b.cells...),
		clusters: append([]int32(nil), b.clusters...),
	}
	for i, c := range l.cells {
		if c == CellWall {
			l.clusters[i] = NoCluster
			continue
		}
		l.empty = append(l.empty, l.PositionAt(i))
	}

	if b.food != nil {
		if err := checkEmpty(l, *b.food); err != nil {
			return nil, fmt.Errorf("initial food: %w", err)
		}
		f := *b.food
		l.food = &f
	}
	for i, body := range b.bodies {
		if body == nil {
			continue
		}
		for _, p := range body.Positions() {
			if err := checkEmpty(l, p); err != nil {
				return nil, fmt.Errorf("player %d body: %w", i+1, err)
			}
		}
		copied := *body
		l.bodies[i] = &copied
	}

	assignClusters(l, b.clusterTile)

	if b.distances != nil {
		l.distances = b.distances
	} else {
		l.distances = computeClusterDistances(l)
	}
	return l, nil
}

func checkEmpty(l *Level, p Position) error {
	if !l.InBounds(p) {
		return fmt.Errorf("%w: %v", ErrLevelOutOfBounds, p)
	}
	if l.IsWall(p) {
		return fmt.Errorf("%w: %v", ErrLevelBlocked, p)
	}
	return nil
}

// assignClusters gives every empty cell without an explicit id a cluster.
// Unassigned cells are grouped by tile blocks; each 4-connected group inside a block
// becomes its own cluster, so every automatic cluster is connected.
func assignClusters(l *Level, tile int32) {
	next := int32(0)
	for _, c := range l.clusters {
		if c >= next {
			next = c + 1
		}
	}

	blockOf := func(p Position) (int32, int32) { return p.X / tile, p.Y / tile }

	for _, start := range l.empty {
		si := l.Index(start)
		if l.clusters[si] != NoCluster {
			continue
		}
		bx, by := blockOf(start)
		id := next
		next++

		l.clusters[si] = id
		queue := []Position{start}
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			for _, n := range p.Neighbors() {
				if !l.IsEmpty(n) {
					continue
				}
				ni := l.Index(n)
				if l.clusters[ni] != NoCluster {
					continue
				}
				if nx, ny := blockOf(n); nx != bx || ny != by {
					continue
				}
				l.clusters[ni] = id
				queue = append(queue, n)
			}
		}
	}
}

// computeClusterDistances finds, for every pair of clusters that do not touch, the number
// of cluster transitions along a shortest path between their representative cells.
func computeClusterDistances(l *Level) map[ClusterPair]int32 {
	members := map[int32][]Position{}
	var ids []int32
	for _, p := range l.empty {
		id := l.clusters[l.Index(p)]
		if _, ok := members[id]; !ok {
			ids = append(ids, id)
		}
		members[id] = append(members[id], p)
	}

	adjacent := map[ClusterPair]struct{}{}
	for _, p := range l.empty {
		a := l.clusters[l.Index(p)]
		for _, n := range p.Neighbors() {
			if !l.IsEmpty(n) {
				continue
			}
			if c := l.clusters[l.Index(n)]; c != a {
				adjacent[NewClusterPair(a, c)] = struct{}{}
			}
		}
	}

	reps := make(map[int32]Position, len(ids))
	for _, id := range ids {
		reps[id] = representative(members[id])
	}

	distances := map[ClusterPair]int32{}
	parent := make([]int32, l.NumCells())
	for ai, a := range ids {
		bfsParents(l, reps[a], parent)
		for _, b := range ids[ai+1:] {
			pair := NewClusterPair(a, b)
			if _, ok := adjacent[pair]; ok {
				continue
			}
			target := l.Index(reps[b])
			if parent[target] == -1 {
				distances[pair] = Unreachable
				continue
			}
			distances[pair] = countHops(l, parent, target)
		}
	}
	return distances
}

// representative picks the member cell nearest to the cluster centroid.
func representative(cells []Position) Position {
	var sx, sy int64
	for _, p := range cells {
		sx += int64(p.X)
		sy += int64(p.Y)
	}
	n := int64(len(cells))
	centroid := Position{X: int32(sx / n), Y: int32(sy / n)}
	best := cells[0]
	bestD := best.ManhattanDistance(centroid)
	for _, p := range cells[1:] {
		if d := p.ManhattanDistance(centroid); d < bestD {
			best, bestD = p, d
		}
	}
	return best
}

// bfsParents fills parent with the BFS tree rooted at start over empty cells.
// Unreached cells get -1, the root points at itself.
func bfsParents(l *Level, start Position, parent []int32) {
	for i := range parent {
		parent[i] = -1
	}
	si := l.Index(start)
	parent[si] = int32(si)
	queue := []Position{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		pi := int32(l.Index(p))
		for _, n := range p.Neighbors() {
			if !l.IsEmpty(n) {
				continue
			}
			ni := l.Index(n)
			if parent[ni] != -1 {
				continue
			}
			parent[ni] = pi
			queue = append(queue, n)
		}
	}
}

func countHops(l *Level, parent []int32, target int) int32 {
	hops := int32(0)
	i := target
	for int(parent[i]) != i {
		p := int(parent[i])
		if l.clusters[p] != l.clusters[i] {
			hops++
		}
		i = p
	}
	return hops
}
