package game

import "fmt"

// Position is a grid coordinate.
// Coordinates follow the (0,0) bottom-left convention: Up increases Y.
type Position struct {
	X int32
	Y int32
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func (p Position) Offset(dx, dy int32) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Step returns the neighbouring cell in direction d.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return p.Offset(dx, dy)
}

func (p Position) ManhattanDistance(o Position) int32 {
	return abs32(p.X-o.X) + abs32(p.Y-o.Y)
}

// Adjacent reports whether p and o share an edge.
func (p Position) Adjacent(o Position) bool {
	return p.ManhattanDistance(o) == 1
}

// Neighbors returns the four edge-adjacent cells in Up, Left, Right, Down order.
func (p Position) Neighbors() [4]Position {
	return [4]Position{p.Step(Up), p.Step(Left), p.Step(Right), p.Step(Down)}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Direction is an absolute heading.
type Direction uint8

const (
	Up Direction = iota
	Left
	Right
	Down
)

var directionNames = [...]string{"up", "left", "right", "down"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

func (d Direction) Delta() (int32, int32) {
	switch d {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

// RotateCCW turns the heading 90 degrees counter-clockwise.
func (d Direction) RotateCCW() Direction {
	switch d {
	case Up:
		return Left
	case Left:
		return Down
	case Down:
		return Right
	default:
		return Up
	}
}

// RotateCW turns the heading 90 degrees clockwise.
func (d Direction) RotateCW() Direction {
	switch d {
	case Up:
		return Right
	case Right:
		return Down
	case Down:
		return Left
	default:
		return Up
	}
}

func (d Direction) Opposite() Direction {
	return d.RotateCW().RotateCW()
}

// DirectionBetween returns the heading that moves from a to the adjacent cell b.
func DirectionBetween(a, b Position) (Direction, bool) {
	switch {
	case b.X == a.X && b.Y == a.Y+1:
		return Up, true
	case b.X == a.X && b.Y == a.Y-1:
		return Down, true
	case b.Y == a.Y && b.X == a.X-1:
		return Left, true
	case b.Y == a.Y && b.X == a.X+1:
		return Right, true
	}
	return Up, false
}

// Movement is relative to the current heading.
type Movement uint8

const (
	MoveNone Movement = iota
	MoveCCW
	MoveForward
	MoveCW
)

// Moves lists the three real movements in left, forward, right order.
var Moves = [3]Movement{MoveCCW, MoveForward, MoveCW}

var movementNames = [...]string{"none", "ccw", "forward", "cw"}

func (m Movement) String() string {
	if int(m) < len(movementNames) {
		return movementNames[m]
	}
	return fmt.Sprintf("movement(%d)", uint8(m))
}

// Apply returns the heading after performing m while facing d.
func (m Movement) Apply(d Direction) Direction {
	switch m {
	case MoveCCW:
		return d.RotateCCW()
	case MoveCW:
		return d.RotateCW()
	default:
		return d
	}
}

// Act tells the body whether the tail stays in place this tick.
type Act uint8

const (
	ActNothing Act = iota
	ActEat
)

func (a Act) String() string {
	if a == ActEat {
		return "eat"
	}
	return "nothing"
}
