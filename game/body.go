package game

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
)

var (
	ErrBodyTooShort    = errors.New("body needs at least two positions")
	ErrBodyNotAdjacent = errors.New("body positions are not adjacent")
	ErrBodyDuplicate   = errors.New("body contains a duplicate position")
)

// Content marks food travelling through the body after it has been swallowed.
type Content uint8

const (
	ContentEmpty Content = iota
	ContentFood
)

type BodyPart struct {
	Position Position
	Content  Content
}

type Head struct {
	Position  Position
	Direction Direction
}

// SimulateTick returns the head after performing m.
func (h Head) SimulateTick(m Movement) Head {
	if m == MoveNone {
		return h
	}
	dir := m.Apply(h.Direction)
	return Head{Position: h.Position.Step(dir), Direction: dir}
}

// Body is an immutable snake body. parts is ordered tail first, head last.
// Every method that changes the body returns a new value and leaves the receiver untouched.
type Body struct {
	parts []BodyPart
	head  Head
}

// NewBody lays out a straight body of the given length trailing behind head.
// The caller is responsible for passing a length >= 1 and a layout that fits the level.
func NewBody(head Position, dir Direction, length int) Body {
	if length < 1 {
		length = 1
	}
	back := dir.Opposite()
	parts := make([]BodyPart, length)
	p := head
	for i := length - 1; i >= 0; i-- {
		parts[i] = BodyPart{Position: p}
		p = p.Step(back)
	}
	return Body{parts: parts, head: Head{Position: head, Direction: dir}}
}

// NewBodyFromPositions builds a body from head-first positions.
// The heading points from the second position towards the head.
func NewBodyFromPositions(positions []Position) (Body, error) {
	if len(positions) < 2 {
		return Body{}, ErrBodyTooShort
	}
	seen := make(map[Position]struct{}, len(positions))
	for i, p := range positions {
		if _, dup := seen[p]; dup {
			return Body{}, fmt.Errorf("%w: %v at index %d", ErrBodyDuplicate, p, i)
		}
		seen[p] = struct{}{}
		if i > 0 && !positions[i-1].Adjacent(p) {
			return Body{}, fmt.Errorf("%w: %v and %v", ErrBodyNotAdjacent, positions[i-1], p)
		}
	}
	dir, _ := DirectionBetween(positions[1], positions[0])

	parts := make([]BodyPart, len(positions))
	for i, p := range positions {
		parts[len(positions)-1-i] = BodyPart{Position: p}
	}
	return Body{parts: parts, head: Head{Position: positions[0], Direction: dir}}, nil
}

func (b Body) Head() Head                   { return b.head }
func (b Body) HeadPosition() Position       { return b.head.Position }
func (b Body) HeadDirection() Direction     { return b.head.Direction }
func (b Body) Length() int                  { return len(b.parts) }
func (b Body) IsZero() bool                 { return len(b.parts) == 0 }
func (b Body) TailPosition() Position       { return b.parts[0].Position }
func (b Body) PartAt(i int) BodyPart        { return b.parts[i] }
func (b Body) String() string               { return fmt.Sprintf("body%v", b.Positions()) }
func (b Body) Equal(o Body) bool            { return b.head == o.head && partsEqual(b.parts, o.parts) }
func (b Body) SimulateTick(m Movement) Head { return b.head.SimulateTick(m) }

func partsEqual(a, b []BodyPart) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Positions returns the occupied cells head first.
func (b Body) Positions() []Position {
	out := make([]Position, len(b.parts))
	for i, part := range b.parts {
		out[len(b.parts)-1-i] = part.Position
	}
	return out
}

// Parts returns a copy of the parts, tail first.
func (b Body) Parts() []BodyPart {
	out := make([]BodyPart, len(b.parts))
	copy(out, b.parts)
	return out
}

func (b Body) Contains(p Position) bool {
	for _, part := range b.parts {
		if part.Position == p {
			return true
		}
	}
	return false
}

// IsEatingItself reports whether the head shares a cell with any other part.
func (b Body) IsEatingItself() bool {
	n := len(b.parts)
	if n < 2 {
		return false
	}
	head := b.parts[n-1].Position
	for _, part := range b.parts[:n-1] {
		if part.Position == head {
			return true
		}
	}
	return false
}

// StateForTick advances the body by one tick.
// With ActEat the tail stays and the body grows by one part.
func (b Body) StateForTick(m Movement, act Act) Body {
	if m == MoveNone || len(b.parts) == 0 {
		return b
	}
	head := b.head.SimulateTick(m)
	content := ContentEmpty
	if act == ActEat {
		content = ContentFood
	}

	keep := b.parts
	if act != ActEat {
		keep = keep[1:]
	}
	parts := make([]BodyPart, len(keep), len(keep)+1)
	copy(parts, keep)
	parts = append(parts, BodyPart{Position: head.Position, Content: content})
	return Body{parts: parts, head: head}
}

// MoveToward returns the movement that brings the head closest to target.
// ok is false when the target lies directly behind the head, since a snake cannot reverse.
// A target equal to the head position yields (MoveNone, true).
func (b Body) MoveToward(target Position) (m Movement, ok bool) {
	head := b.head.Position
	if target == head {
		return MoveNone, true
	}
	dx, dy := b.head.Direction.Delta()
	rx := target.X - head.X
	ry := target.Y - head.Y

	ahead := rx*dx + ry*dy
	if ahead > 0 {
		return MoveForward, true
	}
	// Left of the heading is the heading rotated counter-clockwise: (-dy, dx).
	lateral := -rx*dy + ry*dx
	switch {
	case lateral > 0:
		return MoveCCW, true
	case lateral < 0:
		return MoveCW, true
	}
	return MoveNone, false
}

// Fingerprint hashes the body layout and heading.
func (b Body) Fingerprint() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(b.head.Direction))
	_, _ = h.Write(buf[:])
	for _, part := range b.parts {
		binary.LittleEndian.PutUint64(buf[:], (uint64(uint32(part.Position.X))<<32)|uint64(uint32(part.Position.Y)))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
