package game

import "strings"

// Board draws s with the top row first: '#' wall, '*' food, 'A'/'B' the
// heads of player 1 and 2, 'a'/'b' their bodies and 'x' a dead head.
func (s State) Board() string {
	l := s.Level()
	var sb strings.Builder
	sb.Grow(int((l.Width() + 1) * l.Height()))
	for y := l.Height() - 1; y >= 0; y-- {
		for x := int32(0); x < l.Width(); x++ {
			sb.WriteByte(s.cell(Position{X: x, Y: y}))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (s State) cell(p Position) byte {
	for i, pl := range [2]Player{s.player1, s.player2} {
		if !pl.Installed() || !pl.Body().Contains(p) {
			continue
		}
		if pl.Body().HeadPosition() != p {
			return byte('a' + i)
		}
		if !pl.Alive() {
			return 'x'
		}
		return byte('A' + i)
	}
	if f, ok := s.Food(); ok && f == p {
		return '*'
	}
	if s.Level().IsWall(p) {
		return '#'
	}
	return '.'
}
