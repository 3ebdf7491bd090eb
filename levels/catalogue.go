package levels

import "github.com/neoneye/SwiftSnakeEngine-sub000/game"

func pos(x, y int32) game.Position { return game.Position{X: x, Y: y} }

// Builtin lists the levels that ship with the module.
var Builtin = []Definition{
	{
		ID:   "empty10x10",
		Name: "Empty 10x10",
		Rows: []string{
			"**********",
			"*........*",
			"*........*",
			"*........*",
			"*.......F*",
			"*........*",
			"*........*",
			"*........*",
			"*........*",
			"**********",
		},
		Player1: []game.Position{pos(3, 5), pos(2, 5), pos(1, 5)},
	},
	{
		ID:   "duel20x14",
		Name: "Duel",
		Rows: []string{
			"********************",
			"*..................*",
			"*..................*",
			"*.............*....*",
			"*.............*....*",
			"*.............*....*",
			"*.......****.......*",
			"*.......****.......*",
			"*....*.............*",
			"*....*.............*",
			"*....*....F........*",
			"*..................*",
			"*..................*",
			"********************",
		},
		Player1: []game.Position{pos(2, 4), pos(2, 3), pos(2, 2)},
		Player2: []game.Position{pos(17, 9), pos(17, 10), pos(17, 11)},
	},
	{
		ID:   "pocket20x8",
		Name: "Dead end",
		Rows: []string{
			"********************",
			"*..................*",
			"*..................*",
			"*..................*",
			"*..................*",
			"*.....**************",
			"*.......F..........*",
			"********************",
		},
		Player1: []game.Position{
			pos(5, 1), pos(4, 1), pos(3, 1), pos(2, 1), pos(1, 1),
			pos(1, 2), pos(1, 3), pos(1, 4), pos(1, 5), pos(1, 6),
			pos(2, 6), pos(3, 6), pos(4, 6), pos(5, 6), pos(6, 6), pos(7, 6),
		},
	},
	{
		ID:   "maze16x12",
		Name: "Maze",
		Rows: []string{
			"****************",
			"*.......*......*",
			"*....****......*",
			"*.......*......*",
			"*...*...*...*..*",
			"*...*...*...*..*",
			"*...*...*...*..*",
			"*...*...*...*..*",
			"*...*.......*..*",
			"*...*.....F.*..*",
			"*...*.......*..*",
			"****************",
		},
		Player1:     []game.Position{pos(2, 3), pos(2, 2), pos(2, 1)},
		Player2:     []game.Position{pos(14, 8), pos(14, 9), pos(14, 10)},
		ClusterTile: 4,
	},
}
