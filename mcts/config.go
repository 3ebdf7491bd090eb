package mcts

// Config bounds how much work the planner does per tick. The planner has no
// clock; cost depends only on these caps and the seed.
type Config struct {
	// MaxDepth is the number of ticks below the root the tree may reach.
	MaxDepth int
	// MaxNodes caps the arena size.
	MaxNodes int
	// SelfBreadth is the move-choice cap for the controlled player by tick
	// depth. The last entry applies to every deeper tick.
	SelfBreadth []int
	// OpponentBreadth is the same cap for the opponent.
	OpponentBreadth []int
	// FoodSamples is the food-placement cap before any food is eaten along a
	// branch. Each eating event lowers it by one, down to one sample.
	FoodSamples int
}

func DefaultConfig() Config {
	return Config{
		MaxDepth:        9,
		MaxNodes:        30000,
		SelfBreadth:     []int{3, 3, 2, 2, 1},
		OpponentBreadth: []int{3, 2, 1},
		FoodSamples:     3,
	}
}

func breadthAt(caps []int, depth int) int {
	if len(caps) == 0 {
		return 1
	}
	if depth >= len(caps) {
		depth = len(caps) - 1
	}
	return max(caps[depth], 1)
}

func (c Config) foodCap(eaten int) int {
	return max(c.FoodSamples-(eaten-1), 1)
}
