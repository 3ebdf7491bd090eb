package bot

import (
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// Greedy follows a cached shortest path to the food and only searches again
// when the path runs out, the food moves, or the next step is blocked.
type Greedy struct {
	path   []game.Position
	target game.Position
}

// Path is the remaining cached route, next cell first.
func (g Greedy) Path() []game.Position { return g.path }

func (g Greedy) Plan(level *game.Level, self, opponent game.Player, food *game.Position) (game.Planner, game.Movement) {
	if !self.Active() {
		return g, game.MoveForward
	}
	body := self.Body()
	obs := obstacles(level, self, opponent)

	path := g.path
	if food == nil || *food != g.target {
		path = nil
	}
	if len(path) > 0 && (!body.HeadPosition().Adjacent(path[0]) || !obs.Free(path[0])) {
		path = nil
	}
	if len(path) == 0 && food != nil {
		if p, ok := obs.Path(body.HeadPosition(), *food); ok {
			path = p
		}
	}

	if len(path) > 0 {
		next := path[0]
		if m, ok := body.MoveToward(next); ok && m != game.MoveNone && body.SimulateTick(m).Position == next {
			rest := append([]game.Position(nil), path[1:]...)
			return Greedy{path: rest, target: *food}, m
		}
	}
	return Greedy{}, largestArea(obs, body)
}
