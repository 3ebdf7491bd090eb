package bot

import (
	"math"
	"math/rand"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
	"github.com/neoneye/SwiftSnakeEngine-sub000/grid"
	"github.com/neoneye/SwiftSnakeEngine-sub000/rules"
)

type MonteCarloConfig struct {
	Rollouts int
	Depth    int
}

func DefaultMonteCarloConfig() MonteCarloConfig {
	return MonteCarloConfig{Rollouts: 48, Depth: 24}
}

// MonteCarlo plays random legal rollouts for both snakes and follows the
// best one. The generator is rebuilt every tick from (seed, tick), so the
// planner value carries its whole random state.
type MonteCarlo struct {
	cfg  MonteCarloConfig
	seed uint64
	tick uint64
	best []game.Movement
}

func NewMonteCarlo(cfg MonteCarloConfig, seed uint64) MonteCarlo {
	if cfg.Rollouts < 1 {
		cfg.Rollouts = 1
	}
	if cfg.Depth < 1 {
		cfg.Depth = 1
	}
	return MonteCarlo{cfg: cfg, seed: seed}
}

// rollout is the outcome of one simulated future.
type rollout struct {
	moves    []game.Movement
	survived int
	foodTick int
	distance int32
	area     int
}

// better is the ranking: longer survival, then earlier food, then closer to
// food, then more room.
func (r rollout) better(o rollout) bool {
	if r.survived != o.survived {
		return r.survived > o.survived
	}
	if r.foodTick != o.foodTick {
		return r.foodTick < o.foodTick
	}
	if r.distance != o.distance {
		return r.distance < o.distance
	}
	return r.area > o.area
}

func (mc MonteCarlo) Plan(level *game.Level, self, opponent game.Player, food *game.Position) (game.Planner, game.Movement) {
	if !self.Active() {
		return mc, game.MoveForward
	}
	rng := rand.New(rand.NewSource(int64(rules.Mix(mc.seed, mc.tick))))

	var dist grid.DistanceMap
	if food != nil {
		dist = obstacles(level, self, opponent).Distances(*food)
	}

	var top rollout
	found := false
	consider := func(r rollout) {
		if !found || r.better(top) {
			top, found = r, true
		}
	}
	if len(mc.best) > 1 {
		consider(mc.simulate(rng, level, self, opponent, food, dist, mc.best[1:]))
	}
	for i := 0; i < mc.cfg.Rollouts; i++ {
		consider(mc.simulate(rng, level, self, opponent, food, dist, nil))
	}

	next := MonteCarlo{cfg: mc.cfg, seed: mc.seed, tick: mc.tick + 1}
	if len(top.moves) == 0 {
		return next, largestArea(obstacles(level, self, opponent), self.Body())
	}
	next.best = top.moves
	return next, top.moves[0]
}

// simulate plays one rollout. Moves from planned are replayed first; the
// rest are random legal moves.
func (mc MonteCarlo) simulate(rng *rand.Rand, level *game.Level, self, opponent game.Player, food *game.Position, dist grid.DistanceMap, planned []game.Movement) rollout {
	r := rollout{
		moves:    make([]game.Movement, 0, mc.cfg.Depth),
		foodTick: math.MaxInt,
		distance: math.MaxInt32,
	}
	body := self.Body()
	act := self.PendingAct()
	oppActive := opponent.Active()
	var opp game.Body
	if opponent.Installed() {
		opp = opponent.Body()
	}
	oppAct := opponent.PendingAct()
	hasFood := food != nil
	var foodPos game.Position
	if hasFood {
		foodPos = *food
	}

	r.survived = mc.cfg.Depth
	for t := 0; t < mc.cfg.Depth; t++ {
		var m game.Movement
		ok := false
		if t < len(planned) {
			m = planned[t]
			ok = legal(level, body, act, opp, m)
		} else {
			m, ok = randomLegal(rng, level, body, act, opp)
		}
		if !ok {
			r.survived = t
			break
		}
		var om game.Movement
		if oppActive {
			if om, oppActive = randomLegal(rng, level, opp, oppAct, body); !oppActive {
				// The opponent is boxed in and dies where it stands.
				om = game.MoveNone
			}
		}

		body = body.StateForTick(m, act)
		act = game.ActNothing
		r.moves = append(r.moves, m)
		if oppActive {
			opp = opp.StateForTick(om, oppAct)
			oppAct = game.ActNothing
			if opp.HeadPosition() == body.HeadPosition() {
				// The move is kept as a first move, but the tick is not survived.
				r.survived = t
				break
			}
		}
		if hasFood && body.HeadPosition() == foodPos {
			if r.foodTick == math.MaxInt {
				r.foodTick = t + 1
			}
			act = game.ActEat
			hasFood = false
		} else if hasFood && oppActive && opp.HeadPosition() == foodPos {
			oppAct = game.ActEat
			hasFood = false
		}
	}
	died := r.survived < mc.cfg.Depth

	g := grid.New(level, body)
	if !opp.IsZero() {
		g.BlockBody(opp)
	}
	r.area = g.FloodFill(body.HeadPosition(), 0)
	if !died && r.foodTick == math.MaxInt && food != nil {
		if d, ok := dist.At(body.HeadPosition()); ok {
			r.distance = d
		}
	}
	return r
}

// legal reports whether m keeps the body off walls, itself and the opponent.
func legal(level *game.Level, body game.Body, act game.Act, opp game.Body, m game.Movement) bool {
	next := body.StateForTick(m, act)
	head := next.HeadPosition()
	if level.IsWall(head) || next.IsEatingItself() {
		return false
	}
	return opp.IsZero() || !opp.Contains(head)
}

func randomLegal(rng *rand.Rand, level *game.Level, body game.Body, act game.Act, opp game.Body) (game.Movement, bool) {
	var options [3]game.Movement
	n := 0
	for _, m := range game.Moves {
		if legal(level, body, act, opp, m) {
			options[n] = m
			n++
		}
	}
	if n == 0 {
		return game.MoveForward, false
	}
	return options[rng.Intn(n)], true
}
