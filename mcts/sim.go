package mcts

import (
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
	"github.com/neoneye/SwiftSnakeEngine-sub000/rules"
)

// sim is the game state reconstructed while walking down the tree. It is a
// value; every branch gets its own copy.
type sim struct {
	self    game.Body
	selfAct game.Act
	selfID  game.PlayerID

	opp          game.Body
	oppAct       game.Act
	oppInstalled bool
	oppActive    bool

	food    game.Position
	hasFood bool

	selfMove game.Movement
	oppMove  game.Movement

	first    game.Movement
	hasFirst bool

	depth     int
	eaten     int
	selfFoods int
	selfDead  bool
}

func newSim(self, opponent game.Player, food *game.Position) sim {
	s := sim{
		self:         self.Body(),
		selfAct:      self.PendingAct(),
		selfID:       self.ID(),
		oppInstalled: opponent.Installed(),
		oppActive:    opponent.Active(),
		oppAct:       opponent.PendingAct(),
	}
	if s.oppInstalled {
		s.opp = opponent.Body()
	}
	if food != nil {
		s.food, s.hasFood = *food, true
	}
	return s
}

func (s *sim) body(id game.PlayerID) game.Body {
	if id == s.selfID {
		return s.self
	}
	return s.opp
}

func (s *sim) setMove(id game.PlayerID, m game.Movement) {
	if id != s.selfID {
		s.oppMove = m
		return
	}
	s.selfMove = m
	if s.depth == 0 && !s.hasFirst {
		s.first, s.hasFirst = m, true
	}
}

// lastMover reports whether id's move completes the tick.
func (s *sim) lastMover(id game.PlayerID) bool {
	return id != s.selfID || !s.oppActive
}

func (s *sim) foodRef() *game.Position {
	if !s.hasFood {
		return nil
	}
	f := s.food
	return &f
}

// resolve runs the real collision rules on the moves chosen for this tick.
func (s *sim) resolve(level *game.Level) rules.Collision {
	c1 := rules.Contender{Installed: true, Alive: true, Next: s.self.StateForTick(s.selfMove, game.ActNothing)}
	c2 := rules.Contender{Installed: s.oppInstalled, Alive: s.oppActive, Next: s.opp}
	if s.oppActive {
		c2.Next = s.opp.StateForTick(s.oppMove, game.ActNothing)
	}
	return rules.Resolve(level, s.foodRef(), c1, c2)
}

// advance applies the tick the same way the step loop does.
func (s *sim) advance(level *game.Level) rules.Collision {
	out := s.resolve(level)
	s.depth++
	if out.Player1.Killed {
		s.selfDead = true
	} else {
		s.self = s.self.StateForTick(s.selfMove, s.selfAct)
		s.selfAct = game.ActNothing
		if out.Player1.EatsFood {
			s.selfAct = game.ActEat
			s.hasFood = false
			s.eaten++
			s.selfFoods++
		}
	}
	if s.oppActive {
		if out.Player2.Killed {
			s.oppActive = false
		} else {
			s.opp = s.opp.StateForTick(s.oppMove, s.oppAct)
			s.oppAct = game.ActNothing
			if out.Player2.EatsFood {
				s.oppAct = game.ActEat
				s.hasFood = false
				s.eaten++
			}
		}
	}
	s.selfMove, s.oppMove = game.MoveNone, game.MoveNone
	return out
}
