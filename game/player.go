package game

import (
	"fmt"
	"strings"
)

type PlayerID uint8

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

func (id PlayerID) Opponent() PlayerID {
	if id == Player1 {
		return Player2
	}
	return Player1
}

func (id PlayerID) String() string {
	return fmt.Sprintf("player%d", uint8(id))
}

type RoleKind uint8

const (
	RoleNone RoleKind = iota
	RoleHuman
	RoleBot
)

// Role says who drives a player. Bots carry the name of their strategy.
type Role struct {
	Kind     RoleKind
	Strategy string
}

func NoneRole() Role               { return Role{Kind: RoleNone} }
func HumanRole() Role              { return Role{Kind: RoleHuman} }
func BotRole(strategy string) Role { return Role{Kind: RoleBot, Strategy: strategy} }

func (r Role) String() string {
	switch r.Kind {
	case RoleHuman:
		return "human"
	case RoleBot:
		return "bot:" + r.Strategy
	default:
		return "none"
	}
}

// ParseRole is the inverse of Role.String.
func ParseRole(s string) (Role, bool) {
	switch {
	case s == "human":
		return HumanRole(), true
	case s == "none":
		return NoneRole(), true
	case strings.HasPrefix(s, "bot:"):
		return BotRole(strings.TrimPrefix(s, "bot:")), true
	}
	return NoneRole(), false
}

// Cause records why a player died.
type Cause uint8

const (
	CauseNone Cause = iota
	CauseWall
	CauseSelf
	CauseOpponent
	CauseStuckInLoop
)

var causeNames = [...]string{"none", "wall", "self", "opponent", "stuck_in_loop"}

func (c Cause) String() string {
	if int(c) < len(causeNames) {
		return causeNames[c]
	}
	return fmt.Sprintf("cause(%d)", uint8(c))
}

// ParseCause is the inverse of Cause.String.
func ParseCause(s string) (Cause, bool) {
	for i, name := range causeNames {
		if name == s {
			return Cause(i), true
		}
	}
	return CauseNone, false
}

// Planner computes a bot's next movement. The returned Planner carries the bot's
// planning state into the next tick; simple strategies return a fresh value,
// stateful ones may return themselves.
//
// Implementations must return MoveForward when self is not installed or not alive.
type Planner interface {
	Plan(level *Level, self, opponent Player, food *Position) (Planner, Movement)
}

// Player is immutable; every With/Kill method returns an updated copy.
type Player struct {
	id        PlayerID
	installed bool
	alive     bool
	role      Role
	body      Body

	pendingMovement Movement
	pendingAct      Act
	causes          []Cause

	planner Planner
}

// NewPlayer creates an installed, alive player.
func NewPlayer(id PlayerID, role Role, body Body) Player {
	return Player{id: id, installed: true, alive: true, role: role, body: body}
}

// NewUninstalledPlayer creates a player that never takes part in the game.
func NewUninstalledPlayer(id PlayerID) Player {
	return Player{id: id, role: NoneRole()}
}

func (p Player) ID() PlayerID              { return p.id }
func (p Player) Installed() bool           { return p.installed }
func (p Player) Alive() bool               { return p.alive }
func (p Player) Active() bool              { return p.installed && p.alive }
func (p Player) Role() Role                { return p.role }
func (p Player) IsBot() bool               { return p.role.Kind == RoleBot }
func (p Player) IsHuman() bool             { return p.role.Kind == RoleHuman }
func (p Player) Body() Body                { return p.body }
func (p Player) Length() int               { return p.body.Length() }
func (p Player) PendingMovement() Movement { return p.pendingMovement }
func (p Player) PendingAct() Act           { return p.pendingAct }
func (p Player) Planner() Planner          { return p.planner }

// Causes returns the kill events in the order they happened.
func (p Player) Causes() []Cause {
	return append([]Cause(nil), p.causes...)
}

// LastCause returns the most recent kill event, or CauseNone.
func (p Player) LastCause() Cause {
	if len(p.causes) == 0 {
		return CauseNone
	}
	return p.causes[len(p.causes)-1]
}

func (p Player) WithBody(b Body) Player {
	p.body = b
	return p
}

func (p Player) WithPendingMovement(m Movement) Player {
	p.pendingMovement = m
	return p
}

func (p Player) WithPendingAct(a Act) Player {
	p.pendingAct = a
	return p
}

func (p Player) WithPlanner(pl Planner) Player {
	p.planner = pl
	return p
}

func (p Player) WithRole(r Role) Player {
	p.role = r
	return p
}

// Kill marks the player dead and appends cause to its kill history.
// Killing with CauseNone is a programming error.
func (p Player) Kill(cause Cause) Player {
	if cause == CauseNone {
		panic("game: kill event recorded without a cause")
	}
	p.alive = false
	p.pendingMovement = MoveNone
	p.causes = append(append([]Cause(nil), p.causes...), cause)
	return p
}

func (p Player) Uninstall() Player {
	p.installed = false
	p.alive = false
	return p
}
