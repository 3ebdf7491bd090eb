// Package game defines the immutable model of a two-player snake game: geometry,
// the frozen level grid, snake bodies, players and whole-game snapshots.
//
// Every value here is either frozen (Level) or copied on update (Body, Player,
// State), so snapshots can be kept on an undo stack and shared with a UI safely.
package game

// State is a snapshot of one game instant. Mutators return a new State and leave
// the receiver untouched; the Level is shared by reference.
type State struct {
	level    *Level
	food     *Position
	player1  Player
	player2  Player
	foodSeed uint64
	step     uint32
}

func NewState(level *Level, player1, player2 Player, foodSeed uint64) State {
	return State{level: level, player1: player1, player2: player2, foodSeed: foodSeed}
}

func (s State) Level() *Level    { return s.level }
func (s State) Player1() Player  { return s.player1 }
func (s State) Player2() Player  { return s.player2 }
func (s State) FoodSeed() uint64 { return s.foodSeed }
func (s State) Step() uint32     { return s.step }

func (s State) Food() (Position, bool) {
	if s.food == nil {
		return Position{}, false
	}
	return *s.food, true
}

// FoodRef returns a fresh pointer to the food position, or nil.
func (s State) FoodRef() *Position {
	if s.food == nil {
		return nil
	}
	f := *s.food
	return &f
}

func (s State) Player(id PlayerID) Player {
	if id == Player2 {
		return s.player2
	}
	return s.player1
}

func (s State) WithFood(p Position) State {
	s.food = &p
	return s
}

func (s State) WithoutFood() State {
	s.food = nil
	return s
}

func (s State) WithPlayer1(p Player) State {
	s.player1 = p
	return s
}

func (s State) WithPlayer2(p Player) State {
	s.player2 = p
	return s
}

// WithPlayer replaces the player slot matching p.ID().
func (s State) WithPlayer(p Player) State {
	if p.ID() == Player2 {
		s.player2 = p
	} else {
		s.player1 = p
	}
	return s
}

func (s State) KillPlayer1(cause Cause) State {
	s.player1 = s.player1.Kill(cause)
	return s
}

func (s State) KillPlayer2(cause Cause) State {
	s.player2 = s.player2.Kill(cause)
	return s
}

func (s State) WithFoodSeed(seed uint64) State {
	s.foodSeed = seed
	return s
}

func (s State) IncrementStep() State {
	s.step++
	return s
}

// Occupied reports whether an installed snake covers p. Dead snakes stay on the board.
func (s State) Occupied(p Position) bool {
	for _, pl := range [2]Player{s.player1, s.player2} {
		if pl.Installed() && pl.Body().Contains(p) {
			return true
		}
	}
	return false
}

// CanPlaceFood reports whether p is an empty level cell free of snakes.
func (s State) CanPlaceFood(p Position) bool {
	return s.level != nil && s.level.IsEmpty(p) && !s.Occupied(p)
}

// IsOver reports whether no installed player is still alive.
func (s State) IsOver() bool {
	return !s.player1.Active() && !s.player2.Active()
}
