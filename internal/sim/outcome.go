package sim

// RoundState is the win/lose status of the current round.
type RoundState int

const (
	RoundOngoing RoundState = iota
	RoundWon
	RoundLost
)

func (s RoundState) String() string {
	switch s {
	case RoundOngoing:
		return "ongoing"
	case RoundWon:
		return "won"
	case RoundLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether the round has ended. Terminal states hold until
// the next ResetRound.
func (s RoundState) Terminal() bool {
	return s == RoundWon || s == RoundLost
}

// CollisionKind classifies a player collision by its scoring effect.
type CollisionKind int

const (
	CollisionTarget    CollisionKind = iota // reward + respawn
	CollisionDefensive                      // fixed penalty
	CollisionLethal                         // round lost
)

func (k CollisionKind) String() string {
	switch k {
	case CollisionTarget:
		return "target"
	case CollisionDefensive:
		return "defensive"
	case CollisionLethal:
		return "lethal"
	default:
		return "unknown"
	}
}

// Collision is one agent landing on the player during a tick.
type Collision struct {
	Agent    string
	Strategy Strategy
	Kind     CollisionKind
	At       Point
	Delta    int
}

// TickResult is what one Tick produced.
type TickResult struct {
	Tick       int
	Score      int
	ScoreDelta int
	Respawn    *Point // set when the target was relocated this tick
	State      RoundState
	Collisions []Collision
}
