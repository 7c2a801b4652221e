package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// ErrUnknownStrategy is returned by ParseStrategy for unrecognised names.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy selects how an agent moves on its own.
type Strategy int

const (
	StrategyNone      Strategy = iota // player token, moved by input only
	StrategyRandom                    // uniform random neighbour
	StrategyGreedy                    // step toward nearest other agent
	StrategyDefensive                 // step away from nearest other agent
	StrategyPatrol                    // clockwise corner tour
)

func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyRandom:
		return "random"
	case StrategyGreedy:
		return "greedy"
	case StrategyDefensive:
		return "defensive"
	case StrategyPatrol:
		return "patrol"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a name produced by String back to its Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "player":
		return StrategyNone, nil
	case "random":
		return StrategyRandom, nil
	case "greedy":
		return StrategyGreedy, nil
	case "defensive":
		return StrategyDefensive, nil
	case "patrol":
		return StrategyPatrol, nil
	}
	return StrategyNone, fmt.Errorf("%q: %w", name, ErrUnknownStrategy)
}

// Agent is a token on the grid. The grid is shared and not owned.
type Agent struct {
	pos      Point
	strategy Strategy
	label    string
	grid     *Grid
	mover    mover
}

// NewAgent places an agent at (x, y). The position must be inside g.
func NewAgent(x, y int, s Strategy, g *Grid) (*Agent, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	if !g.IsValid(x, y) {
		return nil, fmt.Errorf("new %s agent at (%d,%d) on %dx%d grid: %w",
			s, x, y, g.Width(), g.Height(), ErrOutOfBounds)
	}
	mv, err := newMover(s, g)
	if err != nil {
		return nil, err
	}
	return &Agent{
		pos:      Point{x, y},
		strategy: s,
		label:    s.String(),
		grid:     g,
		mover:    mv,
	}, nil
}

func (a *Agent) Position() Point    { return a.pos }
func (a *Agent) X() int             { return a.pos.X }
func (a *Agent) Y() int             { return a.pos.Y }
func (a *Agent) Strategy() Strategy { return a.strategy }
func (a *Agent) Label() string      { return a.label }
func (a *Agent) SetLabel(l string)  { a.label = l }
func (a *Agent) At(p Point) bool    { return a.pos == p }
func (a *Agent) String() string     { return a.label + a.pos.String() }

// PatrolWaypoints returns the patrol tour, or nil for non-patrol agents.
func (a *Agent) PatrolWaypoints() []Point {
	if pm, ok := a.mover.(*patrolMover); ok {
		return append([]Point(nil), pm.waypoints...)
	}
	return nil
}

// PatrolIndex returns the cursor into PatrolWaypoints, or -1 for non-patrol agents.
func (a *Agent) PatrolIndex() int {
	if pm, ok := a.mover.(*patrolMover); ok {
		return pm.index
	}
	return -1
}

// Step moves the agent once according to its strategy. others are the
// agents it measures distance against; the player token belongs in there.
// rng feeds Random moves and the empty-others fallback.
func (a *Agent) Step(others []*Agent, rng *rand.Rand) {
	a.mover.move(a, others, rng)
}

// SetPosition relocates the agent. Invalid cells are refused.
func (a *Agent) SetPosition(x, y int) bool {
	if !a.grid.IsValid(x, y) {
		return false
	}
	a.pos = Point{x, y}
	return true
}

// MoveBy shifts the agent by (dx, dy) if the destination is inside the grid.
func (a *Agent) MoveBy(dx, dy int) bool {
	return a.SetPosition(a.pos.X+dx, a.pos.Y+dy)
}
