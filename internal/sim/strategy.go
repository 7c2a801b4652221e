package sim

import "math/rand"

// mover is the per-strategy movement policy behind Agent.Step.
type mover interface {
	move(a *Agent, others []*Agent, rng *rand.Rand)
}

func newMover(s Strategy, g *Grid) (mover, error) {
	switch s {
	case StrategyNone:
		return stillMover{}, nil
	case StrategyRandom:
		return randomMover{}, nil
	case StrategyGreedy:
		return greedyMover{}, nil
	case StrategyDefensive:
		return defensiveMover{}, nil
	case StrategyPatrol:
		return &patrolMover{waypoints: g.Corners()}, nil
	}
	return nil, ErrUnknownStrategy
}

// stillMover never moves; the player token is driven from outside.
type stillMover struct{}

func (stillMover) move(*Agent, []*Agent, *rand.Rand) {}

type randomMover struct{}

func (randomMover) move(a *Agent, _ []*Agent, rng *rand.Rand) {
	moveRandom(a, rng)
}

func moveRandom(a *Agent, rng *rand.Rand) {
	nbrs := a.grid.Neighbors(a.pos.X, a.pos.Y)
	if len(nbrs) == 0 {
		return
	}
	a.pos = nbrs[rng.Intn(len(nbrs))]
}

type greedyMover struct{}

func (greedyMover) move(a *Agent, others []*Agent, rng *rand.Rand) {
	near := nearest(a.pos, others)
	if near == nil {
		moveRandom(a, rng)
		return
	}
	stepAxis(a, near.pos.X-a.pos.X, near.pos.Y-a.pos.Y)
}

type defensiveMover struct{}

func (defensiveMover) move(a *Agent, others []*Agent, rng *rand.Rand) {
	near := nearest(a.pos, others)
	if near == nil {
		moveRandom(a, rng)
		return
	}
	stepAxis(a, a.pos.X-near.pos.X, a.pos.Y-near.pos.Y)
}

// patrolMover tours the grid corners. The cursor moves on as soon as the
// agent stands on the current waypoint, before that step's move.
type patrolMover struct {
	waypoints []Point
	index     int
}

func (pm *patrolMover) move(a *Agent, _ []*Agent, _ *rand.Rand) {
	if len(pm.waypoints) == 0 {
		return
	}
	if a.pos == pm.waypoints[pm.index] {
		pm.index = (pm.index + 1) % len(pm.waypoints)
	}
	target := pm.waypoints[pm.index]
	stepAxis(a, target.X-a.pos.X, target.Y-a.pos.Y)
}

// nearest returns the first agent in others with the smallest Manhattan
// distance to p, or nil when others is empty.
func nearest(p Point, others []*Agent) *Agent {
	var best *Agent
	bestDist := 0
	for _, o := range others {
		if o == nil {
			continue
		}
		d := Manhattan(p, o.pos)
		if best == nil || d < bestDist {
			best, bestDist = o, d
		}
	}
	return best
}

// stepAxis moves one cell along a single axis of (dx, dy). The horizontal
// axis wins only when strictly longer. A blocked candidate leaves a in place.
func stepAxis(a *Agent, dx, dy int) {
	next := a.pos.Add(axisStep(dx, dy))
	if a.grid.IsValid(next.X, next.Y) {
		a.pos = next
	}
}

func axisStep(dx, dy int) Point {
	if abs(dx) > abs(dy) {
		return Point{unitSign(dx), 0}
	}
	return Point{0, unitSign(dy)}
}

// unitSign is +1 for positive d and -1 otherwise, zero included.
func unitSign(d int) int {
	if d > 0 {
		return 1
	}
	return -1
}

// StepToward returns the cell one step from `from` toward `to` under the
// same axis rule the chasing strategies use. It does not check bounds.
func StepToward(from, to Point) Point {
	if from == to {
		return from
	}
	return from.Add(axisStep(to.X-from.X, to.Y-from.Y))
}

// Manhattan is |Δx| + |Δy|.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Chebyshev is max(|Δx|, |Δy|).
func Chebyshev(a, b Point) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
