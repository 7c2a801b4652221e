package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultGridWidth  = 20
	DefaultGridHeight = 15

	// TargetIndex is the roster slot of the agent the player is chasing.
	TargetIndex = 1

	targetReward     = 10 // multiplied by ScoreMultiplier
	defensivePenalty = 5
	respawnAttempts  = 1000
)

// PlayerSpawn is where the player token starts each round.
var PlayerSpawn = Point{10, 7}

// rosterSpawns lists the seed roster in order. An entry is used when the
// round's AgentCount is at least minCount.
var rosterSpawns = []struct {
	at       Point
	strategy Strategy
	minCount int
}{
	{Point{5, 5}, StrategyRandom, 2},
	{Point{15, 5}, StrategyGreedy, 2}, // TargetIndex
	{Point{5, 10}, StrategyDefensive, 3},
	{Point{15, 10}, StrategyPatrol, 4},
	{Point{10, 12}, StrategyRandom, 5},
}

type simConfig struct {
	width   int
	height  int
	rng     *rand.Rand
	verbose bool
	feedCap int
}

// SimOption configures NewSimulation.
type SimOption func(*simConfig)

// WithGridSize sets the board dimensions.
func WithGridSize(w, h int) SimOption {
	return func(c *simConfig) {
		c.width = w
		c.height = h
	}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return func(c *simConfig) {
		c.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- game only
	}
}

// WithRand injects the random source shared by movement and respawns.
func WithRand(rng *rand.Rand) SimOption {
	return func(c *simConfig) {
		c.rng = rng
	}
}

// WithVerbose enables per-agent move entries in the SimLog.
func WithVerbose(v bool) SimOption {
	return func(c *simConfig) {
		c.verbose = v
	}
}

// WithFeedCapacity sets how many recent events the EventFeed keeps.
func WithFeedCapacity(n int) SimOption {
	return func(c *simConfig) {
		c.feedCap = n
	}
}

// SimulationState owns everything a round needs: the board, the player
// token, the agent roster, score and round status. It is not safe for
// concurrent use.
type SimulationState struct {
	Grid     *Grid
	Player   *Agent
	Agents   []*Agent // fixed order; Agents[TargetIndex] is the target
	Settings DifficultySettings
	Score    int
	State    RoundState
	RoundID  string
	SimLog   *SimLog
	Feed     *EventFeed

	tick int
	rng  *rand.Rand
}

// NewSimulation builds the board and starts a round with settings.
func NewSimulation(settings DifficultySettings, opts ...SimOption) (*SimulationState, error) {
	cfg := simConfig{
		width:  DefaultGridWidth,
		height: DefaultGridHeight,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- game only
	}
	g, err := NewGrid(cfg.width, cfg.height)
	if err != nil {
		return nil, err
	}
	s := &SimulationState{
		Grid:   g,
		SimLog: NewSimLog(cfg.verbose),
		Feed:   NewEventFeed(cfg.feedCap),
		rng:    cfg.rng,
	}
	if err := s.ResetRound(settings); err != nil {
		return nil, err
	}
	return s, nil
}

// ResetRound replaces the player and the roster per settings and clears
// score, tick and status. On error the previous round is left untouched.
func (s *SimulationState) ResetRound(settings DifficultySettings) error {
	settings = settings.withDefaults()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("reset round: %w", err)
	}
	player, err := NewAgent(PlayerSpawn.X, PlayerSpawn.Y, StrategyNone, s.Grid)
	if err != nil {
		return fmt.Errorf("reset round: player: %w", err)
	}
	player.SetLabel("player")

	agents := make([]*Agent, 0, settings.AgentCount)
	for _, sp := range rosterSpawns {
		if settings.AgentCount < sp.minCount {
			continue
		}
		a, err := NewAgent(sp.at.X, sp.at.Y, sp.strategy, s.Grid)
		if err != nil {
			return fmt.Errorf("reset round: roster: %w", err)
		}
		a.SetLabel(fmt.Sprintf("%s#%d", sp.strategy, len(agents)))
		agents = append(agents, a)
	}

	s.Player = player
	s.Agents = agents
	s.Settings = settings
	s.Score = 0
	s.State = RoundOngoing
	s.RoundID = uuid.NewString()
	s.tick = 0
	s.SimLog.Reset()
	s.Feed.Clear()
	s.SimLog.Add(0, "--", CategoryRound, "reset",
		fmt.Sprintf("%s agents=%d target=%d", settings.Name, len(agents), settings.TargetScore), float64(len(agents)))
	return nil
}

// Target returns the agent whose capture scores points.
func (s *SimulationState) Target() *Agent {
	if len(s.Agents) <= TargetIndex {
		return nil
	}
	return s.Agents[TargetIndex]
}

// CurrentTick returns the number of ticks run this round.
func (s *SimulationState) CurrentTick() int {
	return s.tick
}

// MovePlayer shifts the player token one step. It refuses moves off the
// grid and any move once the round is over.
func (s *SimulationState) MovePlayer(dx, dy int) bool {
	if s.State.Terminal() {
		return false
	}
	from := s.Player.Position()
	if !s.Player.MoveBy(dx, dy) {
		return false
	}
	s.SimLog.AddVerbose(s.tick, s.Player.Label(), CategoryMove, "input",
		fmt.Sprintf("%s → %s", from, s.Player.Position()), 1)
	return true
}

// Tick advances the round once. Agents act in roster order: each one
// except the target steps, then is checked against the player's current
// position before the next agent moves. Every collision in the tick is
// applied. The round ends after the last agent: won if any capture reached
// the target score, otherwise lost if any lethal agent landed on the
// player. A terminal round is returned unchanged.
func (s *SimulationState) Tick() TickResult {
	res := TickResult{Tick: s.tick, Score: s.Score, State: s.State}
	if s.State.Terminal() {
		return res
	}
	s.tick++
	res.Tick = s.tick

	var won, lost bool

	for i, a := range s.Agents {
		if i != TargetIndex {
			from := a.Position()
			a.Step(s.othersFor(i), s.rng)
			s.SimLog.AddVerbose(s.tick, a.Label(), CategoryMove, "step",
				fmt.Sprintf("%s → %s", from, a.Position()), float64(Manhattan(from, a.Position())))
		}
		if !a.At(s.Player.Position()) {
			continue
		}
		c := s.resolveCollision(i, a, &res)
		res.Collisions = append(res.Collisions, c)
		res.ScoreDelta += c.Delta
		switch {
		case c.Kind == CollisionLethal:
			lost = true
		case c.Kind == CollisionTarget && s.Score >= s.Settings.TargetScore:
			won = true
		}
	}

	switch {
	case won:
		s.setState(RoundWon)
	case lost:
		s.setState(RoundLost)
	}

	res.Score = s.Score
	res.State = s.State
	return res
}

// RunTicks advances up to n ticks, stopping early at a terminal state.
func (s *SimulationState) RunTicks(n int) {
	for i := 0; i < n && !s.State.Terminal(); i++ {
		s.Tick()
	}
}

// RunUntil advances up to maxTicks, stopping early if predicate returns
// true. Returns the tick at which the predicate was satisfied, or -1.
func (s *SimulationState) RunUntil(predicate func(*SimulationState) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		s.Tick()
		if predicate(s) {
			return s.tick
		}
	}
	return -1
}

// othersFor is the roster without agent i, followed by the player.
func (s *SimulationState) othersFor(i int) []*Agent {
	out := make([]*Agent, 0, len(s.Agents))
	out = append(out, s.Agents[:i]...)
	out = append(out, s.Agents[i+1:]...)
	return append(out, s.Player)
}

func (s *SimulationState) resolveCollision(i int, a *Agent, res *TickResult) Collision {
	c := Collision{Agent: a.Label(), Strategy: a.Strategy(), At: a.Position()}
	switch {
	case i == TargetIndex:
		c.Kind = CollisionTarget
		c.Delta = targetReward * s.Settings.ScoreMultiplier
		s.Score += c.Delta
		p := s.respawnTarget()
		res.Respawn = &p
		s.SimLog.Add(s.tick, a.Label(), CategoryRespawn, "target", p.String(), float64(Chebyshev(p, s.Player.Position())))
		s.Feed.Add(s.tick, c.Delta, fmt.Sprintf("target caught +%d", c.Delta))
	case a.Strategy() == StrategyDefensive:
		c.Kind = CollisionDefensive
		c.Delta = -defensivePenalty
		s.Score += c.Delta
		s.Feed.Add(s.tick, c.Delta, fmt.Sprintf("hit %s %d", a.Label(), c.Delta))
	default:
		c.Kind = CollisionLethal
		s.Feed.Add(s.tick, 0, "caught by "+a.Label())
	}
	s.SimLog.Add(s.tick, a.Label(), CategoryCollision, c.Kind.String(), c.At.String(), float64(c.Delta))
	if c.Delta != 0 {
		s.SimLog.Add(s.tick, "player", CategoryScore, "delta", fmt.Sprintf("%+d → %d", c.Delta, s.Score), float64(s.Score))
	}

	return c
}

func (s *SimulationState) setState(next RoundState) {
	if s.State == next {
		return
	}
	s.SimLog.Add(s.tick, "--", CategoryState, "change", fmt.Sprintf("%s → %s", s.State, next), float64(s.Score))
	s.State = next
	s.Feed.Add(s.tick, 0, "round "+next.String())
}

// respawnTarget moves the target to a random cell that keeps at least
// MinSeparation on one axis from every roster agent and the player.
// Sampling is bounded; past the bound the most isolated cell is used.
func (s *SimulationState) respawnTarget() Point {
	target := s.Agents[TargetIndex]
	occupants := make([]*Agent, 0, len(s.Agents)+1)
	occupants = append(occupants, s.Agents...)
	occupants = append(occupants, s.Player)

	sep := s.Settings.MinSeparation
	w, h := s.Grid.Width(), s.Grid.Height()
	for i := 0; i < respawnAttempts; i++ {
		p := Point{s.rng.Intn(w), s.rng.Intn(h)}
		if separation(p, occupants) >= sep {
			target.SetPosition(p.X, p.Y)
			return p
		}
	}
	p := s.mostIsolatedCell(occupants)
	target.SetPosition(p.X, p.Y)
	return p
}

// separation is the Chebyshev distance from p to the closest occupant.
func separation(p Point, occupants []*Agent) int {
	best := -1
	for _, o := range occupants {
		d := Chebyshev(p, o.Position())
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// mostIsolatedCell scans row-major and returns the first cell with the
// largest separation from occupants.
func (s *SimulationState) mostIsolatedCell(occupants []*Agent) Point {
	var best Point
	bestSep := -1
	for y := 0; y < s.Grid.Height(); y++ {
		for x := 0; x < s.Grid.Width(); x++ {
			p := Point{x, y}
			if d := separation(p, occupants); d > bestSep {
				best, bestSep = p, d
			}
		}
	}
	return best
}

// AgentSnapshot is a lightweight copy of an agent at a tick.
type AgentSnapshot struct {
	Label    string
	Strategy Strategy
	Pos      Point
	Target   bool
}

// Snapshot captures positions for rendering and reports.
type Snapshot struct {
	Tick   int
	Score  int
	State  RoundState
	Player Point
	Agents []AgentSnapshot
}

// Snapshot returns the current state of the round.
func (s *SimulationState) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:   s.tick,
		Score:  s.Score,
		State:  s.State,
		Player: s.Player.Position(),
		Agents: make([]AgentSnapshot, 0, len(s.Agents)),
	}
	for i, a := range s.Agents {
		snap.Agents = append(snap.Agents, AgentSnapshot{
			Label:    a.Label(),
			Strategy: a.Strategy(),
			Pos:      a.Position(),
			Target:   i == TargetIndex,
		})
	}
	return snap
}
