package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Garsondee/grid-chase/internal/sim"
)

type runStats struct {
	runIndex int
	seed     int64
	roundID  string

	state sim.RoundState
	ticks int
	score int

	targetCatches  int
	defensiveHits  int
	respawns       int
	firstCatchTick int
	endTick        int // tick the round turned terminal, -1 if it timed out
	killer         string
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var difficulty string
	var configPath string
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless rounds")
	flag.IntVar(&ticks, "ticks", 600, "tick cap per round")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&difficulty, "difficulty", "medium", "difficulty (easy, medium, hard)")
	flag.StringVar(&configPath, "config", "", "optional YAML file overriding difficulty presets")
	flag.BoolVar(&verbose, "v", false, "print each round's report")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	d, err := sim.ParseDifficulty(difficulty)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	table, err := sim.LoadDifficultyFile(configPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	settings := table.Get(d)

	fmt.Printf("=== Headless Chase Report ===\n")
	fmt.Printf("difficulty=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", settings.Name, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		s, err := sim.NewSimulation(settings, sim.WithSeed(seed))
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		stats := runRound(s, i+1, seed, ticks)
		all = append(all, stats)
		printRun(stats)
		if verbose {
			fmt.Println(s.RoundReport(20))
		}
	}
	printAggregate(all)
}

// runRound plays one round with the autopilot until it ends or ticks runs out.
func runRound(s *sim.SimulationState, runIndex int, seed int64, ticks int) runStats {
	rs := runStats{runIndex: runIndex, seed: seed, roundID: s.RoundID, endTick: -1}
	for i := 0; i < ticks && !s.State.Terminal(); i++ {
		dx, dy := autopilot(s)
		s.MovePlayer(dx, dy)
		res := s.Tick()
		for _, c := range res.Collisions {
			if c.Kind == sim.CollisionLethal {
				rs.killer = c.Agent
			}
		}
		if res.State.Terminal() {
			rs.endTick = res.Tick
		}
	}
	rs.state = s.State
	rs.ticks = s.CurrentTick()
	rs.score = s.Score
	rs.targetCatches = s.SimLog.CountCategory(sim.CategoryCollision, sim.CollisionTarget.String())
	rs.defensiveHits = s.SimLog.CountCategory(sim.CategoryCollision, sim.CollisionDefensive.String())
	rs.respawns = s.SimLog.CountCategory(sim.CategoryRespawn, "")
	rs.firstCatchTick = s.SimLog.FirstTick(sim.CategoryCollision, sim.CollisionTarget.String())
	return rs
}

// autopilot picks the player step that closes on the target while keeping
// out of reach of agents that end the round.
func autopilot(s *sim.SimulationState) (int, int) {
	target := s.Target()
	if target == nil {
		return 0, 0
	}
	from := s.Player.Position()
	direct := sim.StepToward(from, target.Position())
	direct.X -= from.X
	direct.Y -= from.Y
	// The direct step is tried first so it wins ties.
	best, bestCost := sim.Point{}, 1<<30
	for _, d := range []sim.Point{direct, {X: 0, Y: 0}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}} {
		p := from.Add(d)
		if !s.Grid.IsValid(p.X, p.Y) {
			continue
		}
		cost := sim.Manhattan(p, target.Position()) + threatAt(s, p)
		if cost < bestCost {
			best, bestCost = d, cost
		}
	}
	return best.X, best.Y
}

// threatAt scores how dangerous cell p is for the next tick.
func threatAt(s *sim.SimulationState, p sim.Point) int {
	threat := 0
	for i, a := range s.Agents {
		if i == sim.TargetIndex {
			continue
		}
		dist := sim.Manhattan(p, a.Position())
		switch {
		case a.Strategy() == sim.StrategyDefensive:
			if dist <= 1 {
				threat += 5
			}
		case dist <= 1:
			threat += 1000
		case dist == 2:
			threat += 3
		}
	}
	return threat
}

func printRun(rs runStats) {
	fmt.Printf("run %d seed=%d round=%s\n", rs.runIndex, rs.seed, shortID(rs.roundID))
	fmt.Printf("  result=%s ticks=%s score=%d\n", rs.state, humanize.Comma(int64(rs.ticks)), rs.score)
	fmt.Printf("  catches=%d defensive_hits=%d respawns=%d first_catch=%s\n",
		rs.targetCatches, rs.defensiveHits, rs.respawns, tickString(rs.firstCatchTick))
	if rs.killer != "" {
		fmt.Printf("  caught_by=%s at tick %d\n", rs.killer, rs.endTick)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	won, lost, open := tally(all)
	totalTicks, totalScore, totalCatches := 0, 0, 0
	var catchTicks []int
	killers := map[string]int{}
	for _, rs := range all {
		totalTicks += rs.ticks
		totalScore += rs.score
		totalCatches += rs.targetCatches
		if rs.firstCatchTick >= 0 {
			catchTicks = append(catchTicks, rs.firstCatchTick)
		}
		if rs.killer != "" {
			killers[killerStrategy(rs.killer)]++
		}
	}

	fmt.Printf("=== Aggregate ===\n")
	fmt.Printf("won=%d lost=%d timed_out=%d win_rate=%.0f%%\n", won, lost, open, 100*ratio(won, len(all)))
	fmt.Printf("ticks_total=%s avg_ticks=%.1f\n", humanize.Comma(int64(totalTicks)), avg(totalTicks, len(all)))
	fmt.Printf("avg_score=%.1f catches_total=%s avg_first_catch=%s\n",
		avg(totalScore, len(all)), humanize.Comma(int64(totalCatches)), avgTickString(catchTicks))
	if len(killers) > 0 {
		fmt.Printf("losses_by=%s\n", joinCounts(killers))
	}
}

func tally(all []runStats) (won, lost, open int) {
	for _, rs := range all {
		switch rs.state {
		case sim.RoundWon:
			won++
		case sim.RoundLost:
			lost++
		default:
			open++
		}
	}
	return won, lost, open
}

// killerStrategy strips the roster index from an agent label ("greedy#1").
func killerStrategy(label string) string {
	name, _, _ := strings.Cut(label, "#")
	return name
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func ratio(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of)
}

func avg(sum int, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func tickString(t int) string {
	if t < 0 {
		return "-"
	}
	return fmt.Sprintf("T%d", t)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "-"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("T%.1f", avg(sum, len(vals)))
}

// joinCounts renders counts in strategy order.
func joinCounts(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, st := range []sim.Strategy{sim.StrategyRandom, sim.StrategyGreedy, sim.StrategyPatrol, sim.StrategyDefensive, sim.StrategyNone} {
		if n, ok := counts[st.String()]; ok {
			parts = append(parts, fmt.Sprintf("%s:%d", st, n))
		}
	}
	return strings.Join(parts, " ")
}
