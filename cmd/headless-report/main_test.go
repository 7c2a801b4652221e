package main

import (
	"strings"
	"testing"

	"github.com/Garsondee/grid-chase/internal/sim"
)

func newRound(t *testing.T, d sim.Difficulty, seed int64) *sim.SimulationState {
	t.Helper()
	s, err := sim.NewSimulation(sim.Preset(d), sim.WithSeed(seed))
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return s
}

func TestAutopilot_StepsOntoAdjacentTarget(t *testing.T) {
	s := newRound(t, sim.DifficultyMedium, 1)
	far := []sim.Point{{X: 0, Y: 0}, {X: 14, Y: 5}, {X: 0, Y: 14}, {X: 19, Y: 14}}
	for i, p := range far {
		s.Agents[i].SetPosition(p.X, p.Y)
	}
	s.Player.SetPosition(13, 5)

	dx, dy := autopilot(s)
	if dx != 1 || dy != 0 {
		t.Fatalf("autopilot=(%d,%d), want (1,0)", dx, dy)
	}
}

func TestAutopilot_PrefersChaseAxisOnTies(t *testing.T) {
	s := newRound(t, sim.DifficultyEasy, 1)
	s.Agents[0].SetPosition(0, 0)
	s.Agents[1].SetPosition(12, 9)
	s.Agents[2].SetPosition(0, 14)
	s.Player.SetPosition(10, 7)

	// Right and down close the gap equally; the chase axis rule picks
	// vertical on a tie.
	dx, dy := autopilot(s)
	if dx != 0 || dy != 1 {
		t.Fatalf("autopilot=(%d,%d), want (0,1)", dx, dy)
	}
}

func TestAutopilot_AvoidsLethalReach(t *testing.T) {
	s := newRound(t, sim.DifficultyEasy, 1)
	s.Agents[0].SetPosition(12, 7) // random
	s.Agents[1].SetPosition(15, 7) // target
	s.Agents[2].SetPosition(0, 14) // defensive
	s.Player.SetPosition(10, 7)

	dx, dy := autopilot(s)
	next := sim.Point{X: 10 + dx, Y: 7 + dy}
	if sim.Manhattan(next, s.Agents[0].Position()) <= 1 {
		t.Fatalf("autopilot walked next to a lethal agent: %s", next)
	}
}

func TestRunRound_DeterministicPerSeed(t *testing.T) {
	a := runRound(newRound(t, sim.DifficultyHard, 99), 1, 99, 300)
	b := runRound(newRound(t, sim.DifficultyHard, 99), 1, 99, 300)
	a.roundID, b.roundID = "", ""
	if a != b {
		t.Fatalf("same seed gave different runs:\n%+v\n%+v", a, b)
	}
	if a.state.Terminal() && a.endTick != a.ticks {
		t.Fatalf("endTick=%d ticks=%d", a.endTick, a.ticks)
	}
	if a.score != 30*a.targetCatches-5*a.defensiveHits {
		t.Fatalf("score %d does not match %d catches and %d hits", a.score, a.targetCatches, a.defensiveHits)
	}
}

func TestTally(t *testing.T) {
	all := []runStats{
		{state: sim.RoundWon},
		{state: sim.RoundLost},
		{state: sim.RoundLost},
		{state: sim.RoundOngoing},
	}
	won, lost, open := tally(all)
	if won != 1 || lost != 2 || open != 1 {
		t.Fatalf("tally=(%d,%d,%d), want (1,2,1)", won, lost, open)
	}
}

func TestKillerStrategyAndJoinCounts(t *testing.T) {
	if got := killerStrategy("greedy#1"); got != "greedy" {
		t.Fatalf("killerStrategy=%q", got)
	}
	got := joinCounts(map[string]int{"patrol": 2, "random": 1})
	if got != "random:1 patrol:2" {
		t.Fatalf("joinCounts=%q", got)
	}
}

func TestTickHelpers(t *testing.T) {
	if tickString(-1) != "-" || tickString(12) != "T12" {
		t.Fatal("tickString mismatch")
	}
	if avgTickString(nil) != "-" {
		t.Fatal("empty avg should be -")
	}
	if got := avgTickString([]int{10, 15}); !strings.HasPrefix(got, "T12.5") {
		t.Fatalf("avgTickString=%q", got)
	}
	if shortID("0123456789") != "01234567" || shortID("ab") != "ab" {
		t.Fatal("shortID mismatch")
	}
}
