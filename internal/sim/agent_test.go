package sim

import (
	"errors"
	"math/rand"
	"testing"
)

func mustAgent(t *testing.T, x, y int, s Strategy, g *Grid) *Agent {
	t.Helper()
	a, err := NewAgent(x, y, s, g)
	if err != nil {
		t.Fatalf("NewAgent(%d,%d,%s): %v", x, y, s, err)
	}
	return a
}

func TestNewAgent_OutOfBoundsFails(t *testing.T) {
	g := MustNewGrid(5, 5)
	if _, err := NewAgent(10, 10, StrategyGreedy, g); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err=%v, want ErrOutOfBounds", err)
	}
	if _, err := NewAgent(-1, 0, StrategyRandom, g); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err=%v, want ErrOutOfBounds", err)
	}
	if _, err := NewAgent(0, 0, StrategyRandom, nil); !errors.Is(err, ErrNilGrid) {
		t.Fatalf("err=%v, want ErrNilGrid", err)
	}
	if _, err := NewAgent(0, 0, Strategy(42), g); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("err=%v, want ErrUnknownStrategy", err)
	}
}

func TestParseStrategy_RoundTrip(t *testing.T) {
	for _, s := range []Strategy{StrategyNone, StrategyRandom, StrategyGreedy, StrategyDefensive, StrategyPatrol} {
		got, err := ParseStrategy(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseStrategy(%q)=(%v,%v), want %v", s.String(), got, err, s)
		}
	}
	if _, err := ParseStrategy("sneaky"); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("err=%v, want ErrUnknownStrategy", err)
	}
}

func TestGreedy_StepsVerticallyTowardTarget(t *testing.T) {
	g := MustNewGrid(10, 10)
	a := mustAgent(t, 5, 5, StrategyGreedy, g)
	other := mustAgent(t, 5, 1, StrategyNone, g)
	a.Step([]*Agent{other}, rand.New(rand.NewSource(1)))
	if a.Position() != (Point{5, 4}) {
		t.Fatalf("greedy moved to %v, want (5,4)", a.Position())
	}
}

func TestGreedy_TieBreaksVertical(t *testing.T) {
	g := MustNewGrid(10, 10)
	a := mustAgent(t, 0, 0, StrategyGreedy, g)
	other := mustAgent(t, 2, 2, StrategyNone, g)
	a.Step([]*Agent{other}, rand.New(rand.NewSource(1)))
	if a.Position() != (Point{0, 1}) {
		t.Fatalf("greedy moved to %v, want (0,1)", a.Position())
	}
}

func TestGreedy_StepsHorizontallyWhenStrictlyWider(t *testing.T) {
	g := MustNewGrid(10, 10)
	a := mustAgent(t, 5, 5, StrategyGreedy, g)
	other := mustAgent(t, 1, 7, StrategyNone, g)
	a.Step([]*Agent{other}, rand.New(rand.NewSource(1)))
	if a.Position() != (Point{4, 5}) {
		t.Fatalf("greedy moved to %v, want (4,5)", a.Position())
	}
}

func TestGreedy_FirstNearestWins(t *testing.T) {
	g := MustNewGrid(10, 10)
	a := mustAgent(t, 5, 5, StrategyGreedy, g)
	below := mustAgent(t, 5, 8, StrategyNone, g)
	above := mustAgent(t, 5, 2, StrategyNone, g)
	far := mustAgent(t, 0, 0, StrategyNone, g)
	a.Step([]*Agent{far, below, above}, rand.New(rand.NewSource(1)))
	if a.Position() != (Point{5, 6}) {
		t.Fatalf("greedy moved to %v, want (5,6) toward the first nearest", a.Position())
	}
}

func TestGreedy_SameCellStepsUp(t *testing.T) {
	g := MustNewGrid(10, 10)
	a := mustAgent(t, 4, 4, StrategyGreedy, g)
	other := mustAgent(t, 4, 4, StrategyNone, g)
	a.Step([]*Agent{other}, rand.New(rand.NewSource(1)))
	// dx=dy=0: vertical branch, sign of zero is -1.
	if a.Position() != (Point{4, 3}) {
		t.Fatalf("greedy moved to %v, want (4,3)", a.Position())
	}
}

func TestDefensive_StepsAway(t *testing.T) {
	g := MustNewGrid(10, 10)
	a := mustAgent(t, 5, 5, StrategyDefensive, g)
	threat := mustAgent(t, 5, 1, StrategyNone, g)
	a.Step([]*Agent{threat}, rand.New(rand.NewSource(1)))
	if a.Position() != (Point{5, 6}) {
		t.Fatalf("defensive moved to %v, want (5,6)", a.Position())
	}
}

func TestDefensive_BlockedAtEdgeStaysPut(t *testing.T) {
	g := MustNewGrid(10, 10)
	a := mustAgent(t, 5, 9, StrategyDefensive, g)
	threat := mustAgent(t, 5, 5, StrategyNone, g)
	a.Step([]*Agent{threat}, rand.New(rand.NewSource(1)))
	if a.Position() != (Point{5, 9}) {
		t.Fatalf("defensive at the edge moved to %v, want to stay at (5,9)", a.Position())
	}
}

func TestDefensive_HorizontalEscape(t *testing.T) {
	g := MustNewGrid(10, 10)
	a := mustAgent(t, 4, 5, StrategyDefensive, g)
	threat := mustAgent(t, 7, 4, StrategyNone, g)
	a.Step([]*Agent{threat}, rand.New(rand.NewSource(1)))
	if a.Position() != (Point{3, 5}) {
		t.Fatalf("defensive moved to %v, want (3,5)", a.Position())
	}
}

func TestChasers_EmptyOthersFallBackToRandom(t *testing.T) {
	for _, s := range []Strategy{StrategyGreedy, StrategyDefensive} {
		g := MustNewGrid(6, 6)
		a := mustAgent(t, 2, 3, s, g)
		nbrs := g.Neighbors(2, 3)
		ref := rand.New(rand.NewSource(99))
		want := nbrs[ref.Intn(len(nbrs))]

		a.Step(nil, rand.New(rand.NewSource(99)))
		if a.Position() != want {
			t.Fatalf("%s with no others moved to %v, want random pick %v", s, a.Position(), want)
		}
	}
}

func TestRandom_SeededSequenceIsReproducible(t *testing.T) {
	g := MustNewGrid(8, 8)
	a := mustAgent(t, 4, 4, StrategyRandom, g)
	b := mustAgent(t, 4, 4, StrategyRandom, g)
	ra := rand.New(rand.NewSource(7))
	rb := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		a.Step(nil, ra)
		b.Step(nil, rb)
		if a.Position() != b.Position() {
			t.Fatalf("step %d: %v vs %v", i, a.Position(), b.Position())
		}
	}
}

func TestRandom_AlwaysMovesToValidNeighbour(t *testing.T) {
	g := MustNewGrid(3, 3)
	a := mustAgent(t, 0, 0, StrategyRandom, g)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		prev := a.Position()
		a.Step(nil, rng)
		p := a.Position()
		if !g.IsValid(p.X, p.Y) {
			t.Fatalf("step %d: random left the grid at %v", i, p)
		}
		if Manhattan(prev, p) != 1 {
			t.Fatalf("step %d: random jumped %v -> %v", i, prev, p)
		}
	}
}

func TestRandom_SingleCellGridNeverMoves(t *testing.T) {
	g := MustNewGrid(1, 1)
	a := mustAgent(t, 0, 0, StrategyRandom, g)
	a.Step(nil, rand.New(rand.NewSource(1)))
	if a.Position() != (Point{0, 0}) {
		t.Fatalf("1x1 random moved to %v", a.Position())
	}
}

func TestNone_NeverMovesOnItsOwn(t *testing.T) {
	g := MustNewGrid(5, 5)
	a := mustAgent(t, 2, 2, StrategyNone, g)
	other := mustAgent(t, 0, 0, StrategyNone, g)
	a.Step([]*Agent{other}, rand.New(rand.NewSource(1)))
	if a.Position() != (Point{2, 2}) {
		t.Fatalf("player token moved to %v", a.Position())
	}
}

func TestPatrol_WaypointsAtConstruction(t *testing.T) {
	g := MustNewGrid(4, 4)
	a := mustAgent(t, 1, 1, StrategyPatrol, g)
	want := []Point{{0, 0}, {3, 0}, {3, 3}, {0, 3}}
	got := a.PatrolWaypoints()
	if len(got) != len(want) {
		t.Fatalf("waypoints=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("waypoints=%v, want %v", got, want)
		}
	}
	if a.PatrolIndex() != 0 {
		t.Fatalf("patrol index=%d, want 0", a.PatrolIndex())
	}
	other := mustAgent(t, 1, 1, StrategyGreedy, g)
	if other.PatrolWaypoints() != nil || other.PatrolIndex() != -1 {
		t.Fatal("non-patrol agent should report no waypoints")
	}
}

func TestPatrol_CycleOnFourByFour(t *testing.T) {
	g := MustNewGrid(4, 4)
	a := mustAgent(t, 0, 0, StrategyPatrol, g)
	rng := rand.New(rand.NewSource(1))

	// Arrival at (0,0) advances the cursor on the first step.
	a.Step(nil, rng)
	if a.PatrolIndex() != 1 {
		t.Fatalf("after first step index=%d, want 1", a.PatrolIndex())
	}
	if a.Position() != (Point{1, 0}) {
		t.Fatalf("first step moved to %v, want (1,0)", a.Position())
	}

	want := []Point{
		{2, 0}, {3, 0},
		{3, 1}, {3, 2}, {3, 3},
		{2, 3}, {1, 3}, {0, 3},
		{0, 2}, {0, 1}, {0, 0},
	}
	for i, w := range want {
		a.Step(nil, rng)
		if a.Position() != w {
			t.Fatalf("step %d at %v, want %v", i+2, a.Position(), w)
		}
	}

	// The tour repeats with period 12.
	first := make([]Point, 12)
	for i := range first {
		a.Step(nil, rng)
		first[i] = a.Position()
	}
	for i := range first {
		a.Step(nil, rng)
		if a.Position() != first[i] {
			t.Fatalf("second lap step %d at %v, want %v", i, a.Position(), first[i])
		}
	}
}

func TestPatrol_IgnoresOthers(t *testing.T) {
	g := MustNewGrid(6, 6)
	a := mustAgent(t, 3, 3, StrategyPatrol, g)
	b := mustAgent(t, 3, 3, StrategyPatrol, g)
	lure := mustAgent(t, 5, 5, StrategyNone, g)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		a.Step([]*Agent{lure}, rng)
		b.Step(nil, rng)
		if a.Position() != b.Position() {
			t.Fatalf("step %d: patrol with others at %v, without at %v", i, a.Position(), b.Position())
		}
	}
}

func TestPatrol_MidGridTieGoesVertical(t *testing.T) {
	g := MustNewGrid(4, 4)
	a := mustAgent(t, 2, 2, StrategyPatrol, g)
	a.Step(nil, rand.New(rand.NewSource(1)))
	if a.Position() != (Point{2, 1}) {
		t.Fatalf("patrol moved to %v, want (2,1)", a.Position())
	}
}

func TestStepToward(t *testing.T) {
	cases := []struct{ from, to, want Point }{
		{Point{0, 0}, Point{2, 2}, Point{0, 1}},
		{Point{5, 5}, Point{1, 4}, Point{4, 5}},
		{Point{5, 5}, Point{5, 9}, Point{5, 6}},
		{Point{3, 3}, Point{3, 3}, Point{3, 3}},
	}
	for _, c := range cases {
		if got := StepToward(c.from, c.to); got != c.want {
			t.Fatalf("StepToward(%v,%v)=%v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestAgent_SetPositionAndMoveByValidate(t *testing.T) {
	g := MustNewGrid(3, 3)
	a := mustAgent(t, 0, 0, StrategyNone, g)
	if a.MoveBy(-1, 0) {
		t.Fatal("MoveBy off the grid should be refused")
	}
	if !a.MoveBy(1, 0) || a.Position() != (Point{1, 0}) {
		t.Fatalf("MoveBy(1,0) -> %v, want (1,0)", a.Position())
	}
	if a.SetPosition(3, 3) {
		t.Fatal("SetPosition off the grid should be refused")
	}
	if a.Position() != (Point{1, 0}) {
		t.Fatalf("refused SetPosition moved agent to %v", a.Position())
	}
}

func TestDistances(t *testing.T) {
	a, b := Point{1, 2}, Point{4, 0}
	if Manhattan(a, b) != 5 {
		t.Fatalf("Manhattan=%d, want 5", Manhattan(a, b))
	}
	if Chebyshev(a, b) != 3 {
		t.Fatalf("Chebyshev=%d, want 3", Chebyshev(a, b))
	}
}
