// grid-chase in a terminal.
// arrows or hjkl to move, space to reset, 1/2/3 for difficulty, q to quit

package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/grid-chase/internal/sim"
)

var glyphs = map[sim.Strategy]rune{
	sim.StrategyRandom:    'r',
	sim.StrategyGreedy:    'g',
	sim.StrategyDefensive: 'd',
	sim.StrategyPatrol:    'p',
	sim.StrategyNone:      '@',
}

var glyphColors = map[sim.Strategy]tcell.Color{
	sim.StrategyRandom:    tcell.ColorRed,
	sim.StrategyGreedy:    tcell.ColorLime,
	sim.StrategyDefensive: tcell.ColorBlue,
	sim.StrategyPatrol:    tcell.ColorYellow,
	sim.StrategyNone:      tcell.ColorPurple,
}

const targetGlyph = 'T'

type ui struct {
	screen     tcell.Screen
	sim        *sim.SimulationState
	table      sim.DifficultyTable
	difficulty sim.Difficulty
	style      tcell.Style
}

// moveFor maps a key event to a player step. ok is false for non-move keys.
func moveFor(ev *tcell.EventKey) (dx, dy int, ok bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return 0, -1, true
	case tcell.KeyDown:
		return 0, 1, true
	case tcell.KeyLeft:
		return -1, 0, true
	case tcell.KeyRight:
		return 1, 0, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			return 0, -1, true
		case 'j':
			return 0, 1, true
		case 'h':
			return -1, 0, true
		case 'l':
			return 1, 0, true
		}
	}
	return 0, 0, false
}

// difficultyFor maps the digit keys to a difficulty.
func difficultyFor(r rune) (sim.Difficulty, bool) {
	switch r {
	case '1':
		return sim.DifficultyEasy, true
	case '2':
		return sim.DifficultyMedium, true
	case '3':
		return sim.DifficultyHard, true
	}
	return sim.DifficultyEasy, false
}

func tickInterval(s sim.DifficultySettings) time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

func (u *ui) puts(x, y int, msg string, style tcell.Style) {
	for i, c := range msg {
		u.screen.SetContent(x+i, y, c, nil, style)
	}
}

// draw renders the board with a one-cell frame and a status line below it.
func (u *ui) draw() {
	u.screen.Clear()
	snap := u.sim.Snapshot()
	w, h := u.sim.Grid.Width(), u.sim.Grid.Height()

	for x := 0; x < w+2; x++ {
		u.screen.SetContent(x, 0, '-', nil, u.style)
		u.screen.SetContent(x, h+1, '-', nil, u.style)
	}
	for y := 1; y <= h; y++ {
		u.screen.SetContent(0, y, '|', nil, u.style)
		u.screen.SetContent(w+1, y, '|', nil, u.style)
		for x := 1; x <= w; x++ {
			u.screen.SetContent(x, y, '.', nil, u.style.Dim(true))
		}
	}
	for _, a := range snap.Agents {
		c, st := glyphs[a.Strategy], u.style.Foreground(glyphColors[a.Strategy])
		if a.Target {
			c, st = targetGlyph, u.style.Foreground(tcell.ColorGreen).Bold(true)
		}
		u.screen.SetContent(a.Pos.X+1, a.Pos.Y+1, c, nil, st)
	}
	u.screen.SetContent(snap.Player.X+1, snap.Player.Y+1, glyphs[sim.StrategyNone], nil,
		u.style.Foreground(glyphColors[sim.StrategyNone]).Bold(true))

	status := fmt.Sprintf(" %s  score %d/%d  tick %d  %s ",
		u.sim.Settings.Name, snap.Score, u.sim.Settings.TargetScore, snap.Tick, snap.State)
	u.puts(0, h+2, status, u.style)
	if recent := u.sim.Feed.Recent(); len(recent) > 0 {
		last := recent[len(recent)-1]
		u.puts(0, h+3, fmt.Sprintf(" %d: %s", last.Tick, last.Message), u.style)
	}
	if snap.State.Terminal() {
		u.puts(0, h+4, " space: new round   q: quit", u.style.Bold(true))
	}
}

func (u *ui) reset(d sim.Difficulty) error {
	if err := u.sim.ResetRound(u.table.Get(d)); err != nil {
		return err
	}
	u.difficulty = d
	return nil
}

func main() {
	var difficulty string
	var configPath string
	var seed int64

	flag.StringVar(&difficulty, "difficulty", "easy", "starting difficulty (easy, medium, hard)")
	flag.StringVar(&configPath, "config", "", "optional YAML file overriding difficulty presets")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 picks one from the clock)")
	flag.Parse()

	d, err := sim.ParseDifficulty(difficulty)
	if err != nil {
		log.Fatal(err)
	}
	table, err := sim.LoadDifficultyFile(configPath)
	if err != nil {
		log.Fatal(err)
	}
	var opts []sim.SimOption
	if seed != 0 {
		opts = append(opts, sim.WithSeed(seed))
	}
	s, err := sim.NewSimulation(table.Get(d), opts...)
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	style := tcell.StyleDefault.Background(tcell.ColorDefault).Foreground(tcell.ColorDefault)
	screen.SetStyle(style)
	u := &ui{screen: screen, sim: s, table: table, difficulty: d, style: style}

	evChan := make(chan tcell.Event, 100)
	quitChan := make(chan struct{}, 1)
	go screen.ChannelEvents(evChan, quitChan)
	ticker := time.NewTicker(tickInterval(s.Settings))
	defer ticker.Stop()

EvLoop:
	for {
		u.draw()
		screen.Show()
		select {
		case <-ticker.C:
			if !s.State.Terminal() {
				s.Tick()
			}
		case ev := <-evChan:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					break EvLoop
				}
				if dx, dy, ok := moveFor(ev); ok {
					s.MovePlayer(dx, dy)
					continue
				}
				if ev.Key() != tcell.KeyRune {
					continue
				}
				next, pick := difficultyFor(ev.Rune())
				switch {
				case ev.Rune() == 'q':
					break EvLoop
				case ev.Rune() == ' ':
					next, pick = u.difficulty, true
				}
				if pick {
					if err := u.reset(next); err != nil {
						screen.Fini()
						log.Fatal(err)
					}
					ticker.Reset(tickInterval(s.Settings))
				}
			}
		}
	}
	quitChan <- struct{}{}
}
