package game

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/grid-chase/internal/sim"
)

// borderWidth is the pixel gap between the window edge and the board.
const borderWidth = 24

// cellPx is the on-screen size of one grid cell.
const cellPx = 40

// errQuit ends RunGame cleanly when the player presses Escape.
var errQuit = ebiten.Termination

var (
	colBackground = color.RGBA{R: 18, G: 18, B: 18, A: 255}
	colGridLine   = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	colBorder     = color.RGBA{R: 0, G: 150, B: 255, A: 200}
	colPlayer     = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	colTarget     = color.RGBA{R: 46, G: 204, B: 113, A: 255}
	colText       = color.RGBA{R: 236, G: 240, B: 241, A: 255}
	colSuccess    = color.RGBA{R: 46, G: 204, B: 113, A: 255}
	colDanger     = color.RGBA{R: 231, G: 76, B: 60, A: 255}
)

// strategyColors maps each autonomous strategy to its token colour.
var strategyColors = map[sim.Strategy]color.RGBA{
	sim.StrategyRandom:    {R: 255, G: 0, B: 0, A: 255},   // red
	sim.StrategyGreedy:    {R: 0, G: 255, B: 0, A: 255},   // green
	sim.StrategyDefensive: {R: 0, G: 0, B: 255, A: 255},   // blue
	sim.StrategyPatrol:    {R: 255, G: 255, B: 0, A: 255}, // yellow
	sim.StrategyNone:      {R: 128, G: 0, B: 128, A: 255}, // purple
}

// Game is the windowed front-end around a SimulationState. It owns pacing
// and input; every rule lives in the sim package.
type Game struct {
	width  int
	height int
	boardW int // board width in pixels
	boardH int // board height in pixels
	offX   int // pixel offset from window left to board left
	offY   int // pixel offset from window top to board top

	sim        *sim.SimulationState
	table      sim.DifficultyTable
	difficulty sim.Difficulty

	prevKeys  map[ebiten.Key]bool
	paused    bool
	tickAccum float64 // fractional tick accumulator, one unit per sim tick
	status    string  // transient HUD message, e.g. clipboard result

	face           text.Face
	writeClipboard func(string) error
}

// New builds a Game for difficulty d. opts are passed to sim.NewSimulation.
func New(table sim.DifficultyTable, d sim.Difficulty, opts ...sim.SimOption) (*Game, error) {
	if table == nil {
		table = sim.DefaultDifficulties()
	}
	s, err := sim.NewSimulation(table.Get(d), opts...)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	boardW := s.Grid.Width() * cellPx
	boardH := s.Grid.Height() * cellPx
	g := &Game{
		width:          borderWidth + boardW + borderWidth + panelWidth,
		height:         max(borderWidth+boardH+borderWidth, panelMinHeight),
		boardW:         boardW,
		boardH:         boardH,
		offX:           borderWidth,
		offY:           borderWidth,
		sim:            s,
		table:          table,
		difficulty:     d,
		prevKeys:       make(map[ebiten.Key]bool),
		face:           text.NewGoXFace(basicfont.Face7x13),
		writeClipboard: clipboard.WriteAll,
	}
	return g, nil
}

// Size returns the window size the game lays out to.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}

// Sim exposes the simulation for entry points and tests.
func (g *Game) Sim() *sim.SimulationState {
	return g.sim
}

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	if g.paused || g.sim.State.Terminal() {
		return nil
	}
	g.advance(1.0 / float64(ebiten.DefaultTPS))
	return nil
}

// advance accumulates dt seconds of game time and runs as many sim ticks
// as the round's tick rate allows.
func (g *Game) advance(dt float64) {
	g.tickAccum += dt * float64(g.sim.Settings.TickRate)
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		res := g.sim.Tick()
		if res.State.Terminal() {
			g.tickAccum = 0
			return
		}
	}
}

// action is one player command, independent of which key produced it.
type action int

const (
	actionNone action = iota
	actionUp
	actionDown
	actionLeft
	actionRight
	actionReset
	actionEasy
	actionMedium
	actionHard
	actionPause
	actionCopyReport
	actionQuit
)

// keyBindings lists keys in the order their actions apply when several
// are pressed in the same frame. Moves are edge-triggered, one cell per press.
var keyBindings = []struct {
	key ebiten.Key
	act action
}{
	{ebiten.KeyArrowUp, actionUp},
	{ebiten.KeyW, actionUp},
	{ebiten.KeyArrowDown, actionDown},
	{ebiten.KeyS, actionDown},
	{ebiten.KeyArrowLeft, actionLeft},
	{ebiten.KeyA, actionLeft},
	{ebiten.KeyArrowRight, actionRight},
	{ebiten.KeyD, actionRight},
	{ebiten.KeySpace, actionReset},
	{ebiten.Key1, actionEasy},
	{ebiten.Key2, actionMedium},
	{ebiten.Key3, actionHard},
	{ebiten.KeyP, actionPause},
	{ebiten.KeyC, actionCopyReport},
	{ebiten.KeyEscape, actionQuit},
}

// pressedActions returns the actions whose keys went down since prev, in
// keyBindings order, along with the current key state.
func pressedActions(isPressed func(ebiten.Key) bool, prev map[ebiten.Key]bool) ([]action, map[ebiten.Key]bool) {
	current := make(map[ebiten.Key]bool, len(keyBindings))
	var acts []action
	for _, b := range keyBindings {
		current[b.key] = isPressed(b.key)
		if current[b.key] && !prev[b.key] {
			acts = append(acts, b.act)
		}
	}
	return acts, current
}

// handleInput processes keypresses (edge-triggered).
func (g *Game) handleInput() error {
	acts, current := pressedActions(ebiten.IsKeyPressed, g.prevKeys)
	g.prevKeys = current
	for _, a := range acts {
		if err := g.apply(a); err != nil {
			return err
		}
	}
	return nil
}

// apply executes one action against the game.
func (g *Game) apply(a action) error {
	switch a {
	case actionUp:
		g.sim.MovePlayer(0, -1)
	case actionDown:
		g.sim.MovePlayer(0, 1)
	case actionLeft:
		g.sim.MovePlayer(-1, 0)
	case actionRight:
		g.sim.MovePlayer(1, 0)
	case actionReset:
		return g.reset(g.difficulty)
	case actionEasy:
		return g.reset(sim.DifficultyEasy)
	case actionMedium:
		return g.reset(sim.DifficultyMedium)
	case actionHard:
		return g.reset(sim.DifficultyHard)
	case actionPause:
		g.paused = !g.paused
	case actionCopyReport:
		g.copyReport()
	case actionQuit:
		return errQuit
	}
	return nil
}

func (g *Game) reset(d sim.Difficulty) error {
	if err := g.sim.ResetRound(g.table.Get(d)); err != nil {
		return fmt.Errorf("reset %s: %w", d, err)
	}
	g.difficulty = d
	g.tickAccum = 0
	g.paused = false
	g.status = ""
	return nil
}

func (g *Game) copyReport() {
	if err := g.writeClipboard(g.sim.RoundReport(60)); err != nil {
		g.status = "clipboard: " + err.Error()
		return
	}
	g.status = "report copied"
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	g.drawBoard(screen)
	g.drawAgents(screen)
	g.drawPanel(screen, g.offX+g.boardW+borderWidth)
	switch g.sim.State {
	case sim.RoundWon:
		g.drawBanner(screen, "VICTORY", colSuccess)
	case sim.RoundLost:
		g.drawBanner(screen, "GAME OVER", colDanger)
	}
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	ox, oy := float32(g.offX), float32(g.offY)
	for x := 0; x <= g.boardW; x += cellPx {
		xf := ox + float32(x)
		vector.StrokeLine(screen, xf, oy, xf, oy+float32(g.boardH), 1.0, colGridLine, false)
	}
	for y := 0; y <= g.boardH; y += cellPx {
		yf := oy + float32(y)
		vector.StrokeLine(screen, ox, yf, ox+float32(g.boardW), yf, 1.0, colGridLine, false)
	}
	vector.StrokeRect(screen, ox-1, oy-1, float32(g.boardW)+2, float32(g.boardH)+2, 2.0, colBorder, false)
}

func (g *Game) drawAgents(screen *ebiten.Image) {
	snap := g.sim.Snapshot()
	for _, a := range snap.Agents {
		c := strategyColors[a.Strategy]
		if a.Target {
			c = colTarget
		}
		g.drawToken(screen, a.Pos, c)
	}
	g.drawToken(screen, snap.Player, colPlayer)
}

// drawToken renders a glowing disc centred in cell p.
func (g *Game) drawToken(screen *ebiten.Image, p sim.Point, c color.RGBA) {
	cx := float32(g.offX + p.X*cellPx + cellPx/2)
	cy := float32(g.offY + p.Y*cellPx + cellPx/2)
	r := float32(cellPx / 3)
	for j := 0; j < 3; j++ {
		vector.StrokeCircle(screen, cx, cy, r+float32(j), 1.0, c, true)
	}
	vector.FillCircle(screen, cx, cy, r, c, true)
}

func (g *Game) drawBanner(screen *ebiten.Image, title string, c color.RGBA) {
	bw, bh := float32(g.boardW)*0.6, float32(120)
	bx := float32(g.offX) + (float32(g.boardW)-bw)/2
	by := float32(g.offY) + (float32(g.boardH)-bh)/2
	vector.FillRect(screen, bx, by, bw, bh, color.RGBA{R: 10, G: 10, B: 10, A: 220}, false)
	vector.StrokeRect(screen, bx, by, bw, bh, 2.0, c, false)
	g.drawText(screen, title, int(bx)+24, int(by)+40, c)
	g.drawText(screen, fmt.Sprintf("score %d", g.sim.Score), int(bx)+24, int(by)+64, colText)
	g.drawText(screen, "SPACE retry   1/2/3 difficulty   C copy report", int(bx)+24, int(by)+88, colText)
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, g.face, op)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// IsQuit reports whether err is the clean shutdown signal from Update.
func IsQuit(err error) bool {
	return errors.Is(err, errQuit)
}
