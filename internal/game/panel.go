package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/grid-chase/internal/sim"
)

const (
	panelWidth     = 300
	panelMinHeight = 480
	feedLineHeight = 14
	feedHighlight  = 3 // newest entries drawn on a lit row
)

// hudLines returns the status block shown above the event feed.
func (g *Game) hudLines() []string {
	s := g.sim
	lines := []string{
		fmt.Sprintf("difficulty  %s", s.Settings.Name),
		fmt.Sprintf("score       %d / %d", s.Score, s.Settings.TargetScore),
		fmt.Sprintf("multiplier  x%d", s.Settings.ScoreMultiplier),
		fmt.Sprintf("tick        %d  (%d/s)", s.CurrentTick(), s.Settings.TickRate),
		fmt.Sprintf("state       %s", s.State),
	}
	if g.paused {
		lines = append(lines, "PAUSED")
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}
	return lines
}

// feedLines keeps the newest n feed entries, oldest first.
func feedLines(entries []sim.FeedEntry, n int) []sim.FeedEntry {
	if n <= 0 {
		return nil
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries
}

func feedColor(delta int) color.RGBA {
	switch {
	case delta > 0:
		return colSuccess
	case delta < 0:
		return colDanger
	default:
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
}

// drawPanel renders the HUD and the event feed to the right of the board.
func (g *Game) drawPanel(screen *ebiten.Image, panelX int) {
	panelH := g.height
	vector.FillRect(screen, float32(panelX), 0, float32(panelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)

	y := 20
	g.drawText(screen, "GRID CHASE", panelX+10, y, colBorder)
	y += 10
	for _, line := range g.hudLines() {
		y += feedLineHeight
		g.drawText(screen, line, panelX+10, y, colText)
	}

	y += 2 * feedLineHeight
	vector.FillRect(screen, float32(panelX), float32(y-12), float32(panelWidth), 16, color.RGBA{R: 20, G: 26, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+10, y-12)
	y += 8

	footer := 4 * feedLineHeight
	rows := (panelH - y - footer) / feedLineHeight
	visible := feedLines(g.sim.Feed.Recent(), rows)
	for i, e := range visible {
		if i >= len(visible)-feedHighlight {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(panelWidth-4), float32(feedLineHeight), color.RGBA{R: 30, G: 36, B: 46, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, feedColor(e.Delta), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%4d %s", e.Tick, e.Message), panelX+12, y)
		y += feedLineHeight
	}

	help := []string{
		"ARROWS/WASD move  P pause",
		"SPACE reset  1/2/3 difficulty",
		"C copy report  ESC quit",
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(help, "\n"), panelX+10, panelH-footer+4)
}
