package sim

import (
	"fmt"
	"strings"
)

// RoundReport renders a plain-text summary of the round: header, roster
// positions, collision tallies and the last lastTicks ticks of the SimLog.
func (s *SimulationState) RoundReport(lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 30
	}
	toTick := s.tick
	fromTick := max(0, toTick-lastTicks+1)

	var b strings.Builder
	fmt.Fprintf(&b, "--- grid-chase round report ---\n")
	fmt.Fprintf(&b, "round=%s difficulty=%s grid=%dx%d\n", s.RoundID, s.Settings.Name, s.Grid.Width(), s.Grid.Height())
	fmt.Fprintf(&b, "tick=%d score=%d/%d state=%s\n\n", s.tick, s.Score, s.Settings.TargetScore, s.State)

	snap := s.Snapshot()
	fmt.Fprintf(&b, "player %s\n", snap.Player)
	for _, a := range snap.Agents {
		tag := ""
		if a.Target {
			tag = " [target]"
		}
		fmt.Fprintf(&b, "%-11s %s hits=%d%s\n", a.Label, a.Pos, collisionCount(s.SimLog.FilterAgent(a.Label)), tag)
	}

	fmt.Fprintf(&b, "\ncollisions: target=%d defensive=%d lethal=%d respawns=%d\n",
		s.SimLog.CountCategory(CategoryCollision, CollisionTarget.String()),
		s.SimLog.CountCategory(CategoryCollision, CollisionDefensive.String()),
		s.SimLog.CountCategory(CategoryCollision, CollisionLethal.String()),
		s.SimLog.CountCategory(CategoryRespawn, ""),
	)

	fmt.Fprintf(&b, "\nlog [%d..%d]:\n", fromTick, toTick)
	if tail := s.SimLog.FormatRange(fromTick, toTick); tail != "" {
		b.WriteString(tail)
	} else {
		b.WriteString("(no entries)\n")
	}
	return b.String()
}

func collisionCount(entries []SimLogEntry) int {
	n := 0
	for _, e := range entries {
		if e.Category == CategoryCollision {
			n++
		}
	}
	return n
}
