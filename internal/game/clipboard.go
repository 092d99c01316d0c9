package game

import (
	"log"

	"github.com/atotto/clipboard"
	"github.com/groundwater-assist/water-game/internal/sim"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// copyResult puts the last run's announcement on the system clipboard.
func (g *Game) copyResult() {
	if g.result == nil {
		return
	}
	if err := writeClipboard(sim.Announcement(*g.result)); err != nil {
		log.Printf("copy result: %v", err)
		g.copied = "clipboard unavailable"
		return
	}
	g.copied = "copied to clipboard"
}
