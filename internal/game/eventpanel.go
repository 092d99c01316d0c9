package game

import (
	"fmt"
	"image/color"

	"github.com/groundwater-assist/water-game/internal/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 11
)

// EventPanel is a ring buffer of session events rendered beside the field.
type EventPanel struct {
	entries []sim.Event
	head    int
	count   int
}

// NewEventPanel creates a panel with a fixed capacity.
func NewEventPanel() *EventPanel {
	return &EventPanel{
		entries: make([]sim.Event, logMaxEntries),
	}
}

// Add appends an event, overwriting the oldest when full.
func (p *EventPanel) Add(e sim.Event) {
	p.entries[p.head] = e
	p.head = (p.head + 1) % logMaxEntries
	if p.count < logMaxEntries {
		p.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (p *EventPanel) Recent() []sim.Event {
	result := make([]sim.Event, p.count)
	for i := 0; i < p.count; i++ {
		idx := (p.head - p.count + i + logMaxEntries) % logMaxEntries
		result[i] = p.entries[idx]
	}
	return result
}

// categoryColor picks the marker colour for an event row.
func categoryColor(category string) color.RGBA {
	switch category {
	case sim.CatInteract:
		return color.RGBA{R: 80, G: 170, B: 255, A: 255}
	case sim.CatBoundary:
		return color.RGBA{R: 230, G: 120, B: 70, A: 255}
	case sim.CatStatus:
		return color.RGBA{R: 220, G: 220, B: 120, A: 255}
	default:
		return color.RGBA{R: 120, G: 120, B: 120, A: 255}
	}
}

// Draw renders the panel on the right side of the screen.
func (p *EventPanel) Draw(screen *ebiten.Image, panelX int, panelH int) {
	// Panel background.
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 8, G: 12, B: 18, A: 248}, false)
	// Left separator line.
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 90, A: 255}, false)

	// Title bar.
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 30, B: 45, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENT LOG", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 80, B: 110, A: 200}, false)

	entries := p.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / logLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	recent := 3 // how many latest entries to highlight

	y := 20
	for i, e := range visible {
		if i >= len(visible)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 40, B: 55, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, categoryColor(e.Category), false)

		line := fmt.Sprintf("%4d %s %s", e.Tick, e.Key, e.Value)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += logLineHeight
	}
}
