package game

import (
	"fmt"
	"image/color"

	"github.com/groundwater-assist/water-game/internal/sim"
	"github.com/hajimehoshi/ebiten/v2"
)

// popupLifetime is how many frames a score marker stays visible (~1 second).
const popupLifetime = 60

// popupRise is how far a marker drifts upward over its lifetime, in pixels.
const popupRise = 24

// ScorePopup is a short-lived "+N"/"-N" marker at an interaction point.
type ScorePopup struct {
	x, y float64
	text string
	col  color.NRGBA
	age  int
}

// newScorePopup builds the marker for an outcome. Collects show the points
// earned; hazard hits show the water lost.
func newScorePopup(o sim.Outcome) *ScorePopup {
	p := &ScorePopup{x: o.X, y: o.Y}
	switch o.Kind {
	case sim.OutcomeCollected:
		p.text = fmt.Sprintf("+%d", o.ScoreDelta)
		p.col = color.NRGBA{R: 140, G: 220, B: 255, A: 255}
	case sim.OutcomeHazard:
		p.text = fmt.Sprintf("%d", o.ResourceDelta)
		if o.ResourceDelta == 0 {
			p.text = "-0"
		}
		p.col = color.NRGBA{R: 255, G: 110, B: 80, A: 255}
	}
	return p
}

// alpha fades the marker out over the last 40% of its life.
func (p *ScorePopup) alpha() float64 {
	progress := float64(p.age) / float64(popupLifetime)
	if progress <= 0.6 {
		return 1
	}
	return 1 - (progress-0.6)/0.4
}

// updatePopups ages markers and drops expired ones.
func (g *Game) updatePopups() {
	alive := g.popups[:0]
	for _, p := range g.popups {
		p.age++
		if p.age < popupLifetime {
			alive = append(alive, p)
		}
	}
	for i := len(alive); i < len(g.popups); i++ {
		g.popups[i] = nil
	}
	g.popups = alive
}

func (g *Game) drawPopups(screen *ebiten.Image) {
	for _, p := range g.popups {
		a := p.alpha()
		if a < 0.05 {
			continue
		}
		col := p.col
		col.A = uint8(float64(col.A) * a)
		rise := float64(popupRise) * float64(p.age) / float64(popupLifetime)
		x := g.offX + int(p.x) - len(p.text)*faceCharW/2
		y := g.offY + int(p.y-rise)
		drawText(screen, p.text, x, y, col)
	}
}
