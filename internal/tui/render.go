package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/groundwater-assist/water-game/internal/sim"
)

// Rows reserved above and below the field.
const (
	statusRows = 2
	legendRows = 1
)

var (
	styleText    = tcell.StyleDefault
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleField   = tcell.StyleDefault.Background(tcell.NewRGBColor(16, 32, 48))
	styleDrop    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(140, 210, 255)).Background(tcell.NewRGBColor(40, 110, 200))
	styleHazard  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(240, 140, 90)).Background(tcell.NewRGBColor(120, 45, 30))
	styleBanner  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack).Bold(true)
	styleWarning = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// fieldArea returns the terminal rows and columns given to the play field.
func (a *App) fieldArea() (top, cols, rows int) {
	w, h := a.screen.Size()
	rows = h - statusRows - legendRows
	if rows < 1 {
		rows = 1
	}
	if w < 1 {
		w = 1
	}
	return statusRows, w, rows
}

// cellToField maps a terminal cell to the field point at the cell's centre.
func (a *App) cellToField(cx, cy int) (x, y float64, ok bool) {
	top, cols, rows := a.fieldArea()
	row := cy - top
	if cx < 0 || cx >= cols || row < 0 || row >= rows {
		return 0, 0, false
	}
	x = (float64(cx) + 0.5) * a.cfg.FieldWidth / float64(cols)
	y = (float64(row) + 0.5) * a.cfg.FieldHeight / float64(rows)
	return x, y, true
}

// fieldToCell maps a field point to the terminal cell containing it.
func (a *App) fieldToCell(x, y float64) (cx, cy int) {
	top, cols, rows := a.fieldArea()
	cx = int(x * float64(cols) / a.cfg.FieldWidth)
	cy = top + int(y*float64(rows)/a.cfg.FieldHeight)
	return cx, cy
}

// Draw renders the latest snapshot.
func (a *App) Draw() {
	snap := a.ctrl.Latest()
	a.screen.Clear()
	a.drawStatus(snap)
	a.drawField(snap)
	a.drawLegend()

	switch {
	case snap.Status == sim.StatusEnded && a.result != nil:
		a.drawBanner(sim.Announcement(*a.result) + "\n\nENTER = play again   C = copy")
	case snap.Status == sim.StatusPaused:
		a.drawBanner("PAUSED  (P to resume)")
	case snap.Status == sim.StatusIdle:
		a.drawBanner("Press ENTER to start")
	}
	a.screen.Show()
}

func (a *App) drawStatus(snap sim.Snapshot) {
	const meterW = 20
	filled := snap.Resource * meterW / sim.ResourceCap
	meter := strings.Repeat("█", filled) + strings.Repeat("░", meterW-filled)

	line := fmt.Sprintf(" SCORE %-4d  WATER [%s] %3d%%  TIME %2ds  %s",
		snap.Score, meter, snap.Resource, snap.TimeRemaining, strings.ToUpper(snap.Status.String()))
	a.putString(0, 0, line, styleText)
	if snap.Resource < 30 {
		// Redraw the meter in warning colours.
		a.putString(strings.Index(line, "["), 0, "["+meter+"]", styleWarning)
	}
	if a.flash != "" {
		a.putString(1, 1, a.flash, styleDim)
	}
}

// drawField paints every cell whose centre a press would hit, so what is
// visible is exactly what is clickable.
func (a *App) drawField(snap sim.Snapshot) {
	top, cols, rows := a.fieldArea()
	for cy := top; cy < top+rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			a.screen.SetContent(cx, cy, ' ', nil, styleField)
		}
	}
	for _, e := range snap.Entities {
		ch, style := '●', styleDrop
		if e.Kind == sim.KindHazard {
			ch, style = '▓', styleHazard
		}
		drawn := false
		minX, minY := a.fieldToCell(e.X-e.Size, e.Y-e.Size)
		maxX, maxY := a.fieldToCell(e.X+e.Size, e.Y+e.Size)
		for cy := max(minY, top); cy <= min(maxY, top+rows-1); cy++ {
			for cx := max(minX, 0); cx <= min(maxX, cols-1); cx++ {
				fx, fy, ok := a.cellToField(cx, cy)
				if ok && e.Hit(fx, fy) {
					a.screen.SetContent(cx, cy, ch, nil, style)
					drawn = true
				}
			}
		}
		if !drawn {
			// Smaller than a cell: mark its anchor so it is still visible.
			ax, ay := e.X, e.Y
			if e.Kind == sim.KindHazard {
				ax, ay = e.X+e.Size/2, e.Y+e.Size/2
			}
			cx, cy := a.fieldToCell(ax, ay)
			if cx >= 0 && cx < cols && cy >= top && cy < top+rows {
				a.screen.SetContent(cx, cy, ch, nil, style)
			}
		}
	}
}

func (a *App) drawLegend() {
	_, h := a.screen.Size()
	a.putString(0, h-1, " ENTER/S start  P/SPACE pause  ESC stop  click catch  C copy  Q quit", styleDim)
}

// drawBanner centres a multi-line message over the field.
func (a *App) drawBanner(msg string) {
	top, cols, rows := a.fieldArea()
	lines := strings.Split(msg, "\n")
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	y := top + (rows-len(lines))/2
	x := (cols - width - 2) / 2
	for i, l := range lines {
		padded := " " + l + strings.Repeat(" ", width-len([]rune(l))) + " "
		a.putString(x, y+i, padded, styleBanner)
	}
}

func (a *App) putString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// outcomeText is the status-line note for an outcome.
func outcomeText(o sim.Outcome) string {
	switch o.Kind {
	case sim.OutcomeCollected:
		return fmt.Sprintf("caught a drop: +%d points, water %+d", o.ScoreDelta, o.ResourceDelta)
	case sim.OutcomeHazard:
		return fmt.Sprintf("hit a hazard: water %+d", o.ResourceDelta)
	}
	return ""
}
