package game

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/groundwater-assist/water-game/internal/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Face7x13 metrics.
const (
	faceCharW  = 7
	faceLineH  = 15
	faceAscent = 11
)

// drawText draws s with its baseline-top at (x, y).
func drawText(img *ebiten.Image, s string, x, y int, col color.Color) {
	text.Draw(img, s, basicfont.Face7x13, x, y+faceAscent, col)
}

// drawCentered draws each line of s centred on (cx, cy).
func drawCentered(img *ebiten.Image, s string, cx, cy int, col color.Color) {
	lines := strings.Split(s, "\n")
	y := cy - len(lines)*faceLineH/2
	for _, l := range lines {
		drawText(img, l, cx-len(l)*faceCharW/2, y, col)
		y += faceLineH
	}
}

func fieldRect(g *Game) image.Rectangle {
	return image.Rect(g.offX, g.offY, g.offX+g.gameWidth, g.offY+g.gameHeight)
}

// meterColor shades the water bar from blue (full) to red (empty).
func meterColor(level int) color.RGBA {
	switch {
	case level >= 60:
		return color.RGBA{R: 60, G: 150, B: 255, A: 255}
	case level >= 30:
		return color.RGBA{R: 230, G: 190, B: 60, A: 255}
	default:
		return color.RGBA{R: 230, G: 70, B: 60, A: 255}
	}
}

// drawStatusBar renders score, water meter, countdown and status above the field.
func (g *Game) drawStatusBar(screen *ebiten.Image, snap sim.Snapshot) {
	x := g.offX
	y := borderWidth + (statusBarHeight-faceLineH)/2

	drawText(screen, fmt.Sprintf("SCORE %d", snap.Score), x, y, color.White)

	// Water meter.
	const meterW, meterH = 160, 12
	mx := float32(x + 110)
	my := float32(y + 1)
	fill := float32(meterW) * float32(snap.Resource) / float32(sim.ResourceCap)
	vector.FillRect(screen, mx, my, meterW, meterH, color.RGBA{R: 30, G: 40, B: 55, A: 255}, false)
	vector.FillRect(screen, mx, my, fill, meterH, meterColor(snap.Resource), false)
	vector.StrokeRect(screen, mx, my, meterW, meterH, 1, borderCol, false)
	drawText(screen, fmt.Sprintf("WATER %d%%", snap.Resource), int(mx)+meterW+8, y, color.White)

	timeCol := color.Color(color.White)
	if snap.TimeRemaining <= 10 && snap.Status == sim.StatusRunning {
		timeCol = color.RGBA{R: 255, G: 120, B: 90, A: 255}
	}
	right := g.offX + g.gameWidth
	drawText(screen, fmt.Sprintf("TIME %2ds", snap.TimeRemaining), right-9*faceCharW, y, timeCol)
	drawText(screen, strings.ToUpper(snap.Status.String()), right-20*faceCharW, y, color.RGBA{R: 160, G: 170, B: 190, A: 255})
}

// drawHUD renders the key legend in the bottom-left corner, scaled up.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := []string{
		"ENTER/S=start  P/SPACE=pause  ESC=stop",
		"click=catch drop  C=copy result",
		"[H] toggle HUD",
	}

	const lineH = 12 // debug font line height at 1x
	const charW = 6  // debug font char width at 1x
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)

	if g.hudBuf == nil {
		g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	}
	bufH := float32(g.height / hudScale)
	bx := float32(g.offX / hudScale)
	by := bufH - boxH - 2

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 16, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 140, A: 180}, false)

	for i, line := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

// drawResult shows the end-of-session announcement over the field.
func (g *Game) drawResult(screen *ebiten.Image, r sim.Result) {
	ox, oy := float32(g.offX), float32(g.offY)
	gw, gh := float32(g.gameWidth), float32(g.gameHeight)
	vector.FillRect(screen, ox, oy, gw, gh, color.RGBA{R: 0, G: 0, B: 0, A: 170}, false)

	msg := sim.Announcement(r) + "\n\nENTER = play again   C = copy result"
	if g.copied != "" {
		msg += "\n" + g.copied
	}
	drawCentered(screen, msg, g.offX+g.gameWidth/2, g.offY+g.gameHeight/2, color.White)
}
