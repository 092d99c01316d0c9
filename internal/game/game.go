package game

import (
	"image/color"

	"github.com/groundwater-assist/water-game/internal/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// borderWidth is the pixel gap between the window edge and the play field.
const borderWidth = 24

// statusBarHeight is the strip above the field holding score, water and time.
const statusBarHeight = 40

// hudScale is the integer upscale factor applied to the key legend.
const hudScale = 2

// Controller is the command surface of a running session. *sim.Scheduler
// satisfies it.
type Controller interface {
	Start()
	PauseToggle()
	Stop()
	Interact(x, y float64)
	Latest() sim.Snapshot
}

// Game implements ebiten.Game on top of a Controller. It never touches the
// session directly: it reads published snapshots and sends commands.
type Game struct {
	width      int
	height     int
	gameWidth  int // play-field width (log panel takes the rest)
	gameHeight int
	offX       int // pixel offset from window left to field left
	offY       int // pixel offset from window top to field top

	ctrl Controller

	events    *sim.EventLog
	eventNext int
	panel     *EventPanel

	// Filled by scheduler hooks on the executor goroutine, drained in Update.
	outcomes chan sim.Outcome
	results  chan sim.Result

	popups []*ScorePopup
	frame  int

	result   *sim.Result // last finished run, shown until the next Start
	copied   string      // clipboard status line for the result overlay
	showHUD  bool
	prevKeys map[ebiten.Key]bool

	prevMouseLeft bool

	// HUD legend buffer, rendered at 1x then blitted at hudScale.
	hudBuf *ebiten.Image
}

// New sizes the window around cfg's play field. events is the session's event
// log; it feeds the side panel. Call Bind before running the game.
func New(cfg sim.Config, events *sim.EventLog) *Game {
	fieldW := int(cfg.FieldWidth)
	fieldH := int(cfg.FieldHeight)
	return &Game{
		width:      borderWidth + fieldW + borderWidth + logPanelWidth,
		height:     borderWidth + statusBarHeight + fieldH + borderWidth,
		gameWidth:  fieldW,
		gameHeight: fieldH,
		offX:       borderWidth,
		offY:       borderWidth + statusBarHeight,
		events:     events,
		panel:      NewEventPanel(),
		outcomes:   make(chan sim.Outcome, 64),
		results:    make(chan sim.Result, 4),
		showHUD:    true,
		prevKeys:   make(map[ebiten.Key]bool),
	}
}

// Bind attaches the controller the game sends commands to.
func (g *Game) Bind(ctrl Controller) {
	g.ctrl = ctrl
}

// Hooks returns scheduler callbacks that hand outcomes and results to the
// render loop. They drop values rather than block the executor.
func (g *Game) Hooks() sim.Hooks {
	return sim.Hooks{
		OnOutcome: func(o sim.Outcome) {
			select {
			case g.outcomes <- o:
			default:
			}
		},
		OnEnd: func(r sim.Result) {
			select {
			case g.results <- r:
			default:
			}
		},
	}
}

func (g *Game) Update() error {
	g.frame++

	// 1. INPUT: keys and clicks become controller commands.
	g.handleInput()

	// 2. PUBLICATIONS: drain what the executor produced since last frame.
	g.drainPublications()

	// 3. POPUPS: age and expire score markers.
	g.updatePopups()
	return nil
}

// drainPublications moves hook output and new log events into render state.
func (g *Game) drainPublications() {
	for {
		select {
		case o := <-g.outcomes:
			g.popups = append(g.popups, newScorePopup(o))
		case r := <-g.results:
			res := r
			g.result = &res
			g.copied = ""
		default:
			if g.events != nil {
				var fresh []sim.Event
				fresh, g.eventNext = g.events.Since(g.eventNext)
				for _, e := range fresh {
					g.panel.Add(e)
				}
			}
			return
		}
	}
}

// handleInput processes key presses (edge-triggered) and field clicks.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(keys ...ebiten.Key) bool {
		hit := false
		for _, k := range keys {
			currentKeys[k] = ebiten.IsKeyPressed(k)
			if currentKeys[k] && !g.prevKeys[k] {
				hit = true
			}
		}
		return hit
	}

	// Enter/S: start a run.
	if pressed(ebiten.KeyEnter, ebiten.KeyS) {
		g.startRun()
	}
	// P/Space: pause toggle.
	if pressed(ebiten.KeyP, ebiten.KeySpace) {
		g.ctrl.PauseToggle()
	}
	// Esc: stop.
	if pressed(ebiten.KeyEscape) {
		g.ctrl.Stop()
	}
	// C: copy the last result.
	if pressed(ebiten.KeyC) {
		g.copyResult()
	}
	// H: toggle HUD key legend.
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	// Left mouse click inside the field: interact.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !g.prevMouseLeft {
			mx, my := ebiten.CursorPosition()
			g.handleClick(mx, my)
		}
	}
	g.prevMouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	g.prevKeys = currentKeys
}

func (g *Game) startRun() {
	g.result = nil
	g.copied = ""
	g.popups = g.popups[:0]
	g.ctrl.Start()
}

// handleClick forwards a press to the session when it lands on the field.
func (g *Game) handleClick(mx, my int) {
	x, y, ok := g.screenToField(mx, my)
	if !ok {
		return
	}
	g.ctrl.Interact(x, y)
}

// screenToField maps window pixels to play-field coordinates.
func (g *Game) screenToField(mx, my int) (x, y float64, ok bool) {
	fx := mx - g.offX
	fy := my - g.offY
	if fx < 0 || fy < 0 || fx >= g.gameWidth || fy >= g.gameHeight {
		return 0, 0, false
	}
	return float64(fx), float64(fy), true
}

var (
	windowBG      = color.RGBA{R: 10, G: 14, B: 20, A: 255}
	fieldBG       = color.RGBA{R: 16, G: 32, B: 48, A: 255}
	borderCol     = color.RGBA{R: 60, G: 110, B: 150, A: 255}
	collectCol    = color.RGBA{R: 80, G: 170, B: 255, A: 255}
	collectRim    = color.RGBA{R: 190, G: 230, B: 255, A: 255}
	hazardCol     = color.RGBA{R: 150, G: 60, B: 40, A: 255}
	hazardRim     = color.RGBA{R: 230, G: 120, B: 70, A: 255}
	pausedOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 120}
)

func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.ctrl.Latest()
	screen.Fill(windowBG)

	// Field background and frame.
	ox, oy := float32(g.offX), float32(g.offY)
	gw, gh := float32(g.gameWidth), float32(g.gameHeight)
	vector.FillRect(screen, ox, oy, gw, gh, fieldBG, false)
	vector.StrokeRect(screen, ox-1, oy-1, gw+2, gh+2, 2.0, borderCol, false)

	g.drawEntities(screen, snap)
	g.drawPopups(screen)

	if snap.Status == sim.StatusPaused {
		vector.FillRect(screen, ox, oy, gw, gh, pausedOverlay, false)
		drawCentered(screen, "PAUSED  (P to resume)", g.offX+g.gameWidth/2, g.offY+g.gameHeight/2, color.White)
	}

	g.drawStatusBar(screen, snap)

	// Event log panel (screen coords).
	logX := g.offX + g.gameWidth + g.offX
	g.panel.Draw(screen, logX, g.height)

	if g.showHUD {
		g.drawHUD(screen)
	}
	switch {
	case snap.Status == sim.StatusEnded && g.result != nil:
		g.drawResult(screen, *g.result)
	case snap.Status == sim.StatusIdle:
		drawCentered(screen, "Press ENTER to start", g.offX+g.gameWidth/2, g.offY+g.gameHeight/2, color.White)
	}
}

// drawEntities renders drops as circles centred on (X, Y) and hazards as
// squares whose top-left is (X, Y), matching how hits are tested.
func (g *Game) drawEntities(screen *ebiten.Image, snap sim.Snapshot) {
	ox, oy := float32(g.offX), float32(g.offY)

	// Entities entering from above are clipped to the field.
	clip := screen.SubImage(fieldRect(g)).(*ebiten.Image)
	for _, e := range snap.Entities {
		x, y, s := ox+float32(e.X), oy+float32(e.Y), float32(e.Size)
		switch e.Kind {
		case sim.KindCollectible:
			vector.FillCircle(clip, x, y, s, collectCol, true)
			vector.StrokeCircle(clip, x, y, s, 1.5, collectRim, true)
		case sim.KindHazard:
			vector.FillRect(clip, x, y, s, s, hazardCol, false)
			vector.StrokeRect(clip, x, y, s, s, 1.5, hazardRim, false)
		}
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Size returns the window size in pixels.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}
