// Package tui is a terminal frontend for a water game session.
package tui

import (
	"context"
	"log"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/groundwater-assist/water-game/internal/sim"
)

// frameInterval is the redraw period (~30 FPS).
const frameInterval = 33 * time.Millisecond

// Controller is the command surface of a running session. *sim.Scheduler
// satisfies it.
type Controller interface {
	Start()
	PauseToggle()
	Stop()
	Interact(x, y float64)
	Latest() sim.Snapshot
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// App draws snapshots to a tcell screen and turns keys and mouse presses into
// controller commands.
type App struct {
	screen tcell.Screen
	cfg    sim.Config
	ctrl   Controller

	outcomes chan sim.Outcome
	results  chan sim.Result

	result   *sim.Result
	flash    string // last outcome or clipboard status, shown in the status line
	prevDown bool   // left button state, for edge-triggered presses
}

// New wraps an initialised screen. Call Bind before Run.
func New(screen tcell.Screen, cfg sim.Config) *App {
	screen.EnableMouse()
	return &App{
		screen:   screen,
		cfg:      cfg,
		outcomes: make(chan sim.Outcome, 64),
		results:  make(chan sim.Result, 4),
	}
}

// Bind attaches the controller the app sends commands to.
func (a *App) Bind(ctrl Controller) {
	a.ctrl = ctrl
}

// Hooks returns scheduler callbacks feeding the render loop. They never block.
func (a *App) Hooks() sim.Hooks {
	return sim.Hooks{
		OnOutcome: func(o sim.Outcome) {
			select {
			case a.outcomes <- o:
			default:
			}
		},
		OnEnd: func(r sim.Result) {
			select {
			case a.results <- r:
			default:
			}
		},
	}
}

// Run polls input and redraws until ctx is cancelled or the user quits.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventChan:
			if !a.HandleEvent(ev) {
				return nil
			}
		case o := <-a.outcomes:
			a.flash = outcomeText(o)
		case r := <-a.results:
			res := r
			a.result = &res
		case <-ticker.C:
			a.Draw()
		}
	}
}

// HandleEvent applies one input event. It returns false when the user quits.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !a.prevDown {
			x, y := ev.Position()
			if fx, fy, ok := a.cellToField(x, y); ok {
				a.ctrl.Interact(fx, fy)
			}
		}
		a.prevDown = down
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		a.start()
	case tcell.KeyEscape:
		a.ctrl.Stop()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 's', 'S':
			a.start()
		case 'p', 'P', ' ':
			a.ctrl.PauseToggle()
		case 'c', 'C':
			a.copyResult()
		}
	}
	return true
}

func (a *App) start() {
	a.result = nil
	a.flash = ""
	a.ctrl.Start()
}

func (a *App) copyResult() {
	if a.result == nil {
		return
	}
	if err := writeClipboard(sim.Announcement(*a.result)); err != nil {
		log.Printf("copy result: %v", err)
		a.flash = "clipboard unavailable"
		return
	}
	a.flash = "result copied to clipboard"
}
