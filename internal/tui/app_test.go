package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/groundwater-assist/water-game/internal/sim"
)

type fakeController struct {
	starts, pauses, stops int
	presses               [][2]float64
	snap                  sim.Snapshot
}

func (f *fakeController) Start()                { f.starts++ }
func (f *fakeController) PauseToggle()          { f.pauses++ }
func (f *fakeController) Stop()                 { f.stops++ }
func (f *fakeController) Interact(x, y float64) { f.presses = append(f.presses, [2]float64{x, y}) }
func (f *fakeController) Latest() sim.Snapshot  { return f.snap }

// newTestApp builds a 60x23 terminal: a 60x20 field, so one cell is 10x20 px.
func newTestApp(t *testing.T) (*App, *fakeController, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(60, 23)
	t.Cleanup(screen.Fini)

	app := New(screen, sim.DefaultConfig())
	ctrl := &fakeController{}
	app.Bind(ctrl)
	return app, ctrl, screen
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func screenText(s tcell.Screen) string {
	_, h := s.Size()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		sb.WriteString(rowText(s, y))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestCellToField(t *testing.T) {
	app, _, _ := newTestApp(t)
	cases := []struct {
		cx, cy int
		x, y   float64
		ok     bool
	}{
		{0, statusRows, 5, 10, true},
		{59, statusRows + 19, 595, 390, true},
		{30, statusRows + 10, 305, 210, true},
		{0, statusRows - 1, 0, 0, false},
		{0, statusRows + 20, 0, 0, false},
		{60, statusRows, 0, 0, false},
	}
	for _, tc := range cases {
		x, y, ok := app.cellToField(tc.cx, tc.cy)
		if ok != tc.ok || x != tc.x || y != tc.y {
			t.Errorf("cellToField(%d,%d) = (%v,%v,%v), want (%v,%v,%v)", tc.cx, tc.cy, x, y, ok, tc.x, tc.y, tc.ok)
		}
	}
	if cx, cy := app.fieldToCell(305, 210); cx != 30 || cy != statusRows+10 {
		t.Fatalf("fieldToCell: got (%d,%d)", cx, cy)
	}
}

func TestMousePressIsEdgeTriggered(t *testing.T) {
	app, ctrl, _ := newTestApp(t)

	app.HandleEvent(tcell.NewEventMouse(30, statusRows+10, tcell.Button1, tcell.ModNone))
	app.HandleEvent(tcell.NewEventMouse(31, statusRows+10, tcell.Button1, tcell.ModNone)) // drag
	app.HandleEvent(tcell.NewEventMouse(31, statusRows+10, tcell.ButtonNone, tcell.ModNone))
	app.HandleEvent(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone)) // status line
	app.HandleEvent(tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone))
	app.HandleEvent(tcell.NewEventMouse(1, statusRows, tcell.Button1, tcell.ModNone))

	want := [][2]float64{{305, 210}, {15, 10}}
	if len(ctrl.presses) != len(want) {
		t.Fatalf("presses: got %v want %v", ctrl.presses, want)
	}
	for i := range want {
		if ctrl.presses[i] != want[i] {
			t.Fatalf("press %d: got %v want %v", i, ctrl.presses[i], want[i])
		}
	}
}

func TestKeyBindings(t *testing.T) {
	app, ctrl, _ := newTestApp(t)
	keys := []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
	}
	for _, k := range keys {
		if !app.HandleEvent(k) {
			t.Fatalf("key %v should not quit", k.Name())
		}
	}
	if ctrl.starts != 2 || ctrl.pauses != 2 || ctrl.stops != 1 {
		t.Fatalf("commands: starts=%d pauses=%d stops=%d", ctrl.starts, ctrl.pauses, ctrl.stops)
	}

	if app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Fatal("q should quit")
	}
	if app.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Fatal("Ctrl-C should quit")
	}
}

func TestDrawShowsClickableCells(t *testing.T) {
	app, ctrl, screen := newTestApp(t)
	ctrl.snap = sim.Snapshot{
		Status:        sim.StatusRunning,
		Resource:      80,
		Score:         12,
		TimeRemaining: 42,
		Entities: []sim.EntityView{
			{ID: 1, Kind: sim.KindCollectible, X: 300, Y: 200, Size: 20},
			{ID: 2, Kind: sim.KindHazard, X: 100, Y: 100, Size: 30},
		},
	}
	app.Draw()

	if r, _, _, _ := screen.GetContent(29, statusRows+9); r != '●' {
		t.Fatalf("drop cell: got %q", r)
	}
	if r, _, _, _ := screen.GetContent(10, statusRows+5); r != '▓' {
		t.Fatalf("hazard cell: got %q", r)
	}
	if r, _, _, _ := screen.GetContent(0, statusRows); r != ' ' {
		t.Fatalf("empty cell: got %q", r)
	}
	status := rowText(screen, 0)
	for _, want := range []string{"SCORE 12", "80%", "TIME 42s", "RUNNING"} {
		if !strings.Contains(status, want) {
			t.Errorf("status line missing %q: %q", want, status)
		}
	}
}

func TestDrawBanners(t *testing.T) {
	app, ctrl, screen := newTestApp(t)

	ctrl.snap = sim.Snapshot{Status: sim.StatusIdle, TimeRemaining: 60, Resource: 100}
	app.Draw()
	if !strings.Contains(screenText(screen), "Press ENTER to start") {
		t.Fatal("idle banner missing")
	}

	ctrl.snap.Status = sim.StatusEnded
	app.result = &sim.Result{Score: 9, Resource: 55}
	app.Draw()
	if !strings.Contains(screenText(screen), "Final score: 9") {
		t.Fatalf("result banner missing:\n%s", screenText(screen))
	}
}

func TestCopyResult(t *testing.T) {
	app, _, _ := newTestApp(t)
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	var got string
	writeClipboard = func(s string) error { got = s; return nil }
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone))
	if got != "" {
		t.Fatal("nothing to copy before a run ends")
	}

	r := sim.Result{Score: 4, Resource: 20}
	app.result = &r
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone))
	if got != sim.Announcement(r) {
		t.Fatalf("copied %q", got)
	}

	writeClipboard = func(string) error { return errors.New("no clipboard") }
	app.copyResult()
	if app.flash != "clipboard unavailable" {
		t.Fatalf("flash: %q", app.flash)
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	app, _, screen := newTestApp(t)
	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after q")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	app, _, _ := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	app.Hooks().OnEnd(sim.Result{Score: 1})
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run: got %v want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestOutcomeText(t *testing.T) {
	if got := outcomeText(sim.Outcome{Kind: sim.OutcomeCollected, ScoreDelta: 6, ResourceDelta: 6}); got != "caught a drop: +6 points, water +6" {
		t.Fatalf("collected: %q", got)
	}
	if got := outcomeText(sim.Outcome{Kind: sim.OutcomeHazard, ResourceDelta: -12}); got != "hit a hazard: water -12" {
		t.Fatalf("hazard: %q", got)
	}
}
