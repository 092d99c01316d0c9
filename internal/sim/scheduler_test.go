package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// manualTicker fires only when the test says so.
type manualTicker struct {
	period time.Duration
	ch     chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}

func (m *manualTicker) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

func (m *manualTicker) fire() { m.ch <- time.Time{} }

// schedRig runs a Scheduler with manual tickers and captures everything it
// publishes.
type schedRig struct {
	t     *testing.T
	sched *Scheduler

	mu      sync.Mutex
	tickers []*manualTicker

	snaps    chan Snapshot
	outcomes chan Outcome
	results  chan Result
}

func newSchedRig(t *testing.T, edit func(*Config)) *schedRig {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.Collectible.Chance = 0
	cfg.Hazard.Chance = 0
	if edit != nil {
		edit(&cfg)
	}
	session, err := NewSession(cfg, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	r := &schedRig{
		t:        t,
		snaps:    make(chan Snapshot, 256),
		outcomes: make(chan Outcome, 16),
		results:  make(chan Result, 4),
	}
	r.sched = NewScheduler(session,
		WithTickerFactory(r.newTicker),
		WithHooks(Hooks{
			OnSnapshot: func(s Snapshot) { r.snaps <- s },
			OnOutcome:  func(o Outcome) { r.outcomes <- o },
			OnEnd:      func(res Result) { r.results <- res },
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = r.sched.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-r.sched.Done()
	})
	return r
}

func (r *schedRig) newTicker(d time.Duration) Ticker {
	m := &manualTicker{period: d, ch: make(chan time.Time, 1)}
	r.mu.Lock()
	r.tickers = append(r.tickers, m)
	r.mu.Unlock()
	return m
}

func (r *schedRig) ticker(i int) *manualTicker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i >= len(r.tickers) {
		r.t.Fatalf("ticker %d not created (have %d)", i, len(r.tickers))
	}
	return r.tickers[i]
}

func (r *schedRig) tickerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickers)
}

// next returns the next published snapshot.
func (r *schedRig) next() Snapshot {
	r.t.Helper()
	select {
	case s := <-r.snaps:
		return s
	case <-time.After(2 * time.Second):
		r.t.Fatal("timed out waiting for a snapshot")
	}
	return Snapshot{}
}

// waitFor drains snapshots until cond holds.
func (r *schedRig) waitFor(what string, cond func(Snapshot) bool) Snapshot {
	r.t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-r.snaps:
			if cond(s) {
				return s
			}
		case <-deadline:
			r.t.Fatalf("timed out waiting for %s", what)
			return Snapshot{}
		}
	}
}

func (r *schedRig) start() {
	r.t.Helper()
	r.sched.Start()
	r.waitFor("running", func(s Snapshot) bool { return s.Status == StatusRunning })
}

func TestSchedulerStartArmsBothSchedules(t *testing.T) {
	r := newSchedRig(t, nil)
	r.start()

	if n := r.tickerCount(); n != 2 {
		t.Fatalf("tickers after start: got %d want 2", n)
	}
	if r.ticker(0).period != 50*time.Millisecond || r.ticker(1).period != time.Second {
		t.Fatalf("periods: fast=%v slow=%v", r.ticker(0).period, r.ticker(1).period)
	}

	r.ticker(0).fire()
	if s := r.next(); s.Tick != 1 {
		t.Fatalf("fast tick: got tick %d want 1", s.Tick)
	}
	r.ticker(1).fire()
	if s := r.next(); s.TimeRemaining != 59 {
		t.Fatalf("slow tick: got %d seconds left want 59", s.TimeRemaining)
	}
	if got := r.sched.Latest().TimeRemaining; got != 59 {
		t.Fatalf("Latest: got %d seconds left want 59", got)
	}
}

func TestSchedulerCountdownEndsRun(t *testing.T) {
	r := newSchedRig(t, func(c *Config) { c.InitialTime = 3 })
	r.start()
	fast, slow := r.ticker(0), r.ticker(1)

	for want := 2; want >= 1; want-- {
		slow.fire()
		if s := r.next(); s.TimeRemaining != want {
			t.Fatalf("countdown: got %d want %d", s.TimeRemaining, want)
		}
	}
	slow.fire()
	if s := r.next(); s.Status != StatusEnded || s.TimeRemaining != 0 {
		t.Fatalf("final slow tick: status=%v time=%d", s.Status, s.TimeRemaining)
	}

	select {
	case res := <-r.results:
		if res.Score != 0 || res.Resource != 100 {
			t.Fatalf("result: %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnEnd was not called")
	}
	if !fast.isStopped() || !slow.isStopped() {
		t.Fatal("both schedules should be cancelled when the run ends")
	}

	// A fast tick already queued on the cancelled ticker must never be applied.
	fast.fire()
	r.sched.PauseToggle()
	if s := r.next(); s.Tick != 0 || s.Status != StatusEnded {
		t.Fatalf("after end: tick=%d status=%v", s.Tick, s.Status)
	}
	select {
	case res := <-r.results:
		t.Fatalf("OnEnd called twice: %+v", res)
	default:
	}
}

func TestSchedulerPauseFreezesTicks(t *testing.T) {
	r := newSchedRig(t, nil)
	r.start()
	fast, slow := r.ticker(0), r.ticker(1)

	fast.fire()
	r.waitFor("tick 1", func(s Snapshot) bool { return s.Tick == 1 })

	r.sched.PauseToggle()
	r.waitFor("paused", func(s Snapshot) bool { return s.Status == StatusPaused })

	fast.fire()
	if s := r.next(); s.Tick != 1 || s.Status != StatusPaused {
		t.Fatalf("paused fast tick: tick=%d status=%v", s.Tick, s.Status)
	}
	slow.fire()
	if s := r.next(); s.TimeRemaining != 60 {
		t.Fatalf("paused slow tick: got %d seconds left want 60", s.TimeRemaining)
	}

	r.sched.PauseToggle()
	r.waitFor("resumed", func(s Snapshot) bool { return s.Status == StatusRunning })
	fast.fire()
	if s := r.next(); s.Tick != 2 {
		t.Fatalf("resumed fast tick: got tick %d want 2", s.Tick)
	}
}

func TestSchedulerStopAndRestart(t *testing.T) {
	r := newSchedRig(t, nil)
	r.start()

	r.sched.Stop()
	r.waitFor("idle", func(s Snapshot) bool { return s.Status == StatusIdle })
	if !r.ticker(0).isStopped() || !r.ticker(1).isStopped() {
		t.Fatal("Stop should cancel both schedules")
	}

	r.start()
	if n := r.tickerCount(); n != 4 {
		t.Fatalf("restart should arm fresh schedules: got %d tickers want 4", n)
	}
	if r.ticker(2).isStopped() || r.ticker(3).isStopped() {
		t.Fatal("fresh schedules should be live")
	}
}

func TestSchedulerStartWhileRunningIsIgnored(t *testing.T) {
	r := newSchedRig(t, nil)
	r.start()
	r.ticker(0).fire()
	r.waitFor("tick 1", func(s Snapshot) bool { return s.Tick == 1 })

	r.sched.Start()
	if s := r.next(); s.Tick != 1 || s.Status != StatusRunning {
		t.Fatalf("second start reset the run: tick=%d status=%v", s.Tick, s.Status)
	}
	if n := r.tickerCount(); n != 2 {
		t.Fatalf("second start armed new schedules: %d tickers", n)
	}
}

func TestSchedulerInteractPublishesOutcome(t *testing.T) {
	r := newSchedRig(t, func(c *Config) { c.Collectible.Chance = 1 })
	r.start()

	r.ticker(0).fire()
	s := r.waitFor("a spawned drop", func(s Snapshot) bool { return s.Count(KindCollectible) > 0 })
	drop := s.Entities[0]

	r.sched.Interact(drop.X, drop.Y)
	select {
	case out := <-r.outcomes:
		if out.Kind != OutcomeCollected || out.EntityID != drop.ID || out.ScoreDelta <= 0 {
			t.Fatalf("outcome: %+v", out)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnOutcome was not called")
	}

	// Presses that hit nothing are not published as outcomes.
	r.sched.Interact(-50, -50)
	r.next()
	select {
	case out := <-r.outcomes:
		t.Fatalf("unexpected outcome for empty press: %+v", out)
	default:
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	session, err := NewSession(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	sched := NewScheduler(session)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- sched.Run(ctx) }()

	sched.Start()
	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run: got %v want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	<-sched.Done()

	// Commands after shutdown must not block.
	sched.Stop()
	sched.Interact(1, 1)
}
