package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Ticker is a periodic trigger. *time.Ticker satisfies it through RealTicker;
// tests supply manual tickers.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory arms a new Ticker with the given period.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// RealTicker is the wall-clock TickerFactory.
func RealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Hooks are called on the executor goroutine. They must not block and must
// not call back into the Scheduler synchronously.
type Hooks struct {
	OnSnapshot func(Snapshot)
	OnOutcome  func(Outcome)
	OnEnd      func(Result)
}

// Commands accepted by the executor.
type (
	startCmd    struct{}
	pauseCmd    struct{}
	stopCmd     struct{}
	interactCmd struct{ x, y float64 }
)

// Scheduler runs a Session on a single executor goroutine. The fast and slow
// schedules and every command are delivered to that goroutine and each runs to
// completion before the next, so the session needs no locks.
type Scheduler struct {
	session   *Session
	newTicker TickerFactory
	hooks     Hooks

	inbox  chan any
	done   chan struct{}
	latest atomic.Pointer[Snapshot]

	fast, slow Ticker // nil when disarmed

	running  atomic.Bool
	doneOnce sync.Once
}

// SchedulerOption customises a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTickerFactory replaces the wall-clock tickers.
func WithTickerFactory(f TickerFactory) SchedulerOption {
	return func(s *Scheduler) { s.newTicker = f }
}

// WithHooks installs publication callbacks.
func WithHooks(h Hooks) SchedulerOption {
	return func(s *Scheduler) { s.hooks = h }
}

// NewScheduler wraps session. Call Run to start the executor.
func NewScheduler(session *Session, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		session:   session,
		newTicker: RealTicker,
		inbox:     make(chan any, 64),
		done:      make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	snap := session.Snapshot()
	s.latest.Store(&snap)
	return s
}

// Start requests a new run. Ignored while a run is in progress.
func (s *Scheduler) Start() { s.submit(startCmd{}) }

// PauseToggle flips between Running and Paused.
func (s *Scheduler) PauseToggle() { s.submit(pauseCmd{}) }

// Stop cancels both schedules and returns the session to Idle.
func (s *Scheduler) Stop() { s.submit(stopCmd{}) }

// Interact delivers a pointer press in play-field coordinates.
func (s *Scheduler) Interact(x, y float64) { s.submit(interactCmd{x: x, y: y}) }

// Latest returns the most recently published snapshot.
func (s *Scheduler) Latest() Snapshot { return *s.latest.Load() }

// Done is closed when Run returns.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

func (s *Scheduler) submit(cmd any) {
	select {
	case s.inbox <- cmd:
	case <-s.done:
	}
}

// Run is the executor loop. It blocks until ctx is cancelled and returns
// ctx.Err(). Run may be called only once.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	defer s.doneOnce.Do(func() { close(s.done) })
	defer s.disarm()

	for {
		// A nil channel blocks forever, so a disarmed schedule never fires.
		var fastC, slowC <-chan time.Time
		if s.fast != nil {
			fastC = s.fast.C()
		}
		if s.slow != nil {
			slowC = s.slow.C()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-s.inbox:
			s.handle(cmd)
		case <-fastC:
			s.session.FastTick()
			s.publish()
		case <-slowC:
			if s.session.SlowTick() {
				s.disarm()
				s.publish()
				if s.hooks.OnEnd != nil {
					s.hooks.OnEnd(s.session.Result())
				}
				continue
			}
			s.publish()
		}
	}
}

func (s *Scheduler) handle(cmd any) {
	switch c := cmd.(type) {
	case startCmd:
		if s.session.Start() {
			s.arm()
		}
	case pauseCmd:
		s.session.PauseToggle()
	case stopCmd:
		s.disarm()
		s.session.Stop()
	case interactCmd:
		out := s.session.Interact(c.x, c.y)
		if out.Kind != OutcomeNone && s.hooks.OnOutcome != nil {
			s.hooks.OnOutcome(out)
		}
	}
	s.publish()
}

func (s *Scheduler) arm() {
	s.disarm()
	cfg := s.session.Config()
	s.fast = s.newTicker(cfg.FastTick.Duration)
	s.slow = s.newTicker(cfg.SlowTick.Duration)
}

func (s *Scheduler) disarm() {
	if s.fast != nil {
		s.fast.Stop()
		s.fast = nil
	}
	if s.slow != nil {
		s.slow.Stop()
		s.slow = nil
	}
}

func (s *Scheduler) publish() {
	snap := s.session.Snapshot()
	s.latest.Store(&snap)
	if s.hooks.OnSnapshot != nil {
		s.hooks.OnSnapshot(snap)
	}
}
