package sim

import (
	"fmt"
	"math/rand"
	"time"
)

// Status is the session lifecycle state.
type Status uint8

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusEnded:
		return "ended"
	}
	return "unknown"
}

// Stats counts what happened during one run.
type Stats struct {
	CollectiblesSpawned int
	HazardsSpawned      int
	Collected           int
	Missed              int
	HazardsHit          int
	Clicks              int
}

// Result is the terminal event delivered when a run ends.
type Result struct {
	Score    int
	Resource int
	Ticks    int
	Stats    Stats
}

// Session owns one game's state. It is not safe for concurrent use: a Scheduler
// (or a single-threaded caller such as Harness) serialises every call.
type Session struct {
	cfg     Config
	rng     *rand.Rand
	spawner *Spawner
	log     *EventLog

	status        Status
	resource      int
	score         int
	timeRemaining int
	entities      []*Entity
	tick          int
	nextID        int
	stats         Stats
}

// NewSession validates cfg and returns an Idle session. A nil log discards events.
func NewSession(cfg Config, log *EventLog) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if log == nil {
		log = NewEventLog(false)
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- game only
	return &Session{
		cfg:           cfg,
		rng:           rng,
		spawner:       NewSpawner(cfg, rng),
		log:           log,
		status:        StatusIdle,
		resource:      cfg.InitialResource,
		timeRemaining: cfg.InitialTime,
	}, nil
}

// Config returns the session's fixed configuration.
func (s *Session) Config() Config { return s.cfg }

// Status returns the current lifecycle state.
func (s *Session) Status() Status { return s.status }

// Log returns the event log the session writes to.
func (s *Session) Log() *EventLog { return s.log }

// Start resets the run and enters Running. It only works from Idle or Ended
// and reports whether the transition happened.
func (s *Session) Start() bool {
	if s.status != StatusIdle && s.status != StatusEnded {
		return false
	}
	prev := s.status
	s.resource = s.cfg.InitialResource
	s.score = 0
	s.timeRemaining = s.cfg.InitialTime
	s.clearEntities()
	s.tick = 0
	s.stats = Stats{}
	s.setStatus(prev, StatusRunning)
	return true
}

// PauseToggle flips Running and Paused. It reports whether anything changed.
func (s *Session) PauseToggle() bool {
	switch s.status {
	case StatusRunning:
		s.setStatus(StatusRunning, StatusPaused)
	case StatusPaused:
		s.setStatus(StatusPaused, StatusRunning)
	default:
		return false
	}
	return true
}

// Stop forces Idle from any state and clears the entities. Score, water and
// countdown stay as they were so they remain on display until the next Start.
func (s *Session) Stop() {
	prev := s.status
	s.clearEntities()
	if prev != StatusIdle {
		s.setStatus(prev, StatusIdle)
	}
}

// FastTick runs one simulation step: spawn, then move and drop fallen entities.
// Outside Running it does nothing.
func (s *Session) FastTick() {
	if s.status != StatusRunning {
		return
	}
	s.tick++

	// 1. SPAWN.
	for _, born := range s.spawner.Spawn(s.tick) {
		e := s.add(born)
		if e.Kind == KindHazard {
			s.stats.HazardsSpawned++
		} else {
			s.stats.CollectiblesSpawned++
		}
		s.log.AddVerbose(s.tick, CatSpawn, e.Kind.String(),
			fmt.Sprintf("#%d x=%.0f size=%.0f speed=%.1f effect=%d", e.ID, e.X, e.Size, e.Speed, e.Effect()), float64(e.ID))
	}

	// 2. MOVE + BOUNDARY.
	var fallen []*Entity
	s.entities, fallen = advance(s.entities, s.cfg.FieldHeight)
	if len(fallen) == 0 {
		return
	}
	penalty, missed := missPenalty(fallen, s.cfg.MissPenalty)
	if missed > 0 {
		before := s.resource
		s.resource = clampResource(s.resource - penalty)
		s.stats.Missed += missed
		s.log.Add(s.tick, CatBoundary, "missed",
			fmt.Sprintf("%d drop(s) lost, water %d → %d", missed, before, s.resource), float64(s.resource-before))
	}
	if hazards := len(fallen) - missed; hazards > 0 {
		s.log.AddVerbose(s.tick, CatBoundary, "hazard_passed", fmt.Sprintf("%d hazard(s)", hazards), float64(hazards))
	}
}

// SlowTick advances the countdown by one second. When the countdown reaches
// zero the session moves to Ended inside the same call and SlowTick returns
// true; no further tick has any effect until the next Start.
func (s *Session) SlowTick() (ended bool) {
	if s.status != StatusRunning {
		return false
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	s.log.AddVerbose(s.tick, CatClock, "countdown", fmt.Sprintf("%ds left", s.timeRemaining), float64(s.timeRemaining))
	if s.timeRemaining > 0 {
		return false
	}
	s.setStatus(StatusRunning, StatusEnded)
	r := s.Result()
	s.log.Add(s.tick, CatStatus, "result",
		fmt.Sprintf("score=%d water=%d collected=%d missed=%d hazards=%d", r.Score, r.Resource, r.Stats.Collected, r.Stats.Missed, r.Stats.HazardsHit),
		float64(r.Score))
	return true
}

// Interact applies a pointer press at (px, py). At most one entity is affected.
// Presses outside Running are ignored.
func (s *Session) Interact(px, py float64) Outcome {
	out := Outcome{X: px, Y: py}
	if s.status != StatusRunning {
		return out
	}
	s.stats.Clicks++
	idx := resolveHit(s.entities, px, py)
	if idx < 0 {
		return out
	}
	e := s.entities[idx]
	s.remove(idx)
	before := s.resource
	out.EntityID = e.ID

	switch e.Kind {
	case KindCollectible:
		s.score += e.Value
		s.resource = clampResource(s.resource + e.Value)
		s.stats.Collected++
		out.Kind = OutcomeCollected
		out.ScoreDelta = e.Value
		out.ResourceDelta = s.resource - before
		s.log.Add(s.tick, CatInteract, "collected",
			fmt.Sprintf("+%d at (%.0f,%.0f) water %d → %d", e.Value, px, py, before, s.resource), float64(e.Value))
	case KindHazard:
		s.resource = clampResource(s.resource - e.Damage)
		s.stats.HazardsHit++
		out.Kind = OutcomeHazard
		out.ResourceDelta = s.resource - before
		s.log.Add(s.tick, CatInteract, "hazard",
			fmt.Sprintf("-%d at (%.0f,%.0f) water %d → %d", e.Damage, px, py, before, s.resource), float64(e.Damage))
	}
	return out
}

// Result summarises the current run.
func (s *Session) Result() Result {
	return Result{
		Score:    s.score,
		Resource: s.resource,
		Ticks:    s.tick,
		Stats:    s.stats,
	}
}

// Snapshot copies the state presentation needs.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:          s.tick,
		Status:        s.status,
		Resource:      s.resource,
		Score:         s.score,
		TimeRemaining: s.timeRemaining,
		Stats:         s.stats,
		Entities:      make([]EntityView, len(s.entities)),
	}
	for i, e := range s.entities {
		snap.Entities[i] = EntityView{ID: e.ID, Kind: e.Kind, X: e.X, Y: e.Y, Size: e.Size}
	}
	return snap
}

func (s *Session) add(e Entity) *Entity {
	s.nextID++
	e.ID = s.nextID
	p := &e
	s.entities = append(s.entities, p)
	return p
}

func (s *Session) clearEntities() {
	for i := range s.entities {
		s.entities[i] = nil
	}
	s.entities = s.entities[:0]
}

func (s *Session) remove(idx int) {
	copy(s.entities[idx:], s.entities[idx+1:])
	s.entities[len(s.entities)-1] = nil
	s.entities = s.entities[:len(s.entities)-1]
}

func (s *Session) setStatus(from, to Status) {
	s.status = to
	s.log.Add(s.tick, CatStatus, "change", from.String()+" → "+to.String(), float64(to))
}
