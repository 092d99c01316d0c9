package sim

// Harness drives a Session synchronously, without a Scheduler or wall clock.
// Tests and the headless report use it for deterministic runs.
type Harness struct {
	Config  Config
	Session *Session
	Log     *EventLog

	verbose  bool
	resource *int
	placed   []Entity
}

// harnessOptionKind controls the pass in which an option is applied.
type harnessOptionKind int

const (
	harnessOptConfig harnessOptionKind = iota // tuning, seed, verbose; applied before the session exists
	harnessOptState                           // entities and meter overrides; applied after Start
)

// HarnessOption is a builder function applied to a Harness during construction.
type HarnessOption struct {
	kind harnessOptionKind
	fn   func(*Harness)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) HarnessOption {
	return HarnessOption{harnessOptConfig, func(h *Harness) { h.Config.Seed = seed }}
}

// WithFieldSize sets the play-field dimensions.
func WithFieldSize(w, h float64) HarnessOption {
	return HarnessOption{harnessOptConfig, func(hs *Harness) {
		hs.Config.FieldWidth = w
		hs.Config.FieldHeight = h
	}}
}

// WithConfig edits the whole config in place.
func WithConfig(edit func(*Config)) HarnessOption {
	return HarnessOption{harnessOptConfig, func(h *Harness) { edit(&h.Config) }}
}

// WithNoSpawns turns both spawn chances off so only placed entities exist.
func WithNoSpawns() HarnessOption {
	return HarnessOption{harnessOptConfig, func(h *Harness) {
		h.Config.Collectible.Chance = 0
		h.Config.Hazard.Chance = 0
	}}
}

// WithVerbose records spawn and countdown events too.
func WithVerbose(v bool) HarnessOption {
	return HarnessOption{harnessOptConfig, func(h *Harness) { h.verbose = v }}
}

// WithResource overrides the water level right after Start.
func WithResource(level int) HarnessOption {
	return HarnessOption{harnessOptState, func(h *Harness) {
		h.resource = &level
	}}
}

// WithCollectible places a collectible centred on (x, y) after Start.
func WithCollectible(x, y, size float64, value int, speed float64) HarnessOption {
	return HarnessOption{harnessOptState, func(h *Harness) {
		h.placed = append(h.placed, Entity{Kind: KindCollectible, X: x, Y: y, Size: size, Value: value, Speed: speed})
	}}
}

// WithHazard places a hazard whose square starts at (x, y) after Start.
func WithHazard(x, y, size float64, damage int, speed float64) HarnessOption {
	return HarnessOption{harnessOptState, func(h *Harness) {
		h.placed = append(h.placed, Entity{Kind: KindHazard, X: x, Y: y, Size: size, Damage: damage, Speed: speed})
	}}
}

// NewHarness builds a Harness in two ordered passes:
//  1. Config options, then the session is created and started
//  2. State options (resource override, placed entities in option order)
func NewHarness(opts ...HarnessOption) (*Harness, error) {
	h := &Harness{Config: DefaultConfig()}
	h.Config.Seed = 1
	for _, o := range opts {
		if o.kind == harnessOptConfig {
			o.fn(h)
		}
	}
	h.Log = NewEventLog(h.verbose)
	s, err := NewSession(h.Config, h.Log)
	if err != nil {
		return nil, err
	}
	h.Session = s
	s.Start()

	for _, o := range opts {
		if o.kind == harnessOptState {
			o.fn(h)
		}
	}
	if h.resource != nil {
		s.resource = clampResource(*h.resource)
	}
	for _, e := range h.placed {
		s.add(e)
	}
	return h, nil
}

// RunFastTicks runs n fast ticks.
func (h *Harness) RunFastTicks(n int) {
	for i := 0; i < n; i++ {
		h.Session.FastTick()
	}
}

// RunSlowTicks runs n slow ticks and reports whether the session ended.
func (h *Harness) RunSlowTicks(n int) bool {
	ended := false
	for i := 0; i < n; i++ {
		if h.Session.SlowTick() {
			ended = true
		}
	}
	return ended
}

// RunSeconds interleaves fast and slow ticks the way the real schedules do:
// FastTicksPerSecond fast ticks, then one slow tick, per second. The optional
// step callback runs after every fast tick, which is where scripted input goes.
// It stops early once the session ends and reports whether it did.
func (h *Harness) RunSeconds(n int, step func(*Harness)) bool {
	per := h.Config.FastTicksPerSecond()
	for sec := 0; sec < n; sec++ {
		for i := 0; i < per; i++ {
			h.Session.FastTick()
			if step != nil {
				step(h)
			}
		}
		if h.Session.SlowTick() {
			return true
		}
	}
	return false
}

// Snapshot is shorthand for h.Session.Snapshot().
func (h *Harness) Snapshot() Snapshot {
	return h.Session.Snapshot()
}
