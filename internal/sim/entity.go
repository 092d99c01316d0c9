package sim

import "math"

// EntityKind distinguishes the two falling objects.
type EntityKind uint8

const (
	// KindCollectible is a water drop: click it for points and water.
	KindCollectible EntityKind = iota
	// KindHazard is a pollutant: clicking it drains water, missing it is harmless.
	KindHazard
)

func (k EntityKind) String() string {
	switch k {
	case KindCollectible:
		return "collectible"
	case KindHazard:
		return "hazard"
	}
	return "unknown"
}

// Entity is one spawned object on the play field. Y grows downward.
type Entity struct {
	ID        int
	Kind      EntityKind
	X, Y      float64
	Size      float64
	Speed     float64 // y displacement per fast tick
	Value     int     // collectible reward
	Damage    int     // hazard penalty
	CreatedAt int     // fast tick index, diagnostics only
}

// Effect returns the entity's value or damage, whichever applies to its kind.
func (e *Entity) Effect() int {
	if e.Kind == KindHazard {
		return e.Damage
	}
	return e.Value
}

// Hit reports whether (px, py) lands on the entity. Collectibles are circles of
// radius Size centred on (X, Y); hazards are Size-wide squares anchored at (X, Y).
func (e *Entity) Hit(px, py float64) bool {
	if e.Kind == KindCollectible {
		return math.Hypot(px-e.X, py-e.Y) <= e.Size
	}
	return px >= e.X && px <= e.X+e.Size && py >= e.Y && py <= e.Y+e.Size
}

func clampResource(v int) int {
	if v < 0 {
		return 0
	}
	if v > ResourceCap {
		return ResourceCap
	}
	return v
}
