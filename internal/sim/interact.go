package sim

// OutcomeKind says what a single interaction did.
type OutcomeKind uint8

const (
	OutcomeNone OutcomeKind = iota
	OutcomeCollected
	OutcomeHazard
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCollected:
		return "collected"
	case OutcomeHazard:
		return "hazard"
	}
	return "none"
}

// Outcome is the result of one Interact call. Deltas are the applied changes
// after clamping, so a collect at full water reports ResourceDelta 0.
type Outcome struct {
	Kind          OutcomeKind
	EntityID      int
	X, Y          float64 // pointer position
	ScoreDelta    int
	ResourceDelta int
}

// resolveHit picks the entity under (px, py). Collectibles win over hazards;
// within a kind the most recently spawned entity wins. Returns -1 on a miss.
func resolveHit(entities []*Entity, px, py float64) int {
	for i := len(entities) - 1; i >= 0; i-- {
		if e := entities[i]; e.Kind == KindCollectible && e.Hit(px, py) {
			return i
		}
	}
	for i := len(entities) - 1; i >= 0; i-- {
		if e := entities[i]; e.Kind == KindHazard && e.Hit(px, py) {
			return i
		}
	}
	return -1
}
