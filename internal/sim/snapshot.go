package sim

// EntityView is the read-only part of an entity presentation needs.
type EntityView struct {
	ID   int
	Kind EntityKind
	X, Y float64
	Size float64
}

// Snapshot is an immutable copy of session state, published after every tick,
// command and interaction.
type Snapshot struct {
	Tick          int
	Status        Status
	Resource      int
	Score         int
	TimeRemaining int
	Entities      []EntityView
	Stats         Stats
}

// Count returns how many entities of the given kind are live.
func (s Snapshot) Count(kind EntityKind) int {
	n := 0
	for _, e := range s.Entities {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Hit reports whether a press at (px, py) lands on the entity, using the same
// shapes as Session.Interact.
func (v EntityView) Hit(px, py float64) bool {
	e := Entity{Kind: v.Kind, X: v.X, Y: v.Y, Size: v.Size}
	return e.Hit(px, py)
}
