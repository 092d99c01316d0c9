package sim

import "math/rand"

// AutoPlayer is a scripted player for headless runs. It clicks at a fixed
// average rate, always aiming at the lowest collectible on screen; a click
// that fails the accuracy roll lands a random distance away instead.
type AutoPlayer struct {
	ClicksPerSecond float64
	Accuracy        float64 // 0..1

	rng    *rand.Rand
	budget float64
}

// NewAutoPlayer returns a player with its own RNG stream.
func NewAutoPlayer(seed int64, clicksPerSecond, accuracy float64) *AutoPlayer {
	return &AutoPlayer{
		ClicksPerSecond: clicksPerSecond,
		Accuracy:        accuracy,
		rng:             rand.New(rand.NewSource(seed)), // #nosec G404 -- scripted input
	}
}

// Aim picks the click point for snap, or ok=false when there is nothing to
// aim at.
func (a *AutoPlayer) Aim(snap Snapshot) (x, y float64, ok bool) {
	best := -1
	for i, e := range snap.Entities {
		if e.Kind != KindCollectible {
			continue
		}
		if best < 0 || e.Y > snap.Entities[best].Y {
			best = i
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	t := snap.Entities[best]
	if a.rng.Float64() < a.Accuracy {
		return t.X, t.Y, true
	}
	// Miss by between one and three radii in a random direction.
	dx := (1 + 2*a.rng.Float64()) * t.Size
	dy := (1 + 2*a.rng.Float64()) * t.Size
	if a.rng.Intn(2) == 0 {
		dx = -dx
	}
	if a.rng.Intn(2) == 0 {
		dy = -dy
	}
	return t.X + dx, t.Y + dy, true
}

// Step is a Harness.RunSeconds callback: it spends the click budget accrued
// over one fast tick.
func (a *AutoPlayer) Step(h *Harness) {
	a.budget += a.ClicksPerSecond / float64(h.Config.FastTicksPerSecond())
	for a.budget >= 1 {
		a.budget--
		x, y, ok := a.Aim(h.Session.Snapshot())
		if !ok {
			continue
		}
		h.Session.Interact(x, y)
	}
}
