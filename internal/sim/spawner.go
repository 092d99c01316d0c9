package sim

import "math/rand"

// Spawner rolls for new entities once per fast tick. Each kind gets an
// independent trial, so a tick yields zero, one, or two entities.
type Spawner struct {
	collectible SpawnConfig
	hazard      SpawnConfig
	fieldWidth  float64
	rng         *rand.Rand
}

// NewSpawner builds a spawner over a validated config.
func NewSpawner(cfg Config, rng *rand.Rand) *Spawner {
	return &Spawner{
		collectible: cfg.Collectible,
		hazard:      cfg.Hazard,
		fieldWidth:  cfg.FieldWidth,
		rng:         rng,
	}
}

// Spawn returns the entities born this tick, collectible first. IDs are left
// for the caller to assign.
func (sp *Spawner) Spawn(tick int) []Entity {
	var out []Entity
	if sp.rng.Float64() < sp.collectible.Chance {
		out = append(out, sp.roll(KindCollectible, sp.collectible, tick))
	}
	if sp.rng.Float64() < sp.hazard.Chance {
		out = append(out, sp.roll(KindHazard, sp.hazard, tick))
	}
	return out
}

func (sp *Spawner) roll(kind EntityKind, sc SpawnConfig, tick int) Entity {
	size := uniform(sp.rng, sc.Size)
	e := Entity{
		Kind:      kind,
		Size:      size,
		X:         sp.rng.Float64() * (sp.fieldWidth - size),
		Y:         -size, // just above the visible top
		Speed:     uniform(sp.rng, sc.Speed),
		CreatedAt: tick,
	}
	effect := uniformInt(sp.rng, sc.Effect)
	if kind == KindHazard {
		e.Damage = effect
	} else {
		e.Value = effect
	}
	return e
}

func uniform(rng *rand.Rand, r FloatRange) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// uniformInt draws from the inclusive range [r.Min, r.Max].
func uniformInt(rng *rand.Rand, r IntRange) int {
	return r.Min + rng.Intn(r.Max-r.Min+1)
}
