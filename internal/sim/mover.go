package sim

// advance moves every entity down by its speed and splits the collection into
// survivors and entities that fell past fieldHeight. The survivors slice reuses
// the backing array of entities and keeps spawn order.
func advance(entities []*Entity, fieldHeight float64) (kept, fallen []*Entity) {
	kept = entities[:0]
	for _, e := range entities {
		e.Y += e.Speed
		if e.Y > fieldHeight {
			fallen = append(fallen, e)
			continue
		}
		kept = append(kept, e)
	}
	// Drop dangling pointers past the new length.
	for i := len(kept); i < len(entities); i++ {
		entities[i] = nil
	}
	return kept, fallen
}

// missPenalty is the total resource cost of the fallen entities. Only
// collectibles cost anything; a hazard reaching the bottom is harmless.
func missPenalty(fallen []*Entity, perMiss int) (penalty, missed int) {
	for _, e := range fallen {
		if e.Kind == KindCollectible {
			penalty += perMiss
			missed++
		}
	}
	return penalty, missed
}
