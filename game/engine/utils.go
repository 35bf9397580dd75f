package engine

// CountKinds counts sprites per entity kind
func CountKinds(sprites []*Sprite) map[EntityKind]int {
	counts := make(map[EntityKind]int)
	for _, s := range sprites {
		counts[s.Kind]++
	}
	return counts
}

// FindKind returns the sprites of one kind, in registry order
func FindKind(sprites []*Sprite, kind EntityKind) []*Sprite {
	var out []*Sprite
	for _, s := range sprites {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
