package engine

import "github.com/wricardo/spriteboard/game/geometry"

// Collision names two overlapping sprites. A is the sprite inserted first.
type Collision struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Involves reports whether id is one of the colliding sprites.
func (c Collision) Involves(id string) bool {
	return c.A == id || c.B == id
}

// Other returns the sprite that collided with id.
func (c Collision) Other(id string) (string, bool) {
	switch id {
	case c.A:
		return c.B, true
	case c.B:
		return c.A, true
	}
	return "", false
}

// Detect scans every pair of sprites, in registry order, and returns one
// Collision per pair whose bounds overlap within a board of the given extent.
// Touching edges do not count as overlap.
func Detect(extent geometry.Size, sprites []*Sprite) []Collision {
	bounds := make([]geometry.Rect, len(sprites))
	for i, s := range sprites {
		bounds[i] = s.Bounds(extent)
	}

	collisions := make([]Collision, 0)
	for i := range sprites {
		for j := i + 1; j < len(sprites); j++ {
			if bounds[i].Overlaps(bounds[j]) {
				collisions = append(collisions, Collision{A: sprites[i].ID, B: sprites[j].ID})
			}
		}
	}
	return collisions
}
