package engine

import (
	"fmt"

	"github.com/wricardo/spriteboard/game/geometry"
)

// SpriteState is the persisted form of a sprite.
type SpriteState struct {
	ID     string          `json:"id"`
	Kind   EntityKind      `json:"kind"`
	Size   geometry.Size   `json:"size"`
	X      geometry.Offset `json:"x"`
	Y      geometry.Offset `json:"y"`
	Adjust geometry.Point  `json:"adjust"`
}

// Snapshot is the persisted form of a board.
type Snapshot struct {
	Seq       uint64        `json:"seq"`
	Available geometry.Size `json:"available"`
	Sprites   []SpriteState `json:"sprites"`
}

// Snapshot captures the board's sprites, tick counter and available area.
func (b *Board) Snapshot() Snapshot {
	sprites := b.sprites.Sprites()
	snap := Snapshot{
		Seq:       b.seq,
		Available: b.available,
		Sprites:   make([]SpriteState, len(sprites)),
	}
	for i, s := range sprites {
		snap.Sprites[i] = SpriteState{ID: s.ID, Kind: s.Kind, Size: s.Size, X: s.X, Y: s.Y, Adjust: s.Adjust}
	}
	return snap
}

// Restore replaces the board's sprites with those of snap. The board is left
// untouched if snap is invalid.
func (b *Board) Restore(snap Snapshot) error {
	if len(snap.Sprites) > MaxSprites {
		return ErrTooManySprites
	}

	reg := NewRegistry()
	for _, st := range snap.Sprites {
		if !st.Kind.Valid() {
			return fmt.Errorf("restore sprite %s: unknown kind %q", st.ID, st.Kind)
		}
		s := &Sprite{
			ID:      st.ID,
			Kind:    st.Kind,
			Size:    st.Size,
			X:       st.X,
			Y:       st.Y,
			Adjust:  st.Adjust,
			Handler: HandlerFor(st.Kind, b.config.Step()),
		}
		if err := reg.Insert(s); err != nil {
			return fmt.Errorf("restore sprite %s: %w", st.ID, err)
		}
	}

	b.sprites = reg
	b.seq = snap.Seq
	b.available = snap.Available
	return nil
}
