package engine

import (
	"github.com/google/uuid"

	"github.com/wricardo/spriteboard/game/geometry"
	"github.com/wricardo/spriteboard/game/layout"
)

// Sprite is a positioned, sized entity on the board. Its offsets are stored
// with it so the registry never holds a sprite without its anchor. Adjust
// accumulates runtime movement on top of the anchored position.
type Sprite struct {
	ID      string
	Kind    EntityKind
	Size    geometry.Size
	X       geometry.Offset
	Y       geometry.Offset
	Adjust  geometry.Point
	Handler InputHandler
}

// NewSprite creates a sprite with a fresh identity and the default handler
// for its kind.
func NewSprite(kind EntityKind, size geometry.Size, x, y geometry.Offset) *Sprite {
	return &Sprite{
		ID:      uuid.NewString(),
		Kind:    kind,
		Size:    size,
		X:       x,
		Y:       y,
		Handler: HandlerFor(kind, size.W),
	}
}

// Position returns the sprite's top-left corner within a board of the given
// extent.
func (s *Sprite) Position(extent geometry.Size) geometry.Point {
	p := geometry.Point{
		X: s.X.Resolve(extent.W, s.Size.W),
		Y: s.Y.Resolve(extent.H, s.Size.H),
	}
	return p.Add(s.Adjust)
}

// Bounds returns the sprite's bounding box within a board of the given extent.
func (s *Sprite) Bounds(extent geometry.Size) geometry.Rect {
	p := s.Position(extent)
	return geometry.NewRect(p.X, p.Y, s.Size.W, s.Size.H)
}

// Child returns the sprite as a free layout child.
func (s *Sprite) Child() layout.Child {
	return layout.Child{
		Request: geometry.Fixed(s.Size.W, s.Size.H),
		X:       s.X,
		Y:       s.Y,
	}
}

func (s *Sprite) handle(n Notification) Reaction {
	if s.Handler == nil {
		return ReactNone
	}
	return s.Handler.Handle(s, n)
}

func validateSprite(s *Sprite) error {
	if s == nil || s.ID == "" {
		return ErrInvalidSprite
	}
	if s.Size.W < 0 || s.Size.H < 0 {
		return ErrInvalidSprite
	}
	return nil
}
