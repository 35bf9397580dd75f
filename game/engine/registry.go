package engine

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Registry holds the board's sprites keyed by ID, iterating in insertion
// order.
type Registry struct {
	sprites *orderedmap.OrderedMap[string, *Sprite]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sprites: orderedmap.New[string, *Sprite]()}
}

// Insert appends s. Inserting an ID that is already present fails with
// ErrDuplicateSprite and leaves the registry unchanged.
func (r *Registry) Insert(s *Sprite) error {
	if err := validateSprite(s); err != nil {
		return err
	}
	if _, exists := r.sprites.Get(s.ID); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSprite, s.ID)
	}
	r.sprites.Set(s.ID, s)
	return nil
}

// Remove deletes the sprite with the given ID, reporting whether it existed.
func (r *Registry) Remove(id string) bool {
	_, present := r.sprites.Delete(id)
	return present
}

// Contains reports whether a sprite with the given ID is registered.
func (r *Registry) Contains(id string) bool {
	_, ok := r.sprites.Get(id)
	return ok
}

// Get returns the sprite with the given ID.
func (r *Registry) Get(id string) (*Sprite, bool) {
	return r.sprites.Get(id)
}

// Len returns the number of registered sprites.
func (r *Registry) Len() int {
	return r.sprites.Len()
}

// Sprites returns the registered sprites in insertion order.
func (r *Registry) Sprites() []*Sprite {
	out := make([]*Sprite, 0, r.sprites.Len())
	for pair := r.sprites.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Clear removes every sprite.
func (r *Registry) Clear() {
	r.sprites = orderedmap.New[string, *Sprite]()
}
