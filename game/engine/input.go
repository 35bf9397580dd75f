package engine

import (
	"fmt"
	"strings"

	"github.com/wricardo/spriteboard/game/geometry"
)

// Action is a directional input command.
type Action string

const (
	ActionUp    Action = "up"
	ActionDown  Action = "down"
	ActionLeft  Action = "left"
	ActionRight Action = "right"
)

// ParseAction parses a direction name, case-insensitively.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := a.Delta(); !ok {
		return "", fmt.Errorf("invalid action %q: use up, down, left or right", s)
	}
	return a, nil
}

// Delta returns the unit vector for the action.
func (a Action) Delta() (geometry.Point, bool) {
	switch a {
	case ActionUp:
		return geometry.Point{Y: -1}, true
	case ActionDown:
		return geometry.Point{Y: 1}, true
	case ActionLeft:
		return geometry.Point{X: -1}, true
	case ActionRight:
		return geometry.Point{X: 1}, true
	}
	return geometry.Point{}, false
}

// Reaction is what a handler asks the board to do after a notification.
type Reaction uint8

const (
	ReactNone Reaction = iota
	ReactMoved
	ReactRemove
)

// InputHandler reacts to notifications delivered to a sprite.
type InputHandler interface {
	Handle(s *Sprite, n Notification) Reaction
}

// Inert ignores every notification.
type Inert struct{}

func (Inert) Handle(*Sprite, Notification) Reaction { return ReactNone }

// Steerable moves its sprite by Step pixels per input action.
type Steerable struct {
	Step float64
}

func (h Steerable) Handle(s *Sprite, n Notification) Reaction {
	if n.Kind != NotifyInput {
		return ReactNone
	}
	d, ok := n.Action.Delta()
	if !ok {
		return ReactNone
	}
	s.Adjust = s.Adjust.Add(geometry.Point{X: d.X * h.Step, Y: d.Y * h.Step})
	return ReactMoved
}

// Fragile asks for removal when a collision names its sprite.
type Fragile struct{}

func (Fragile) Handle(s *Sprite, n Notification) Reaction {
	if n.Kind == NotifyCollision && n.Collision.Involves(s.ID) {
		return ReactRemove
	}
	return ReactNone
}

// HandlerFor returns the default handler for an entity kind. step is the
// distance a player moves per action.
func HandlerFor(kind EntityKind, step float64) InputHandler {
	switch kind {
	case Player:
		return Steerable{Step: step}
	case Pickup:
		return Fragile{}
	default:
		return Inert{}
	}
}
