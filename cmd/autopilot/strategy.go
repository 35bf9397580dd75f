package main

import (
	"math"

	"github.com/wricardo/spriteboard/game/engine"
	"github.com/wricardo/spriteboard/game/geometry"
	"github.com/wricardo/spriteboard/game/service"
)

// Strategy plans a pickup collection order up front and steers the player
// towards one target at a time.
type Strategy struct {
	order    []string
	pickups  map[string]bool
	index    int
	patience int

	movesOnTarget int
	skipped       []string
}

// NewStrategy plans a nearest-neighbour route over the pickups on the board,
// starting from the player. A target is skipped after patience moves without
// collecting it.
func NewStrategy(view *service.BoardView, patience int) *Strategy {
	s := &Strategy{
		pickups:  make(map[string]bool),
		patience: patience,
	}

	var remaining []service.SpriteInfo
	for _, sp := range view.Sprites {
		if sp.Kind == engine.Pickup {
			remaining = append(remaining, sp)
			s.pickups[sp.ID] = true
		}
	}

	player, ok := findPlayer(view)
	if !ok {
		return s
	}

	current := center(player.Bounds)
	for len(remaining) > 0 {
		nearest := 0
		best := math.MaxFloat64
		for i, sp := range remaining {
			c := center(sp.Bounds)
			if d := math.Hypot(c.X-current.X, c.Y-current.Y); d < best {
				best = d
				nearest = i
			}
		}
		s.order = append(s.order, remaining[nearest].ID)
		current = center(remaining[nearest].Bounds)
		remaining = append(remaining[:nearest], remaining[nearest+1:]...)
	}
	return s
}

// Order returns the planned collection order.
func (s *Strategy) Order() []string {
	return s.order
}

// IsPickup reports whether id was one of the planned pickups.
func (s *Strategy) IsPickup(id string) bool {
	return s.pickups[id]
}

// Skipped returns the targets given up on.
func (s *Strategy) Skipped() []string {
	return s.skipped
}

// NextMove returns the action that brings the player closer to the current
// target. An empty action means the player already overlaps the target and
// only a tick is needed. ok is false once every target is collected or
// skipped, or when the board has no player.
func (s *Strategy) NextMove(view *service.BoardView) (action engine.Action, ok bool) {
	player, found := findPlayer(view)
	if !found {
		return "", false
	}

	present := make(map[string]geometry.Rect, len(view.Sprites))
	for _, sp := range view.Sprites {
		present[sp.ID] = sp.Bounds
	}

	for s.index < len(s.order) {
		target, still := present[s.order[s.index]]
		if !still {
			s.advance()
			continue
		}
		if s.movesOnTarget >= s.patience {
			s.skipped = append(s.skipped, s.order[s.index])
			s.advance()
			continue
		}

		s.movesOnTarget++
		return steer(player.Bounds, target), true
	}
	return "", false
}

func (s *Strategy) advance() {
	s.index++
	s.movesOnTarget = 0
}

// steer picks the axis on which from and to are still apart, horizontal
// first. Two boxes overlap once their centres are closer than half their
// combined size on both axes.
func steer(from, to geometry.Rect) engine.Action {
	a, b := center(from), center(to)
	dx, dy := b.X-a.X, b.Y-a.Y

	switch {
	case math.Abs(dx) >= (from.W+to.W)/2:
		if dx > 0 {
			return engine.ActionRight
		}
		return engine.ActionLeft
	case math.Abs(dy) >= (from.H+to.H)/2:
		if dy > 0 {
			return engine.ActionDown
		}
		return engine.ActionUp
	}
	return ""
}

func findPlayer(view *service.BoardView) (service.SpriteInfo, bool) {
	for _, sp := range view.Sprites {
		if sp.Kind == engine.Player {
			return sp, true
		}
	}
	return service.SpriteInfo{}, false
}

func center(r geometry.Rect) geometry.Point {
	return geometry.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}
