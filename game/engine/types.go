package engine

import (
	"fmt"
	"time"

	"github.com/wricardo/spriteboard/game/geometry"
)

// EntityKind identifies what a sprite represents on the board.
type EntityKind string

const (
	Empty    EntityKind = "empty"
	Player   EntityKind = "player"
	Obstacle EntityKind = "obstacle"
	Pickup   EntityKind = "pickup"

	// Validation constants
	MinGridSize       = 1
	MaxGridSize       = 50
	MaxSprites        = 512
	DefaultHistoryCap = 200
)

// Valid reports whether k is a known entity kind.
func (k EntityKind) Valid() bool {
	switch k {
	case Empty, Player, Obstacle, Pickup:
		return true
	}
	return false
}

// ParseEntityKind parses an entity kind name.
func ParseEntityKind(s string) (EntityKind, error) {
	k := EntityKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown entity kind %q", s)
	}
	return k, nil
}

// GameState is the declarative description used to seed a board: grid
// coordinates formatted as "x,y" mapped to the entity occupying that cell.
type GameState struct {
	Sprites map[string]EntityKind `json:"sprites" yaml:"sprites"`
}

// GridConfig describes the seeding grid.
type GridConfig struct {
	Rows     int     `json:"rows" yaml:"rows"`
	Cols     int     `json:"cols" yaml:"cols"`
	Spacing  float64 `json:"spacing" yaml:"spacing"`
	CellSize float64 `json:"cell_size" yaml:"cell_size"`
}

// BoardConfig represents a board configuration loaded from disk.
// TickInterval, e.g. "100ms", overrides the server tick interval for sessions
// built from the config; empty means the server default.
type BoardConfig struct {
	Name         string               `json:"name" yaml:"name"`
	Description  string               `json:"description" yaml:"description"`
	AspectRatio  geometry.AspectRatio `json:"aspect_ratio" yaml:"aspect_ratio" jsonschema:"type=string,enum=1:1,enum=2:3,enum=4:5,enum=5:7,enum=16:9"`
	Padding      float64              `json:"padding" yaml:"padding"`
	Viewport     geometry.Size        `json:"viewport" yaml:"viewport"`
	Grid         GridConfig           `json:"grid" yaml:"grid"`
	PlayerStep   float64              `json:"player_step,omitempty" yaml:"player_step,omitempty"`
	TickInterval string               `json:"tick_interval,omitempty" yaml:"tick_interval,omitempty"`
	HistoryLimit int                  `json:"history_limit,omitempty" yaml:"history_limit,omitempty"`
	State        GameState            `json:"state" yaml:"state"`
}

// Step returns the distance a steerable sprite moves per input action.
func (c *BoardConfig) Step() float64 {
	if c.PlayerStep > 0 {
		return c.PlayerStep
	}
	return c.Grid.CellSize + c.Grid.Spacing
}

// HistoryCap returns the number of collisions kept in a session's history.
func (c *BoardConfig) HistoryCap() int {
	if c.HistoryLimit > 0 {
		return c.HistoryLimit
	}
	return DefaultHistoryCap
}

// Interval returns the parsed tick interval, or zero when the config leaves
// it to the server.
func (c *BoardConfig) Interval() time.Duration {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Placement is the resolved area of one sprite in a frame.
type Placement struct {
	ID   string        `json:"id"`
	Kind EntityKind    `json:"kind"`
	Area geometry.Area `json:"area"`
}

// Frame is the result of one layout pass over a board.
type Frame struct {
	Extent     geometry.Size `json:"extent"`
	Background geometry.Area `json:"background"`
	Placements []Placement   `json:"placements"`
}

// SpritePosition is the world-space bounding box of a sprite.
type SpritePosition struct {
	ID     string        `json:"id"`
	Kind   EntityKind    `json:"kind"`
	Bounds geometry.Rect `json:"bounds"`
}

// TickResult reports what happened during one tick.
type TickResult struct {
	Seq        uint64        `json:"seq"`
	Extent     geometry.Size `json:"extent"`
	Collisions []Collision   `json:"collisions"`
	Removed    []string      `json:"removed,omitempty"`
}
