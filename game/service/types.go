package service

import (
	"time"

	"github.com/wricardo/spriteboard/game/engine"
	"github.com/wricardo/spriteboard/game/geometry"
)

// SessionInfo provides information about a board session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	Seq            uint64              `json:"seq"`
	SpriteCount    int                 `json:"sprite_count"`
	Extent         geometry.Size       `json:"extent"`
	BoardConfig    *engine.BoardConfig `json:"board_config"`
}

// SpriteInfo describes one sprite and where it currently sits on the board
type SpriteInfo struct {
	ID     string            `json:"id"`
	Kind   engine.EntityKind `json:"kind"`
	Size   geometry.Size     `json:"size"`
	X      geometry.Offset   `json:"x"`
	Y      geometry.Offset   `json:"y"`
	Adjust geometry.Point    `json:"adjust"`
	Bounds geometry.Rect     `json:"bounds"`
}

// SpriteSpec is a request to add a sprite
type SpriteSpec struct {
	Kind   string          `json:"kind"`
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	X      geometry.Offset `json:"x"`
	Y      geometry.Offset `json:"y"`
}

// BoardView is a full snapshot of a board for clients
type BoardView struct {
	SessionID string                    `json:"session_id"`
	Seq       uint64                    `json:"seq"`
	Available geometry.Size             `json:"available"`
	Frame     engine.Frame              `json:"frame"`
	Sprites   []SpriteInfo              `json:"sprites"`
	Counts    map[engine.EntityKind]int `json:"counts"`
}

// CollisionRecord is a collision observed during a tick
type CollisionRecord struct {
	Seq       uint64            `json:"seq"`
	A         string            `json:"a"`
	B         string            `json:"b"`
	KindA     engine.EntityKind `json:"kind_a"`
	KindB     engine.EntityKind `json:"kind_b"`
	Timestamp time.Time         `json:"timestamp"`
}

// TickReport contains the result of one tick of a session
type TickReport struct {
	SessionID  string            `json:"session_id"`
	Seq        uint64            `json:"seq"`
	Extent     geometry.Size     `json:"extent"`
	Collisions []CollisionRecord `json:"collisions"`
	Removed    []string          `json:"removed,omitempty"`
}

// InputResult contains the result of delivering an input action
type InputResult struct {
	SessionID string       `json:"session_id"`
	Action    string       `json:"action"`
	Moved     []string     `json:"moved"`
	Sprites   []SpriteInfo `json:"sprites"`
}

// HistoryOptions configures collision history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated collision history
type HistoryResponse struct {
	Collisions      []CollisionRecord `json:"collisions"`
	TotalCollisions int               `json:"total_collisions"`
	Page            int               `json:"page"`
	PageSize        int               `json:"page_size"`
	TotalPages      int               `json:"total_pages"`
	HasNext         bool              `json:"has_next"`
	HasPrevious     bool              `json:"has_previous"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	AspectRatio string `json:"aspect_ratio"`
	GridRows    int    `json:"grid_rows"`
	GridCols    int    `json:"grid_cols"`
	Sprites     int    `json:"sprites"`
	Format      string `json:"format"`
}
