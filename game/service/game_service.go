package service

import (
	"context"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/wricardo/spriteboard/game/engine"
	"github.com/wricardo/spriteboard/game/geometry"
)

// GameService defines all board-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ResetSession(ctx context.Context, sessionID string) (*BoardView, error)

	// Layout
	GetBoard(ctx context.Context, sessionID string) (*BoardView, error)
	Resize(ctx context.Context, sessionID string, available geometry.Size) (*engine.Frame, error)
	GetGrid(ctx context.Context, sessionID string) ([]engine.CellPlacement, error)

	// Ticks
	Tick(ctx context.Context, sessionID string) (*TickReport, error)
	TickAll(ctx context.Context) ([]*TickReport, error)

	// Sprites and input
	InsertSprite(ctx context.Context, sessionID string, spec SpriteSpec) (*SpriteInfo, error)
	RemoveSprite(ctx context.Context, sessionID, spriteID string) error
	NudgeSprite(ctx context.Context, sessionID, spriteID string, dx, dy float64) (*SpriteInfo, error)
	SendInput(ctx context.Context, sessionID, action string) (*InputResult, error)

	// History
	GetCollisionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error
	ConfigSchema(ctx context.Context) (*jsonschema.Schema, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.BoardConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles board configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.BoardConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.BoardConfig
	DefaultID() string
	SaveConfig(name string, config *engine.BoardConfig) error
	Schema() *jsonschema.Schema
}

// Session represents an active board session. ConfigID is the identifier
// the board config was loaded by and is what persistence stores.
type Session struct {
	ID             string
	ConfigID       string
	Board          *engine.Board
	Config         *engine.BoardConfig
	History        []CollisionRecord
	CreatedAt      time.Time
	LastAccessedAt time.Time
	LastTickAt     time.Time
}

// Due reports whether the session's own tick interval has elapsed at now.
// Sessions without an interval tick on every server tick.
func (s *Session) Due(now time.Time) bool {
	iv := s.Config.Interval()
	return iv <= 0 || now.Sub(s.LastTickAt) >= iv
}

// Record appends collisions to the session history, keeping at most the
// configured number of entries.
func (s *Session) Record(records ...CollisionRecord) {
	s.History = append(s.History, records...)
	if limit := s.Config.HistoryCap(); len(s.History) > limit {
		s.History = append([]CollisionRecord(nil), s.History[len(s.History)-limit:]...)
	}
}
